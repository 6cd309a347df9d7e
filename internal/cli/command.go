package cli

import "context"

// Command is implemented by every client command handler. Cobra parses flags
// into the handler's options; Execute receives the positional arguments.
type Command interface {
	Execute(ctx context.Context, args []string) error
}

var (
	_ Command = (*ListCommand)(nil)
	_ Command = (*ShowCommand)(nil)
	_ Command = (*AddCommand)(nil)
	_ Command = (*EditCommand)(nil)
	_ Command = (*DoneCommand)(nil)
	_ Command = (*PriorityCommand)(nil)
	_ Command = (*DeleteCommand)(nil)
	_ Command = (*ExportCommand)(nil)
	_ Command = (*ImportCommand)(nil)
	_ Command = (*StatsCommand)(nil)
	_ Command = (*GroupsCommand)(nil)
	_ Command = (*ServeCommand)(nil)
)
