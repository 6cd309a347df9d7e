package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"todo-manager/internal/domain"
	"todo-manager/internal/errors"
	"todo-manager/internal/store"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// shortIDLength is how many trailing id characters the list shows.
const shortIDLength = 8

// IOStreams are the streams a command reads from and writes to.
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// StdStreams returns the process streams.
func StdStreams() IOStreams {
	return IOStreams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr}
}

// App represents one client session: a loaded store and the streams the
// command talks to the user on.
type App struct {
	store        *store.SyncingTaskStore
	out          io.Writer
	errOut       io.Writer
	in           *bufio.Reader
	styles       styles
	errorHandler *ErrorHandler
	notified     bool
}

// NewApp creates a new CLI application instance over a loaded store
func NewApp(st *store.SyncingTaskStore, streams IOStreams) *App {
	in := streams.In
	if in == nil {
		in = strings.NewReader("")
	}
	return &App{
		store:        st,
		out:          streams.Out,
		errOut:       streams.ErrOut,
		in:           bufio.NewReader(in),
		styles:       newStyles(streams.Out),
		errorHandler: NewErrorHandler(),
	}
}

// notifyOffline tells the user, once per session, that changes only reach
// the local cache.
func (a *App) notifyOffline() {
	if a.notified || !a.store.UsingFallback() {
		return
	}
	a.notified = true
	fmt.Fprintln(a.errOut, a.styles.warning.Render(
		"Working offline: the todo server is unreachable, changes are saved to the local cache."))
}

// resolveTask finds the task a user typed. A full id always wins; otherwise
// the reference must be the unique suffix (as printed by list) or the unique
// prefix of exactly one id.
func (a *App) resolveTask(ref string) (domain.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Task{}, errors.NewInvalidInputError("id", ref, "a todo id is required")
	}
	if task, ok := a.store.Get(ref); ok {
		return task, nil
	}

	tasks := a.store.Tasks()
	for _, match := range []func(id string) bool{
		func(id string) bool { return strings.HasSuffix(id, ref) },
		func(id string) bool { return strings.HasPrefix(id, ref) },
	} {
		var found []domain.Task
		for _, t := range tasks {
			if match(t.ID) {
				found = append(found, t)
			}
		}
		switch len(found) {
		case 0:
			continue
		case 1:
			return found[0], nil
		default:
			return domain.Task{}, errors.NewInvalidInputError("id", ref,
				fmt.Sprintf("%q matches %d todos, use more characters", ref, len(found)))
		}
	}
	return domain.Task{}, errors.NewNotFoundError("todo", ref)
}

// confirm asks a yes/no question. Anything but y or yes is a no.
func (a *App) confirm(question string) (bool, error) {
	fmt.Fprintf(a.out, "%s [y/N]: ", question)
	line, err := a.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// shortID returns the tail of id shown in listings. The tail of a UUIDv7 is
// random, unlike its timestamp prefix.
func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[len(id)-shortIDLength:]
}
