package main

import (
	"context"
	"fmt"
	"os"

	"todo-manager/internal/cli"
	"todo-manager/internal/config"
)

func main() {
	streams := cli.StdStreams()

	// Configuration is loaded by the root command once flags are parsed
	root := cli.NewRootCommand(config.NewLoader(), streams)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(streams.ErrOut, "Error: %v\n", err)
		os.Exit(cli.NewErrorHandler().ExitCode(err))
	}
}
