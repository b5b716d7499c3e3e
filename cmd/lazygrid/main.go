package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rshade/lazygrid/internal/cli"
	"github.com/rshade/lazygrid/pkg/version"
)

func run() error {
	root := cli.NewRootCmd(version.GetVersion())
	return root.Execute()
}

// extractExitCode maps a command error to a process exit code. An
// *cli.ExitError anywhere in the chain supplies its own code.
func extractExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode
	}
	return 1
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(extractExitCode(err))
	}
}
