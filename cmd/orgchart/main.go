package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/internal/cli"
	"github.com/matzehuels/orgchart/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	cancel()

	if err != nil && !stderrors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "orgchart: %s\n", errors.UserMessage(err))
	}
	os.Exit(exitCode(err))
}

// exitCode maps an error to the process status: 2 for bad input the user
// can fix by changing arguments or config, 130 after Ctrl-C.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		return 130
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidSource, errors.ErrCodeInvalidConfig,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidSelector:
		return 2
	}
	return 1
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	// -v is parsed with the subcommand's flags, so the level is raised just
	// before the root hook attaches the logger to the context.
	attach := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return attach(cmd, args)
	}

	return root.ExecuteContext(ctx)
}
