package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/corral/internal/cli"
	corralerrors "github.com/matzehuels/corral/pkg/errors"
)

// Exit codes.
const (
	exitError      = 1
	exitInfeasible = 3   // the pattern has no realization under the caps
	exitCancelled  = 130 // SIGINT
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		os.Exit(exitCancelled)
	case corralerrors.Is(err, corralerrors.ErrCodeInfeasible):
		fmt.Fprintln(os.Stderr, corralerrors.UserMessage(err))
		os.Exit(exitInfeasible)
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitError)
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging, including the construction trace")

	// The level must be set before the root's own pre-run loads the config.
	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if loadConfig != nil {
			return loadConfig(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}
