// Package app wires the txcoredemo cobra commands together.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type Options struct {
	ConfigPath string
}

type RootCommand struct {
	*cobra.Command
	Options Options
}

func newRootCommand() *RootCommand {
	cmd := &RootCommand{
		Command: &cobra.Command{
			Use:   "txcoredemo",
			Short: "Drives the transactional execution core outside of a test binary",
		},
	}
	cmd.PersistentFlags().StringVarP(
		&cmd.Options.ConfigPath,
		"config",
		"c",
		"",
		"Directory containing the .env configuration file",
	)
	return cmd
}

func (c *RootCommand) MustExecute(ctx context.Context) {
	if err := c.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "txcoredemo failed: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = newRootCommand()

func MustExecute(ctx context.Context) {
	initBench()
	initBucket()
	rootCmd.MustExecute(ctx)
}
