package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	return newRootCommandWithContext(newCommandContext())
}

func newRootCommandWithContext(ctx *commandContext) *cobra.Command {
	serveCmd := newServeCommand(ctx)

	rootCmd := &cobra.Command{
		Use:           "gomeshelf",
		Short:         "Personal tracker for books, movies, TV shows and video games",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serveCmd.RunE,
	}

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newCreateUserCommand(ctx))
	rootCmd.AddCommand(newItemsCommand(ctx))
	rootCmd.AddCommand(newSummaryCommand(ctx))

	return rootCmd
}
