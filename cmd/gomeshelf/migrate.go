package main

import (
	"fmt"

	"github.com/amaumene/gomeshelf/internal/app"
	"github.com/spf13/cobra"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lock, err := ctx.lock()
			if err != nil {
				return err
			}
			defer func() { _ = lock.Unlock() }()

			return ctx.withApp(cmd.Context(), func(a *app.App) error {
				fmt.Fprintf(cmd.OutOrStdout(), "Database %s is up to date\n", a.Config.DatabaseFile)
				return nil
			})
		},
	}
}
