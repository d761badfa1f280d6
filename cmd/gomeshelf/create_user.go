package main

import (
	"errors"
	"fmt"

	"github.com/amaumene/gomeshelf/internal/app"
	"github.com/sethvargo/go-password/password"
	"github.com/spf13/cobra"
)

const (
	generatedPasswordLength = 16
	generatedPasswordDigits = 4
)

func newCreateUserCommand(ctx *commandContext) *cobra.Command {
	var email string
	var pass string
	var generate bool

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create the admin account without going through the web setup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if generate && pass != "" {
				return errors.New("--password and --generate-password are mutually exclusive")
			}
			if generate {
				generated, err := password.Generate(generatedPasswordLength, generatedPasswordDigits, 0, false, false)
				if err != nil {
					return fmt.Errorf("generate password: %w", err)
				}
				pass = generated
			}

			return ctx.withApp(cmd.Context(), func(a *app.App) error {
				user, err := a.Auth.Setup(cmd.Context(), email, pass)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Created admin account %s\n", user.Email)
				if generate {
					fmt.Fprintf(out, "Password: %s\n", pass)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email address")
	cmd.Flags().StringVar(&pass, "password", "", "Admin password")
	cmd.Flags().BoolVar(&generate, "generate-password", false, "Generate a random password and print it")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
