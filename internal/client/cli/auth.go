package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bookexpert/internal/client/auth"
	"github.com/dmitrijs2005/bookexpert/internal/client/models"
	"github.com/spf13/cobra"
)

var errEmptyToken = errors.New("empty ID token")

func describe(p *models.UserProfile) string {
	name := p.DisplayName
	if name == "" {
		name = p.UID
	}
	if p.Email != "" {
		return fmt.Sprintf("%s <%s>", name, p.Email)
	}
	return name
}

func newAuthCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "auth", Short: "Sign-in state"}

	var token string
	login := &cobra.Command{
		Use:   "login",
		Short: "Sign in with an ID token",
		Args:  cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, a *App, _ []string) error {
			tok := token
			if tok == "" {
				var err error
				if tok, err = readSecret(cmd, "ID token: "); err != nil {
					return err
				}
			}
			if tok == "" {
				return errEmptyToken
			}
			p, err := a.auth.SignIn(cmd.Context(), tok)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", describe(p))
			return nil
		}),
	}
	login.Flags().StringVarP(&token, "token", "t", "", "ID token (prompted when empty)")

	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, a *App, _ []string) error {
			p, err := a.auth.CurrentUser(cmd.Context())
			if errors.Is(err, auth.ErrNotSignedIn) {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), describe(p))
			return nil
		}),
	}

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token and profile",
		Args:  cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, a *App, _ []string) error {
			if err := a.auth.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		}),
	}

	cmd.AddCommand(login, whoami, logout)
	return cmd
}
