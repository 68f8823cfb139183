package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func parseToggle(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

func newSettingsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "settings", Short: "Notification settings"}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, a *App, _ []string) error {
			s, err := a.settings.Settings(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "notifications: %s\n", onOff(s.NotificationsEnabled))
			fmt.Fprintf(w, "delete notifications: %s\n", onOff(s.ShowDeleteNotifications))
			return nil
		}),
	}

	toggle := func(use, short string, set func(a *App) func(context.Context, bool) error) *cobra.Command {
		return &cobra.Command{
			Use:       use + " on|off",
			Short:     short,
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{"on", "off"},
			RunE: e.run(func(cmd *cobra.Command, a *App, args []string) error {
				v, err := parseToggle(args[0])
				if err != nil {
					return err
				}
				if err := set(a)(cmd.Context(), v); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", use, onOff(v))
				return nil
			}),
		}
	}

	cmd.AddCommand(show,
		toggle("notifications", "Enable or disable notifications",
			func(a *App) func(context.Context, bool) error { return a.settings.SetNotificationsEnabled }),
		toggle("delete-notifications", "Show or hide delete notifications",
			func(a *App) func(context.Context, bool) error { return a.settings.SetShowDeleteNotifications }),
	)
	return cmd
}
