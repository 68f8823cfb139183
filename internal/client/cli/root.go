package cli

import (
	"github.com/dmitrijs2005/bookexpert/internal/client/config"
	"github.com/dmitrijs2005/bookexpert/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// env carries what every command needs to assemble its App.
type env struct {
	flags *config.Flags
	fs    *pflag.FlagSet
}

type appRunner func(cmd *cobra.Command, a *App, args []string) error

// run loads the configuration, builds an App for the duration of one
// command and closes it afterwards.
func (e *env) run(fn appRunner) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := e.flags.Load(e.fs)
		if err != nil {
			return err
		}
		ctx := logging.ContextWith(cmd.Context(), "cmd", cmd.CommandPath())
		cmd.SetContext(ctx)

		app, err := NewApp(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer app.Close()
		return fn(cmd, app, args)
	}
}

// NewRootCmd builds the bookexpert command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bookexpert",
		Short:         "BookExpert client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	e := &env{
		flags: config.RegisterFlags(root.PersistentFlags()),
		fs:    root.PersistentFlags(),
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newObjectsCmd(e))
	root.AddCommand(newImagesCmd(e))
	root.AddCommand(newSettingsCmd(e))
	root.AddCommand(newAuthCmd(e))
	root.AddCommand(newPDFCmd(e))
	return root
}
