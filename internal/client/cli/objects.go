package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/bookexpert/internal/client/models"
	"github.com/dmitrijs2005/bookexpert/internal/client/services"
	"github.com/spf13/cobra"
)

func newObjectsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "objects", Short: "Remote objects and their local cache"}

	var (
		search  string
		refresh bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List cached objects",
		Args:  cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, a *App, _ []string) error {
			load := a.objects.Load
			if refresh {
				load = a.objects.Refresh
			}
			err := load(cmd.Context())
			a.objects.SetSearchText(search)
			printObjects(cmd.OutOrStdout(), a.objects.FilteredItems())
			return err
		}),
	}
	list.Flags().StringVarP(&search, "search", "s", "", "case-insensitive name filter")
	list.Flags().BoolVarP(&refresh, "refresh", "r", false, "refresh from the remote before listing")

	refreshCmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the remote list into the cache",
		Args:  cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, a *App, _ []string) error {
			if err := a.objects.Refresh(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d objects cached\n", len(a.objects.State().Items))
			return nil
		}),
	}

	cmd.AddCommand(list, refreshCmd, newCreateCmd(e), newUpdateCmd(e), newDeleteCmd(e), newWatchCmd(e))
	return cmd
}

func newCreateCmd(e *env) *cobra.Command {
	var (
		name  string
		pairs []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an object",
		Args:  cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, a *App, _ []string) error {
			data, err := models.DataFromPairs(pairs)
			if err != nil {
				return err
			}
			obj, err := a.objects.CreateItem(cmd.Context(), name, data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", obj.ID)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "object name")
	cmd.Flags().StringArrayVarP(&pairs, "data", "d", nil, "data field as name=value (repeatable)")
	return cmd
}

func newUpdateCmd(e *env) *cobra.Command {
	var (
		name  string
		pairs []string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace an object's name and data",
		Args:  cobra.ExactArgs(1),
		RunE: e.run(func(cmd *cobra.Command, a *App, args []string) error {
			data, err := models.DataFromPairs(pairs)
			if err != nil {
				return err
			}
			obj, err := a.objects.UpdateItem(cmd.Context(), args[0], name, data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", obj.ID)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "object name")
	cmd.Flags().StringArrayVarP(&pairs, "data", "d", nil, "data field as name=value (repeatable)")
	return cmd
}

func newDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an object remotely and from the cache",
		Args:  cobra.ExactArgs(1),
		RunE: e.run(func(cmd *cobra.Command, a *App, args []string) error {
			if err := a.objects.RemoveItem(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		}),
	}
}

func newWatchCmd(e *env) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Refresh periodically until interrupted",
		Args:  cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, a *App, _ []string) error {
			every := a.cfg.AutoRefreshInterval
			if cmd.Flags().Changed("interval") {
				every = interval
			}
			w := cmd.OutOrStdout()
			err := a.objects.AutoRefresh(cmd.Context(), every, func(st services.ObjectState) {
				if st.Err != nil {
					fmt.Fprintf(w, "%s refresh failed: %v\n", time.Now().Format(time.TimeOnly), st.Err)
					a.objects.ClearError()
					return
				}
				fmt.Fprintf(w, "%s %d objects\n", time.Now().Format(time.TimeOnly), len(st.Items))
			})
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}),
	}
	cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "refresh interval (defaults to --refresh-interval)")
	return cmd
}

func printObjects(w io.Writer, items []models.CachedObject) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No objects")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDATA")
	for _, it := range items {
		data, err := json.Marshal(it.Data)
		if err != nil {
			data = []byte("?")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", it.ID, it.Name, data)
	}
	tw.Flush()
}
