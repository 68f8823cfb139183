package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/bookexpert/internal/client/imagex"
	"github.com/spf13/cobra"
)

func newImagesCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "images", Short: "Saved images"}

	importCmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Downsize an image file and save it",
		Args:  cobra.ExactArgs(1),
		RunE: e.run(func(cmd *cobra.Command, a *App, args []string) error {
			entry, err := a.images.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%dx%d)\n", entry.ID, entry.Width, entry.Height)
			return nil
		}),
	}

	capture := &cobra.Command{
		Use:   "capture <frame>",
		Short: "Save a camera frame read from a file",
		Args:  cobra.ExactArgs(1),
		RunE: e.run(func(cmd *cobra.Command, a *App, args []string) error {
			frame, err := imagex.Open(args[0])
			if err != nil {
				return err
			}
			if err := a.images.Select(frame); err != nil {
				return err
			}
			entry, err := a.images.SaveSelected(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%dx%d)\n", entry.ID, entry.Width, entry.Height)
			return nil
		}),
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved images, most recent first",
		Args:  cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, a *App, _ []string) error {
			skipped, err := a.images.LoadGallery(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			gallery := a.images.Gallery()
			if len(gallery) == 0 {
				fmt.Fprintln(w, "No images")
			} else {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "#\tID\tSIZE\tSAVED")
				for i, g := range gallery {
					fmt.Fprintf(tw, "%d\t%s\t%dx%d\t%s\n", i, g.ID, g.Width, g.Height, g.CreatedAt.Local().Format(time.DateTime))
				}
				tw.Flush()
			}
			if skipped > 0 {
				fmt.Fprintf(w, "%d undecodable images skipped\n", skipped)
			}
			return nil
		}),
	}

	del := &cobra.Command{
		Use:   "delete <index>",
		Short: "Delete the image at a gallery index",
		Args:  cobra.ExactArgs(1),
		RunE: e.run(func(cmd *cobra.Command, a *App, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			if _, err := a.images.LoadGallery(cmd.Context()); err != nil {
				return err
			}
			if err := a.images.DeleteAt(cmd.Context(), index); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted image %d\n", index)
			return nil
		}),
	}

	export := &cobra.Command{
		Use:   "export <index> <path>",
		Short: "Write the JPEG at a gallery index to a file",
		Args:  cobra.ExactArgs(2),
		RunE: e.run(func(cmd *cobra.Command, a *App, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			if _, err := a.images.LoadGallery(cmd.Context()); err != nil {
				return err
			}
			if err := a.images.ExportAt(index, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported image %d to %s\n", index, args[1])
			return nil
		}),
	}

	cmd.AddCommand(importCmd, capture, list, del, export)
	return cmd
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return n, nil
}
