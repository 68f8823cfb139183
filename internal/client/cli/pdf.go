package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPDFCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "pdf", Short: "Reference document"}

	var out string
	fetch := &cobra.Command{
		Use:   "fetch",
		Short: "Download the PDF document",
		Args:  cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, a *App, _ []string) error {
			n, err := a.pdf.Save(cmd.Context(), out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d bytes to %s\n", n, out)
			return nil
		}),
	}
	fetch.Flags().StringVarP(&out, "out", "o", "document.pdf", "destination file")

	cmd.AddCommand(fetch)
	return cmd
}
