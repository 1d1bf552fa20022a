package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pricelens/backend/internal/delivery/render"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Print every recorded lookup",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close() //nolint:errcheck

		records, err := a.Comparison.ListRecords(ctx)
		if err != nil {
			return eris.Wrap(err, "records")
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), records)
		}
		return render.Records(cmd.OutOrStdout(), records)
	},
}

func init() {
	recordsCmd.Flags().Bool("json", false, "print the records as JSON")
	rootCmd.AddCommand(recordsCmd)
}
