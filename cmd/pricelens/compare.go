package main

import (
	"encoding/json"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pricelens/backend/internal/delivery/render"
	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/usecase"
)

var compareCmd = &cobra.Command{
	Use:   `compare "<product>[, <product>...]"`,
	Short: "Compare prices for a comma separated list of products",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close() //nolint:errcheck

		code, _ := cmd.Flags().GetString("currency")
		if code == "" {
			code = cfg.Currencies.Default
		}
		target, err := a.Comparison.ResolveCurrency(code)
		if err != nil {
			return err
		}

		names := productArgs(args)
		result, err := a.Comparison.Compare(ctx, names, target)
		if err != nil {
			return eris.Wrap(err, "compare")
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		return writeComparison(cmd.OutOrStdout(), result, asJSON)
	},
}

// productArgs treats the args as one line of input, so `compare dell laptop`
// looks up "dell laptop" and only commas separate products
func productArgs(args []string) []string {
	return usecase.ParseProductList(strings.Join(args, " "))
}

func writeComparison(w io.Writer, result domain.ComparisonResult, asJSON bool) error {
	if asJSON {
		return writeJSON(w, result)
	}
	return render.Comparison(w, result)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	compareCmd.Flags().String("currency", "", "target currency (default from config)")
	compareCmd.Flags().Bool("json", false, "print the result as JSON")
	rootCmd.AddCommand(compareCmd)
}
