package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"brineviz/adapters/spreadsheet"
	"brineviz/domain/table"
	"brineviz/internal/normalize"
	"brineviz/internal/profile"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "brineviz-cli",
		Short: "BrineViz CLI for cleaning water-quality spreadsheets headless",
	}

	rootCmd.AddCommand(
		newCleanCmd(),
		newSummaryCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCleanCmd() *cobra.Command {
	var sheet string
	var strategy string

	cmd := &cobra.Command{
		Use:   "clean [file]",
		Short: "Normalize a spreadsheet and print the cleaned table as CSV",
		Long: `Normalize a spreadsheet and print the cleaned table as CSV.

Example: brineviz-cli clean samples.xlsx --sheet "Borehole 3" --strategy exclude_missing`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			canonical, err := cleanFile(args[0], sheet, strategy)
			if err != nil {
				return err
			}
			return writeCSV(cmd.OutOrStdout(), canonical)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet to clean (default: first sheet)")
	cmd.Flags().StringVar(&strategy, "strategy", string(normalize.StrategyFillZero),
		"aggregation strategy: fill_zero or exclude_missing")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	var sheet string
	var strategy string

	cmd := &cobra.Command{
		Use:   "summary [file]",
		Short: "Normalize a spreadsheet and print per-parameter statistics as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			canonical, err := cleanFile(args[0], sheet, strategy)
			if err != nil {
				return err
			}
			out := json.NewEncoder(cmd.OutOrStdout())
			out.SetIndent("", "  ")
			return out.Encode(profile.Summarize(canonical))
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet to summarize (default: first sheet)")
	cmd.Flags().StringVar(&strategy, "strategy", string(normalize.StrategyFillZero),
		"aggregation strategy: fill_zero or exclude_missing")
	return cmd
}

// cleanFile runs the load+normalize pipeline over one file
func cleanFile(path, sheet, strategy string) (*table.CanonicalTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	loader := spreadsheet.NewLoader(spreadsheet.DefaultConfig())
	sheets, names, err := loader.Load(f, path)
	if err != nil {
		return nil, err
	}

	if sheet == "" {
		sheet = names[0]
	}
	raw, ok := sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("sheet %q not found in %s (available: %v)", sheet, path, names)
	}

	opts := normalize.Options{
		Strategy:  normalize.Strategy(strategy),
		Malformed: normalize.MalformedError,
	}
	return normalize.New(opts).Normalize(raw)
}

// writeCSV prints the canonical table with the parameter column first
func writeCSV(w io.Writer, canonical *table.CanonicalTable) error {
	out := csv.NewWriter(w)

	header := append([]string{"Parameter"}, canonical.Dates...)
	if err := out.Write(header); err != nil {
		return err
	}
	for _, row := range canonical.Rows {
		record := make([]string, 0, len(row.Values)+1)
		record = append(record, row.Parameter)
		for _, v := range row.Values {
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := out.Write(record); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}
