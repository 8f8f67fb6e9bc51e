package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	mstats "github.com/montanaflynn/stats"
	"github.com/spf13/cobra"

	"cityhealth/adapters/csvsource"
	"cityhealth/domain/table"
	"cityhealth/internal"
	"cityhealth/internal/aggregate"
	"cityhealth/internal/config"
	"cityhealth/internal/correlation"
	"cityhealth/internal/profile"
	"cityhealth/internal/report"
	"cityhealth/internal/reshape"
	"cityhealth/internal/testkit"
)

func main() {
	// Load .env file if present (ignore errors, env vars take precedence)
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "cityhealth",
		Short: "Exploratory analysis of a public city health-statistics dataset",
	}

	rootCmd.AddCommand(
		newReportCmd(),
		newCorrCmd(),
		newProfileCmd(),
		newRatioCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadTable resolves the dataset from --source/--demo flags and environment
func loadTable(cmd *cobra.Command, cfg *config.Config) (table.LongTable, int, error) {
	demo, _ := cmd.Flags().GetBool("demo")
	if demo {
		return testkit.NewGenerator(testkit.DefaultConfig()).Generate(), 0, nil
	}

	source, _ := cmd.Flags().GetString("source")
	if source == "" {
		source = cfg.Source.URL
	}
	if source == "" {
		return nil, 0, fmt.Errorf("no data source: pass --source, set DATASET_URL, or use --demo")
	}

	reader := csvsource.NewReader(source, csvsource.DefaultSchema(),
		csvsource.WithTimeout(cfg.Source.FetchTimeout),
		csvsource.WithDelimiter(rune(cfg.Source.Delimiter[0])),
	)
	tbl, err := reader.Load(cmd.Context())
	if err != nil {
		return nil, 0, err
	}
	return tbl, reader.SkippedRows, nil
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("source", "", "Dataset URL or local path (overrides DATASET_URL)")
	cmd.Flags().Bool("demo", false, "Use a deterministic synthetic dataset")
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the full pipeline and write the HTML report and workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := internal.NewDefaultLogger()

			start := time.Now()
			tbl, skipped, err := loadTable(cmd, cfg)
			if err != nil {
				return err
			}
			logger.Info("loaded %d records in %s", len(tbl), time.Since(start).Round(time.Millisecond))

			artifacts, err := report.NewGenerator(cfg, logger).Run(cmd.Context(), tbl, skipped)
			if err != nil {
				return err
			}

			fmt.Printf("report:   %s\n", artifacts.ReportPath)
			fmt.Printf("workbook: %s\n", artifacts.WorkbookPath)
			return nil
		},
	}
	addSourceFlags(cmd)
	return cmd
}

func newCorrCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "corr",
		Short: "Print the clustering-reordered correlation matrix",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			tbl, _, err := loadTable(cmd, cfg)
			if err != nil {
				return err
			}

			filtered := reshape.Filter(tbl, reshape.ByLevel(table.GeographicLevel(cfg.Analysis.GeographicLevel)))
			dense := reshape.DropIncompleteRows(reshape.PivotWide(filtered))
			corr, err := correlation.Compute(dense)
			if err != nil {
				return err
			}
			reordered, ordering, err := correlation.ReorderByClustering(corr, cfg.Analysis.Linkage)
			if err != nil {
				return err
			}

			if asJSON {
				return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"measures": reordered.Measures,
					"ordering": ordering,
				})
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "measure")
			for _, m := range reordered.Measures {
				fmt.Fprintf(w, "\t%s", m)
			}
			fmt.Fprintln(w)
			for i, m := range reordered.Measures {
				fmt.Fprintf(w, "%s", m)
				for j := range reordered.Measures {
					fmt.Fprintf(w, "\t%.3f", reordered.At(i, j))
				}
				fmt.Fprintln(w)
			}
			return w.Flush()
		},
	}
	addSourceFlags(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit measures and ordering as JSON")
	return cmd
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Print per-measure descriptive summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			tbl, _, err := loadTable(cmd, cfg)
			if err != nil {
				return err
			}

			filtered := reshape.Filter(tbl, reshape.ByLevel(table.GeographicLevel(cfg.Analysis.GeographicLevel)))
			wide := reshape.PivotWide(filtered)
			summaries, err := profile.AllColumns(wide)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "measure\tn\tmean\tstddev\tmin\tq25\tmedian\tq75\tmax\toutliers")
			for _, s := range summaries {
				fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%d\n",
					s.Measure, s.N, s.Mean, s.StdDev, s.Min, s.Q25, s.Median, s.Q75, s.Max, s.Outliers)
			}
			return w.Flush()
		},
	}
	addSourceFlags(cmd)
	return cmd
}

func newRatioCmd() *cobra.Command {
	var measure string
	cmd := &cobra.Command{
		Use:   "ratio",
		Short: "Per-state share of entities above the overall median of a measure",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			tbl, _, err := loadTable(cmd, cfg)
			if err != nil {
				return err
			}

			if measure == "" {
				measure = cfg.Analysis.FocusMeasure
			}
			filtered := reshape.Filter(tbl, reshape.And(
				reshape.ByLevel(table.GeographicLevel(cfg.Analysis.GeographicLevel)),
				reshape.ByMeasure(measure),
			))
			if len(filtered) == 0 {
				return fmt.Errorf("no records for measure %q", measure)
			}

			var values []float64
			for _, r := range filtered {
				if !r.Value.Missing {
					values = append(values, r.Value.Float)
				}
			}
			median, err := mstats.Median(values)
			if err != nil {
				return fmt.Errorf("measure %q has no numeric values", measure)
			}
			above := reshape.Filter(filtered, func(r table.Record) bool {
				return !r.Value.Missing && r.Value.Float > median
			})

			ratios := aggregate.Ratio(
				aggregate.CountBy(above, aggregate.ByState),
				aggregate.CountBy(filtered, aggregate.ByState),
			)
			delete(ratios, "")

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "state\tshare")
			for _, r := range aggregate.TopN(ratios, 0) {
				fmt.Fprintf(w, "%s\t%.3f\n", r.Key, r.Value)
			}
			return w.Flush()
		},
	}
	addSourceFlags(cmd)
	cmd.Flags().StringVar(&measure, "measure", "", "Measure to analyze (default FOCUS_MEASURE)")
	return cmd
}
