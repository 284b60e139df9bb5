package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/seung-gu/factset-data-collector/internal/config"
	"github.com/seung-gu/factset-data-collector/internal/ocr"
	"github.com/seung-gu/factset-data-collector/internal/reconcile"
	"github.com/seung-gu/factset-data-collector/internal/snapshot"
)

// extractCmd represents the extract command for batch chart processing.
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Process a directory of chart images into a wide EPS table",
	Long: `Process every chart image in a directory and pivot the extracted
EPS readings into one wide CSV: a row per report date, a column per fiscal
quarter, and a confidence score per row.

Image file names must start with the report date (YYYYMMDD), for example
20161209-6.png. Each image needs a text-box sidecar (20161209-6.boxes.json)
holding its OCR output.

Examples:
  chartocr extract --input-dir charts/ --output eps.csv
  chartocr extract --input-dir charts/ --workers 4 --limit 10
  chartocr extract --input-dir charts/ --no-classify --long-output records.csv`,
	SilenceUsage: true,
	RunE:         runExtractCommand,
}

// extractOptions is the resolved per-run configuration for extract.
type extractOptions struct {
	inputDir   string
	outputFile string
	longFile   string
	quiet      bool
	snapshot   snapshot.Config
}

// configToExtractOptions maps centralized configuration to the extract run
// options. CLI flags override config file values.
func configToExtractOptions(cfg *config.Config, cmd *cobra.Command) extractOptions {
	opts := extractOptions{snapshot: cfg.ToSnapshot()}

	opts.inputDir, _ = cmd.Flags().GetString("input-dir")

	opts.outputFile = cfg.Output.File
	if cmd.Flags().Changed("output") {
		opts.outputFile, _ = cmd.Flags().GetString("output")
	}

	opts.longFile = cfg.Output.LongFile
	if cmd.Flags().Changed("long-output") {
		opts.longFile, _ = cmd.Flags().GetString("long-output")
	}

	if cmd.Flags().Changed("workers") {
		opts.snapshot.Workers, _ = cmd.Flags().GetInt("workers")
		if opts.snapshot.Workers < 1 {
			opts.snapshot.Workers = 1
		}
	}

	if cmd.Flags().Changed("limit") {
		opts.snapshot.Limit, _ = cmd.Flags().GetInt("limit")
	}

	if noClassify, _ := cmd.Flags().GetBool("no-classify"); noClassify {
		opts.snapshot.ClassifyBars = false
	}

	if singleMethod, _ := cmd.Flags().GetBool("single-method"); singleMethod {
		opts.snapshot.Classifier.SingleMethod = true
	}

	opts.quiet, _ = cmd.Flags().GetBool("quiet")

	return opts
}

func runExtractCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	opts := configToExtractOptions(cfg, cmd)

	if opts.inputDir == "" {
		return fmt.Errorf("--input-dir is required")
	}

	provider := ocr.NewBoxFileProvider()
	processor := snapshot.NewProcessor(provider, opts.snapshot, slog.Default())

	records, err := processor.ProcessDirectory(cmd.Context(), opts.inputDir)
	if err != nil {
		return fmt.Errorf("processing %s: %w", opts.inputDir, err)
	}

	if opts.longFile != "" {
		if err := snapshot.SaveLongCSV(opts.longFile, records); err != nil {
			return fmt.Errorf("writing long records: %w", err)
		}
	}

	table := reconcile.Pivot(records)

	if opts.outputFile != "" {
		if err := table.SaveCSV(opts.outputFile); err != nil {
			return err
		}
	} else {
		if err := table.WriteCSV(cmd.OutOrStdout()); err != nil {
			return err
		}
	}

	if !opts.quiet {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Extracted %d readings across %d report dates and %d quarters\n",
			len(records), len(table.Rows), len(table.Quarters))
		if opts.outputFile != "" {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", opts.outputFile)
		}
	}

	return nil
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("input-dir", "i", "", "directory containing chart images (required)")
	extractCmd.Flags().StringP("output", "o", "", "wide CSV output file (default: stdout)")
	extractCmd.Flags().String("long-output", "", "also write raw long-format records to this CSV file")
	extractCmd.Flags().IntP("workers", "w", 0, "number of parallel workers")
	extractCmd.Flags().Int("limit", 0, "process at most N images (0 = all)")
	extractCmd.Flags().Bool("no-classify", false, "skip bar shade classification")
	extractCmd.Flags().Bool("single-method", false, "classify with the closing method only")
	extractCmd.Flags().Bool("quiet", false, "suppress summary output")
}
