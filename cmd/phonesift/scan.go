package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phonesift/phonesift/internal/common"
	"github.com/phonesift/phonesift/internal/extract"
	"github.com/phonesift/phonesift/internal/ocr"
	"github.com/phonesift/phonesift/internal/pipeline"
	"github.com/phonesift/phonesift/internal/report"
	"github.com/phonesift/phonesift/internal/repository"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "OCR a directory of screenshots and extract phone numbers",
		Long: `Scan walks a directory of message-screenshot images in listing order,
runs tesseract on each one, extracts phone numbers from the recognized
text, and writes an XLSX workbook next to the directory.

A single unreadable image is recorded in the Summary sheet and the run
continues; only a failure to write the workbook aborts the run.

Examples:
  # Scan a folder of screenshots
  phonesift scan ./screenshots

  # Choose the output path and OCR languages
  phonesift scan --out numbers.xlsx --langs eng+ara ./screenshots

  # Numbers without a leading + get this country code
  phonesift scan --country-code +971 ./screenshots

  # Custom patterns from a JSON rules file
  phonesift scan --rules rules.json ./screenshots`,
		Args: cobra.ExactArgs(1),
		RunE: runScanCmd,
	}

	cmd.Flags().StringP("out", "o", "", "Output XLSX path (default: <parent>/phone_numbers.xlsx)")
	cmd.Flags().StringP("langs", "l", "", "Tesseract languages, e.g. eng+ara")
	cmd.Flags().StringP("country-code", "c", "", "Default country code for local numbers, e.g. +966")
	cmd.Flags().StringP("rules", "r", "", "JSON rules file with custom patterns")
	cmd.Flags().DurationP("timeout", "t", 0, "Per-image OCR deadline (0 = config default)")
	cmd.Flags().Bool("no-context", false, "Skip Name/Timestamp extraction")
	cmd.Flags().Bool("no-preprocess", false, "Feed images to tesseract unmodified")
	cmd.Flags().Bool("no-history", false, "Do not record this run in the history database")
	cmd.Flags().String("db-dir", "", "History database directory")

	return cmd
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	logger := setupLogger(getVerboseFlag(cmd))

	dir := args[0]
	cfg := common.LoadConfig()
	applyScanFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = filepath.Join(filepath.Dir(filepath.Clean(dir)), "phone_numbers.xlsx")
	}

	rules, err := loadRules(cfg)
	if err != nil {
		return err
	}

	ext := extract.NewExtractor(extract.Config{
		DefaultCountryCode: cfg.Extract.DefaultCountryCode,
		ContextLines:       cfg.Extract.ContextLines,
		WithContext:        cfg.Extract.WithContext,
	}, rules)

	rec := ocr.NewRecognizer(ocr.Config{
		Tesseract:     cfg.OCR.Tesseract,
		Languages:     cfg.OCR.Languages,
		TessdataDir:   cfg.OCR.TessdataDir,
		PSM:           cfg.OCR.PSM,
		OEM:           cfg.OCR.OEM,
		Timeout:       cfg.OCR.Timeout,
		Preprocess:    cfg.OCR.Preprocess,
		HeicConverter: cfg.OCR.HeicConverter,
	}, logger)

	var history *repository.History
	if !cfg.History.Disable {
		history, err = repository.Open(cfg.History.Dir, logger)
		if err != nil {
			// losing history must not block the scan itself
			logger.Warn("history unavailable", "err", err)
		} else {
			defer func() { _ = history.Close() }()
		}
	}

	batch := &pipeline.Batch{
		Logger:  logger,
		Rec:     rec,
		Ext:     ext,
		Sink:    report.NewXLSXSink(logger),
		History: history,
	}

	bundle, stats, err := batch.Run(cmd.Context(), dir, out)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Processed %d image(s): %d number(s), %d unique, %d failed\n",
		len(bundle.Summary), stats.Numbers, stats.Unique, stats.Failed)
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", out)
	return nil
}

// applyScanFlags overlays explicit CLI flags on top of the env-derived config.
func applyScanFlags(cmd *cobra.Command, cfg *common.Config) {
	if v, _ := cmd.Flags().GetString("langs"); v != "" {
		cfg.OCR.Languages = v
	}
	if v, _ := cmd.Flags().GetString("country-code"); v != "" {
		cfg.Extract.DefaultCountryCode = v
	}
	if v, _ := cmd.Flags().GetString("rules"); v != "" {
		cfg.Extract.RulesFile = v
	}
	if v, _ := cmd.Flags().GetDuration("timeout"); v > 0 {
		cfg.OCR.Timeout = v
	}
	if v, _ := cmd.Flags().GetBool("no-context"); v {
		cfg.Extract.WithContext = false
	}
	if v, _ := cmd.Flags().GetBool("no-preprocess"); v {
		cfg.OCR.Preprocess = false
	}
	if v, _ := cmd.Flags().GetBool("no-history"); v {
		cfg.History.Disable = true
	}
	if v, _ := cmd.Flags().GetString("db-dir"); v != "" {
		cfg.History.Dir = v
	}
}

func loadRules(cfg *common.Config) (*extract.RuleSet, error) {
	if cfg.Extract.RulesFile == "" {
		return nil, nil // extractor falls back to built-in rules
	}
	rules, err := extract.LoadRulesFile(cfg.Extract.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("load rules %s: %w", cfg.Extract.RulesFile, err)
	}
	return rules, nil
}
