package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/invoicekit/fapiao/constants"
	"github.com/invoicekit/fapiao/internal/batch"
	"github.com/invoicekit/fapiao/internal/common"
	"github.com/invoicekit/fapiao/internal/export"
	"github.com/invoicekit/fapiao/internal/ocr"
	"github.com/invoicekit/fapiao/internal/parse"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir     = flag.String("dir", "", "directory of invoice PDFs to process (required)")
		out     = flag.String("out", "", "output XLSX file path (defaults to <dir>/../invoices.xlsx)")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "invoices.xlsx")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	var split parse.SplitFunc
	if !cfg.Parse.SplitMiddleZeros {
		split = parse.EvenSplit
	}
	parser := parse.NewParser(logger, split)
	engine := ocr.NewEngine(cfg.OCR, logger)
	processor := batch.NewProcessor(logger, parser,
		batch.WithRecognizer(engine),
		batch.WithMaxOCRPages(cfg.OCR.MaxPages),
	)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		logger.Error("failed to read directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	queued := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		path := filepath.Join(*dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Error("failed to read file", "path", path, "error", err)
			continue
		}
		processor.Add(entry.Name(), data)
		queued++
	}
	if queued == 0 {
		printError("Error: no PDF files found in %s\n", *dir)
		os.Exit(1)
	}
	logger.Info("starting batch", "dir", *dir, "files", queued)

	if err := processor.ProcessAll(ctx); err != nil {
		logger.Error("batch interrupted", "error", err)
		os.Exit(1)
	}

	succeeded, failed := 0, 0
	for _, job := range processor.Jobs() {
		if job.Status == constants.JobStatusSuccess {
			succeeded++
		} else {
			failed++
		}
	}

	exportService := export.NewService(logger)
	xlsxBytes, err := exportService.ExportInvoicesXLSX(processor.Records())
	if err != nil {
		logger.Error("failed to export invoices", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0o644); err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}

	logger.Info("batch complete",
		"files", queued,
		"succeeded", succeeded,
		"failed", failed,
		"output_file", *out)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files processed: %d\n", queued)
	fmt.Printf("- Extracted: %d\n", succeeded)
	fmt.Printf("- Failures: %d\n", failed)
	fmt.Printf("- Output: %s\n", *out)
}
