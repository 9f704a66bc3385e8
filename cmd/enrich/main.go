// Command enrich loads a driver-count source and writes the enriched table
// (source columns plus profile_label) as CSV and/or XLSX for offline use.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cnhpulse/internal/config"
	"cnhpulse/internal/dataprocessing"
	"cnhpulse/internal/exporter"
	"cnhpulse/internal/files"
	"cnhpulse/internal/infrastructure"
	"cnhpulse/internal/validation"
)

// options are the parsed command-line flags
type options struct {
	source   string
	outDir   string
	formats  []string
	encoding string
	bom      bool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", slog.String("error", err.Error()))
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	opts, err := parseFlags(os.Args[1:], cfg, os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	ctx := infrastructure.ContextWithTraceID(context.Background())
	written, err := run(ctx, opts, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Enrichment failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	for _, path := range written {
		fmt.Println(path)
	}
}

// parseFlags reads the command line, defaulting to the configured data section
func parseFlags(args []string, cfg *config.Config, output io.Writer) (options, error) {
	fs := flag.NewFlagSet("enrich", flag.ContinueOnError)
	fs.SetOutput(output)

	source := fs.String("in", cfg.Data.SourcePath, "source CSV file, or a directory holding dated exports")
	outDir := fs.String("out", cfg.Data.ExportDir, "output directory for the enriched files")
	format := fs.String("format", "all", "output format: csv, xlsx or all")
	encoding := fs.String("encoding", cfg.Data.Encoding, "source encoding: utf-8, iso-8859-1 or windows-1252")
	bom := fs.Bool("bom", false, "prefix the CSV with a UTF-8 byte order mark")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts := options{
		source:   *source,
		outDir:   *outDir,
		encoding: *encoding,
		bom:      *bom,
	}

	switch f := strings.ToLower(*format); f {
	case "all":
		opts.formats = []string{"csv", "xlsx"}
	case "csv", "xlsx":
		opts.formats = []string{f}
	default:
		err := fmt.Errorf("unknown format %q", *format)
		fmt.Fprintln(output, err)
		return options{}, err
	}

	if err := dataprocessing.ValidateEncoding(opts.encoding); err != nil {
		fmt.Fprintln(output, err)
		return options{}, err
	}

	return opts, nil
}

// run loads the source and writes one enriched file per format. It returns
// the written paths.
func run(ctx context.Context, opts options, logger *slog.Logger) ([]string, error) {
	start := time.Now()

	source, err := files.NewDiscovery("").ResolveSource(opts.source)
	if err != nil {
		return nil, err
	}

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateSourceFile(source); err != nil {
		return nil, err
	}
	if err := validator.ValidateOutputDirectory(opts.outDir); err != nil {
		return nil, err
	}

	loader := dataprocessing.NewLoader(dataprocessing.LoadOptions{Encoding: opts.encoding}, logger)
	table, err := loader.Load(ctx, source)
	if err != nil {
		return nil, err
	}

	manager := files.NewManager(opts.outDir, logger)
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)) + "_enriched"

	var written []string
	for _, format := range opts.formats {
		name := base + "." + format
		err := manager.WriteAtomic(name, func(w io.Writer) error {
			if format == "xlsx" {
				return exporter.WriteEnrichedXLSX(w, table, exporter.DefaultSheetName)
			}
			return exporter.WriteEnrichedCSV(w, table, exporter.CSVOptions{BOMPrefix: opts.bom})
		})
		if err != nil {
			return written, fmt.Errorf("failed to write %s: %w", name, err)
		}
		written = append(written, filepath.Join(opts.outDir, name))
	}

	logger.InfoContext(ctx, "Enrichment completed",
		slog.String("source", source),
		slog.Int("rows", table.Len()),
		slog.Int64("drivers", table.Sum()),
		slog.Any("files", written),
		slog.Duration("duration", time.Since(start)))

	return written, nil
}
