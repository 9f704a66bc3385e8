package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"cnhpulse/internal/dataprocessing"
	"cnhpulse/internal/exporter"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ContentType returns the MIME type of an export format. charset names the
// CSV byte encoding; empty means UTF-8.
func ContentType(format, charset string) string {
	switch format {
	case FormatCSV:
		if charset == "" {
			charset = dataprocessing.EncodingUTF8
		}
		return "text/csv; charset=" + charset
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// ParseFormat validates an export format name
func ParseFormat(name string) (string, error) {
	switch f := strings.ToLower(strings.TrimPrefix(name, ".")); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Export writes the enriched table in the given format and returns its MIME
// type. CSV keeps the source encoding.
func (s *DashboardService) Export(ctx context.Context, format string, w io.Writer) (string, error) {
	var contentType string
	err := s.observe(ctx, "export_"+format, func(ctx context.Context) error {
		t, err := s.table(ctx)
		if err != nil {
			return err
		}

		switch format {
		case FormatCSV:
			err = exporter.WriteEnrichedCSV(w, t, exporter.CSVOptions{BOMPrefix: s.settings.ExportBOM})
		case FormatXLSX:
			err = exporter.WriteEnrichedXLSX(w, t, exporter.DefaultSheetName)
		default:
			return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
		}
		if err != nil {
			return err
		}

		contentType = ContentType(format, t.Encoding())
		s.logger.InfoContext(ctx, "table exported",
			slog.String("format", format),
			slog.String("encoding", t.Encoding()),
			slog.Int("rows", t.Len()))
		return nil
	})
	return contentType, err
}
