package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	apperrors "cnhpulse/internal/errors"
	"cnhpulse/pkg/contracts/domain"
)

// Source columns
const (
	ColumnMunicipality = "descricao_municipio"
	ColumnCategory     = "categoria_cnh"
	ColumnAgeBand      = "faixa_etaria"
	ColumnPaidActivity = "exerce_atividade_remunerada"
	ColumnCount        = "qtd_condutores"
	ColumnLatitude     = "lat"
	ColumnLongitude    = "lon"
	ColumnGender       = "genero"
	ColumnDisability   = "pcd"
	ColumnBlocked      = "bloqueado"

	// ColumnProfile is the derived column appended on export. It is ignored on input.
	ColumnProfile = "profile_label"
)

// RequiredColumns must be present in every source file
var RequiredColumns = []string{
	ColumnMunicipality, ColumnCategory, ColumnAgeBand, ColumnPaidActivity, ColumnCount,
}

// Supported source encodings
const (
	EncodingUTF8        = "utf-8"
	EncodingISO88591    = "iso-8859-1"
	EncodingWindows1252 = "windows-1252"
)

// LoadOptions tune how a source file is read
type LoadOptions struct {
	// Encoding of the source bytes; empty means UTF-8
	Encoding string
}

// CanonicalEncoding maps an encoding name or alias to one of the Encoding
// constants. Empty means UTF-8.
func CanonicalEncoding(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return EncodingUTF8, nil
	case "iso-8859-1", "latin1", "latin-1":
		return EncodingISO88591, nil
	case "windows-1252", "cp1252":
		return EncodingWindows1252, nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", name)
	}
}

// SourceEncoding resolves an encoding name. A nil encoding means UTF-8.
func SourceEncoding(name string) (encoding.Encoding, error) {
	canonical, err := CanonicalEncoding(name)
	if err != nil {
		return nil, err
	}
	switch canonical {
	case EncodingISO88591:
		return charmap.ISO8859_1, nil
	case EncodingWindows1252:
		return charmap.Windows1252, nil
	}
	return nil, nil
}

// ValidateEncoding reports whether name is a supported source encoding
func ValidateEncoding(name string) error {
	_, err := CanonicalEncoding(name)
	return err
}

// Loader parses driver-count CSV files into Tables
type Loader struct {
	opts   LoadOptions
	logger *slog.Logger
}

// NewLoader creates a loader
func NewLoader(opts LoadOptions, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		opts:   opts,
		logger: logger.With(slog.String("component", "loader")),
	}
}

// Load reads and validates the CSV at path
func (l *Loader) Load(ctx context.Context, path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewDataLoadError(path, "open source file", err)
	}
	defer f.Close()

	return l.Parse(ctx, f, path)
}

// Parse reads a CSV stream. source names the stream in errors and logs.
func (l *Loader) Parse(ctx context.Context, r io.Reader, source string) (*Table, error) {
	ctx, span := otel.Tracer("cnhpulse/dataprocessing").Start(ctx, "dataprocessing.Parse")
	defer span.End()
	span.SetAttributes(attribute.String("source", source))

	start := time.Now()
	t, stats, err := l.parse(ctx, r, source)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		l.logger.ErrorContext(ctx, "driver table load failed",
			slog.String("source", source),
			slog.String("error", err.Error()))
		return nil, err
	}

	span.SetAttributes(attribute.Int("rows", t.Len()), attribute.Int("excluded_rows", stats.excluded))
	l.logger.InfoContext(ctx, "driver table loaded",
		slog.String("source", source),
		slog.Int("rows", t.Len()),
		slog.Int("excluded_rows", stats.excluded),
		slog.Int64("drivers", t.Sum()),
		slog.Duration("duration", time.Since(start)))

	return t, nil
}

const utf8BOM = "\ufeff"

type parseStats struct {
	excluded int
}

// columnIndex locates the known columns in a header
type columnIndex struct {
	municipality, category, ageBand, paid, count int
	lat, lon, gender, disability, blocked          int
	profile                                        int
}

func indexColumns(header []string, source string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if _, dup := pos[name]; dup {
			return columnIndex{}, apperrors.NewDataLoadError(source, fmt.Sprintf("duplicate column %q", name), nil)
		}
		pos[name] = i
	}

	for _, col := range RequiredColumns {
		if _, ok := pos[col]; !ok {
			return columnIndex{}, &apperrors.DataLoadError{Path: source, Column: col, Reason: "missing required column"}
		}
	}

	lookup := func(col string) int {
		if i, ok := pos[col]; ok {
			return i
		}
		return -1
	}

	idx := columnIndex{
		municipality: pos[ColumnMunicipality],
		category:     pos[ColumnCategory],
		ageBand:      pos[ColumnAgeBand],
		paid:         pos[ColumnPaidActivity],
		count:        pos[ColumnCount],
		lat:          lookup(ColumnLatitude),
		lon:          lookup(ColumnLongitude),
		gender:       lookup(ColumnGender),
		disability:   lookup(ColumnDisability),
		blocked:      lookup(ColumnBlocked),
		profile:      lookup(ColumnProfile),
	}

	if (idx.lat < 0) != (idx.lon < 0) {
		missing := ColumnLatitude
		if idx.lon < 0 {
			missing = ColumnLongitude
		}
		return columnIndex{}, &apperrors.DataLoadError{Path: source, Column: missing, Reason: "coordinate columns must appear together"}
	}

	return idx, nil
}

type coordinates struct {
	present  bool
	lat, lon float64
}

func (l *Loader) parse(ctx context.Context, r io.Reader, source string) (*Table, parseStats, error) {
	var stats parseStats

	canonical, err := CanonicalEncoding(l.opts.Encoding)
	if err != nil {
		return nil, stats, apperrors.NewDataLoadError(source, "configure decoder", err)
	}
	enc, _ := SourceEncoding(canonical)
	if enc != nil {
		r = transform.NewReader(r, enc.NewDecoder())
	}

	cr := csv.NewReader(r)
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err == io.EOF {
		return nil, stats, apperrors.NewDataLoadError(source, "file is empty", nil)
	}
	if err != nil {
		return nil, stats, apperrors.NewDataLoadError(source, "read header", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	idx, err := indexColumns(header, source)
	if err != nil {
		return nil, stats, err
	}

	t := &Table{
		source:   source,
		header:   dropColumn(header, idx.profile),
		encoding: canonical,
		loadedAt: time.Now(),
	}
	seen := make(map[string]coordinates)

	for row := 1; ; row++ {
		if row%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}

		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, apperrors.NewRowError(source, row, "", "malformed row", err)
		}

		rec, err := parseRecord(fields, idx, source, row)
		if err != nil {
			return nil, stats, err
		}
		if rec == nil {
			stats.excluded++
			continue
		}

		if err := checkCoordinates(seen, *rec, source, row); err != nil {
			return nil, stats, err
		}

		t.records = append(t.records, *rec)
		t.raw = append(t.raw, dropColumn(fields, idx.profile))
	}

	return t, stats, nil
}

// parseRecord converts one row. It returns nil for rows in an excluded band.
func parseRecord(fields []string, idx columnIndex, source string, row int) (*domain.DriverCountRecord, error) {
	bandCell := fields[idx.ageBand]
	if IsExcludedBand(bandCell) {
		return nil, nil
	}
	band, err := CanonicalBand(bandCell)
	if err != nil {
		return nil, apperrors.NewRowError(source, row, ColumnAgeBand, "invalid age band", err)
	}

	municipality := strings.TrimSpace(fields[idx.municipality])
	if municipality == "" {
		return nil, apperrors.NewRowError(source, row, ColumnMunicipality, "municipality is empty", nil)
	}

	category := NormalizeCategory(fields[idx.category])
	if !ValidCategory(category) {
		return nil, apperrors.NewRowError(source, row, ColumnCategory, fmt.Sprintf("invalid category %q", fields[idx.category]), nil)
	}

	paid := domain.PaidActivity(strings.ToUpper(strings.TrimSpace(fields[idx.paid])))
	if paid != domain.PaidActivityYes && paid != domain.PaidActivityNo {
		return nil, apperrors.NewRowError(source, row, ColumnPaidActivity, fmt.Sprintf("invalid flag %q", fields[idx.paid]), nil)
	}

	count, err := strconv.ParseInt(strings.TrimSpace(fields[idx.count]), 10, 64)
	if err != nil {
		return nil, apperrors.NewRowError(source, row, ColumnCount, "count is not an integer", err)
	}
	if count < 0 {
		return nil, apperrors.NewRowError(source, row, ColumnCount, "count is negative", nil)
	}

	rec := &domain.DriverCountRecord{
		Municipality: municipality,
		Category:     category,
		AgeBand:      band,
		PaidActivity: paid,
		Count:        count,
	}

	if idx.gender >= 0 {
		rec.Gender = strings.ToUpper(strings.TrimSpace(fields[idx.gender]))
	}
	if rec.Disability, err = optionalFlag(fields, idx.disability); err != nil {
		return nil, apperrors.NewRowError(source, row, ColumnDisability, "invalid flag", err)
	}
	if rec.Blocked, err = optionalFlag(fields, idx.blocked); err != nil {
		return nil, apperrors.NewRowError(source, row, ColumnBlocked, "invalid flag", err)
	}

	if idx.lat >= 0 {
		latCell := strings.TrimSpace(fields[idx.lat])
		lonCell := strings.TrimSpace(fields[idx.lon])
		switch {
		case latCell == "" && lonCell == "":
		case latCell == "" || lonCell == "":
			return nil, apperrors.NewRowError(source, row, ColumnLatitude, "latitude and longitude must both be set or both be empty", nil)
		default:
			if rec.Latitude, err = strconv.ParseFloat(latCell, 64); err != nil {
				return nil, apperrors.NewRowError(source, row, ColumnLatitude, "latitude is not a number", err)
			}
			if rec.Longitude, err = strconv.ParseFloat(lonCell, 64); err != nil {
				return nil, apperrors.NewRowError(source, row, ColumnLongitude, "longitude is not a number", err)
			}
			rec.HasCoordinates = true
		}
	}

	return rec, nil
}

func optionalFlag(fields []string, i int) (domain.Flag, error) {
	if i < 0 {
		return domain.FlagUnknown, nil
	}
	switch f := domain.Flag(strings.ToUpper(strings.TrimSpace(fields[i]))); f {
	case domain.FlagYes, domain.FlagNo, domain.FlagUnknown:
		return f, nil
	default:
		return "", fmt.Errorf("unexpected value %q", fields[i])
	}
}

// checkCoordinates enforces one coordinate pair (or none) per municipality
func checkCoordinates(seen map[string]coordinates, rec domain.DriverCountRecord, source string, row int) error {
	current := coordinates{present: rec.HasCoordinates, lat: rec.Latitude, lon: rec.Longitude}
	prev, ok := seen[rec.Municipality]
	if !ok {
		seen[rec.Municipality] = current
		return nil
	}
	if prev != current {
		return apperrors.NewRowError(source, row, ColumnLatitude,
			fmt.Sprintf("coordinates for %s disagree with an earlier row", rec.Municipality), nil)
	}
	return nil
}

// dropColumn returns a copy of fields without position i (no-op when i < 0)
func dropColumn(fields []string, i int) []string {
	out := make([]string, 0, len(fields))
	for j, f := range fields {
		if j != i {
			out = append(out, f)
		}
	}
	return out
}

func formatCount(n int64) string {
	return strconv.FormatInt(n, 10)
}
