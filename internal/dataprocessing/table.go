package dataprocessing

import (
	"time"

	"cnhpulse/pkg/contracts/domain"
)

// Table is an immutable, loaded driver-count dataset. Besides the typed
// records it keeps the source header and raw cell text of every kept row so
// that exports reproduce the input byte for byte.
//
// Filtering returns a new Table; the receiver is never modified.
type Table struct {
	source   string
	header   []string
	records  []domain.DriverCountRecord
	raw      [][]string
	encoding string
	loadedAt time.Time
}

// NewTable builds an in-memory table from records. The header and raw cells
// are synthesized from the canonical columns.
func NewTable(source string, records []domain.DriverCountRecord) *Table {
	header := []string{
		ColumnMunicipality, ColumnCategory, ColumnAgeBand, ColumnPaidActivity, ColumnCount,
	}
	raw := make([][]string, len(records))
	for i, r := range records {
		raw[i] = []string{r.Municipality, r.Category, r.AgeBand, string(r.PaidActivity), formatCount(r.Count)}
	}

	recs := make([]domain.DriverCountRecord, len(records))
	copy(recs, records)

	return &Table{
		source:   source,
		header:   header,
		records:  recs,
		raw:      raw,
		encoding: EncodingUTF8,
		loadedAt: time.Now(),
	}
}

// Source returns the path the table was loaded from
func (t *Table) Source() string {
	return t.source
}

// Encoding returns the canonical name of the encoding the source was decoded from
func (t *Table) Encoding() string {
	return t.encoding
}

// LoadedAt returns when the table was parsed
func (t *Table) LoadedAt() time.Time {
	return t.loadedAt
}

// Len returns the number of records
func (t *Table) Len() int {
	return len(t.records)
}

// Empty reports whether the table has no records
func (t *Table) Empty() bool {
	return len(t.records) == 0
}

// Header returns a copy of the source header (without any derived column)
func (t *Table) Header() []string {
	out := make([]string, len(t.header))
	copy(out, t.header)
	return out
}

// Record returns the i-th record
func (t *Table) Record(i int) domain.DriverCountRecord {
	return t.records[i]
}

// RawRow returns a copy of the raw cells of the i-th row
func (t *Table) RawRow(i int) []string {
	out := make([]string, len(t.raw[i]))
	copy(out, t.raw[i])
	return out
}

// Sum returns the total driver count
func (t *Table) Sum() int64 {
	var total int64
	for _, r := range t.records {
		total += r.Count
	}
	return total
}

// SumWhere returns the driver count of the rows that satisfy pred
func (t *Table) SumWhere(pred Predicate) int64 {
	var total int64
	for _, r := range t.records {
		if pred(r) {
			total += r.Count
		}
	}
	return total
}

// Filter returns a new table holding the rows that satisfy pred
func (t *Table) Filter(pred Predicate) *Table {
	out := &Table{
		source:   t.source,
		header:   t.header,
		encoding: t.encoding,
		loadedAt: t.loadedAt,
	}
	for i, r := range t.records {
		if pred(r) {
			out.records = append(out.records, r)
			out.raw = append(out.raw, t.raw[i])
		}
	}
	return out
}

// Municipalities returns the distinct municipality names in first-seen order
func (t *Table) Municipalities() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range t.records {
		if !seen[r.Municipality] {
			seen[r.Municipality] = true
			out = append(out, r.Municipality)
		}
	}
	return out
}

// Coordinates returns the per-municipality coordinates of rows that carry them
func (t *Table) Coordinates() map[string][2]float64 {
	out := make(map[string][2]float64)
	for _, r := range t.records {
		if r.HasCoordinates {
			out[r.Municipality] = [2]float64{r.Latitude, r.Longitude}
		}
	}
	return out
}
