package dataprocessing

import (
	"fmt"
	"sort"
	"strings"

	apperrors "cnhpulse/internal/errors"
	"cnhpulse/pkg/contracts/domain"
)

// Dimension names a grouping key derived from a record
type Dimension string

const (
	DimMunicipality  Dimension = "municipality"
	DimCategory      Dimension = "category"
	DimCategoryGroup Dimension = "category_group"
	DimAgeBand       Dimension = "age_band"
	DimGender        Dimension = "gender"
	DimPaidActivity  Dimension = "paid_activity"
	DimProfile       Dimension = "profile"
	DimVehicleClass  Dimension = "vehicle_class"
)

var dimensionKeys = map[Dimension]func(domain.DriverCountRecord) string{
	DimMunicipality:  func(r domain.DriverCountRecord) string { return r.Municipality },
	DimCategory:      func(r domain.DriverCountRecord) string { return r.Category },
	DimCategoryGroup: func(r domain.DriverCountRecord) string { return string(GroupCategory(r.Category)) },
	DimAgeBand:       func(r domain.DriverCountRecord) string { return r.AgeBand },
	DimGender:        func(r domain.DriverCountRecord) string { return r.Gender },
	DimPaidActivity:  func(r domain.DriverCountRecord) string { return string(r.PaidActivity) },
	DimProfile:       func(r domain.DriverCountRecord) string { return string(ProfileOf(r)) },
	DimVehicleClass:  func(r domain.DriverCountRecord) string { return string(ClassifyVehicle(r.Category)) },
}

// Key extracts the dimension value of a record
func (d Dimension) Key(r domain.DriverCountRecord) string {
	if fn, ok := dimensionKeys[d]; ok {
		return fn(r)
	}
	return ""
}

// less orders two values of the dimension. Age bands are chronological,
// everything else is lexical.
func (d Dimension) less(a, b string) (bool, error) {
	if d != DimAgeBand {
		return a < b, nil
	}
	ra, err := BandRank(a)
	if err != nil {
		return false, err
	}
	rb, err := BandRank(b)
	if err != nil {
		return false, err
	}
	return ra < rb, nil
}

// sortValues orders distinct values of one dimension
func (d Dimension) sortValues(values []string) error {
	if d == DimAgeBand {
		sorted, err := SortBandLabels(values)
		if err != nil {
			return err
		}
		copy(values, sorted)
		return nil
	}
	sort.Strings(values)
	return nil
}

func checkDimensions(dims []Dimension) error {
	if len(dims) == 0 {
		return apperrors.NewAppValidationError("at least one dimension is required")
	}
	for _, d := range dims {
		if _, ok := dimensionKeys[d]; !ok {
			return apperrors.NewAppValidationError(fmt.Sprintf("unknown dimension %q", d))
		}
	}
	return nil
}

// GroupTotal is the summed count of one key
type GroupTotal struct {
	Keys  []string `json:"keys"`
	Count int64    `json:"count"`
}

// Key joins the group keys for display
func (g GroupTotal) Key() string {
	return strings.Join(g.Keys, " / ")
}

// keyOf builds the composite key and its map form
func keyOf(r domain.DriverCountRecord, dims []Dimension) ([]string, string) {
	keys := make([]string, len(dims))
	for i, d := range dims {
		keys[i] = d.Key(r)
	}
	return keys, strings.Join(keys, "\x1f")
}

// sortKeyed orders composite keys dimension by dimension
func sortKeyed[T any](items []T, keysOf func(T) []string, dims []Dimension) error {
	var sortErr error
	sort.SliceStable(items, func(i, j int) bool {
		ki, kj := keysOf(items[i]), keysOf(items[j])
		for n, d := range dims {
			if ki[n] == kj[n] {
				continue
			}
			less, err := d.less(ki[n], kj[n])
			if err != nil && sortErr == nil {
				sortErr = err
			}
			return less
		}
		return false
	})
	return sortErr
}

// GroupSum sums the count measure per distinct key over dims. Keys are
// ordered dimension by dimension: age bands chronologically, others lexically.
func GroupSum(t *Table, dims ...Dimension) ([]GroupTotal, error) {
	if err := checkDimensions(dims); err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var out []GroupTotal
	for _, r := range t.records {
		keys, k := keyOf(r, dims)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, GroupTotal{Keys: keys})
		}
		out[i].Count += r.Count
	}

	if err := sortKeyed(out, func(g GroupTotal) []string { return g.Keys }, dims); err != nil {
		return nil, err
	}
	return out, nil
}

// SumBy is GroupSum over a single dimension, returned as a map
func SumBy(t *Table, dim Dimension) (map[string]int64, error) {
	if err := checkDimensions([]Dimension{dim}); err != nil {
		return nil, err
	}
	out := make(map[string]int64)
	for _, r := range t.records {
		out[dim.Key(r)] += r.Count
	}
	return out, nil
}

// PivotRow is one row key of a pivot with one cell per column
type PivotRow struct {
	Keys  []string `json:"keys"`
	Cells []int64  `json:"cells"`
	Total int64    `json:"total"`
}

// Key joins the row keys for display
func (r PivotRow) Key() string {
	return strings.Join(r.Keys, " / ")
}

// PivotTable spreads one dimension across columns
type PivotTable struct {
	RowDims  []Dimension `json:"row_dimensions"`
	PivotDim Dimension   `json:"pivot_dimension"`
	Columns  []string    `json:"columns"`
	Rows     []PivotRow  `json:"rows"`
}

// ColumnIndex returns the position of a column, or -1
func (p *PivotTable) ColumnIndex(column string) int {
	for i, c := range p.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Cell returns the value at a row and column; absent cells are 0
func (p *PivotTable) Cell(row int, column string) int64 {
	i := p.ColumnIndex(column)
	if i < 0 || row < 0 || row >= len(p.Rows) {
		return 0
	}
	return p.Rows[row].Cells[i]
}

// Pivot groups by rowDims and spreads pivotDim across columns. Every declared
// column is zero-filled for every row. Values of pivotDim that were not
// declared are appended as extra columns so that row totals always equal the
// GroupSum of rowDims. A nil columns slice means all observed values.
func Pivot(t *Table, rowDims []Dimension, pivotDim Dimension, columns []string) (*PivotTable, error) {
	if err := checkDimensions(append(append([]Dimension{}, rowDims...), pivotDim)); err != nil {
		return nil, err
	}

	cols := append([]string(nil), columns...)
	colIndex := make(map[string]int, len(cols))
	for i, c := range cols {
		if _, dup := colIndex[c]; dup {
			return nil, apperrors.NewAppValidationError(fmt.Sprintf("duplicate pivot column %q", c))
		}
		colIndex[c] = i
	}

	var extra []string
	seenExtra := make(map[string]bool)
	for _, r := range t.records {
		v := pivotDim.Key(r)
		if _, ok := colIndex[v]; !ok && !seenExtra[v] {
			seenExtra[v] = true
			extra = append(extra, v)
		}
	}
	if err := pivotDim.sortValues(extra); err != nil {
		return nil, err
	}
	for _, v := range extra {
		colIndex[v] = len(cols)
		cols = append(cols, v)
	}

	index := make(map[string]int)
	var rows []PivotRow
	for _, r := range t.records {
		keys, k := keyOf(r, rowDims)
		i, ok := index[k]
		if !ok {
			i = len(rows)
			index[k] = i
			rows = append(rows, PivotRow{Keys: keys, Cells: make([]int64, len(cols))})
		}
		rows[i].Cells[colIndex[pivotDim.Key(r)]] += r.Count
		rows[i].Total += r.Count
	}

	if err := sortKeyed(rows, func(r PivotRow) []string { return r.Keys }, rowDims); err != nil {
		return nil, err
	}

	return &PivotTable{
		RowDims:  append([]Dimension(nil), rowDims...),
		PivotDim: pivotDim,
		Columns:  cols,
		Rows:     rows,
	}, nil
}

// SortByCount orders groups by count descending, ties by key ascending.
// The input is not modified.
func SortByCount(groups []GroupTotal) []GroupTotal {
	out := append([]GroupTotal(nil), groups...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key() < out[j].Key()
	})
	return out
}

// TopN returns the n largest groups. n <= 0 returns every group ranked.
func TopN(groups []GroupTotal, n int) []GroupTotal {
	ranked := SortByCount(groups)
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
