package dataprocessing

import (
	"strings"
)

// WeightedValue is the count-weighted mean of band midpoints for one group.
// Mean is nil when the group has no drivers.
type WeightedValue struct {
	Keys  []string `json:"keys"`
	Count int64    `json:"count"`
	Mean  *float64 `json:"mean"`
}

// Key joins the group keys for display
func (w WeightedValue) Key() string {
	return strings.Join(w.Keys, " / ")
}

// Defined reports whether the mean exists
func (w WeightedValue) Defined() bool {
	return w.Mean != nil
}

type weightedAcc struct {
	keys     []string
	count    int64
	weighted float64
}

// WeightedMean computes Σ(midpoint·count)/Σcount per group of dims. Every
// row's band must be present in midpoints, including zero-count rows.
func WeightedMean(t *Table, midpoints MidpointTable, dims ...Dimension) ([]WeightedValue, error) {
	if err := checkDimensions(dims); err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var accs []weightedAcc
	for _, r := range t.records {
		mid, err := midpoints.Midpoint(r.AgeBand)
		if err != nil {
			return nil, err
		}

		keys, k := keyOf(r, dims)
		i, ok := index[k]
		if !ok {
			i = len(accs)
			index[k] = i
			accs = append(accs, weightedAcc{keys: keys})
		}
		accs[i].count += r.Count
		accs[i].weighted += mid * float64(r.Count)
	}

	out := make([]WeightedValue, len(accs))
	for i, a := range accs {
		out[i] = WeightedValue{Keys: a.keys, Count: a.count}
		if a.count > 0 {
			mean := a.weighted / float64(a.count)
			out[i].Mean = &mean
		}
	}

	if err := sortKeyed(out, func(w WeightedValue) []string { return w.Keys }, dims); err != nil {
		return nil, err
	}
	return out, nil
}
