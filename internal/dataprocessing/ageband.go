package dataprocessing

import (
	"sort"
	"strings"

	apperrors "cnhpulse/internal/errors"
)

// Canonical age-band labels as published by Detran, in chronological order.
const (
	Band18To21  = "18-21 ANOS"
	Band22To25  = "22-25 ANOS"
	Band26To30  = "26-30 ANOS"
	Band31To40  = "31-40 ANOS"
	Band41To50  = "41-50 ANOS"
	Band51To60  = "51-60 ANOS"
	Band61To70  = "61-70 ANOS"
	Band71To80  = "71-80 ANOS"
	Band81To90  = "81-90 ANOS"
	Band91To100 = "91-100 ANOS"
	BandOver100 = "MAIOR DE 100 ANOS"
	bandSuffix  = " ANOS"
)

// AgeBandOrder is the fixed chronological enumeration of age bands
var AgeBandOrder = []string{
	Band18To21, Band22To25, Band26To30, Band31To40, Band41To50,
	Band51To60, Band61To70, Band71To80, Band81To90, Band91To100,
	BandOver100,
}

// ExcludedAgeBands are dropped at load time
var ExcludedAgeBands = []string{"101-120 ANOS", "+120 ANOS"}

// Named band sets used by the dashboard views
var (
	// NewEntrantBands covers drivers aged 18 to 30
	NewEntrantBands = []string{Band18To21, Band22To25, Band26To30}
	// VeteranBands covers drivers aged 51 to 70
	VeteranBands = []string{Band51To60, Band61To70}
	// RetirementBands covers drivers over 60 up to 100
	RetirementBands = []string{Band61To70, Band71To80, Band81To90, Band91To100}
	// SixtyPlusBands is RetirementBands plus the overflow band
	SixtyPlusBands = []string{Band61To70, Band71To80, Band81To90, Band91To100, BandOver100}
)

// DefaultMidpoints maps each band to the age used for weighted averages
var DefaultMidpoints = MidpointTable{
	Band18To21:  19.5,
	Band22To25:  23.5,
	Band26To30:  28.0,
	Band31To40:  35.5,
	Band41To50:  45.5,
	Band51To60:  55.5,
	Band61To70:  65.5,
	Band71To80:  75.5,
	Band81To90:  85.5,
	Band91To100: 95.5,
	BandOver100: 100.0,
}

var bandRank = func() map[string]int {
	m := make(map[string]int, len(AgeBandOrder))
	for i, label := range AgeBandOrder {
		m[label] = i
	}
	return m
}()

// normalizeBand upper-cases, trims and collapses inner whitespace
func normalizeBand(label string) string {
	return strings.Join(strings.Fields(strings.ToUpper(label)), " ")
}

// CanonicalBand resolves a label to its canonical form. Matching ignores case
// and accepts the label with or without the " ANOS" suffix.
func CanonicalBand(label string) (string, error) {
	n := normalizeBand(label)
	if _, ok := bandRank[n]; ok {
		return n, nil
	}
	if _, ok := bandRank[n+bandSuffix]; ok {
		return n + bandSuffix, nil
	}
	return "", &apperrors.UnknownBandError{Label: label}
}

// IsExcludedBand reports whether label belongs to the load-time exclusion set
func IsExcludedBand(label string) bool {
	n := normalizeBand(label)
	for _, excluded := range ExcludedAgeBands {
		if n == excluded || n+bandSuffix == excluded {
			return true
		}
	}
	return false
}

// BandRank returns the chronological position of a band
func BandRank(label string) (int, error) {
	canonical, err := CanonicalBand(label)
	if err != nil {
		return 0, err
	}
	return bandRank[canonical], nil
}

// SortBandLabels returns the labels in chronological order. Labels keep their
// original spelling. Any label outside the enumeration is rejected.
func SortBandLabels(labels []string) ([]string, error) {
	type ranked struct {
		label string
		rank  int
	}

	items := make([]ranked, 0, len(labels))
	for _, label := range labels {
		rank, err := BandRank(label)
		if err != nil {
			return nil, err
		}
		items = append(items, ranked{label: label, rank: rank})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].rank < items[j].rank
	})

	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.label
	}
	return out, nil
}

// BandSet is a membership test over canonical band labels
type BandSet map[string]struct{}

// NewBandSet builds a set from labels, canonicalizing each one
func NewBandSet(labels ...string) (BandSet, error) {
	set := make(BandSet, len(labels))
	for _, label := range labels {
		canonical, err := CanonicalBand(label)
		if err != nil {
			return nil, err
		}
		set[canonical] = struct{}{}
	}
	return set, nil
}

// mustBandSet is for the package's own fixed sets
func mustBandSet(labels ...string) BandSet {
	set, err := NewBandSet(labels...)
	if err != nil {
		panic(err)
	}
	return set
}

// Contains reports whether the canonical label is in the set
func (s BandSet) Contains(label string) bool {
	_, ok := s[label]
	return ok
}

// MidpointTable maps canonical band labels to a representative age
type MidpointTable map[string]float64

// Midpoint returns the representative age for a band
func (m MidpointTable) Midpoint(label string) (float64, error) {
	if v, ok := m[label]; ok {
		return v, nil
	}
	canonical, err := CanonicalBand(label)
	if err != nil {
		return 0, err
	}
	v, ok := m[canonical]
	if !ok {
		return 0, &apperrors.UnknownBandError{Label: label}
	}
	return v, nil
}
