package dataprocessing

import (
	"cnhpulse/pkg/contracts/domain"
)

// Predicate selects records
type Predicate func(domain.DriverCountRecord) bool

var (
	newEntrantSet = mustBandSet(NewEntrantBands...)
	veteranSet    = mustBandSet(VeteranBands...)
	retirementSet = mustBandSet(RetirementBands...)
	sixtyPlusSet  = mustBandSet(SixtyPlusBands...)
)

// Heavy selects categories containing C, D or E
func Heavy() Predicate {
	return func(r domain.DriverCountRecord) bool { return IsHeavy(r.Category) }
}

// Paid selects records flagged with paid activity
func Paid() Predicate {
	return func(r domain.DriverCountRecord) bool { return r.PaidActivity.IsPaid() }
}

// NotPaid selects records without paid activity
func NotPaid() Predicate {
	return func(r domain.DriverCountRecord) bool { return !r.PaidActivity.IsPaid() }
}

// GenderIs selects one gender
func GenderIs(gender string) Predicate {
	return func(r domain.DriverCountRecord) bool { return r.Gender == gender }
}

// GroupIs selects one category group
func GroupIs(group domain.CategoryGroup) Predicate {
	return func(r domain.DriverCountRecord) bool { return GroupCategory(r.Category) == group }
}

// BandIn selects records whose age band is in the set
func BandIn(set BandSet) Predicate {
	return func(r domain.DriverCountRecord) bool { return set.Contains(r.AgeBand) }
}

// NewEntrants selects drivers aged 18 to 30
func NewEntrants() Predicate { return BandIn(newEntrantSet) }

// Veterans selects drivers aged 51 to 70
func Veterans() Predicate { return BandIn(veteranSet) }

// RetirementAge selects drivers aged 61 to 100
func RetirementAge() Predicate { return BandIn(retirementSet) }

// SixtyPlus selects every driver over 60
func SixtyPlus() Predicate { return BandIn(sixtyPlusSet) }

// And combines predicates; all must hold
func And(preds ...Predicate) Predicate {
	return func(r domain.DriverCountRecord) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}
