package dataprocessing

import (
	"cnhpulse/pkg/contracts/domain"
)

// profileRule matches a (paid, category) pair to a profile
type profileRule struct {
	profile domain.Profile
	match   func(paid domain.PaidActivity, code string) bool
}

// profileRules are evaluated in order; the first match wins.
// The heavy containment check must precede the light exact match.
var profileRules = []profileRule{
	{
		profile: domain.ProfileAmateur,
		match: func(paid domain.PaidActivity, _ string) bool {
			return !paid.IsPaid()
		},
	},
	{
		profile: domain.ProfileHeavyTraditional,
		match: func(_ domain.PaidActivity, code string) bool {
			return IsHeavy(code)
		},
	},
	{
		profile: domain.ProfileGigApps,
		match: func(_ domain.PaidActivity, code string) bool {
			return IsLight(code)
		},
	},
}

// ClassifyProfile derives the occupational profile of a record.
// It is total: every input maps to exactly one profile.
func ClassifyProfile(paid domain.PaidActivity, category string) domain.Profile {
	for _, rule := range profileRules {
		if rule.match(paid, category) {
			return rule.profile
		}
	}
	return domain.ProfileOther
}

// ProfileOf classifies a record
func ProfileOf(r domain.DriverCountRecord) domain.Profile {
	return ClassifyProfile(r.PaidActivity, r.Category)
}
