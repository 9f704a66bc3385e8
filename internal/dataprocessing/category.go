package dataprocessing

import (
	"strings"

	"cnhpulse/pkg/contracts/domain"
)

// categoryAlphabet holds the letters a licence category code may contain
const categoryAlphabet = "ABCDE"

// heavyLetters mark a category that grants heavy vehicles
const heavyLetters = "CDE"

// lightCategories are the exact codes counted as light (motorcycle and car)
var lightCategories = map[string]bool{"A": true, "B": true, "AB": true}

// groupRule assigns a group when the code contains letter
type groupRule struct {
	letter byte
	group  domain.CategoryGroup
}

// groupPriority is evaluated top to bottom. E outranks D, D outranks C.
var groupPriority = []groupRule{
	{letter: 'E', group: domain.CategoryGroupE},
	{letter: 'D', group: domain.CategoryGroupD},
	{letter: 'C', group: domain.CategoryGroupC},
}

// NormalizeCategory trims and upper-cases a category code
func NormalizeCategory(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCategory reports whether code is non-empty and uses only letters A to E
func ValidCategory(code string) bool {
	if code == "" {
		return false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(categoryAlphabet, code[i]) < 0 {
			return false
		}
	}
	return true
}

// IsHeavy reports whether the code contains any of C, D or E
func IsHeavy(code string) bool {
	return strings.ContainsAny(code, heavyLetters)
}

// IsLight reports whether the code is exactly A, B or AB
func IsLight(code string) bool {
	return lightCategories[code]
}

// GroupCategory maps a category code to its heaviest group
func GroupCategory(code string) domain.CategoryGroup {
	for _, rule := range groupPriority {
		if strings.IndexByte(code, rule.letter) >= 0 {
			return rule.group
		}
	}
	return domain.CategoryGroupOther
}

// ClassifyVehicle splits codes into light, heavy and other
func ClassifyVehicle(code string) domain.VehicleClass {
	switch {
	case IsHeavy(code):
		return domain.VehicleClassHeavy
	case IsLight(code):
		return domain.VehicleClassLight
	default:
		return domain.VehicleClassOther
	}
}
