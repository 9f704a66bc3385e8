package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cnhpulse/pkg/contracts/domain"
)

func TestClassifyProfile(t *testing.T) {
	tests := []struct {
		name     string
		paid     domain.PaidActivity
		category string
		want     domain.Profile
	}{
		{"heavy combined code with paid activity", domain.PaidActivityYes, "AE", domain.ProfileHeavyTraditional},
		{"car without paid activity", domain.PaidActivityNo, "B", domain.ProfileAmateur},
		{"heavy without paid activity is amateur", domain.PaidActivityNo, "E", domain.ProfileAmateur},
		{"car with paid activity", domain.PaidActivityYes, "B", domain.ProfileGigApps},
		{"motorcycle with paid activity", domain.PaidActivityYes, "A", domain.ProfileGigApps},
		{"motorcycle and car with paid activity", domain.PaidActivityYes, "AB", domain.ProfileGigApps},
		{"truck with paid activity", domain.PaidActivityYes, "C", domain.ProfileHeavyTraditional},
		{"bus with motorcycle", domain.PaidActivityYes, "AD", domain.ProfileHeavyTraditional},
		{"unrecognized code", domain.PaidActivityYes, "X", domain.ProfileOther},
		{"empty code", domain.PaidActivityYes, "", domain.ProfileOther},
		{"unknown flag counts as not paid", domain.PaidActivity(""), "C", domain.ProfileAmateur},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyProfile(tt.paid, tt.category)
			assert.Equal(t, tt.want, got)
			// Deterministic: a second call agrees.
			assert.Equal(t, got, ClassifyProfile(tt.paid, tt.category))
		})
	}
}

func TestClassifyProfileIsTotal(t *testing.T) {
	valid := map[domain.Profile]bool{
		domain.ProfileAmateur:          true,
		domain.ProfileHeavyTraditional: true,
		domain.ProfileGigApps:          true,
		domain.ProfileOther:            true,
	}
	codes := []string{"", "A", "B", "C", "D", "E", "AB", "AC", "AD", "AE", "ACE", "BE", "Z", "ab"}
	for _, paid := range []domain.PaidActivity{domain.PaidActivityYes, domain.PaidActivityNo, ""} {
		for _, code := range codes {
			assert.True(t, valid[ClassifyProfile(paid, code)], "paid=%q code=%q", paid, code)
		}
	}
}

func TestGroupCategory(t *testing.T) {
	tests := []struct {
		code string
		want domain.CategoryGroup
	}{
		{"AE", domain.CategoryGroupE},
		{"ACE", domain.CategoryGroupE},
		{"CE", domain.CategoryGroupE},
		{"AD", domain.CategoryGroupD},
		{"D", domain.CategoryGroupD},
		{"AC", domain.CategoryGroupC},
		{"C", domain.CategoryGroupC},
		{"AB", domain.CategoryGroupOther},
		{"B", domain.CategoryGroupOther},
		{"", domain.CategoryGroupOther},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GroupCategory(tt.code))
		})
	}
}

func TestCategoryPredicates(t *testing.T) {
	assert.True(t, IsHeavy("AC"))
	assert.True(t, IsHeavy("E"))
	assert.False(t, IsHeavy("AB"))
	assert.True(t, IsLight("AB"))
	assert.False(t, IsLight("ABC"))

	assert.True(t, ValidCategory("ACE"))
	assert.False(t, ValidCategory(""))
	assert.False(t, ValidCategory("AF"))
	assert.Equal(t, "AD", NormalizeCategory(" ad "))

	assert.Equal(t, domain.VehicleClassHeavy, ClassifyVehicle("AD"))
	assert.Equal(t, domain.VehicleClassLight, ClassifyVehicle("B"))
	assert.Equal(t, domain.VehicleClassOther, ClassifyVehicle("X"))
}
