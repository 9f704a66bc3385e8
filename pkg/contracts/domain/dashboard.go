package domain

import "time"

// ViewStatus tells a client whether a view carries data
type ViewStatus string

const (
	ViewStatusOK     ViewStatus = "ok"
	ViewStatusNoData ViewStatus = "no_data"
)

// LabeledCount is a single bar, slice or ranking entry
type LabeledCount struct {
	Label   string  `json:"label"`
	Count   int64   `json:"count"`
	Percent float64 `json:"percent,omitempty"`
}

// PaidSplit breaks a total down by the paid-activity flag
type PaidSplit struct {
	Label       string  `json:"label"`
	Paid        int64   `json:"paid"`
	NotPaid     int64   `json:"not_paid"`
	Total       int64   `json:"total"`
	PaidPercent float64 `json:"paid_percent"`
}

// MapPoint is a municipality marker on one of the dashboard maps.
// Only the fields relevant to the map that produced it are set.
type MapPoint struct {
	Municipality string   `json:"municipality"`
	Lat          float64  `json:"lat"`
	Lon          float64  `json:"lon"`
	Geohash      string   `json:"geohash"`
	Count        int64    `json:"count"`
	Weight       float64  `json:"weight,omitempty"`
	Seniors      int64    `json:"seniors,omitempty"`
	Percent      float64  `json:"percent,omitempty"`
	MeanAge      *float64 `json:"mean_age,omitempty"`
	Tier         string   `json:"tier,omitempty"`
}

// OverviewView holds the headline totals shown on the landing page
type OverviewView struct {
	Status            ViewStatus     `json:"status"`
	TotalDrivers      int64          `json:"total_drivers"`
	PaidDrivers       int64          `json:"paid_drivers"`
	PaidPercent       float64        `json:"paid_percent"`
	HeavyDrivers      int64          `json:"heavy_drivers"`
	HeavyPercent      float64        `json:"heavy_percent"`
	HeavyPaidDrivers  int64          `json:"heavy_paid_drivers"`
	DominantHeavyBand *LabeledCount  `json:"dominant_heavy_band,omitempty"`
	Municipalities    int            `json:"municipalities"`
	Profiles          []LabeledCount `json:"profiles"`
}

// GroupRanking ranks municipalities inside one heavy category group
type GroupRanking struct {
	Group          CategoryGroup  `json:"group"`
	Municipalities []LabeledCount `json:"municipalities"`
	Matches        int            `json:"matches"`
}

// HeavyPanelView is the heavy-vehicle (C/D/E) panel
type HeavyPanelView struct {
	Status            ViewStatus     `json:"status"`
	AgeBand           string         `json:"age_band,omitempty"`
	Professionals     int64          `json:"professionals"`
	GroupETotal       int64          `json:"group_e_total"`
	WomenHeavy        int64          `json:"women_heavy"`
	WomenHeavyPercent float64        `json:"women_heavy_percent"`
	Distribution      []LabeledCount `json:"distribution"`
	PaidByGroup       []PaidSplit    `json:"paid_by_group"`
	Rankings          []GroupRanking `json:"rankings"`
	Heatmap           []MapPoint     `json:"heatmap"`
}

// ClassBandSplit compares light and heavy paid drivers within one age band
type ClassBandSplit struct {
	AgeBand string `json:"age_band"`
	Light   int64  `json:"light"`
	Heavy   int64  `json:"heavy"`
}

// YouthChoice is the light-versus-heavy comparison among paid drivers
type YouthChoice struct {
	Bands     []ClassBandSplit `json:"bands"`
	LightPeak string           `json:"light_peak,omitempty"`
	HeavyPeak string           `json:"heavy_peak,omitempty"`
}

// DemographicsView is the workforce-ageing section
type DemographicsView struct {
	Status                ViewStatus  `json:"status"`
	HeavyProfessionals    int64       `json:"heavy_professionals"`
	Seniors               int64       `json:"seniors"`
	RetirementRiskPercent float64     `json:"retirement_risk_percent"`
	Young                 int64       `json:"young"`
	RenewalPercent        float64     `json:"renewal_percent"`
	AgeWall               []PaidSplit `json:"age_wall"`
	YouthChoice           YouthChoice `json:"youth_choice"`
	AgeingMap             []MapPoint  `json:"ageing_map"`
}

// GenerationalGap compares veterans and new entrants of one category group
type GenerationalGap struct {
	Group       CategoryGroup `json:"group"`
	Veterans    int64         `json:"veterans"`
	NewEntrants int64         `json:"new_entrants"`
}

// CityRisk is a municipality's age-weighted risk row
type CityRisk struct {
	Rank         int      `json:"rank"`
	Municipality string   `json:"municipality"`
	Drivers      int64    `json:"drivers"`
	MeanAge      *float64 `json:"mean_age"`
	Status       string   `json:"status"`
}

// BlackoutView is the workforce-replacement ("logistics blackout") page
type BlackoutView struct {
	Status           ViewStatus        `json:"status"`
	NewEntrants      int64             `json:"new_entrants"`
	Veterans         int64             `json:"veterans"`
	ReplacementIndex float64           `json:"replacement_index"`
	Severity         string            `json:"severity"`
	GenerationalGap  []GenerationalGap `json:"generational_gap"`
	Conversion       []PaidSplit       `json:"conversion"`
	CityRisk         []CityRisk        `json:"city_risk"`
	RiskMap          []MapPoint        `json:"risk_map"`
}

// GenderActivation is one gender's paid-activity activation on heavy categories
type GenderActivation struct {
	Gender         string  `json:"gender"`
	Paid           int64   `json:"paid"`
	NotPaid        int64   `json:"not_paid"`
	Total          int64   `json:"total"`
	ActivationRate float64 `json:"activation_rate"`
}

// DiversityView is the gender-gap page
type DiversityView struct {
	Status           ViewStatus         `json:"status"`
	Activation       []GenderActivation `json:"activation"`
	FemaleTotal      int64              `json:"female_total"`
	FemaleReserve    int64              `json:"female_reserve"`
	ActivationGap    float64            `json:"activation_gap_pp"`
	ReserveMap       []MapPoint         `json:"reserve_map"`
	ReserveTop       []LabeledCount     `json:"reserve_top"`
	WomenByGroup     []PaidSplit        `json:"women_by_group"`
	GroupCReserveAge []LabeledCount     `json:"group_c_reserve_by_age"`
}

// ColumnDescription documents one dataset column
type ColumnDescription struct {
	Column      string `json:"column"`
	Description string `json:"description"`
}

// AboutView documents the dataset and previews its first rows
type AboutView struct {
	Source     string              `json:"source"`
	LoadedAt   time.Time           `json:"loaded_at"`
	Rows       int                 `json:"rows"`
	Dictionary []ColumnDescription `json:"dictionary"`
	Header     []string            `json:"header"`
	Preview    [][]string          `json:"preview"`
}
