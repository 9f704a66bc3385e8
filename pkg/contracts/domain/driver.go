package domain

// DriverCountRecord is one pre-aggregated row of the licensed-driver dataset:
// the number of drivers sharing a municipality, licence category, age band and
// activity flags.
type DriverCountRecord struct {
	Municipality   string       `json:"municipality" validate:"required"`
	Latitude       float64      `json:"lat,omitempty"`
	Longitude      float64      `json:"lon,omitempty"`
	HasCoordinates bool         `json:"has_coordinates"`
	Category       string       `json:"category" validate:"required"`
	AgeBand        string       `json:"age_band" validate:"required"`
	PaidActivity   PaidActivity `json:"paid_activity" validate:"oneof=S N"`
	Gender         string       `json:"gender,omitempty"`
	Disability     Flag         `json:"disability,omitempty"`
	Blocked        Flag         `json:"blocked,omitempty"`
	Count          int64        `json:"count" validate:"min=0"`
}

// PaidActivity is the EAR flag: whether the driver declares paid activity
// (exerce atividade remunerada).
type PaidActivity string

const (
	PaidActivityYes PaidActivity = "S"
	PaidActivityNo  PaidActivity = "N"
)

// IsPaid reports whether the flag is set
func (p PaidActivity) IsPaid() bool {
	return p == PaidActivityYes
}

// Label returns the dashboard label for the flag
func (p PaidActivity) Label() string {
	if p.IsPaid() {
		return "Paid (EAR)"
	}
	return "Not paid"
}

// Flag is an optional S/N column. FlagUnknown means the cell or column was absent.
type Flag string

const (
	FlagYes     Flag = "S"
	FlagNo      Flag = "N"
	FlagUnknown Flag = ""
)

// Profile is the occupational profile derived from paid activity and category
type Profile string

const (
	ProfileAmateur          Profile = "Amateur"
	ProfileHeavyTraditional Profile = "HeavyTraditional"
	ProfileGigApps          Profile = "GigApps"
	ProfileOther            Profile = "Other"
)

// CategoryGroup buckets a licence category by the heaviest vehicle class it grants
type CategoryGroup string

const (
	CategoryGroupE     CategoryGroup = "Group E"
	CategoryGroupD     CategoryGroup = "Group D"
	CategoryGroupC     CategoryGroup = "Group C"
	CategoryGroupOther CategoryGroup = "Other"
)

// HeavyGroups lists the heavy category groups in display order
var HeavyGroups = []CategoryGroup{CategoryGroupC, CategoryGroupD, CategoryGroupE}

// VehicleClass splits categories into light (A, B, AB), heavy (any C/D/E) and other
type VehicleClass string

const (
	VehicleClassLight VehicleClass = "Light"
	VehicleClassHeavy VehicleClass = "Heavy"
	VehicleClassOther VehicleClass = "Other"
)

// Gender values as published in the source data
const (
	GenderFemale = "FEMININO"
	GenderMale   = "MASCULINO"
)
