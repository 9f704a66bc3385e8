package config

import "time"

// Application constants
const (
	// Application Info
	AppName   = "cnhpulse"
	AppTitle  = "CNH Pulse"
	AppVendor = "Observatório de Condutores"

	// Server
	DefaultPort           = 8080
	DefaultRequestTimeout = 30 * time.Second

	// Rate Limiting
	DefaultRateLimit = 50 // requests per second
	DefaultBurstSize = 100

	// File Paths (relative to the working directory)
	DefaultSourcePath = "data/condutores_habilitados.csv"
	DefaultExportDir  = "exports"
	DefaultLogFile    = "logs/cnhpulse.log"

	// Source encoding
	DefaultEncoding = "utf-8"

	// Cache Settings
	DataCacheDuration = 30 * time.Minute

	// About page
	DefaultPreviewRows = 50
	MaxPreviewRows     = 500

	// Dashboard thresholds
	MinHeavyDriversForMap = 50
	CityRiskTopN          = 10
	ReserveTopN           = 10
)

// SupportedEncodings lists the accepted source encoding names and aliases
var SupportedEncodings = []string{
	"utf-8", "utf8",
	"iso-8859-1", "latin1", "latin-1",
	"windows-1252", "cp1252",
}
