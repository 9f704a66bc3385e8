// Package http implements the HTTP handlers of the CNH Pulse dashboard. It is
// a thin layer between the chi router and the dashboard service: handlers
// parse and validate query parameters, call the service, and render the
// result.
//
// # Routes
//
// Mounted under /api by the application router:
//
//	GET /views/overview
//	GET /views/heavy?age_band=&search=&limit=
//	GET /views/demographics
//	GET /views/blackout?cities=RECIFE,OLINDA
//	GET /views/diversity
//	GET /views/about?rows=
//	GET /export/enriched.csv | /export/enriched.xlsx
//	GET /charts
//	GET /charts/{chart}.png
//	GET /health, /health/ready, /health/live, /health/detailed
//	GET /version
//
// # Error Handling
//
// Failures are rendered as RFC 7807 Problem Details by the shared
// errors.ErrorHandler. A selection that matches no rows is not an error: it
// is answered with 200 and a body of the form
//
//	{"status": "no_data", "selection": "heavy categories"}
//
// so the dashboard can show an empty state.
//
// # Testing
//
// Handlers are tested with httptest against a testify mock of
// DashboardServiceInterface.
package http
