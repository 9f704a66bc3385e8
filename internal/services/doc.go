// Package services implements the business logic layer of the dashboard.
// It sits between the HTTP handlers and the data-shaping primitives in
// dataprocessing, turning the cached driver table into the view models of
// pkg/contracts/domain.
//
// # Available Services
//
//	- DashboardService: computes the overview, heavy panel, demographics,
//	  blackout, diversity and about views, exports the enriched table and
//	  renders the static charts
//	- HealthService: liveness, readiness (the source must load) and version
//
// # Common Service Pattern
//
// Every view is computed inside observe, which opens a trace span, times the
// computation and reports one of three outcomes to the ViewRecorder:
//
//	func (s *DashboardService) Overview(ctx context.Context) (*domain.OverviewView, error) {
//	    var view *domain.OverviewView
//	    err := s.observe(ctx, "overview", func(ctx context.Context) error {
//	        t, err := s.table(ctx)
//	        ...
//	    })
//	    return view, err
//	}
//
// # Error Handling
//
// Services return typed errors that the HTTP error handler maps to responses:
//
//	- *errors.DataLoadError when the source cannot be read or parsed
//	- ErrNoSource, wrapping errors.ErrDataUnavailable, when no path is set
//	- *errors.UnknownBandError for an age band outside the enumeration
//	- *errors.EmptyGroupError when a selection matches no rows; the handler
//	  renders it as a "no_data" payload rather than a failure
//	- ErrUnknownChart and ErrUnknownFormat for unknown resource names
//
// # Testing
//
// Services are tested against an in-memory table served by a stub
// TableSource:
//
//	src := &stubSource{table: fixtureTable()}
//	svc := NewDashboardService(src, "fixture.csv", nil)
//	view, err := svc.Blackout(ctx, []string{"OLINDA"})
package services
