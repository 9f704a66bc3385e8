// Package app wires the CNH Pulse dashboard together and manages its
// lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, YAML file, CNH_* environment)
//	2. Initialize the JSON logger and OpenTelemetry providers
//	3. Resolve the data source and build the loader and table store
//	4. Create the dashboard and health services
//	5. Set up the chi router, middleware and handlers
//	6. Start the HTTP server and warm the table cache
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests within
// the configured shutdown timeout and flushes telemetry. Initialization errors
// are returned to the caller; the package never calls os.Exit.
package app
