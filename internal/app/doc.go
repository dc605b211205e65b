// Package app wires the examstats HTTP server together: configuration,
// logging, OpenTelemetry, the exam and health services, the chi router and
// the http.Server lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, YAML file, EXAMSTATS_* environment)
//	2. Initialize the global slog logger
//	3. Resolve and create the report and log directories
//	4. Install tracer and meter providers
//	5. Build the source loader and services over the configured sources
//	6. Set up middleware and routes
//	7. Create the HTTP server
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
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests within
// server.shutdown_timeout and flushes telemetry.
package app
