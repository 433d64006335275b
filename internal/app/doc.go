// Package app provides initialization and lifecycle management for the enrollment
// statistics server.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, config file, ENROLL_* environment)
//	2. Initialize logging and OpenTelemetry
//	3. Load the enrollment dataset and record the load metric
//	4. Build the enrollment and health services
//	5. Set up handlers and middleware
//	6. Create the HTTP server
//
// # Usage
//
//	app, err := app.NewApplication(ctx, nil, nil)
//	if err != nil {
//	    return err
//	}
//	return app.Run()
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests and flushes
// telemetry. Initialization errors are returned; the package never calls os.Exit.
package app
