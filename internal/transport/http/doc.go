// Package http implements the HTTP handlers of the enrollment statistics API.
//
// Handlers are thin: they read and validate the request, call the service and render
// the result. Every error goes through the shared errors.ErrorHandler, so clients always
// get an RFC 7807 problem document.
//
// # Routes
//
//	GET /healthz                               liveness summary
//	GET /healthz/ready                         dataset and reports directory readiness
//	GET /api/v1/dataset                        shape, axis labels, missing cells
//	GET /api/v1/schools                        school directory
//	GET /api/v1/schools/{school}/stats         per-school aggregates
//	GET /api/v1/schools/{school}/median        median above ?threshold= (default 500)
//	GET /api/v1/stats/general                  cross-school aggregates
//	GET /api/v1/export?format=xlsx|csv         all-schools report download
//	GET /metrics                               Prometheus scrape endpoint
//
// {school} is a school name or code; "9865" and "Lester%20B.%20Pearson%20High%20School"
// address the same school. Unknown schools answer 404 with type /errors/school/not-found.
package http
