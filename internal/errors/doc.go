// Package errors provides structured, actionable error messages for fileroute.
//
// Every failure that aborts a generation pass is reported as an *Error with a
// stable code, a short message, an optional detail and a hint. Because route
// compilation runs ahead of the host's own Go build, these errors surface as
// build failures instead of reaching a running server.
//
// # Error Categories
//
//   - config: configuration file and environment problems
//   - scan: route tree discovery problems (mostly soft)
//   - validation: routing/layout model conflicts
//   - output: generated code formatting and writing
//   - cli: command line usage
//
// # Error Codes
//
// Codes are grouped by hundreds: E1xx config, E2xx scan, E3xx validation,
// E4xx output, E5xx cli.
//
// # Usage
//
//	err := errors.New("E401").
//	    WithDetail("open app/routes/routes_stateless_gen.go: permission denied").
//	    WithSuggestion("Check that the output directory is writable")
//
//	errors.PrintError(err)
package errors
