// Package build runs a route generation pass.
//
// A pass scans the routes directory, validates the routing model and writes
// the generated router files:
//
//	app/routes/
//	├── routes_tree_gen.go       # Route constants and directory tree
//	├── routes_stateless_gen.go  # NewRouter()
//	└── routes_stateful_gen.go   # NewRouterWithState(state State)
//
// When both modes are written each router file carries a build constraint,
// so exactly one of them is compiled. Files whose content is unchanged are
// not rewritten.
//
// # Usage
//
//	builder := build.New(cfg, build.Options{})
//	result, err := builder.Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Generated %d routes in %s\n", result.Routes, result.Duration)
//
// Each phase runs in an OpenTelemetry span from the global tracer provider.
// Pass metrics are collected on a private Prometheus registry and written
// to a textfile when metrics.file is configured.
package build
