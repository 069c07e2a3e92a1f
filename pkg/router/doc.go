// Package router compiles a directory of route files into chi routers.
//
// The compiler scans the routes directory, infers URL patterns and HTTP
// methods from file names and function names, resolves the layouts that
// wrap each route and emits Go source registering everything with chi.
//
// # File Structure Convention
//
//	app/routes/
//	├── index.go           → /
//	├── about_us.go        → /about-us
//	├── layout.go          → Layout for every route
//	└── users/
//	    ├── index.go       → /users
//	    ├── id_.go         → /users/{id}
//	    └── layout.go      → Layout for /users and below
//
// Every directory is a Go package. Directory names are literal; only file
// stems capture, spelled name_.go (a trailing underscore). The go tool
// refuses [name].go, so such files are reported instead of routed.
// Underscores inside a literal stem become hyphens in URLs. mod.go, test
// files, hidden entries and files the go tool would not build are ignored.
//
// # Route Files
//
// A route file defines one function per HTTP method. The bare verb is the
// usual form; a prefixed form keeps names unique within a package:
//
//	func GET(r *http.Request, res *response.Res) *response.Res
//	func ParamIDPOST(r *http.Request, res *response.Res, id string) *response.Res
//	func Layout(r *http.Request, res *response.Res, children template.HTML) *response.Res
//
// Stateful routers pass a leading state argument to every handler and
// layout.
//
// # Layouts
//
// A route's layout chain is every layout from the root down to its
// directory. When a handler returns HTML, the generated wrapper passes it
// to the innermost layout, then that layout's HTML to the next one out. Any
// non-HTML response (JSON, redirects, raw bytes) is returned as is.
//
// # Usage
//
//	model := router.BuildModel("app/routes", "example.com/app/app/routes", nil)
//	if err := router.NewValidator(model, router.ValidatorOptions{}).Validate(); err != nil {
//	    return err
//	}
//	src, err := router.NewGenerator(model, router.Options{}).Generate(router.ModeStateless)
package router
