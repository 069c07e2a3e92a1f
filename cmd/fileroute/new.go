package main

import (
	"bytes"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/vango-dev/fileroute/internal/config"
	"github.com/vango-dev/fileroute/internal/errors"
	"github.com/vango-dev/fileroute/pkg/router"
)

func newCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new <type>",
		Short: "Scaffold route and layout files",
		Long: `Create a route or layout file following the routing conventions.

Types:
  route   A route file with one handler per method
  layout  A layout.go wrapping every route in a directory`,
	}

	cmd.AddCommand(newRouteCmd(flags), newLayoutCmd(flags))
	return cmd
}

// =============================================================================
// fileroute new route
// =============================================================================

func newRouteCmd(flags *globalFlags) *cobra.Command {
	var (
		methods  []string
		stateful bool
	)

	cmd := &cobra.Command{
		Use:   "route <path>",
		Short: "Create a route file",
		Long: `Create a route file under the routes directory.

The path follows the file naming conventions:
  index          → /
  about_us       → /about-us
  users/index    → /users
  users/id_      → /users/{id}

Handlers in index files use bare method names (GET). Other files use a
prefix derived from the file name (AboutUsGET, ParamIDGET) so several route
files can share one package.

Examples:
  fileroute new route about_us
  fileroute new route users/id_ --methods get,put,delete`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("stateful") {
				stateful = cfg.HasMode(config.ModeStateful) && !cfg.HasMode(config.ModeStateless)
			}
			path, err := createRoute(cfg, args[0], methods, stateful)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			success(out, "Created %s", relPath(cfg.Dir(), path))
			info(out, "Run 'fileroute gen' to update the generated routers")
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&methods, "methods", "m", []string{"get"}, "HTTP methods (get, post, put, delete, patch)")
	cmd.Flags().BoolVar(&stateful, "stateful", false, "Take the application state as the first argument (default: from output.modes)")

	return cmd
}

type routeScaffold struct {
	Package      string
	HTMLTemplate bool
	URL          string
	Param        string
	ParamVar     string
	Stateful     bool
	StateType    string
	StateImport  string
	Handlers     []handlerScaffold
}

type handlerScaffold struct {
	Name   string
	Method string
	HTML   bool
}

var routeFileTemplate = template.Must(template.New("route").Parse(`package {{.Package}}

import (
{{- if .HTMLTemplate}}
	"html/template"
{{- end}}
	"net/http"
{{- if .StateImport}}
	{{printf "%q" .StateImport}}
{{- end}}

	"github.com/vango-dev/fileroute/pkg/response"
)
{{range .Handlers}}
// {{.Name}} handles {{.Method}} {{$.URL}}.
func {{.Name}}({{if $.Stateful}}state {{$.StateType}}, {{end}}r *http.Request, res *response.Res{{if $.Param}}, {{$.ParamVar}} string{{end}}) *response.Res {
{{- if .HTML}}
	return res.HTML("<h1>{{$.URL}}</h1>"{{if $.Param}} + template.HTML(template.HTMLEscapeString({{$.ParamVar}})){{end}})
{{- else}}
	return res.JSON(map[string]any{"method": r.Method{{if $.Param}}, {{printf "%q" $.Param}}: {{$.ParamVar}}{{end}}})
{{- end}}
}
{{end}}`))

// createRoute writes a new route file and returns its path.
func createRoute(cfg *config.Config, arg string, methodNames []string, stateful bool) (string, error) {
	dir, stem, err := parseRoutePath(arg)
	if err != nil {
		return "", err
	}

	set := router.NewMethodSet()
	for _, name := range methodNames {
		m, ok := router.ParseMethod(name)
		if !ok {
			return "", errors.New("E503").WithDetail(name)
		}
		set = set.Add(m)
	}
	if set.IsEmpty() {
		return "", errors.New("E503").WithDetail("no methods given")
	}

	routesDir := cfg.RoutesPath()
	pkgDir := filepath.Join(routesDir, filepath.FromSlash(dir))
	path := filepath.Join(pkgDir, stem+".go")
	if _, err := os.Stat(path); err == nil {
		return "", errors.New("E501").
			WithFile(path).
			WithSuggestion("Choose a different path or remove the existing file")
	}

	declared := declaredFuncs(pkgDir)
	seg := router.TranslateStem(stem)

	data := routeScaffold{
		Package:  packageFor(pkgDir, dir, cfg.Output.Package),
		URL:      routeURL(dir, seg),
		Param:    seg.Param,
		ParamVar: "param",
		Stateful: stateful,
	}
	if token.IsIdentifier(seg.Param) && !token.IsKeyword(seg.Param) {
		data.ParamVar = seg.Param
	}
	if stateful {
		data.StateType = cfg.State.Type
		data.StateImport = cfg.State.Import
		if data.StateType == "" {
			data.StateType = "State"
			if dir != "" {
				warn(os.Stderr, "State is only declared in the root routes package; set state.type in %s", config.ConfigFileName)
			}
		}
	}

	for _, m := range set.Methods() {
		name, err := handlerName(stem, m, declared)
		if err != nil {
			return "", err
		}
		data.Handlers = append(data.Handlers, handlerScaffold{
			Name:   name,
			Method: m.HTTP(),
			HTML:   m == router.MethodGet,
		})
	}
	data.HTMLTemplate = data.Param != "" && set.Has(router.MethodGet)

	src, err := renderScaffold(routeFileTemplate, data)
	if err != nil {
		return "", err
	}
	if err := writeScaffold(path, src); err != nil {
		return "", err
	}
	return path, nil
}

// parseRoutePath splits a route argument into its logical directory and
// file stem.
func parseRoutePath(arg string) (dir, stem string, err error) {
	p := strings.Trim(filepath.ToSlash(arg), "/")
	p = strings.TrimSuffix(p, ".go")
	if p == "" {
		p = router.IndexStem
	}

	parts := strings.Split(p, "/")
	stem = parts[len(parts)-1]
	for _, part := range parts[:len(parts)-1] {
		if part == "" || strings.HasPrefix(part, ".") {
			return "", "", errors.New("E502").WithDetail(arg + ": empty or hidden directory name")
		}
		if strings.ContainsAny(part, "[]") {
			return "", "", errors.New("E502").
				WithDetail(arg + ": directory names are literal").
				WithSuggestion("Only file names can capture, e.g. users/id_")
		}
	}

	name := stem + ".go"
	switch {
	case strings.HasPrefix(stem, "."):
		return "", "", errors.New("E502").WithDetail(arg + ": hidden files are ignored")
	case router.IsLayout(stem):
		return "", "", errors.New("E502").
			WithDetail(arg + ": layout.go is reserved for layouts").
			WithSuggestion("Use 'fileroute new layout'")
	case !router.BuildableFileName(name):
		e := errors.New("E502").WithDetail(arg + ": the go tool refuses " + name)
		if capture, ok := router.BracketCapture(stem); ok {
			e.WithSuggestion("Captures are spelled with a trailing underscore, e.g. " + router.CaptureStem(capture))
		}
		return "", "", e
	case !router.IsRouteFile(name):
		return "", "", errors.New("E502").WithDetail(arg + ": " + name + " is never scanned as a route")
	case strings.ContainsAny(stem, "[]"):
		return "", "", errors.New("E502").
			WithDetail(arg + ": brackets are not valid in file names").
			WithSuggestion("Captures take the whole file name, e.g. id_.go")
	}

	return strings.Join(parts[:len(parts)-1], "/"), stem, nil
}

// handlerName picks a handler name for m that is not yet declared in the
// package.
func handlerName(stem string, m router.Method, declared map[string]string) (string, error) {
	var candidates []string
	prefixed, ok := router.PrefixedHandler(stem, m)
	if stem == router.IndexStem || !ok {
		candidates = append(candidates, m.HTTP())
	}
	if ok {
		candidates = append(candidates, prefixed)
	}
	candidates = append(candidates, m.HTTP())

	for _, name := range candidates {
		if _, taken := declared[name]; !taken {
			return name, nil
		}
	}
	return "", errors.New("E502").
		WithDetail(candidates[0] + " is already declared in " + declared[candidates[0]]).
		WithSuggestion("Rename the file so its handlers get a distinct prefix")
}

func routeURL(dir string, seg router.Segment) string {
	prefix := ""
	if dir != "" {
		for _, part := range strings.Split(dir, "/") {
			prefix = router.JoinURL(prefix, router.TranslateDir(part).URL)
		}
	}
	return router.JoinURL(prefix, seg.URL)
}

// declaredFuncs maps every exported function declared in dir to its file.
func declaredFuncs(dir string) map[string]string {
	declared := make(map[string]string)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return declared
	}

	detector := router.NewMethodDetector()
	for _, e := range entries {
		if e.IsDir() || !router.IsRouteFile(e.Name()) {
			continue
		}
		exports, err := detector.Inspect(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		for _, fn := range exports.Funcs {
			declared[fn] = e.Name()
		}
	}
	return declared
}

// packageFor returns the package name used by existing files in dir, or a
// name derived from the directory.
func packageFor(dir, logical, rootPackage string) string {
	entries, err := os.ReadDir(dir)
	if err == nil {
		fset := token.NewFileSet()
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".go") || strings.HasSuffix(e.Name(), "_test.go") {
				continue
			}
			f, err := parser.ParseFile(fset, filepath.Join(dir, e.Name()), nil, parser.PackageClauseOnly)
			if err == nil {
				return f.Name.Name
			}
		}
	}

	if logical == "" {
		return rootPackage
	}
	name := strings.ToLower(strings.NewReplacer("-", "_", ".", "_").Replace(filepath.Base(dir)))
	if !token.IsIdentifier(name) || token.IsKeyword(name) {
		return "routes"
	}
	return name
}

// =============================================================================
// fileroute new layout
// =============================================================================

func newLayoutCmd(flags *globalFlags) *cobra.Command {
	var stateful bool

	cmd := &cobra.Command{
		Use:   "layout [dir]",
		Short: "Create a layout.go",
		Long: `Create a layout.go in a routes directory (default: the routes root).

The layout wraps the HTML of every route in the directory and below it.
Non-HTML responses (JSON, redirects) bypass layouts.

Examples:
  fileroute new layout
  fileroute new layout admin`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("stateful") {
				stateful = cfg.HasMode(config.ModeStateful) && !cfg.HasMode(config.ModeStateless)
			}
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			path, err := createLayout(cfg, dir, stateful)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Created %s", relPath(cfg.Dir(), path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&stateful, "stateful", false, "Take the application state as the first argument (default: from output.modes)")

	return cmd
}

type layoutScaffold struct {
	Package     string
	Scope       string
	Stateful    bool
	StateType   string
	StateImport string
}

var layoutFileTemplate = template.Must(template.New("layout").Parse(`package {{.Package}}

import (
	"html/template"
	"net/http"
{{- if .StateImport}}
	{{printf "%q" .StateImport}}
{{- end}}

	"github.com/vango-dev/fileroute/pkg/response"
)

// Layout wraps every page under {{.Scope}}.
func Layout({{if .Stateful}}state {{.StateType}}, {{end}}r *http.Request, res *response.Res, children template.HTML) *response.Res {
	return res.HTML("<main>" + children + "</main>")
}
`))

func createLayout(cfg *config.Config, arg string, stateful bool) (string, error) {
	dir := strings.Trim(filepath.ToSlash(arg), "/")
	if strings.ContainsAny(dir, "[]") {
		return "", errors.New("E502").WithDetail(arg + ": directory names are literal")
	}

	pkgDir := filepath.Join(cfg.RoutesPath(), filepath.FromSlash(dir))
	path := filepath.Join(pkgDir, router.LayoutStem+".go")
	if _, err := os.Stat(path); err == nil {
		return "", errors.New("E501").
			WithFile(path).
			WithSuggestion("A directory holds at most one layout")
	}
	if _, taken := declaredFuncs(pkgDir)[router.LayoutFunc]; taken {
		return "", errors.New("E502").
			WithDetail(router.LayoutFunc + " is already declared in package " + packageFor(pkgDir, dir, cfg.Output.Package))
	}

	data := layoutScaffold{
		Package:  packageFor(pkgDir, dir, cfg.Output.Package),
		Scope:    routeURL(dir, router.Segment{}),
		Stateful: stateful,
	}
	if stateful {
		data.StateType = cfg.State.Type
		data.StateImport = cfg.State.Import
		if data.StateType == "" {
			data.StateType = "State"
		}
	}

	src, err := renderScaffold(layoutFileTemplate, data)
	if err != nil {
		return "", err
	}
	if err := writeScaffold(path, src); err != nil {
		return "", err
	}
	return path, nil
}

func renderScaffold(tmpl *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.New("E402").Wrap(err)
	}
	return src, nil
}

func writeScaffold(path string, src []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.New("E401").WithFile(path).Wrap(err)
	}
	if err := os.WriteFile(path, src, 0644); err != nil {
		return errors.New("E401").WithFile(path).Wrap(err)
	}
	return nil
}
