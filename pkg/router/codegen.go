package router

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strings"
	"text/template"
)

// Import paths referenced by generated code.
const (
	ChiImport      = "github.com/go-chi/chi/v5"
	DispatchImport = "github.com/vango-dev/fileroute/pkg/dispatch"
	ResponseImport = "github.com/vango-dev/fileroute/pkg/response"
	RouterImport   = "github.com/vango-dev/fileroute/pkg/router"
)

// Options configures code generation.
type Options struct {
	// Package is the package name of the generated files.
	Package string

	// OutputImport is the import path of the package receiving the generated
	// files. Empty means the routes root itself.
	OutputImport string

	// StateType is a type expression for State in stateful mode, e.g.
	// "*app.State". Empty means the host package declares State.
	StateType string

	// StateImport is the import path StateType needs.
	StateImport string

	// BuildTags holds the build constraint expression for each mode's file.
	BuildTags map[Mode]string
}

// Generator emits Go source for a Model.
type Generator struct {
	model *Model
	opts  Options
}

// NewGenerator creates a generator. The model should already be validated.
func NewGenerator(model *Model, opts Options) *Generator {
	if opts.Package == "" {
		opts.Package = model.Tree.Root().Package
	}
	if opts.Package == "" {
		opts.Package = "routes"
	}
	return &Generator{model: model, opts: opts}
}

// FormatError is returned when generated source is not valid Go.
type FormatError struct {
	File   string
	Source []byte
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("formatting generated %s: %v", e.File, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

type importSpec struct {
	Alias string
	Path  string
}

type routerFile struct {
	BuildTag      string
	Package       string
	StdImports    []importSpec
	Imports       []importSpec
	StateType     string
	Wrappers      []wrapperView
	Entry         string
	EntryParams   string
	Root          string
	Registrations []registrationView
}

type wrapperView struct {
	Name    string
	Source  string
	Chain   string
	Params  string
	Call    string
	Layouts []layoutCallView
}

type layoutCallView struct {
	Call string
	Last bool
}

type registrationView struct {
	Pattern string
	Methods []methodView
}

type methodView struct {
	Const   string
	Adapter string
}

// emitter holds per-file state while one router file is prepared.
type emitter struct {
	g       *Generator
	mode    Mode
	imports map[string]string

	// routes holds imports of packages under the routes root.
	routes map[string]bool
}

// Generate returns the gofmt-formatted router file for mode.
func (g *Generator) Generate(mode Mode) ([]byte, error) {
	e := &emitter{g: g, mode: mode, imports: make(map[string]string), routes: make(map[string]bool)}
	data := e.prepare()
	return g.render(routerTemplate, data, "routes_"+mode.String()+"_gen.go")
}

// WrapperName returns the name of the wrapper for r and m.
func WrapperName(r *RouteInfo, m Method) string {
	return "wrap_" + r.Identifier + "_" + m.String()
}

// EntryPoint returns the router constructor name for mode.
func EntryPoint(mode Mode) string {
	if mode == ModeStateful {
		return "NewRouterWithState"
	}
	return "NewRouter"
}

func (e *emitter) prepare() routerFile {
	stateful := e.mode == ModeStateful
	data := routerFile{
		BuildTag: e.g.opts.BuildTags[e.mode],
		Package:  e.g.opts.Package,
		Entry:    EntryPoint(e.mode),
		Root:     e.g.model.Tree.Root().Import,
	}
	if data.Root == "" {
		data.Root = "the routes directory"
	}
	if stateful {
		data.EntryParams = "state State"
		if e.g.opts.StateType != "" {
			data.StateType = e.g.opts.StateType
			if e.g.opts.StateImport != "" {
				e.imports[e.g.opts.StateImport] = ""
			}
		}
	}

	e.imports[ChiImport] = ""

	var order []string
	byPattern := make(map[string]*registrationView)

	for _, route := range e.g.model.ActiveRoutes() {
		chain := e.g.model.Chain(route)

		reg, ok := byPattern[route.URLPath]
		if !ok {
			reg = &registrationView{Pattern: route.URLPath}
			byPattern[route.URLPath] = reg
			order = append(order, route.URLPath)
		}

		for _, m := range route.Methods.Methods() {
			target := e.ref(route.Dir, route.Handler(m))
			if len(chain) > 0 {
				w := e.wrapper(route, m, chain)
				data.Wrappers = append(data.Wrappers, w)
				target = w.Name
			}
			reg.Methods = append(reg.Methods, methodView{
				Const:   m.Const(),
				Adapter: e.adapter(route, target),
			})
		}
	}

	for _, pattern := range order {
		data.Registrations = append(data.Registrations, *byPattern[pattern])
	}
	if len(data.Registrations) > 0 {
		e.imports["net/http"] = ""
		e.imports[DispatchImport] = ""
	}
	if len(data.Wrappers) > 0 {
		e.imports[ResponseImport] = ""
	}

	data.StdImports, data.Imports = e.importList()
	return data
}

func (e *emitter) wrapper(route *RouteInfo, m Method, chain LayoutChain) wrapperView {
	param := e.paramName(route)

	var params, args []string
	if e.mode == ModeStateful {
		params = append(params, "state State")
		args = append(args, "state")
	}
	params = append(params, "r *http.Request", "res *response.Res")
	args = append(args, "r", "res")
	if route.Param != "" {
		params = append(params, param+" string")
		args = append(args, param)
	}

	layoutArgs := "r, response.New(), children"
	if e.mode == ModeStateful {
		layoutArgs = "state, " + layoutArgs
	}

	w := wrapperView{
		Name:   WrapperName(route, m),
		Source: route.RelPath + " " + m.HTTP(),
		Params: strings.Join(params, ", "),
		Call:   e.ref(route.Dir, route.Handler(m)) + "(" + strings.Join(args, ", ") + ")",
	}

	names := make([]string, len(chain))
	for i, l := range chain {
		names[i] = l.Identifier
	}
	w.Chain = strings.Join(names, " > ")

	// innermost first
	for i := len(chain) - 1; i >= 0; i-- {
		l := chain[i]
		w.Layouts = append(w.Layouts, layoutCallView{
			Call: e.ref(l.Dir, l.Func) + "(" + layoutArgs + ")",
			Last: i == 0,
		})
	}
	return w
}

func (e *emitter) adapter(route *RouteInfo, target string) string {
	switch {
	case e.mode == ModeStateful && route.Param != "":
		return fmt.Sprintf("dispatch.HandleStateParam(state, %q, %s)", route.Param, target)
	case e.mode == ModeStateful:
		return fmt.Sprintf("dispatch.HandleState(state, %s)", target)
	case route.Param != "":
		return fmt.Sprintf("dispatch.HandleParam(%q, %s)", route.Param, target)
	default:
		return fmt.Sprintf("dispatch.Handle(%s)", target)
	}
}

// paramName picks the wrapper parameter for a capture: the capture name
// when it is a usable identifier, otherwise "param".
func (e *emitter) paramName(route *RouteInfo) string {
	name := route.Param
	if !isIdentifier(name) {
		return "param"
	}
	if _, reserved := reservedAliases[name]; reserved {
		return "param"
	}
	if _, taken := e.g.model.Tree.aliases[name]; taken {
		return "param"
	}
	return name
}

// ref returns a reference to fn in dir's package, importing it if needed.
func (e *emitter) ref(dir *DirNode, fn string) string {
	if dir.IsRoot() && e.samePackage() {
		return fn
	}
	e.imports[dir.Import] = dir.Alias
	e.routes[dir.Import] = true
	return dir.Alias + "." + fn
}

func (e *emitter) samePackage() bool {
	out := e.g.opts.OutputImport
	return out == "" || out == e.g.model.Tree.Root().Import
}

// importList splits the imports into standard library and other packages,
// each sorted by path.
func (e *emitter) importList() (std, other []importSpec) {
	for path, alias := range e.imports {
		spec := importSpec{Alias: alias, Path: path}
		if !e.routes[path] && isStdImport(path) {
			std = append(std, spec)
		} else {
			other = append(other, spec)
		}
	}
	byPath := func(specs []importSpec) {
		sort.Slice(specs, func(i, j int) bool {
			return specs[i].Path < specs[j].Path
		})
	}
	byPath(std)
	byPath(other)
	return std, other
}

// isStdImport reports whether path names a standard library package: its
// first element has no dot.
func isStdImport(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return !strings.Contains(first, ".")
}

// =============================================================================
// Module tree
// =============================================================================

type treeFile struct {
	Package   string
	Constants []constView
	Root      TreeDir
}

type constView struct {
	Name    string
	Pattern string
}

// GenerateTree returns the gofmt-formatted module tree file.
func (g *Generator) GenerateTree() ([]byte, error) {
	data := treeFile{
		Package: g.opts.Package,
		Root:    g.TreeValue(),
	}

	seenPattern := make(map[string]bool)
	names := make(map[string]struct{})
	for _, route := range g.model.ActiveRoutes() {
		if seenPattern[route.URLPath] {
			continue
		}
		seenPattern[route.URLPath] = true
		data.Constants = append(data.Constants, constView{
			Name:    claim(names, "Route"+urlConstName(route.URLPath)),
			Pattern: route.URLPath,
		})
	}

	return g.render(treeTemplate, data, "routes_tree_gen.go")
}

// TreeValue builds the TreeDir for the model.
func (g *Generator) TreeValue() TreeDir {
	return g.treeDir(g.model.Tree.Root())
}

func (g *Generator) treeDir(n *DirNode) TreeDir {
	d := TreeDir{
		Path:   JoinURL(n.URLPrefix, ""),
		Import: n.Import,
		Layout: n.Layout != nil,
	}
	for _, r := range n.Routes {
		d.Files = append(d.Files, TreeFile{
			Name:    r.RelPath[strings.LastIndex(r.RelPath, "/")+1:],
			Pattern: r.URLPath,
			Methods: r.Methods.Strings(),
		})
	}
	for _, child := range g.model.Tree.Children(n) {
		d.Dirs = append(d.Dirs, g.treeDir(child))
	}
	return d
}

func (g *Generator) render(tmpl *template.Template, data any, name string) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing %s template: %w", name, err)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, &FormatError{File: name, Source: buf.Bytes(), Err: err}
	}
	return out, nil
}
