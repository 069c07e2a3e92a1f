package router

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, m *Model, opts Options, mode Mode) string {
	t.Helper()
	out, err := NewGenerator(m, opts).Generate(mode)
	require.NoError(t, err)
	return string(out)
}

func parseGenerated(t *testing.T, src string) *ast.File {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "gen.go", src, parser.ParseComments)
	require.NoError(t, err, "generated code must parse:\n%s", src)
	return f
}

func findFunc(f *ast.File, name string) *ast.FuncDecl {
	for _, decl := range f.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && fn.Name.Name == name {
			return fn
		}
	}
	return nil
}

// callees lists the handler and layout calls in fn, in source order.
func callees(fn *ast.FuncDecl) [][]string {
	var out [][]string
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		name := exprString(call.Fun)
		if strings.HasPrefix(name, "res.") || name == "response.New" {
			return true
		}
		entry := []string{name}
		for _, arg := range call.Args {
			entry = append(entry, exprString(arg))
		}
		out = append(out, entry)
		return true
	})
	return out
}

func exprString(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.Ident:
		return v.Name
	case *ast.SelectorExpr:
		return exprString(v.X) + "." + v.Sel.Name
	case *ast.CallExpr:
		return exprString(v.Fun) + "()"
	default:
		return "?"
	}
}

func TestGeneratorHeaderAndPackage(t *testing.T) {
	code := generate(t, buildModel(t, exampleTree()), Options{}, ModeStateless)

	assert.True(t, strings.HasPrefix(code, "// Code generated by fileroute. DO NOT EDIT.\n"))
	assert.Contains(t, code, "package routes")
	assert.Contains(t, code, "func NewRouter() chi.Router")
	assert.NotContains(t, code, "//go:build")
	parseGenerated(t, code)
}

func TestGeneratorWrapperFoldsInnermostFirst(t *testing.T) {
	code := generate(t, buildModel(t, exampleTree()), Options{}, ModeStateless)
	f := parseGenerated(t, code)

	fn := findFunc(f, "wrap_users_param_id_get")
	require.NotNil(t, fn, "missing wrapper:\n%s", code)

	assert.Equal(t, [][]string{
		{"users.ParamIDGET", "r", "res", "id"},
		{"users.Layout", "r", "response.New()", "children"},
		{"Layout", "r", "response.New()", "children"},
	}, callees(fn))

	// handler, then check + take + call for each layout, the outermost
	// returned directly
	require.Len(t, fn.Body.List, 7)
	assert.IsType(t, &ast.IfStmt{}, fn.Body.List[1])
	assert.IsType(t, &ast.IfStmt{}, fn.Body.List[4])
	ret, ok := fn.Body.List[6].(*ast.ReturnStmt)
	require.True(t, ok)
	assert.Equal(t, "Layout", exprString(ret.Results[0].(*ast.CallExpr).Fun))

	assert.Contains(t, code, "if !res.IsHTML() {\n\t\treturn res\n\t}")
	assert.Contains(t, code, "children := res.TakeHTML()")
	assert.Contains(t, code, "children = res.TakeHTML()")
}

func TestGeneratorSingleLayoutWrapper(t *testing.T) {
	f := parseGenerated(t, generate(t, buildModel(t, exampleTree()), Options{}, ModeStateless))

	fn := findFunc(f, "wrap_about_index_get")
	require.NotNil(t, fn)
	assert.Equal(t, [][]string{
		{"about.GET", "r", "res"},
		{"Layout", "r", "response.New()", "children"},
	}, callees(fn))
	assert.Len(t, fn.Body.List, 4)
}

func TestGeneratorRegistrations(t *testing.T) {
	code := generate(t, buildModel(t, exampleTree()), Options{}, ModeStateless)

	assert.Contains(t, code, `r.Handle("/users/{id}", dispatch.Methods{`)
	assert.Contains(t, code, `http.MethodGet:    dispatch.HandleParam("id", wrap_users_param_id_get),`)
	assert.Contains(t, code, `http.MethodDelete: dispatch.HandleParam("id", wrap_users_param_id_delete),`)
	assert.Contains(t, code, `http.MethodPost: dispatch.Handle(wrap_users_index_post),`)

	// registration order follows scan order
	order := []string{`"/about"`, `"/"`, `"/users/{id}"`, `"/users"`}
	last := -1
	for _, p := range order {
		idx := strings.Index(code, "r.Handle("+p+",")
		require.Greater(t, idx, last, "pattern %s out of order", p)
		last = idx
	}
}

func TestGeneratorNoLayoutsUsesBareHandlers(t *testing.T) {
	m := buildModel(t, map[string]string{
		"index.go":     goFile("routes", "GET"),
		"users/id_.go": goFile("users", "ParamIDGET", "ParamIDPATCH"),
	})
	code := generate(t, m, Options{}, ModeStateless)
	parseGenerated(t, code)

	assert.NotContains(t, code, "wrap_")
	assert.NotContains(t, code, "pkg/response")
	assert.Contains(t, code, `http.MethodGet: dispatch.Handle(GET),`)
	assert.Contains(t, code, `dispatch.HandleParam("id", users.ParamIDGET)`)
	assert.Contains(t, code, `dispatch.HandleParam("id", users.ParamIDPATCH)`)
}

func TestGeneratorCoalescesMethodsPerPattern(t *testing.T) {
	m := buildModel(t, map[string]string{
		"users.go":       goFile("routes", "UsersPOST"),
		"users/index.go": goFile("users", "GET"),
	})
	code := generate(t, m, Options{}, ModeStateless)

	assert.Equal(t, 1, strings.Count(code, `r.Handle("/users",`))
	assert.Contains(t, code, "dispatch.Handle(users.GET)")
	assert.Contains(t, code, "dispatch.Handle(UsersPOST)")
}

func TestGeneratorSkipsRoutesWithoutVerbs(t *testing.T) {
	m := buildModel(t, map[string]string{
		"index.go":   goFile("routes", "GET"),
		"helpers.go": goFile("routes", "Format"),
	})
	code := generate(t, m, Options{}, ModeStateless)

	assert.Equal(t, 1, strings.Count(code, "r.Handle("))
	assert.NotContains(t, code, "/helpers")
}

func TestGeneratorEmptyModel(t *testing.T) {
	m := BuildModel(t.TempDir()+"/missing", "example.com/app/routes", nil)
	code := generate(t, m, Options{}, ModeStateless)
	parseGenerated(t, code)

	assert.Contains(t, code, "r := chi.NewRouter()\n\treturn r")
	assert.NotContains(t, code, `"net/http"`)
	assert.NotContains(t, code, "pkg/dispatch")
}

func TestGeneratorGroupsImports(t *testing.T) {
	code := generate(t, buildModel(t, exampleTree()), Options{
		StateType:   "*store.Store",
		StateImport: "example.com/app/store",
	}, ModeStateful)
	f := parseGenerated(t, code)

	var paths []string
	for _, spec := range f.Imports {
		paths = append(paths, strings.Trim(spec.Path.Value, `"`))
	}
	require.NotEmpty(t, paths)
	assert.Equal(t, "net/http", paths[0])
	for _, p := range paths[1:] {
		assert.False(t, isStdImport(p), p)
	}
	assert.Contains(t, code, "import (\n\t\"net/http\"\n\n\t")
}

func TestGeneratorGroupsDotlessModuleImports(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.go":       goFile("routes", "GET"),
		"users/index.go": goFile("users", "GET"),
	})
	m := BuildModel(root, "myapp/routes", nil)
	f := parseGenerated(t, generate(t, m, Options{}, ModeStateless))

	var paths []string
	for _, spec := range f.Imports {
		paths = append(paths, strings.Trim(spec.Path.Value, `"`))
	}
	assert.Equal(t, []string{
		"net/http",
		"github.com/go-chi/chi/v5",
		"github.com/vango-dev/fileroute/pkg/dispatch",
		"myapp/routes/users",
	}, paths)
}

func TestIsStdImport(t *testing.T) {
	assert.True(t, isStdImport("net/http"))
	assert.True(t, isStdImport("html/template"))
	assert.False(t, isStdImport("github.com/go-chi/chi/v5"))
	assert.False(t, isStdImport("example.com/app/routes/users"))
}

func TestGeneratorStatefulThreadsState(t *testing.T) {
	code := generate(t, buildModel(t, exampleTree()), Options{}, ModeStateful)
	f := parseGenerated(t, code)

	assert.Contains(t, code, "func NewRouterWithState(state State) chi.Router")
	assert.Contains(t, code, `dispatch.HandleStateParam(state, "id", wrap_users_param_id_get)`)
	assert.Contains(t, code, "dispatch.HandleState(state, wrap_index_get)")
	assert.NotContains(t, code, "type State")

	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || !strings.HasPrefix(fn.Name.Name, "wrap_") {
			continue
		}
		first := fn.Type.Params.List[0]
		assert.Equal(t, "state", first.Names[0].Name, fn.Name.Name)
		assert.Equal(t, "State", exprString(first.Type), fn.Name.Name)

		for _, call := range callees(fn) {
			assert.Equal(t, "state", call[1], "%s: %s must receive state", fn.Name.Name, call[0])
		}
	}
}

func TestGeneratorModesDifferOnlyInSignatures(t *testing.T) {
	m := buildModel(t, exampleTree())
	stateless := generate(t, m, Options{}, ModeStateless)
	stateful := generate(t, m, Options{}, ModeStateful)

	normalized := strings.NewReplacer(
		"NewRouterWithState(state State)", "NewRouter()",
		"NewRouterWithState", "NewRouter",
		"dispatch.HandleStateParam(state, ", "dispatch.HandleParam(",
		"dispatch.HandleState(state, ", "dispatch.Handle(",
		"state State, ", "",
		"(state, ", "(",
	).Replace(stateful)

	assert.Equal(t, stateless, normalized)
}

func TestGeneratorStateTypeAndBuildTags(t *testing.T) {
	opts := Options{
		StateType:   "*app.State",
		StateImport: "example.com/app/app",
		BuildTags: map[Mode]string{
			ModeStateless: "!fileroute_stateful",
			ModeStateful:  "fileroute_stateful",
		},
	}
	m := buildModel(t, exampleTree())

	stateful := generate(t, m, opts, ModeStateful)
	parseGenerated(t, stateful)
	assert.Contains(t, stateful, "//go:build fileroute_stateful\n\npackage routes")
	assert.Contains(t, stateful, "type State = *app.State")
	assert.Contains(t, stateful, `"example.com/app/app"`)

	stateless := generate(t, m, opts, ModeStateless)
	assert.Contains(t, stateless, "//go:build !fileroute_stateful\n")
	assert.NotContains(t, stateless, "type State")
	assert.NotContains(t, stateless, `"example.com/app/app"`)
}

func TestGeneratorSeparateOutputPackage(t *testing.T) {
	m := buildModel(t, exampleTree())
	code := generate(t, m, Options{Package: "web", OutputImport: "example.com/app/internal/web"}, ModeStateless)
	f := parseGenerated(t, code)

	assert.Equal(t, "web", f.Name.Name)
	assert.Contains(t, code, `routes "example.com/app/routes"`)
	assert.Contains(t, code, "dispatch.Handle(wrap_index_get)")

	fn := findFunc(f, "wrap_index_get")
	require.NotNil(t, fn)
	assert.Equal(t, [][]string{
		{"routes.GET", "r", "res"},
		{"routes.Layout", "r", "response.New()", "children"},
	}, callees(fn))
}

func TestGeneratorParamNameFallback(t *testing.T) {
	m := buildModel(t, map[string]string{
		"layout.go":          goFile("routes", "Layout"),
		"files/[file-id].go": goFile("files", "ParamFileIDGET"),
		"users/[users].go":   goFile("users", "ParamUsersGET"),
		"posts/[type].go":    goFile("posts", "ParamTypeGET"),
	})
	code := generate(t, m, Options{}, ModeStateless)
	parseGenerated(t, code)

	assert.Contains(t, code, "func wrap_files_param_file_id_get(r *http.Request, res *response.Res, param string)")
	assert.Contains(t, code, "func wrap_users_param_users_get(r *http.Request, res *response.Res, param string)")
	assert.Contains(t, code, "func wrap_posts_param_type_get(r *http.Request, res *response.Res, param string)")
	assert.Contains(t, code, `dispatch.HandleParam("file-id", wrap_files_param_file_id_get)`)
}

func TestGeneratorDeterministic(t *testing.T) {
	a := buildModel(t, exampleTree())
	b := buildModel(t, exampleTree())

	for _, mode := range []Mode{ModeStateless, ModeStateful} {
		assert.Equal(t, generate(t, a, Options{}, mode), generate(t, b, Options{}, mode), mode.String())
	}

	treeA, err := NewGenerator(a, Options{}).GenerateTree()
	require.NoError(t, err)
	treeB, err := NewGenerator(b, Options{}).GenerateTree()
	require.NoError(t, err)
	assert.Equal(t, string(treeA), string(treeB))
}

func TestGenerateTree(t *testing.T) {
	m := buildModel(t, exampleTree())
	out, err := NewGenerator(m, Options{}).GenerateTree()
	require.NoError(t, err)

	code := string(out)
	f := parseGenerated(t, code)
	assert.Equal(t, "routes", f.Name.Name)
	assert.True(t, strings.HasPrefix(code, "// Code generated by fileroute. DO NOT EDIT.\n"))
	assert.Contains(t, code, `"github.com/vango-dev/fileroute/pkg/router"`)

	for _, c := range []string{
		`RouteAbout   = "/about"`,
		`RouteIndex   = "/"`,
		`RouteUsersID = "/users/{id}"`,
		`RouteUsers   = "/users"`,
	} {
		assert.Contains(t, code, c)
	}
	assert.Contains(t, code, `{Name: "id_.go", Pattern: "/users/{id}", Methods: []string{"get", "delete"}},`)

	tree := NewGenerator(m, Options{}).TreeValue()
	assert.Equal(t, "/", tree.Path)
	assert.True(t, tree.Layout)
	require.Len(t, tree.Dirs, 2)
	assert.Equal(t, "/users", tree.Dirs[1].Path)
	assert.Equal(t, "example.com/app/routes/users", tree.Dirs[1].Import)
	assert.Equal(t, []string{"/", "/about", "/users/{id}", "/users"}, tree.Patterns())
}

func TestGenerateTreeConstantNameCollision(t *testing.T) {
	m := buildModel(t, map[string]string{
		"about_us.go":    goFile("routes", "GET"),
		"about/us.go":    goFile("about", "GET"),
		"about/index.go": goFile("about", "IndexGET"),
	})
	out, err := NewGenerator(m, Options{}).GenerateTree()
	require.NoError(t, err)
	code := string(out)

	assert.Contains(t, code, `"/about/us"`)
	assert.Contains(t, code, `"/about-us"`)
	assert.Contains(t, code, "RouteAboutUs ")
	assert.Contains(t, code, "RouteAboutUs_2 ")
}

func TestFormatError(t *testing.T) {
	err := &FormatError{File: "x_gen.go", Err: errors.New("boom")}
	assert.Equal(t, "formatting generated x_gen.go: boom", err.Error())
	assert.ErrorIs(t, err, err.Err)
}
