package main

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/fileroute/internal/config"
	"github.com/vango-dev/fileroute/internal/errors"
	"github.com/vango-dev/fileroute/pkg/router"
)

func newProject(t *testing.T) (string, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/shop\n\ngo 1.23\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "app", "routes"), 0755))
	return dir, config.Default(dir)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var coded *errors.Error
	require.True(t, stderrors.As(err, &coded), "expected *errors.Error, got %T: %v", err, err)
	return coded.Code
}

func scaffoldShop(t *testing.T, cfg *config.Config) {
	t.Helper()
	_, err := createLayout(cfg, "", false)
	require.NoError(t, err)
	for _, r := range []struct {
		path    string
		methods []string
	}{
		{"index", []string{"get"}},
		{"about_us", []string{"get"}},
		{"users/index", []string{"get", "post"}},
		{"users/id_", []string{"get", "put", "delete"}},
	} {
		_, err := createRoute(cfg, r.path, r.methods, false)
		require.NoError(t, err, r.path)
	}
}

func TestParseRoutePath(t *testing.T) {
	tests := []struct {
		arg  string
		dir  string
		stem string
		code string
	}{
		{"", "", "index", ""},
		{"/about_us.go", "", "about_us", ""},
		{"users/id_", "users", "id_", ""},
		{"shop/cart/items", "shop/cart", "items", ""},
		{"[team]/index", "", "", "E502"},
		{"users/layout", "", "", "E502"},
		{"mod", "", "", "E502"},
		{"users/.hidden", "", "", "E502"},
		{"users/[id", "", "", "E502"},
		{"users/[a][b]", "", "", "E502"},
		{"users/[id]", "", "", "E502"},
		{"users/_draft", "", "", "E502"},
		{"users/a[b]", "", "", "E502"},
		{"users/x_test", "", "", "E502"},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			dir, stem, err := parseRoutePath(tt.arg)
			if tt.code != "" {
				require.Error(t, err)
				assert.Equal(t, tt.code, codeOf(t, err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.dir, dir)
			assert.Equal(t, tt.stem, stem)
		})
	}
}

func TestHandlerName(t *testing.T) {
	name, err := handlerName("index", router.MethodGet, map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, "GET", name)

	name, err = handlerName("index", router.MethodGet, map[string]string{"GET": "id_.go"})
	require.NoError(t, err)
	assert.Equal(t, "IndexGET", name)

	name, err = handlerName("id_", router.MethodPut, map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, "ParamIDPUT", name)

	name, err = handlerName("x", router.MethodGet, map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, "GET", name)

	_, err = handlerName("x", router.MethodGet, map[string]string{"GET": "index.go"})
	require.Error(t, err)
	assert.Equal(t, "E502", codeOf(t, err))
}

func TestCreateRoute(t *testing.T) {
	_, cfg := newProject(t)

	path, err := createRoute(cfg, "users/id_", []string{"GET", "delete"}, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.RoutesPath(), "users", "id_.go"), path)

	exports, err := router.NewMethodDetector().Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, "users", exports.Package)
	assert.Equal(t, []router.Method{router.MethodGet, router.MethodDelete}, exports.Methods.Methods())
	assert.Equal(t, "ParamIDGET", exports.Handlers[router.MethodGet])

	src := string(readFile(t, path))
	assert.Contains(t, src, "id string")
	assert.Contains(t, src, `"html/template"`)
	assert.Contains(t, src, "// ParamIDDELETE handles DELETE /users/{id}.")

	_, err = createRoute(cfg, "users/id_", []string{"get"}, false)
	require.Error(t, err)
	assert.Equal(t, "E501", codeOf(t, err))

	_, err = createRoute(cfg, "users/[id]", []string{"get"}, false)
	require.Error(t, err)
	var coded *errors.Error
	require.True(t, stderrors.As(err, &coded))
	assert.Contains(t, coded.Suggestion, "id_")

	_, err = createRoute(cfg, "users/list", []string{"options"}, false)
	require.Error(t, err)
	assert.Equal(t, "E503", codeOf(t, err))
}

func TestCreateRouteStateful(t *testing.T) {
	_, cfg := newProject(t)
	cfg.State.Type = "*store.DB"
	cfg.State.Import = "example.com/shop/store"

	path, err := createRoute(cfg, "about", []string{"get"}, true)
	require.NoError(t, err)

	src := string(readFile(t, path))
	assert.Contains(t, src, `"example.com/shop/store"`)
	assert.Contains(t, src, "func AboutGET(state *store.DB, r *http.Request, res *response.Res) *response.Res")
	assert.NotContains(t, src, `"html/template"`)
}

func TestCreateRouteKeepsPackageName(t *testing.T) {
	_, cfg := newProject(t)
	blog := filepath.Join(cfg.RoutesPath(), "blog-posts")
	require.NoError(t, os.MkdirAll(blog, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(blog, "helpers.go"), []byte("package posts\n"), 0644))

	path, err := createRoute(cfg, "blog-posts/slug_", []string{"get"}, false)
	require.NoError(t, err)
	assert.Contains(t, string(readFile(t, path)), "package posts")

	path, err = createRoute(cfg, "my-shop/index", []string{"get"}, false)
	require.NoError(t, err)
	assert.Contains(t, string(readFile(t, path)), "package my_shop")
}

func TestCreateLayout(t *testing.T) {
	_, cfg := newProject(t)

	path, err := createLayout(cfg, "admin", false)
	require.NoError(t, err)

	exports, err := router.NewMethodDetector().Inspect(path)
	require.NoError(t, err)
	assert.True(t, exports.HasLayout)
	assert.Equal(t, "admin", exports.Package)
	assert.Contains(t, string(readFile(t, path)), "// Layout wraps every page under /admin.")

	_, err = createLayout(cfg, "admin", false)
	require.Error(t, err)
	assert.Equal(t, "E501", codeOf(t, err))
}

func TestScaffoldedProjectValidates(t *testing.T) {
	dir, cfg := newProject(t)
	scaffoldShop(t, cfg)

	out, err := run(t, "--dir", dir, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "4 routes, 1 layouts: no problems found")
}

func TestGenCommand(t *testing.T) {
	dir, cfg := newProject(t)
	scaffoldShop(t, cfg)

	out, err := run(t, "--dir", dir, "gen")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote app/routes/routes_stateless_gen.go")
	assert.Contains(t, out, "Wrote app/routes/routes_stateful_gen.go")
	assert.Contains(t, out, "4 routes, 1 layouts, 7 wrappers")

	out, err = run(t, "--dir", dir, "gen")
	require.NoError(t, err)
	assert.Contains(t, out, "Unchanged app/routes/routes_tree_gen.go")

	out, err = run(t, "--dir", dir, "gen", "--modes", "stateless")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed app/routes/routes_stateful_gen.go")
}

func TestGenCommandRejectsUnknownMode(t *testing.T) {
	dir, _ := newProject(t)

	_, err := run(t, "--dir", dir, "gen", "--modes", "streaming")
	require.Error(t, err)
	assert.Equal(t, "E103", codeOf(t, err))
}

func TestCheckCommandFails(t *testing.T) {
	dir, cfg := newProject(t)
	_, err := createRoute(cfg, "users", []string{"get"}, false)
	require.NoError(t, err)
	_, err = createRoute(cfg, "users/index", []string{"get"}, false)
	require.NoError(t, err)

	_, err = run(t, "--dir", dir, "check")
	require.Error(t, err)
	assert.Equal(t, "E302", codeOf(t, err))
}

func TestRoutesCommand(t *testing.T) {
	dir, cfg := newProject(t)
	scaffoldShop(t, cfg)

	out, err := run(t, "--dir", dir, "routes")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Regexp(t, `^PATTERN\s+METHODS\s+LAYOUTS\s+FILE$`, lines[0])
	assert.Regexp(t, `^/users/\{id\}\s+GET,PUT,DELETE\s+layout\.go\s+users/\[id\]\.go$`, lines[3])

	out, err = run(t, "--dir", dir, "routes", "--json")
	require.NoError(t, err)
	var rows []routeRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 4)
	assert.Equal(t, "/about-us", rows[0].Pattern)
	assert.Equal(t, "/users", rows[3].Pattern)
	assert.Equal(t, map[string]string{"GET": "GET", "POST": "POST"}, rows[3].Handlers)
}

func TestRoutesMatch(t *testing.T) {
	dir, cfg := newProject(t)
	scaffoldShop(t, cfg)

	out, err := run(t, "--dir", dir, "routes", "--match", "/users/a%20b", "-X", "delete")
	require.NoError(t, err)
	assert.Contains(t, out, "DELETE /users/a%20b → /users/{id}")
	assert.Contains(t, out, "handler: ParamIDDELETE")
	assert.Contains(t, out, "param:   id=a b")
	assert.Contains(t, out, "layouts: layout.go")

	_, err = run(t, "--dir", dir, "routes", "--match", "/about-us", "-X", "POST")
	require.Error(t, err)

	_, err = run(t, "--dir", dir, "routes", "--match", "/nowhere")
	require.Error(t, err)
}

func TestMatchRoute(t *testing.T) {
	_, cfg := newProject(t)
	scaffoldShop(t, cfg)
	model := router.BuildModel(cfg.RoutesPath(), "example.com/shop/app/routes", nil)

	res := matchRoute(model, "HEAD", "/users")
	assert.Equal(t, 200, res.Status)
	assert.Equal(t, router.MethodGet, res.Method)
	assert.Equal(t, "users/index.go", res.Route.RelPath)

	res = matchRoute(model, "PATCH", "/users/7")
	assert.Equal(t, 405, res.Status)
	assert.Equal(t, "DELETE, GET, HEAD, PUT", res.Allow)
	assert.Nil(t, res.Route)

	res = matchRoute(model, "GET", "/users/new/extra")
	assert.Equal(t, 404, res.Status)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}
