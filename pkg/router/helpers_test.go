package router

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTree creates files under a temp dir. Keys are slash paths, values
// are file contents.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

// goFile returns a source file declaring funcs with empty bodies.
func goFile(pkg string, funcs ...string) string {
	var sb strings.Builder
	sb.WriteString("package " + pkg + "\n\n")
	for _, fn := range funcs {
		sb.WriteString("func " + fn + "() {}\n\n")
	}
	return sb.String()
}

// exampleTree is the reference layout: a root layout, a users section with
// its own layout and a capture route.
func exampleTree() map[string]string {
	return map[string]string{
		"index.go":        goFile("routes", "GET"),
		"layout.go":       goFile("routes", "Layout"),
		"about/index.go":  goFile("about", "GET"),
		"users/index.go":  goFile("users", "GET", "POST"),
		"users/id_.go":    goFile("users", "ParamIDGET", "ParamIDDELETE"),
		"users/layout.go": goFile("users", "Layout"),
	}
}

func buildModel(t *testing.T, files map[string]string) *Model {
	t.Helper()
	root := writeTree(t, files)
	return BuildModel(root, "example.com/app/routes", nil)
}

func routeByPath(m *Model, relPath string) *RouteInfo {
	for _, r := range m.Routes {
		if r.RelPath == relPath {
			return r
		}
	}
	return nil
}
