package router

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"unicode"
)

// LayoutFunc is the function a layout file must define.
const LayoutFunc = "Layout"

// FileExports is what the method detector found in one source file.
type FileExports struct {
	// Package is the declared package name.
	Package string

	// Methods are the verbs with exactly one handler.
	Methods MethodSet

	// Handlers maps each verb to its handler function.
	Handlers map[Method]string

	// Ambiguous lists verbs claimed by more than one function, with the
	// competing names.
	Ambiguous map[Method][]string

	// Funcs lists every exported top-level function, in source order.
	Funcs []string

	// HasLayout reports whether a Layout function is defined.
	HasLayout bool
}

// Verbs returns the detected methods in canonical order.
func (e *FileExports) Verbs() []Method {
	return e.Methods.Methods()
}

// MethodDetector inspects route files for handler functions.
type MethodDetector struct {
	fset *token.FileSet
}

// NewMethodDetector creates a detector.
func NewMethodDetector() *MethodDetector {
	return &MethodDetector{fset: token.NewFileSet()}
}

// Inspect parses the file at path and reports its handlers.
func (d *MethodDetector) Inspect(path string) (*FileExports, error) {
	f, err := parser.ParseFile(d.fset, path, nil, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return inspectFile(f), nil
}

// InspectSource is Inspect for in-memory source.
func (d *MethodDetector) InspectSource(filename string, src []byte) (*FileExports, error) {
	f, err := parser.ParseFile(d.fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	return inspectFile(f), nil
}

// DetectMethods returns the verbs src defines, in canonical order. Source
// that does not parse defines no verbs.
func DetectMethods(src []byte) []Method {
	exports, err := NewMethodDetector().InspectSource("route.go", src)
	if err != nil {
		return nil
	}
	return exports.Verbs()
}

func inspectFile(f *ast.File) *FileExports {
	exports := &FileExports{
		Package:  f.Name.Name,
		Handlers: make(map[Method]string),
	}
	claims := make(map[Method][]string)

	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Name == nil || !fn.Name.IsExported() {
			continue
		}
		if fn.Recv != nil || fn.Type.TypeParams != nil {
			continue
		}

		name := fn.Name.Name
		exports.Funcs = append(exports.Funcs, name)

		if name == LayoutFunc {
			exports.HasLayout = true
			continue
		}
		if m, ok := handlerMethod(name); ok {
			claims[m] = append(claims[m], name)
		}
	}

	for _, m := range AllMethods {
		names := claims[m]
		switch {
		case len(names) == 1:
			exports.Methods = exports.Methods.Add(m)
			exports.Handlers[m] = names[0]
		case len(names) > 1:
			if exports.Ambiguous == nil {
				exports.Ambiguous = make(map[Method][]string)
			}
			exports.Ambiguous[m] = names
			// The bare verb wins so generation can continue when
			// validation is relaxed.
			exports.Methods = exports.Methods.Add(m)
			exports.Handlers[m] = preferBare(m, names)
		}
	}

	return exports
}

// handlerMethod matches GET or a prefixed form such as UsersGET. The prefix
// must end in a lowercase letter or digit, optionally followed by one
// initialism (UserIDGET), so that names like TARGET do not match.
func handlerMethod(name string) (Method, bool) {
	for _, m := range AllMethods {
		verb := m.HTTP()
		if name == verb {
			return m, true
		}
		prefix, ok := strings.CutSuffix(name, verb)
		if ok && prefix != "" && validPrefix(prefix) {
			return m, true
		}
	}
	return 0, false
}

// PrefixedHandler returns the prefixed handler name for verb m in the file
// with the given stem, e.g. ParamIDGET for id_.go. It reports false when the
// stem yields no prefix the detector would accept.
func PrefixedHandler(stem string, m Method) (string, bool) {
	prefix := urlConstName("/" + TranslateStem(stem).Ident)
	if prefix == "" || !validPrefix(prefix) {
		return "", false
	}
	return prefix + m.HTTP(), true
}

func validPrefix(prefix string) bool {
	for _, up := range []string{"UUID", "HTTP", "API", "URL", "ID"} {
		if rest, ok := strings.CutSuffix(prefix, up); ok && rest != "" {
			prefix = rest
			break
		}
	}
	last := rune(prefix[len(prefix)-1])
	return unicode.IsLower(last) || unicode.IsDigit(last)
}

func preferBare(m Method, names []string) string {
	for _, n := range names {
		if n == m.HTTP() {
			return n
		}
	}
	return names[0]
}
