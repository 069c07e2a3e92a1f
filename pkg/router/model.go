package router

import (
	"errors"
	"go/scanner"
	"log/slog"
	"path"
	"strings"
)

// Model is the routing model of one generation pass.
type Model struct {
	// Root is the routes directory.
	Root string

	// Routes are every route file in scan order, including files with no
	// verbs.
	Routes []*RouteInfo

	Layouts *LayoutRegistry
	Tree    *Tree

	// Problems are issues found while building. The validator decides
	// which of them are fatal.
	Problems []ValidationError

	files []sourceFile
}

type sourceFile struct {
	relPath string
	dir     *DirNode
	funcs   []string
}

// ActiveRoutes returns the routes that define at least one verb.
func (m *Model) ActiveRoutes() []*RouteInfo {
	var out []*RouteInfo
	for _, r := range m.Routes {
		if !r.Methods.IsEmpty() {
			out = append(out, r)
		}
	}
	return out
}

// Chain resolves the layout chain for r.
func (m *Model) Chain(r *RouteInfo) LayoutChain {
	return m.Layouts.Resolve(r.DirPath)
}

// ModelBuilder classifies scanned entries into a Model.
type ModelBuilder struct {
	root       string
	importPath string
	logger     *slog.Logger
	detector   *MethodDetector
}

// NewModelBuilder creates a builder for the routes directory root whose Go
// import path is importPath. A nil logger uses slog.Default().
func NewModelBuilder(root, importPath string, logger *slog.Logger) *ModelBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModelBuilder{
		root:       root,
		importPath: importPath,
		logger:     logger,
		detector:   NewMethodDetector(),
	}
}

// Build classifies entries, which must be in scan order.
func (b *ModelBuilder) Build(entries []Entry) *Model {
	m := &Model{
		Root:    b.root,
		Layouts: NewLayoutRegistry(),
		Tree:    NewTree(b.importPath),
	}

	for _, e := range entries {
		if e.IsDir() {
			m.Tree.Ensure(e.RelPath)
			continue
		}
		b.addFile(m, e)
	}
	return m
}

func (b *ModelBuilder) addFile(m *Model, e Entry) {
	dirPath := path.Dir(e.RelPath)
	if dirPath == "." {
		dirPath = ""
	}
	dir := m.Tree.Ensure(dirPath)
	name := path.Base(e.RelPath)
	stem := Stem(name)

	if !BuildableFileName(name) {
		details := "rename it to start with a letter or digit"
		if capture, ok := BracketCapture(stem); ok {
			details = "capture files are spelled " + CaptureStem(capture) + ".go"
		}
		m.Problems = append(m.Problems, ValidationError{
			Type:    ErrorInvalidFileName,
			Message: "The go tool refuses the file name " + name,
			Path:    JoinURL(dir.URLPrefix, ""),
			Files:   []string{e.RelPath},
			Details: details,
		})
		return
	}

	exports, err := b.detector.Inspect(e.Path)
	if err != nil {
		b.logger.Warn("route file does not parse, no handlers detected", "file", e.RelPath, "error", err)
		problem := ValidationError{
			Type:    ErrorParseFailure,
			Message: "Route file does not parse",
			Files:   []string{e.RelPath},
			Details: err.Error(),
		}
		var list scanner.ErrorList
		if errors.As(err, &list) && len(list) > 0 {
			problem.Line = list[0].Pos.Line
			problem.Column = list[0].Pos.Column
		}
		m.Problems = append(m.Problems, problem)
		exports = &FileExports{Handlers: make(map[Method]string)}
	}
	if dir.Package == "" {
		dir.Package = exports.Package
	}
	m.files = append(m.files, sourceFile{relPath: e.RelPath, dir: dir, funcs: exports.Funcs})

	if IsLayout(stem) {
		b.addLayout(m, dir, e, exports, err == nil)
		return
	}

	seg := TranslateStem(stem)
	base := sanitizeIdentifier(seg.Ident)
	if dir.Ident != "" {
		base = dir.Ident + "_" + base
	}

	route := &RouteInfo{
		URLPath:    JoinURL(dir.URLPrefix, seg.URL),
		Identifier: m.Tree.ClaimIdent(base),
		DirPath:    dir.RelPath,
		Param:      seg.Param,
		Methods:    exports.Methods,
		Handlers:   exports.Handlers,
		FilePath:   e.Path,
		RelPath:    e.RelPath,
		Dir:        dir,
	}
	m.Routes = append(m.Routes, route)
	dir.Routes = append(dir.Routes, route)

	for _, verb := range AllMethods {
		names, ok := exports.Ambiguous[verb]
		if !ok {
			continue
		}
		m.Problems = append(m.Problems, ValidationError{
			Type:    ErrorHandlerAmbiguity,
			Message: "Ambiguous handler exports in " + e.RelPath,
			Path:    route.URLPath,
			Files:   []string{e.RelPath},
			Details: verb.HTTP() + " is claimed by " + strings.Join(names, "() and ") + "()",
		})
	}

	b.logger.Debug("route",
		"file", e.RelPath,
		"pattern", route.URLPath,
		"methods", route.Methods.String(),
	)
}

func (b *ModelBuilder) addLayout(m *Model, dir *DirNode, e Entry, exports *FileExports, parsed bool) {
	if !exports.HasLayout {
		if parsed {
			m.Problems = append(m.Problems, ValidationError{
				Type:    ErrorMissingLayoutFunc,
				Message: "Layout file does not define a Layout function",
				Path:    JoinURL(dir.URLPrefix, ""),
				Files:   []string{e.RelPath},
			})
		}
		return
	}

	base := LayoutStem
	if dir.Ident != "" {
		base = dir.Ident + "_" + LayoutStem
	}
	l := &Layout{
		Identifier: m.Tree.ClaimIdent(base),
		DirPath:    dir.RelPath,
		Func:       LayoutFunc,
		FilePath:   e.Path,
		RelPath:    e.RelPath,
		Dir:        dir,
	}

	if err := m.Layouts.Register(dir.RelPath, l); err != nil {
		if errors.Is(err, ErrDuplicateLayout) {
			existing, _ := m.Layouts.Lookup(dir.RelPath)
			m.Problems = append(m.Problems, ValidationError{
				Type:    ErrorDuplicateLayout,
				Message: "Directory has more than one layout",
				Path:    JoinURL(dir.URLPrefix, ""),
				Files:   []string{existing.RelPath, e.RelPath},
				Details: err.Error(),
			})
		}
		return
	}
	dir.Layout = l

	b.logger.Debug("layout", "file", e.RelPath, "dir", dir.RelPath)
}

// BuildModel scans root and classifies its entries.
func BuildModel(root, importPath string, logger *slog.Logger) *Model {
	entries := NewScanner(root, logger).Scan()
	return NewModelBuilder(root, importPath, logger).Build(entries)
}
