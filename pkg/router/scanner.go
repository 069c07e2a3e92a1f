package router

import (
	"go/build"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Scanner lists the entries of a routes directory.
type Scanner struct {
	rootDir string
	logger  *slog.Logger
	ctxt    *build.Context
}

// NewScanner creates a scanner for rootDir. A nil logger uses slog.Default().
func NewScanner(rootDir string, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{rootDir: rootDir, logger: logger, ctxt: &build.Default}
}

// WithContext sets the build context deciding which files the go tool
// compiles. The default is build.Default.
func (s *Scanner) WithContext(ctxt *build.Context) *Scanner {
	s.ctxt = ctxt
	return s
}

// Root returns the scanned directory.
func (s *Scanner) Root() string {
	return s.rootDir
}

// Scan lists every route-relevant entry depth first. Children of a
// directory are ordered by path, and a directory is immediately followed by
// its subtree. Hidden entries, non-.go files, test files, generated files,
// mod.go and files the build context excludes are skipped. Unreadable
// directories contribute nothing.
func (s *Scanner) Scan() []Entry {
	info, err := os.Stat(s.rootDir)
	if err != nil || !info.IsDir() {
		s.logger.Debug("routes directory not readable", "dir", s.rootDir, "error", err)
		return nil
	}

	var entries []Entry
	s.walk(s.rootDir, "", &entries)
	return entries
}

func (s *Scanner) walk(dir, rel string, out *[]Entry) {
	children, err := os.ReadDir(dir)
	if err != nil {
		s.logger.Debug("skipping unreadable directory", "dir", dir, "error", err)
		return
	}

	// os.ReadDir sorts by name, which is path order within one directory.
	for _, child := range children {
		name := child.Name()
		if strings.HasPrefix(name, ".") {
			s.logger.Debug("skipping hidden entry", "path", filepath.Join(dir, name))
			continue
		}

		path := filepath.Join(dir, name)
		relPath := name
		if rel != "" {
			relPath = rel + "/" + name
		}

		if isDir(child, path) {
			*out = append(*out, Entry{Path: path, RelPath: relPath, Kind: EntryDir})
			s.walk(path, relPath, out)
			continue
		}

		if !IsRouteFile(name) {
			if strings.HasPrefix(name, "_") && strings.HasSuffix(name, ".go") {
				s.logger.Debug("skipping file ignored by the go tool", "path", path)
			}
			continue
		}
		if !s.included(dir, name) {
			continue
		}
		*out = append(*out, Entry{Path: path, RelPath: relPath, Kind: EntryFile})
	}
}

// included reports whether the go tool builds dir/name under the scanner's
// build context. Files it cannot read are kept so parsing reports them.
func (s *Scanner) included(dir, name string) bool {
	ok, err := s.ctxt.MatchFile(dir, name)
	if err != nil {
		return true
	}
	if !ok {
		s.logger.Debug("skipping file excluded by build constraints", "path", filepath.Join(dir, name))
	}
	return ok
}

// IsRouteFile reports whether a file name can hold a route or layout.
// Names the go tool ignores are never route files.
func IsRouteFile(name string) bool {
	if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
		return false
	}
	if strings.HasSuffix(name, GeneratedSuffix) {
		return false
	}
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return false
	}
	return Stem(name) != ModuleStem
}

// Stem returns a file name without its .go extension.
func Stem(name string) string {
	return strings.TrimSuffix(name, ".go")
}

func isDir(d os.DirEntry, path string) bool {
	if d.IsDir() {
		return true
	}
	if d.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
