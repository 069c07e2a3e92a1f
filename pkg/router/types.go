package router

import "strings"

// Method is an HTTP verb from the fixed route vocabulary.
type Method int

// Methods in canonical order.
const (
	MethodGet Method = iota
	MethodPost
	MethodPut
	MethodDelete
	MethodPatch
)

// AllMethods lists the vocabulary in canonical order.
var AllMethods = []Method{MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch}

var methodNames = [...]string{"get", "post", "put", "delete", "patch"}

// String returns the lowercase verb.
func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return "unknown"
	}
	return methodNames[m]
}

// HTTP returns the uppercase verb, which is also its handler function name.
func (m Method) HTTP() string {
	return strings.ToUpper(m.String())
}

// Const returns the net/http constant naming the verb.
func (m Method) Const() string {
	return "http.Method" + toExportedName(m.String())
}

// ParseMethod parses a verb case-insensitively.
func ParseMethod(s string) (Method, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range methodNames {
		if name == s {
			return Method(i), true
		}
	}
	return 0, false
}

// MethodSet is a set of methods. Iteration is always canonical.
type MethodSet uint8

// NewMethodSet returns a set containing ms.
func NewMethodSet(ms ...Method) MethodSet {
	var s MethodSet
	for _, m := range ms {
		s = s.Add(m)
	}
	return s
}

// Add returns s with m added.
func (s MethodSet) Add(m Method) MethodSet {
	return s | 1<<uint(m)
}

// Has reports whether m is in s.
func (s MethodSet) Has(m Method) bool {
	return s&(1<<uint(m)) != 0
}

// Len returns the number of methods.
func (s MethodSet) Len() int {
	n := 0
	for _, m := range AllMethods {
		if s.Has(m) {
			n++
		}
	}
	return n
}

// IsEmpty reports whether s has no methods.
func (s MethodSet) IsEmpty() bool {
	return s == 0
}

// Methods returns the members in canonical order.
func (s MethodSet) Methods() []Method {
	out := make([]Method, 0, len(AllMethods))
	for _, m := range AllMethods {
		if s.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

// Strings returns the lowercase member names in canonical order.
func (s MethodSet) Strings() []string {
	ms := s.Methods()
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.String()
	}
	return out
}

func (s MethodSet) String() string {
	return strings.Join(s.Strings(), ",")
}

// EntryKind distinguishes scanned directories from files.
type EntryKind int

const (
	EntryFile EntryKind = iota
	EntryDir
)

// Entry is one item found by the scanner.
type Entry struct {
	// Path is the absolute path.
	Path string

	// RelPath is the slash-separated path relative to the routes root.
	RelPath string

	Kind EntryKind
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Kind == EntryDir
}

// RouteInfo describes one route file. It is never modified after the model
// is built.
type RouteInfo struct {
	// URLPath is the chi pattern, e.g. "/users/{id}".
	URLPath string

	// Identifier is the collision-free route name, e.g. "users_param_id".
	Identifier string

	// DirPath is the slash-joined directory containing the file. "" is the root.
	DirPath string

	// Param is the capture name, if the file is a name_ capture file.
	Param string

	// Methods are the verbs the file defines.
	Methods MethodSet

	// Handlers maps each verb to the function implementing it.
	Handlers map[Method]string

	// FilePath is the source file path.
	FilePath string

	// RelPath is the slash-separated source path relative to the routes root.
	RelPath string

	// Dir is the package the file belongs to.
	Dir *DirNode
}

// Handler returns the function name for m, or "".
func (r *RouteInfo) Handler(m Method) string {
	return r.Handlers[m]
}

// Layout is a registered layout.
type Layout struct {
	// Identifier is the layout name, e.g. "layout" or "users_layout".
	Identifier string

	// DirPath is the directory the layout applies to.
	DirPath string

	// Func is the layout function name.
	Func string

	FilePath string
	RelPath  string
	Dir      *DirNode
}

// LayoutChain lists the layouts that apply to a route, outermost first.
// A nil chain means no wrapping.
type LayoutChain []*Layout

// Mode selects the emitted handler signatures.
type Mode int

const (
	// ModeStateless emits handlers without application state.
	ModeStateless Mode = iota
	// ModeStateful threads a State value into every handler and layout.
	ModeStateful
)

func (m Mode) String() string {
	if m == ModeStateful {
		return "stateful"
	}
	return "stateless"
}

// ParseMode parses "stateless" or "stateful".
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(s) {
	case "stateless":
		return ModeStateless, true
	case "stateful":
		return ModeStateful, true
	}
	return 0, false
}

// TreeDir mirrors one routes directory in generated code.
type TreeDir struct {
	// Path is the URL prefix of the directory, "/" at the root.
	Path string

	// Import is the Go import path of the directory's package.
	Import string

	// Layout reports whether the directory has a layout.
	Layout bool

	Files []TreeFile
	Dirs  []TreeDir
}

// TreeFile is one route file in a TreeDir.
type TreeFile struct {
	// Name is the file name, e.g. "id_.go".
	Name string

	// Pattern is the URL pattern.
	Pattern string

	// Methods are the lowercase verbs the file defines.
	Methods []string
}

// Walk calls fn for d and every directory below it, depth first.
func (d TreeDir) Walk(fn func(TreeDir)) {
	fn(d)
	for _, sub := range d.Dirs {
		sub.Walk(fn)
	}
}

// Patterns returns every URL pattern in the tree, in tree order.
func (d TreeDir) Patterns() []string {
	var out []string
	d.Walk(func(dir TreeDir) {
		for _, f := range dir.Files {
			if len(f.Methods) > 0 {
				out = append(out, f.Pattern)
			}
		}
	})
	return out
}
