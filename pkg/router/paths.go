package router

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// IndexStem is the file stem that maps to its directory's own URL.
	IndexStem = "index"

	// LayoutStem is the reserved file stem for a directory layout.
	LayoutStem = "layout"

	// ModuleStem is the reserved module-index stem. mod.go is never a route.
	ModuleStem = "mod"

	// GeneratedSuffix marks generated files, which share the routes package.
	GeneratedSuffix = "_gen.go"
)

// Segment is the translation of one path component.
type Segment struct {
	// Ident is the identifier fragment, before sanitization.
	Ident string

	// URL is the URL fragment. "" for index files.
	URL string

	// Param is the capture name for name_ stems.
	Param string
}

// TranslateStem maps a route file stem to its URL fragment and identifier.
//
//	index      → URL "",          ident "index"
//	id_        → URL "{id}",      ident "param_id", param "id"
//	about_us   → URL "about-us",  ident "about_us"
func TranslateStem(stem string) Segment {
	if stem == IndexStem {
		return Segment{Ident: IndexStem}
	}
	if name, ok := CaptureName(stem); ok {
		return Segment{
			Ident: "param_" + name,
			URL:   "{" + name + "}",
			Param: name,
		}
	}
	return Segment{Ident: stem, URL: hyphenate(stem)}
}

// TranslateDir maps a directory name to its URL segment and identifier.
// Directory names are always literal.
func TranslateDir(name string) Segment {
	return Segment{Ident: name, URL: hyphenate(name)}
}

// CaptureName returns name for a capture stem. A capture file is the
// capture name followed by one underscore: id_.go captures {id}.
func CaptureName(stem string) (string, bool) {
	name := strings.TrimSuffix(stem, "_")
	if name == stem || name == "" || strings.HasPrefix(name, "_") || strings.HasSuffix(name, "_") {
		return "", false
	}
	return name, true
}

// BracketCapture returns name for a "[name]" stem. The go tool refuses
// such file names; they are only recognized to suggest name_.go instead.
func BracketCapture(stem string) (string, bool) {
	if len(stem) < 3 || stem[0] != '[' || stem[len(stem)-1] != ']' {
		return "", false
	}
	return stem[1 : len(stem)-1], true
}

// CaptureStem returns the file stem capturing name.
func CaptureStem(name string) string {
	return name + "_"
}

// BuildableFileName reports whether the go tool accepts name as a package
// source file. Names starting with an ASCII character other than a letter
// or digit are refused or ignored.
func BuildableFileName(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	if c >= utf8.RuneSelf {
		return true
	}
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// IsLayout reports whether stem is the reserved layout stem.
func IsLayout(stem string) bool {
	return stem == LayoutStem
}

// JoinURL appends fragment to prefix. An empty fragment collapses to the
// prefix itself, or "/" at the root.
func JoinURL(prefix, fragment string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	if fragment == "" {
		if prefix == "" {
			return "/"
		}
		return prefix
	}
	return prefix + "/" + fragment
}

func hyphenate(s string) string {
	return strings.ReplaceAll(s, "_", "-")
}

// sanitizeIdentifier converts a string into a valid Go identifier.
func sanitizeIdentifier(s string) string {
	s = strings.ReplaceAll(s, "[", "")
	s = strings.ReplaceAll(s, "]", "")

	var sb strings.Builder
	for _, r := range s {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}
	out := sb.String()
	if out == "" {
		return "r"
	}
	if unicode.IsDigit(rune(out[0])) {
		out = "r" + out
	}
	return out
}

var initialisms = map[string]string{
	"id":   "ID",
	"api":  "API",
	"url":  "URL",
	"uuid": "UUID",
	"http": "HTTP",
}

// toExportedName capitalizes s. Common initialisms are fully uppercased.
func toExportedName(s string) string {
	if up, ok := initialisms[strings.ToLower(s)]; ok {
		return up
	}
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// urlConstName builds the Route<Name> constant suffix for a URL pattern.
//
//	/                      → Index
//	/users/{id}            → UsersID
//	/about-us              → AboutUs
func urlConstName(urlPath string) string {
	trimmed := strings.Trim(urlPath, "/")
	if trimmed == "" {
		return "Index"
	}

	var sb strings.Builder
	for _, seg := range strings.Split(trimmed, "/") {
		seg = strings.TrimSuffix(strings.TrimPrefix(seg, "{"), "}")
		for _, word := range strings.FieldsFunc(seg, func(r rune) bool {
			return r == '-' || r == '_' || r == '.'
		}) {
			sb.WriteString(toExportedName(word))
		}
	}
	name := sanitizeIdentifier(sb.String())
	if name != "" && unicode.IsLower(rune(name[0])) {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return name
}

// isIdentifier reports whether s is a valid, non-keyword Go identifier.
func isIdentifier(s string) bool {
	if s == "" || goKeywords[s] {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}
