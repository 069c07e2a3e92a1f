package router

import (
	"path"
	"strconv"
	"strings"
)

// DirNode is one directory of the routes tree. Every directory is a Go
// package.
type DirNode struct {
	// Name is the directory name, "" for the root.
	Name string

	// RelPath is the slash-separated path from the routes root.
	RelPath string

	// URLPrefix is the URL prefix contributed by the directory path, "" at
	// the root.
	URLPrefix string

	// Ident is the identifier prefix for entries in this directory, "" at
	// the root.
	Ident string

	// Alias is the unique import alias used by generated code.
	Alias string

	// Import is the Go import path of the package.
	Import string

	// Package is the package name declared by the directory's files.
	Package string

	// Layout is the directory's layout, if any.
	Layout *Layout

	// Routes are the route files of the directory, in scan order.
	Routes []*RouteInfo

	id       int
	parent   int
	children []int
}

// IsRoot reports whether n is the routes root.
func (n *DirNode) IsRoot() bool {
	return n.id == 0
}

// Depth returns the number of path segments below the root.
func (n *DirNode) Depth() int {
	if n.RelPath == "" {
		return 0
	}
	return strings.Count(n.RelPath, "/") + 1
}

// Tree is an arena of directory nodes keyed by slash path. It hands out
// identifiers and import aliases so that no two entries collide.
type Tree struct {
	nodes   []*DirNode
	byPath  map[string]int
	idents  map[string]struct{}
	aliases map[string]struct{}
}

// reservedAliases are names generated code already uses.
var reservedAliases = map[string]struct{}{
	"chi":      {},
	"http":     {},
	"response": {},
	"dispatch": {},
	"template": {},
	"router":   {},
	"state":    {},
	"r":        {},
	"res":      {},
	"children": {},
}

// NewTree creates a tree holding only the root. importPath is the Go import
// path of the routes root.
func NewTree(importPath string) *Tree {
	t := &Tree{
		byPath:  make(map[string]int),
		idents:  make(map[string]struct{}),
		aliases: make(map[string]struct{}),
	}
	root := &DirNode{
		Import: importPath,
		parent: -1,
	}
	t.nodes = append(t.nodes, root)
	t.byPath[""] = 0
	root.Alias = t.claimAlias(path.Base(importPath))
	return t
}

// Root returns the root node.
func (t *Tree) Root() *DirNode {
	return t.nodes[0]
}

// Dir returns the node at relPath.
func (t *Tree) Dir(relPath string) (*DirNode, bool) {
	id, ok := t.byPath[relPath]
	if !ok {
		return nil, false
	}
	return t.nodes[id], true
}

// Ensure returns the node at relPath, creating it and any missing ancestors.
func (t *Tree) Ensure(relPath string) *DirNode {
	relPath = strings.Trim(relPath, "/")
	if n, ok := t.Dir(relPath); ok {
		return n
	}

	parentPath, name := "", relPath
	if i := strings.LastIndex(relPath, "/"); i >= 0 {
		parentPath, name = relPath[:i], relPath[i+1:]
	}
	parent := t.Ensure(parentPath)

	seg := TranslateDir(name)
	ident := sanitizeIdentifier(seg.Ident)
	if parent.Ident != "" {
		ident = parent.Ident + "_" + ident
	}

	n := &DirNode{
		Name:      name,
		RelPath:   relPath,
		URLPrefix: strings.TrimSuffix(JoinURL(parent.URLPrefix, seg.URL), "/"),
		Ident:     ident,
		Import:    joinImport(t.Root().Import, relPath),
		id:        len(t.nodes),
		parent:    parent.id,
	}
	n.Alias = t.claimAlias(ident)

	t.nodes = append(t.nodes, n)
	t.byPath[relPath] = n.id
	parent.children = append(parent.children, n.id)
	return n
}

// Parent returns the parent of n, or nil for the root.
func (t *Tree) Parent(n *DirNode) *DirNode {
	if n.parent < 0 {
		return nil
	}
	return t.nodes[n.parent]
}

// Children returns the subdirectories of n in creation order.
func (t *Tree) Children(n *DirNode) []*DirNode {
	out := make([]*DirNode, len(n.children))
	for i, id := range n.children {
		out[i] = t.nodes[id]
	}
	return out
}

// Len returns the number of directories, including the root.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// ClaimIdent reserves an identifier derived from base. A base already
// claimed gets a numeric suffix: base_2, base_3 and so on.
func (t *Tree) ClaimIdent(base string) string {
	return claim(t.idents, sanitizeIdentifier(base))
}

func (t *Tree) claimAlias(base string) string {
	alias := sanitizeIdentifier(base)
	if _, reserved := reservedAliases[alias]; reserved || goKeywords[alias] {
		alias += "_pkg"
	}
	return claim(t.aliases, alias)
}

func claim(used map[string]struct{}, base string) string {
	name := base
	for i := 2; ; i++ {
		if _, taken := used[name]; !taken {
			break
		}
		name = base + "_" + strconv.Itoa(i)
	}
	used[name] = struct{}{}
	return name
}

func joinImport(base, rel string) string {
	if rel == "" {
		return base
	}
	if base == "" {
		return rel
	}
	return base + "/" + rel
}
