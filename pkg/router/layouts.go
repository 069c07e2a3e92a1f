package router

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrDuplicateLayout is returned when a directory already has a layout.
var ErrDuplicateLayout = errors.New("duplicate layout")

// LayoutRegistry maps directory paths to their layout. A directory has at
// most one layout.
type LayoutRegistry struct {
	layouts map[string]*Layout
}

// NewLayoutRegistry creates an empty registry.
func NewLayoutRegistry() *LayoutRegistry {
	return &LayoutRegistry{layouts: make(map[string]*Layout)}
}

// Register records l as the layout of dirPath.
func (r *LayoutRegistry) Register(dirPath string, l *Layout) error {
	dirPath = strings.Trim(dirPath, "/")
	if existing, ok := r.layouts[dirPath]; ok {
		return fmt.Errorf("%w for %q: %s and %s", ErrDuplicateLayout, dirPath, existing.RelPath, l.RelPath)
	}
	r.layouts[dirPath] = l
	return nil
}

// Lookup returns the layout registered for dirPath.
func (r *LayoutRegistry) Lookup(dirPath string) (*Layout, bool) {
	l, ok := r.layouts[strings.Trim(dirPath, "/")]
	return l, ok
}

// Len returns the number of registered layouts.
func (r *LayoutRegistry) Len() int {
	return len(r.layouts)
}

// All returns the layouts ordered by directory path.
func (r *LayoutRegistry) All() []*Layout {
	out := make([]*Layout, 0, len(r.layouts))
	for _, l := range r.layouts {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DirPath < out[j].DirPath
	})
	return out
}

// Resolve returns the layouts that wrap routes in dirPath, outermost (root)
// first. It returns nil when no layout applies.
func (r *LayoutRegistry) Resolve(dirPath string) LayoutChain {
	var chain LayoutChain
	if l, ok := r.layouts[""]; ok {
		chain = append(chain, l)
	}

	dirPath = strings.Trim(dirPath, "/")
	if dirPath == "" {
		return chain
	}

	current := ""
	for _, part := range strings.Split(dirPath, "/") {
		if current != "" {
			current += "/"
		}
		current += part
		if l, ok := r.layouts[current]; ok {
			chain = append(chain, l)
		}
	}
	return chain
}
