package relink

import (
	"path"
	"strings"

	"github.com/vmunix/reelshelf/internal/library"
)

// Match says how a stored path was bound.
type Match int

const (
	Unresolved Match = iota
	Exact
	Fallback
)

func (m Match) String() string {
	switch m {
	case Exact:
		return "exact"
	case Fallback:
		return "fallback"
	default:
		return "unresolved"
	}
}

// Lookup maps relative paths of a fresh grant to live handles.
// It is built once per relink and only read afterwards.
type Lookup struct {
	handles map[string]library.Handle
	keys    []string // batch order, used by the suffix fallback
}

// NewLookup indexes entries by relative path. When a path repeats, the
// first entry wins.
func NewLookup(entries []library.FileEntry) *Lookup {
	l := &Lookup{handles: make(map[string]library.Handle, len(entries))}
	for _, e := range entries {
		if _, dup := l.handles[e.RelativePath]; dup {
			continue
		}
		l.handles[e.RelativePath] = e.Handle
		l.keys = append(l.keys, e.RelativePath)
	}
	return l
}

// Len returns the number of distinct paths.
func (l *Lookup) Len() int { return len(l.keys) }

// Find binds a stored relative path: an identical path first, otherwise the
// first path in batch order that ends with the stored file name.
func (l *Lookup) Find(relativePath string) (library.Handle, string, Match) {
	if h, ok := l.handles[relativePath]; ok {
		return h, relativePath, Exact
	}

	name := path.Base(relativePath)
	if name == "" || name == "." || name == "/" {
		return library.Handle{}, "", Unresolved
	}
	for _, key := range l.keys {
		if strings.HasSuffix(key, name) {
			return l.handles[key], key, Fallback
		}
	}
	return library.Handle{}, "", Unresolved
}
