package library

import (
	"fmt"
	"io"
	"os"
)

// Handle is a session-scoped binding to a readable file.
//
// The zero value is an absent handle. Handles are never serialized; after an
// index is loaded every handle is absent until the entry is relinked.
type Handle struct {
	path string
	live bool
}

// NewHandle returns a live handle for an absolute file path.
func NewHandle(absPath string) Handle {
	return Handle{path: absPath, live: true}
}

// Live reports whether the handle is bound in this session.
func (h Handle) Live() bool { return h.live }

// Path returns the bound file path and whether the handle is live.
func (h Handle) Path() (string, bool) {
	return h.path, h.live
}

// Open opens the bound file for reading.
// Returns ErrHandleMissing if the handle is absent.
func (h Handle) Open() (io.ReadCloser, error) {
	if !h.live {
		return nil, ErrHandleMissing
	}
	f, err := os.Open(h.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", h.path, err)
	}
	return f, nil
}

// ReadAll reads the whole bound file.
func (h Handle) ReadAll() ([]byte, error) {
	rc, err := h.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}
