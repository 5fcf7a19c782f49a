// Package nfo reads and writes Kodi-style .nfo metadata sidecars.
package nfo

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/vmunix/reelshelf/internal/library"
)

var (
	// ErrEmptyDocument is returned for a sidecar with no root element.
	ErrEmptyDocument = errors.New("empty nfo document")

	// ErrUnsupportedCharset is returned when the XML declaration names an
	// encoding with no known decoder.
	ErrUnsupportedCharset = errors.New("unsupported nfo charset")
)

// Document is the subset of a metadata sidecar this system reads.
// Empty fields mean "not present".
type Document struct {
	Title string
	Plot  string
	Tags  []string
}

// field captures any direct child of the root element in document order.
type field struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type root struct {
	Fields []field `xml:",any"`
}

// Parse reads a sidecar document. Any root element name is accepted.
// "outline" stands in for "plot" when the latter is absent; "tag" and
// "genre" elements both feed the tag list.
func Parse(r io.Reader) (Document, error) {
	var doc root
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, ErrEmptyDocument
		}
		return Document{}, fmt.Errorf("parse nfo: %w", err)
	}

	var d Document
	var outline string
	for _, f := range doc.Fields {
		v := strings.TrimSpace(f.Value)
		if v == "" {
			continue
		}
		switch strings.ToLower(f.XMLName.Local) {
		case "title":
			if d.Title == "" {
				d.Title = v
			}
		case "plot":
			if d.Plot == "" {
				d.Plot = v
			}
		case "outline":
			if outline == "" {
				outline = v
			}
		case "tag", "genre":
			d.Tags = append(d.Tags, v)
		}
	}
	if d.Plot == "" {
		d.Plot = outline
	}
	return d, nil
}

// charsetReader decodes sidecars declaring a non-UTF-8 encoding such as
// ISO-8859-1 or windows-1252.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%q: %w", label, ErrUnsupportedCharset)
	}
	return enc.NewDecoder().Reader(input), nil
}

// ParseFile parses the sidecar at path.
func ParseFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// ParseHandle parses the sidecar behind a live handle.
func ParseHandle(h library.Handle) (Document, error) {
	rc, err := h.Open()
	if err != nil {
		return Document{}, err
	}
	defer func() { _ = rc.Close() }()
	return Parse(rc)
}

// Apply merges d over defaults field by field. A present field replaces
// the default whole; tags are never merged with the default set.
func (d Document) Apply(defaults library.Metadata) library.Metadata {
	out := defaults
	if d.Title != "" {
		out.Title = d.Title
	}
	if d.Plot != "" {
		out.Plot = d.Plot
	}
	if len(d.Tags) > 0 {
		out.Tags = library.NewTagSet(d.Tags...)
	}
	return out
}

type movie struct {
	XMLName xml.Name `xml:"movie"`
	Title   string   `xml:"title"`
	Plot    string   `xml:"plot"`
	Tags    []string `xml:"tag,omitempty"`
}

const header = `<?xml version="1.0" encoding="UTF-8" standalone="yes" ?>` + "\n"

// Encode renders metadata as a minimal sidecar with one tag element per
// tag in insertion order.
func Encode(m library.Metadata) ([]byte, error) {
	doc := movie{
		Title: m.Title,
		Plot:  m.Plot,
		Tags:  m.Tags.Values(),
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode nfo: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
