package library

import (
	"encoding/json"
	"strings"
)

// TagSet is a case-sensitive, duplicate-free set of tags that remembers
// insertion order. Equality ignores order.
type TagSet struct {
	values []string
	index  map[string]struct{}
}

// NewTagSet builds a set from tags, dropping blanks and duplicates.
func NewTagSet(tags ...string) TagSet {
	var s TagSet
	for _, t := range tags {
		s.Add(t)
	}
	return s
}

// Add inserts a tag. Surrounding whitespace is trimmed; empty tags are ignored.
// Reports whether the tag was new.
func (s *TagSet) Add(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[tag]; ok {
		return false
	}
	s.index[tag] = struct{}{}
	s.values = append(s.values, tag)
	return true
}

// Has reports whether tag is in the set.
func (s TagSet) Has(tag string) bool {
	_, ok := s.index[tag]
	return ok
}

// Len returns the number of tags.
func (s TagSet) Len() int { return len(s.values) }

// Values returns the tags in insertion order.
func (s TagSet) Values() []string {
	out := make([]string, len(s.values))
	copy(out, s.values)
	return out
}

// Equal reports whether both sets hold the same tags, in any order.
func (s TagSet) Equal(other TagSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, v := range s.values {
		if !other.Has(v) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as an array in insertion order.
func (s TagSet) MarshalJSON() ([]byte, error) {
	if s.values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.values)
}

// UnmarshalJSON decodes an array, deduplicating as it goes.
func (s *TagSet) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	*s = NewTagSet(tags...)
	return nil
}
