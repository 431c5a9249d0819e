package models

import (
	"bytes"
	"encoding/json"
)

// MetaEntry is one looked-up meta tag. Content is nil when no matching tag
// or no content attribute was found.
type MetaEntry struct {
	Name    string
	Content *string
}

// ResultEntry is one extracted field. IsMeta selects between Text and Meta.
type ResultEntry struct {
	Name   string
	IsMeta bool
	Text   string
	Meta   []MetaEntry
}

// Result is the extraction output. It serialises to a JSON object whose keys
// follow the order of the field map that produced it.
type Result struct {
	entries []ResultEntry
}

// NewResult returns an empty Result with room for n fields.
func NewResult(n int) *Result {
	return &Result{entries: make([]ResultEntry, 0, n)}
}

// SetText stores the text value of a selector field.
func (r *Result) SetText(name, text string) {
	r.put(ResultEntry{Name: name, Text: text})
}

// SetMeta stores the values of a meta field.
func (r *Result) SetMeta(name string, meta []MetaEntry) {
	r.put(ResultEntry{Name: name, IsMeta: true, Meta: meta})
}

func (r *Result) put(e ResultEntry) {
	for i := range r.entries {
		if r.entries[i].Name == e.Name {
			r.entries[i] = e
			return
		}
	}
	r.entries = append(r.entries, e)
}

// Entries returns the fields in insertion order.
func (r *Result) Entries() []ResultEntry {
	return r.entries
}

// Text returns the value of a selector field.
func (r *Result) Text(name string) (string, bool) {
	for _, e := range r.entries {
		if e.Name == name && !e.IsMeta {
			return e.Text, true
		}
	}
	return "", false
}

// Meta returns the content of one meta tag inside a meta field. The second
// return value reports whether the tag was requested at all.
func (r *Result) Meta(field, tag string) (*string, bool) {
	for _, e := range r.entries {
		if e.Name != field || !e.IsMeta {
			continue
		}
		for _, m := range e.Meta {
			if m.Name == tag {
				return m.Content, true
			}
		}
	}
	return nil, false
}

// MarshalJSON implements json.Marshaler.
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, e.Name); err != nil {
			return nil, err
		}

		if !e.IsMeta {
			v, err := json.Marshal(e.Text)
			if err != nil {
				return nil, err
			}
			buf.Write(v)
			continue
		}

		buf.WriteByte('{')
		for j, m := range e.Meta {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, m.Name); err != nil {
				return nil, err
			}
			v, err := json.Marshal(m.Content)
			if err != nil {
				return nil, err
			}
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	return nil
}
