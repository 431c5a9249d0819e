package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// MetaFieldName is the reserved field name whose value lists meta tag
// names/properties instead of a CSS selector.
const MetaFieldName = "meta"

// SpecKind tells how a field is resolved against the document.
type SpecKind int

const (
	// SpecSelector resolves a field through a single CSS selector.
	SpecSelector SpecKind = iota

	// SpecMeta resolves a list of <meta> tags by name or property.
	SpecMeta
)

// FieldSpec is the selector specification of one field. Exactly one of
// Selector or MetaNames is meaningful, depending on Kind.
type FieldSpec struct {
	Kind      SpecKind
	Selector  string
	MetaNames []string
}

// Selector builds a CSS selector spec.
func Selector(sel string) FieldSpec {
	return FieldSpec{Kind: SpecSelector, Selector: sel}
}

// MetaNames builds a meta-tag lookup spec.
func MetaNames(names ...string) FieldSpec {
	return FieldSpec{Kind: SpecMeta, MetaNames: names}
}

// Field is one named entry of a FieldMap.
type Field struct {
	Name string
	Spec FieldSpec
}

// FieldMap is the caller's field map in the order it was supplied.
// Names are unique; a repeated name keeps its first position and its last value.
type FieldMap []Field

// Set adds or replaces the spec for name.
func (m *FieldMap) Set(name string, spec FieldSpec) {
	for i := range *m {
		if (*m)[i].Name == name {
			(*m)[i].Spec = spec
			return
		}
	}
	*m = append(*m, Field{Name: name, Spec: spec})
}

// ParseFieldMap decodes the JSON-encoded field map received from a client.
func ParseFieldMap(raw string) (FieldMap, error) {
	var m FieldMap
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// UnmarshalJSON decodes a JSON object while keeping key order. The kind of
// each spec is decided here from the field name: "meta" must hold an array
// of strings, every other name a selector string; null is neither. A JSON
// null in place of the whole map decodes to an empty map.
func (m *FieldMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*m = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("fields must be a JSON object")
	}

	var out FieldMap
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}

		spec, err := decodeSpec(name, raw)
		if err != nil {
			return err
		}
		out.Set(name, spec)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*m = out
	return nil
}

func decodeSpec(name string, raw json.RawMessage) (FieldSpec, error) {
	isNull := bytes.Equal(bytes.TrimSpace(raw), []byte("null"))

	if name == MetaFieldName {
		var names []string
		if err := json.Unmarshal(raw, &names); err != nil || isNull {
			return FieldSpec{}, fmt.Errorf("field %q must be an array of strings", name)
		}
		return MetaNames(names...), nil
	}

	var sel string
	if err := json.Unmarshal(raw, &sel); err != nil || isNull {
		return FieldSpec{}, fmt.Errorf("field %q must be a CSS selector string", name)
	}
	return Selector(sel), nil
}
