package models

import (
	"encoding/json"
	"strings"
)

// DataRequest holds the parameters of GET/POST /api/v1/data.
// Both are read from the query string or a form body.
type DataRequest struct {
	// URL is the page to scrape. Required.
	URL string `form:"url"`

	// Fields is the JSON-encoded field map. Required.
	// Example: {"title":"h1","meta":["description"]}
	Fields string `form:"fields"`
}

// Blank reports whether a required parameter is missing or whitespace only.
func (r *DataRequest) Blank() bool {
	return strings.TrimSpace(r.URL) == "" || strings.TrimSpace(r.Fields) == ""
}

// FieldMap validates the request and decodes its field map.
//
// Blank parameters, and fields that decode to a blank JSON value (null,
// false, "", [] or {}), give INVALID_INPUT. Fields that are not JSON at all
// give MALFORMED_INPUT. Valid JSON of the wrong shape is returned as a plain
// error.
func (r *DataRequest) FieldMap() (FieldMap, error) {
	if r.Blank() {
		return nil, ErrInvalidInput()
	}

	var v any
	if err := json.Unmarshal([]byte(r.Fields), &v); err != nil {
		return nil, ErrMalformedInput(err)
	}
	if blankJSON(v) {
		return nil, ErrInvalidInput()
	}

	return ParseFieldMap(r.Fields)
}

func blankJSON(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case string:
		return strings.TrimSpace(x) == ""
	case []any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	}
	return false
}
