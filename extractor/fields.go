package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/use-agent/pagefields/models"
)

// Walk resolves every field of fields against doc, in order.
//
// A selector field yields the trimmed text of all matching elements, or ""
// when nothing matches. A meta field yields, per requested name, the content
// of the first <meta> whose name or property equals it, or nil when there is
// no such tag or it has no content attribute.
func Walk(doc *goquery.Document, fields models.FieldMap) (*models.Result, error) {
	result := models.NewResult(len(fields))

	for _, f := range fields {
		switch f.Spec.Kind {
		case models.SpecMeta:
			result.SetMeta(f.Name, metaValues(doc, f.Spec.MetaNames))
		default:
			text, err := selectText(doc, f.Spec.Selector)
			if err != nil {
				return nil, err
			}
			result.SetText(f.Name, text)
		}
	}

	return result, nil
}

// asciiSpace is the set trimmed from selector text. Non-breaking and other
// Unicode spaces are part of the value.
const asciiSpace = " \t\n\v\f\r\x00"

func selectText(doc *goquery.Document, selector string) (string, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return "", fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return strings.Trim(doc.FindMatcher(sel).Text(), asciiSpace), nil
}

func metaValues(doc *goquery.Document, names []string) []models.MetaEntry {
	entries := make([]models.MetaEntry, 0, len(names))
	seen := make(map[string]struct{}, len(names))

	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		entries = append(entries, models.MetaEntry{
			Name:    name,
			Content: metaContent(doc, name),
		})
	}

	return entries
}

// metaContent compares attribute values directly instead of building a
// selector, so names such as "twitter:image" need no escaping.
func metaContent(doc *goquery.Document, name string) *string {
	tag := doc.Find("meta").FilterFunction(func(_ int, s *goquery.Selection) bool {
		if v, ok := s.Attr("name"); ok && v == name {
			return true
		}
		v, ok := s.Attr("property")
		return ok && v == name
	}).First()

	if tag.Length() == 0 {
		return nil
	}
	content, ok := tag.Attr("content")
	if !ok {
		return nil
	}
	return &content
}
