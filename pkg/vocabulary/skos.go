package vocabulary

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/metavault/pkg/core"
)

// SKOSParser reads JSON vocabularies. It understands three shapes:
//
//   - a SKOS ConceptScheme with "hasTopConcept" and nested "narrower" objects
//     (the SkoHub export format),
//   - a JSON-LD document with a flat "@graph" of nodes,
//   - a plain array of concept objects, or an object with a "concepts" array.
type SKOSParser struct{}

// NewSKOSParser creates a JSON vocabulary parser.
func NewSKOSParser() *SKOSParser {
	return &SKOSParser{}
}

// ParseConcepts implements Parser.
func (p *SKOSParser) ParseConcepts(raw []byte) ([]core.Concept, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVocabulary, err)
	}
	return fromDocument(doc)
}

// SchemeURI returns the identifier of a ConceptScheme document, if any.
func SchemeURI(raw []byte) string {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}
	if _, ok := doc["hasTopConcept"]; !ok {
		return ""
	}
	return firstString(doc, "id", "@id", "uri")
}

func fromDocument(doc any) ([]core.Concept, error) {
	var concepts []core.Concept
	switch t := doc.(type) {
	case []any:
		concepts = walk(t, "")
	case map[string]any:
		switch {
		case t["hasTopConcept"] != nil:
			concepts = walk(asList(t["hasTopConcept"]), "")
		case t["@graph"] != nil:
			concepts = fromGraph(asList(t["@graph"]))
		case t["concepts"] != nil:
			concepts = walk(asList(t["concepts"]), "")
		default:
			return nil, fmt.Errorf("%w: no hasTopConcept, @graph or concepts key", ErrUnsupportedFormat)
		}
	default:
		return nil, fmt.Errorf("%w: top level must be an object or array", ErrUnsupportedFormat)
	}

	if len(concepts) == 0 {
		return nil, ErrNoConcepts
	}
	return concepts, nil
}

// walk flattens a concept tree depth-first, linking children to their parent.
func walk(nodes []any, parent string) []core.Concept {
	var out []core.Concept
	for _, n := range nodes {
		node, ok := n.(map[string]any)
		if !ok {
			continue
		}
		c, ok := toConcept(node)
		if !ok {
			continue
		}
		if parent != "" {
			c.Broader = parent
		}

		out = append(out, c)
		out = append(out, walk(asList(node["narrower"]), c.URI)...)
	}
	return out
}

func fromGraph(nodes []any) []core.Concept {
	var out []core.Concept
	for _, n := range nodes {
		node, ok := n.(map[string]any)
		if !ok || !isConcept(node) {
			continue
		}
		c, ok := toConcept(node)
		if !ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

func isConcept(node map[string]any) bool {
	for _, key := range []string{"type", "@type"} {
		for _, t := range asList(node[key]) {
			s, _ := t.(string)
			if s == "Concept" || s == "skos:Concept" || strings.HasSuffix(s, "#Concept") {
				return true
			}
		}
	}
	return false
}

func toConcept(node map[string]any) (core.Concept, bool) {
	c := core.Concept{
		URI:         firstString(node, "id", "@id", "uri"),
		Label:       localized(node, "prefLabel", "skos:prefLabel", "label"),
		Description: localized(node, "definition", "description", "scopeNote"),
		AltLabels:   altLabels(node),
		Icon:        firstString(node, "icon"),
		SchemaFile:  firstString(node, "schema_file"),
		Broader:     reference(node["broader"]),
	}

	c.Value = firstString(node, "value", "notation")
	if c.Value == "" && c.URI != "" {
		c.Value = lastSegment(c.URI)
	}
	if len(c.Label) == 0 {
		if c.Value == "" {
			return core.Concept{}, false
		}
		c.Label = core.Localized(c.Value, c.Value)
	}
	c.Label = c.Label.Complete()
	c.Description = c.Description.Complete()
	for _, child := range asList(node["narrower"]) {
		if id := reference(child); id != "" {
			c.Narrower = append(c.Narrower, id)
		}
	}
	return c, true
}

func localized(node map[string]any, keys ...string) core.LocalizedValue {
	for _, key := range keys {
		v, ok := node[key]
		if !ok {
			continue
		}
		out := core.LocalizedValue{}
		switch t := v.(type) {
		case string:
			out = core.Localized(t, t)
		case map[string]any:
			for lang, text := range t {
				if s, ok := text.(string); ok {
					out[lang] = s
				} else if l := asList(text); len(l) > 0 {
					if s, ok := l[0].(string); ok {
						out[lang] = s
					}
				}
			}
		case []any:
			for _, item := range t {
				m, ok := item.(map[string]any)
				if !ok {
					continue
				}
				lang, _ := m["@language"].(string)
				val, _ := m["@value"].(string)
				if lang != "" && val != "" {
					out[lang] = val
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func altLabels(node map[string]any) []string {
	var out []string
	for _, key := range []string{"altLabel", "altLabels", "skos:altLabel"} {
		switch t := node[key].(type) {
		case string:
			out = append(out, t)
		case []any:
			for _, item := range t {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
		case map[string]any:
			langs := make([]string, 0, len(t))
			for lang := range t {
				langs = append(langs, lang)
			}
			sort.Strings(langs)
			for _, lang := range langs {
				for _, item := range asList(t[lang]) {
					if s, ok := item.(string); ok {
						out = append(out, s)
					}
				}
			}
		}
	}
	return out
}

// reference extracts an identifier from a string, an {"id": ...} object or
// the first element of a list.
func reference(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		return firstString(t, "id", "@id", "uri")
	case []any:
		if len(t) > 0 {
			return reference(t[0])
		}
	}
	return ""
}

func firstString(node map[string]any, keys ...string) string {
	for _, key := range keys {
		switch t := node[key].(type) {
		case string:
			if t != "" {
				return t
			}
		case []any:
			if len(t) > 0 {
				if s, ok := t[0].(string); ok && s != "" {
					return s
				}
			}
		}
	}
	return ""
}

func asList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}

func lastSegment(uri string) string {
	uri = strings.TrimRight(uri, "/#")
	if i := strings.LastIndexAny(uri, "/#"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}
