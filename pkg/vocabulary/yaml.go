package vocabulary

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/metavault/pkg/core"
)

// YAMLParser reads hand-written vocabularies: a list of concepts or an
// object with a "concepts" list, using the same keys as the JSON shapes.
//
//	concepts:
//	  - label: {de: Ereignis, en: Event}
//	    uri: http://w3id.org/openeduhub/vocabs/new_lrt/event
//	    icon: event
//	    schema_file: event.json
type YAMLParser struct{}

// NewYAMLParser creates a YAML vocabulary parser.
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

// ParseConcepts implements Parser.
func (p *YAMLParser) ParseConcepts(raw []byte) ([]core.Concept, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVocabulary, err)
	}
	if doc == nil {
		return nil, ErrNoConcepts
	}
	return fromDocument(doc)
}
