// Package vocabulary turns external vocabulary exports into concept lists.
//
// Parsers are format adapters: the repository store only ever sees the
// resulting []core.Concept and never the heuristics used to produce it.
package vocabulary

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/metavault/pkg/core"
)

// Common errors.
var (
	ErrNoConcepts        = errors.New("no concepts found")
	ErrUnsupportedFormat = errors.New("unsupported vocabulary format")
	ErrInvalidVocabulary = errors.New("invalid vocabulary document")
)

// Parser converts a raw document into concepts.
type Parser interface {
	ParseConcepts(raw []byte) ([]core.Concept, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(raw []byte) ([]core.Concept, error)

// ParseConcepts implements Parser.
func (f ParserFunc) ParseConcepts(raw []byte) ([]core.Concept, error) {
	return f(raw)
}

// Format names accepted by ForFormat.
const (
	FormatAuto = "auto"
	FormatSKOS = "skos"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ForFormat returns the parser registered under name.
func ForFormat(name string) (Parser, error) {
	switch strings.ToLower(name) {
	case "", FormatAuto:
		return ParserFunc(ParseAuto), nil
	case FormatSKOS, FormatJSON:
		return NewSKOSParser(), nil
	case FormatYAML, "yml":
		return NewYAMLParser(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
}

// ParseAuto picks the JSON parser for documents starting with '{' or '[' and
// the YAML parser otherwise.
func ParseAuto(raw []byte) ([]core.Concept, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, ErrNoConcepts
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return NewSKOSParser().ParseConcepts(trimmed)
	}
	return NewYAMLParser().ParseConcepts(trimmed)
}
