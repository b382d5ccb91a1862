package repository

import (
	"fmt"

	"github.com/aretw0/metavault/pkg/core"
	"github.com/aretw0/metavault/pkg/vocabulary"
)

// ImportVocabulary parses raw with p and replaces the concepts of a field's
// vocabulary. A field without a vocabulary gets one of type vocabType.
//
// A parse failure is returned to the caller and leaves the field untouched;
// it does not go to the error slot.
func (s *Store) ImportVocabulary(file, fieldID string, p vocabulary.Parser, raw []byte, vocabType core.VocabularyType) (int, error) {
	concepts, err := p.ParseConcepts(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to parse vocabulary for %s: %w", fieldID, err)
	}
	if !vocabType.Valid() {
		vocabType = core.VocabularyClosed
	}

	err = s.mutateSchema(file, func(doc *core.SchemaDocument) error {
		f := doc.Field(fieldID)
		if f == nil {
			return errNoChange
		}
		if f.System.Vocabulary == nil {
			f.System.Vocabulary = &core.Vocabulary{Type: vocabType}
		}
		f.System.Vocabulary.Concepts = concepts
		if f.System.Vocabulary.Type == core.VocabularySKOS && f.System.Vocabulary.Scheme == "" {
			f.System.Vocabulary.Scheme = vocabulary.SchemeURI(raw)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("vocabulary imported", "schema", file, "field", fieldID, "concepts", len(concepts))
	return len(concepts), nil
}
