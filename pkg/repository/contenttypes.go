package repository

import (
	"github.com/aretw0/metavault/pkg/core"
)

const (
	// ContentTypeFieldID is the field of core.json whose vocabulary lists the
	// content types of a context version.
	ContentTypeFieldID = "ccm:oeh_flex_lrt"

	// DefaultContentTypeIcon is used for concepts without an icon.
	DefaultContentTypeIcon = "article"
)

// ContentType is a schema document registered as a selectable kind of content.
type ContentType struct {
	Label      core.LocalizedValue `json:"label"`
	Icon       string              `json:"icon"`
	SchemaFile string              `json:"schema_file"`
}

// ContentTypes projects the concepts of the content-type vocabulary of the
// active version that name a schema file. Anything missing on the way yields
// an empty list.
func (s *Store) ContentTypes() []ContentType {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.cursor
	doc, ok := s.state.schemas[core.SchemaKey(c.Context, c.Version, CoreSchemaFile)]
	if !ok {
		return []ContentType{}
	}
	f := doc.Field(ContentTypeFieldID)
	if f == nil || f.System.Vocabulary == nil {
		return []ContentType{}
	}

	out := []ContentType{}
	for _, concept := range f.System.Vocabulary.Concepts {
		if concept.SchemaFile == "" {
			continue
		}
		icon := concept.Icon
		if icon == "" {
			icon = DefaultContentTypeIcon
		}
		out = append(out, ContentType{
			Label:      concept.Label.Normalized(),
			Icon:       icon,
			SchemaFile: concept.SchemaFile,
		})
	}
	return out
}

// AddContentType registers a schema file as a content type. An existing
// concept for the same schema file is replaced. Without the content-type
// field and its vocabulary in core.json this is a no-op.
func (s *Store) AddContentType(ct ContentType) error {
	if ct.SchemaFile == "" {
		return nil
	}
	return s.mutateSchema(CoreSchemaFile, func(doc *core.SchemaDocument) error {
		vocab := contentTypeVocabulary(doc)
		if vocab == nil {
			return errNoChange
		}
		concept := core.Concept{
			Label:      ct.Label.Complete(),
			Icon:       ct.Icon,
			SchemaFile: ct.SchemaFile,
		}
		if i := vocab.ConceptIndex(func(c core.Concept) bool { return c.SchemaFile == ct.SchemaFile }); i >= 0 {
			vocab.Concepts[i] = concept
		} else {
			vocab.Concepts = append(vocab.Concepts, concept)
		}
		return nil
	})
}

// RemoveContentType drops every concept naming schemaFile.
func (s *Store) RemoveContentType(schemaFile string) error {
	return s.mutateSchema(CoreSchemaFile, func(doc *core.SchemaDocument) error {
		vocab := contentTypeVocabulary(doc)
		if vocab == nil {
			return errNoChange
		}
		kept := make([]core.Concept, 0, len(vocab.Concepts))
		for _, c := range vocab.Concepts {
			if c.SchemaFile != schemaFile {
				kept = append(kept, c)
			}
		}
		if len(kept) == len(vocab.Concepts) {
			return errNoChange
		}
		vocab.Concepts = kept
		return nil
	})
}

func contentTypeVocabulary(doc *core.SchemaDocument) *core.Vocabulary {
	f := doc.Field(ContentTypeFieldID)
	if f == nil {
		return nil
	}
	return f.System.Vocabulary
}
