package core

// VocabularyType describes how strictly a field's values are controlled.
type VocabularyType string

const (
	VocabularyClosed VocabularyType = "closed"
	VocabularySKOS   VocabularyType = "skos"
	VocabularyOpen   VocabularyType = "open"
)

// Valid reports whether t is one of the known vocabulary types.
func (t VocabularyType) Valid() bool {
	switch t {
	case VocabularyClosed, VocabularySKOS, VocabularyOpen:
		return true
	}
	return false
}

// Concept is one permissible value of a vocabulary.
//
// A non-empty SchemaFile registers the concept as a content type implemented
// by that schema document.
type Concept struct {
	Label       LocalizedValue `json:"label"`
	URI         string         `json:"uri,omitempty"`
	Value       string         `json:"value,omitempty"`
	Description LocalizedValue `json:"description,omitempty"`
	AltLabels   []string       `json:"altLabels,omitempty"`
	Icon        string         `json:"icon,omitempty"`
	SchemaFile  string         `json:"schema_file,omitempty"`
	Broader     string         `json:"broader,omitempty"`
	Narrower    []string       `json:"narrower,omitempty"`

	Extra Members `json:"-"`
}

// MarshalJSON writes the concept with its unknown members.
func (c Concept) MarshalJSON() ([]byte, error) {
	type plain Concept
	return encodeMembers(plain(c), c.Extra)
}

// UnmarshalJSON keeps members the model does not know in Extra.
func (c *Concept) UnmarshalJSON(data []byte) error {
	type plain Concept
	var p plain
	extra, err := decodeMembers(data, &p)
	if err != nil {
		return err
	}
	p.Extra = extra
	*c = Concept(p)
	return nil
}

// Clone returns an independent copy.
func (c Concept) Clone() Concept {
	c.Label = c.Label.Clone()
	c.Description = c.Description.Clone()
	c.AltLabels = cloneStrings(c.AltLabels)
	c.Narrower = cloneStrings(c.Narrower)
	c.Extra = c.Extra.Clone()
	return c
}

// Vocabulary is a controlled set of concepts attached to a field.
// Scheme is only meaningful for SKOS vocabularies.
type Vocabulary struct {
	Type         VocabularyType `json:"type"`
	Scheme       string         `json:"scheme,omitempty"`
	Hierarchical *bool          `json:"hierarchical,omitempty"`
	Concepts     []Concept      `json:"concepts"`

	Extra Members `json:"-"`
}

// MarshalJSON writes the vocabulary with its unknown members. A missing
// concept list is written as an empty array.
func (v Vocabulary) MarshalJSON() ([]byte, error) {
	type plain Vocabulary
	p := plain(v)
	if p.Concepts == nil {
		p.Concepts = []Concept{}
	}
	return encodeMembers(p, v.Extra)
}

// UnmarshalJSON keeps members the model does not know in Extra.
func (v *Vocabulary) UnmarshalJSON(data []byte) error {
	type plain Vocabulary
	var p plain
	extra, err := decodeMembers(data, &p)
	if err != nil {
		return err
	}
	p.Extra = extra
	*v = Vocabulary(p)
	return nil
}

// Clone returns an independent copy.
func (v *Vocabulary) Clone() *Vocabulary {
	if v == nil {
		return nil
	}
	out := *v
	out.Hierarchical = clonePtr(v.Hierarchical)
	out.Extra = v.Extra.Clone()
	if v.Concepts != nil {
		out.Concepts = make([]Concept, len(v.Concepts))
		for i, c := range v.Concepts {
			out.Concepts[i] = c.Clone()
		}
	}
	return &out
}

// ConceptIndex returns the position of the first concept matching pred, or -1.
func (v *Vocabulary) ConceptIndex(pred func(Concept) bool) int {
	if v == nil {
		return -1
	}
	for i, c := range v.Concepts {
		if pred(c) {
			return i
		}
	}
	return -1
}
