package core

// Datatype is the value type of a field.
type Datatype string

const (
	DatatypeString  Datatype = "string"
	DatatypeArray   Datatype = "array"
	DatatypeURI     Datatype = "uri"
	DatatypeNumber  Datatype = "number"
	DatatypeDate    Datatype = "date"
	DatatypeBoolean Datatype = "boolean"
	DatatypeObject  Datatype = "object"
)

// Valid reports whether d is one of the known datatypes.
func (d Datatype) Valid() bool {
	switch d {
	case DatatypeString, DatatypeArray, DatatypeURI, DatatypeNumber,
		DatatypeDate, DatatypeBoolean, DatatypeObject:
		return true
	}
	return false
}

// IndexConfig controls how a field is indexed by search backends.
type IndexConfig struct {
	Fulltext *bool `json:"fulltext,omitempty"`
	Keyword  *bool `json:"keyword,omitempty"`

	Extra Members `json:"-"`
}

func (c IndexConfig) MarshalJSON() ([]byte, error) {
	type plain IndexConfig
	return encodeMembers(plain(c), c.Extra)
}

func (c *IndexConfig) UnmarshalJSON(data []byte) error {
	type plain IndexConfig
	var p plain
	extra, err := decodeMembers(data, &p)
	if err != nil {
		return err
	}
	p.Extra = extra
	*c = IndexConfig(p)
	return nil
}

// Normalization lists the cleanups applied to user input before storage.
type Normalization struct {
	Trim               *bool  `json:"trim,omitempty"`
	CollapseWhitespace *bool  `json:"collapseWhitespace,omitempty"`
	Deduplicate        *bool  `json:"deduplicate,omitempty"`
	MapLabelsToURIs    *bool  `json:"map_labels_to_uris,omitempty"`
	Case               string `json:"case,omitempty"`

	Extra Members `json:"-"`
}

func (n Normalization) MarshalJSON() ([]byte, error) {
	type plain Normalization
	return encodeMembers(plain(n), n.Extra)
}

func (n *Normalization) UnmarshalJSON(data []byte) error {
	type plain Normalization
	var p plain
	extra, err := decodeMembers(data, &p)
	if err != nil {
		return err
	}
	p.Extra = extra
	*n = Normalization(p)
	return nil
}

// Validation holds the constraints a value must satisfy.
type Validation struct {
	Pattern   string   `json:"pattern,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Integer   *bool    `json:"integer,omitempty"`

	Extra Members `json:"-"`
}

func (v Validation) MarshalJSON() ([]byte, error) {
	type plain Validation
	return encodeMembers(plain(v), v.Extra)
}

func (v *Validation) UnmarshalJSON(data []byte) error {
	type plain Validation
	var p plain
	extra, err := decodeMembers(data, &p)
	if err != nil {
		return err
	}
	p.Extra = extra
	*v = Validation(p)
	return nil
}

// SystemConfig is the machine-facing configuration of exactly one field.
type SystemConfig struct {
	Path          string         `json:"path"`
	URI           string         `json:"uri"`
	Datatype      Datatype       `json:"datatype"`
	Multiple      bool           `json:"multiple"`
	Required      bool           `json:"required"`
	AskUser       bool           `json:"ask_user"`
	AIFillable    bool           `json:"ai_fillable"`
	RepoField     *bool          `json:"repo_field,omitempty"`
	Index         *IndexConfig   `json:"index,omitempty"`
	Vocabulary    *Vocabulary    `json:"vocabulary,omitempty"`
	Normalization *Normalization `json:"normalization,omitempty"`
	Validation    *Validation    `json:"validation,omitempty"`

	Extra Members `json:"-"`
}

// MarshalJSON writes the configuration with its unknown members.
func (s SystemConfig) MarshalJSON() ([]byte, error) {
	type plain SystemConfig
	return encodeMembers(plain(s), s.Extra)
}

// UnmarshalJSON keeps members the model does not know in Extra.
func (s *SystemConfig) UnmarshalJSON(data []byte) error {
	type plain SystemConfig
	var p plain
	extra, err := decodeMembers(data, &p)
	if err != nil {
		return err
	}
	p.Extra = extra
	*s = SystemConfig(p)
	return nil
}

// Clone returns an independent copy.
func (s SystemConfig) Clone() SystemConfig {
	s.RepoField = clonePtr(s.RepoField)
	if s.Index != nil {
		idx := IndexConfig{
			Fulltext: clonePtr(s.Index.Fulltext),
			Keyword:  clonePtr(s.Index.Keyword),
			Extra:    s.Index.Extra.Clone(),
		}
		s.Index = &idx
	}
	s.Vocabulary = s.Vocabulary.Clone()
	s.Extra = s.Extra.Clone()
	if s.Normalization != nil {
		n := *s.Normalization
		n.Trim = clonePtr(n.Trim)
		n.CollapseWhitespace = clonePtr(n.CollapseWhitespace)
		n.Deduplicate = clonePtr(n.Deduplicate)
		n.MapLabelsToURIs = clonePtr(n.MapLabelsToURIs)
		n.Extra = n.Extra.Clone()
		s.Normalization = &n
	}
	if s.Validation != nil {
		v := *s.Validation
		v.MinLength = clonePtr(v.MinLength)
		v.MaxLength = clonePtr(v.MaxLength)
		v.Min = clonePtr(v.Min)
		v.Max = clonePtr(v.Max)
		v.Integer = clonePtr(v.Integer)
		v.Extra = v.Extra.Clone()
		s.Validation = &v
	}
	return s
}

// Field is one typed, labeled metadata attribute of a schema document.
//
// IDs follow the "namespace:name" convention and are unique within the
// field list of a single document. Group is a soft reference to a Group ID.
type Field struct {
	ID          string              `json:"id"`
	Group       string              `json:"group,omitempty"`
	Label       LocalizedValue      `json:"label"`
	Description LocalizedValue      `json:"description,omitempty"`
	Examples    map[string][]string `json:"examples,omitempty"`
	Prompt      LocalizedValue      `json:"prompt,omitempty"`
	System      SystemConfig        `json:"system"`

	Extra Members `json:"-"`
}

// MarshalJSON writes the field with its unknown members.
func (f Field) MarshalJSON() ([]byte, error) {
	type plain Field
	return encodeMembers(plain(f), f.Extra)
}

// UnmarshalJSON keeps members the model does not know in Extra.
func (f *Field) UnmarshalJSON(data []byte) error {
	type plain Field
	var p plain
	extra, err := decodeMembers(data, &p)
	if err != nil {
		return err
	}
	p.Extra = extra
	*f = Field(p)
	return nil
}

// Clone returns an independent copy.
func (f Field) Clone() Field {
	f.Label = f.Label.Clone()
	f.Description = f.Description.Clone()
	f.Prompt = f.Prompt.Clone()
	if f.Examples != nil {
		ex := make(map[string][]string, len(f.Examples))
		for lang, list := range f.Examples {
			ex[lang] = cloneStrings(list)
		}
		f.Examples = ex
	}
	f.System = f.System.Clone()
	f.Extra = f.Extra.Clone()
	return f
}

// Group is a display bucket for fields within a schema document.
type Group struct {
	ID          string         `json:"id"`
	Label       LocalizedValue `json:"label"`
	Description LocalizedValue `json:"description,omitempty"`
	Order       *int           `json:"order,omitempty"`

	Extra Members `json:"-"`
}

func (g Group) MarshalJSON() ([]byte, error) {
	type plain Group
	return encodeMembers(plain(g), g.Extra)
}

func (g *Group) UnmarshalJSON(data []byte) error {
	type plain Group
	var p plain
	extra, err := decodeMembers(data, &p)
	if err != nil {
		return err
	}
	p.Extra = extra
	*g = Group(p)
	return nil
}

// Clone returns an independent copy.
func (g Group) Clone() Group {
	g.Label = g.Label.Clone()
	g.Description = g.Description.Clone()
	g.Order = clonePtr(g.Order)
	g.Extra = g.Extra.Clone()
	return g
}
