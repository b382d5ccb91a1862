package core

// DefaultGroupID is the group every new schema document starts with.
const DefaultGroupID = "general"

// SchemaDocument is one JSON file defining the fields and groups of a metadata profile.
//
// Field order is significant: it is the display order and the only ordering
// key a field has.
type SchemaDocument struct {
	ProfileID string  `json:"profileId"`
	Version   string  `json:"version"`
	Context   any     `json:"@context,omitempty"`
	Groups    []Group `json:"groups"`
	Fields    []Field `json:"fields"`

	Extra Members `json:"-"`
}

// MarshalJSON writes the document with its unknown members. Missing group
// and field lists are written as empty arrays.
func (d SchemaDocument) MarshalJSON() ([]byte, error) {
	type plain SchemaDocument
	p := plain(d)
	if p.Groups == nil {
		p.Groups = []Group{}
	}
	if p.Fields == nil {
		p.Fields = []Field{}
	}
	return encodeMembers(p, d.Extra)
}

// UnmarshalJSON keeps members the model does not know in Extra.
func (d *SchemaDocument) UnmarshalJSON(data []byte) error {
	type plain SchemaDocument
	var p plain
	extra, err := decodeMembers(data, &p)
	if err != nil {
		return err
	}
	p.Extra = extra
	*d = SchemaDocument(p)
	return nil
}

// NewSchemaDocument returns an empty document with the default group.
func NewSchemaDocument(profileID, version string) *SchemaDocument {
	order := 0
	return &SchemaDocument{
		ProfileID: profileID,
		Version:   version,
		Groups: []Group{{
			ID:    DefaultGroupID,
			Label: Localized("Allgemein", "General"),
			Order: &order,
		}},
		Fields: []Field{},
	}
}

// Clone returns a structurally independent copy.
func (d *SchemaDocument) Clone() *SchemaDocument {
	if d == nil {
		return nil
	}
	out := *d
	out.Context = cloneAny(d.Context)
	out.Extra = d.Extra.Clone()
	if d.Groups != nil {
		out.Groups = make([]Group, len(d.Groups))
		for i, g := range d.Groups {
			out.Groups[i] = g.Clone()
		}
	}
	if d.Fields != nil {
		out.Fields = make([]Field, len(d.Fields))
		for i, f := range d.Fields {
			out.Fields[i] = f.Clone()
		}
	}
	return &out
}

// FieldIndex returns the position of the field with the given id, or -1.
func (d *SchemaDocument) FieldIndex(id string) int {
	for i, f := range d.Fields {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// Field returns a pointer into the field list, or nil.
func (d *SchemaDocument) Field(id string) *Field {
	if i := d.FieldIndex(id); i >= 0 {
		return &d.Fields[i]
	}
	return nil
}

// GroupIndex returns the position of the group with the given id, or -1.
func (d *SchemaDocument) GroupIndex(id string) int {
	for i, g := range d.Groups {
		if g.ID == id {
			return i
		}
	}
	return -1
}
