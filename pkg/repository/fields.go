package repository

import (
	"fmt"

	"github.com/aretw0/metavault/pkg/core"
)

// FieldPatch is a partial field update. Non-nil members replace the current
// value; nested values such as System are replaced whole, not merged.
type FieldPatch struct {
	ID          *string
	Group       *string
	Label       core.LocalizedValue
	Description core.LocalizedValue
	Examples    map[string][]string
	Prompt      core.LocalizedValue
	System      *core.SystemConfig
}

// GroupPatch is a partial group update. Non-nil members replace the current value.
type GroupPatch struct {
	Label       core.LocalizedValue
	Description core.LocalizedValue
	Order       *int
}

// AddField appends a field to a schema of the active version.
// A field whose id is already present is rejected with core.ErrDuplicateFieldID.
func (s *Store) AddField(file string, field core.Field) error {
	if field.ID == "" {
		return s.fail(fmt.Errorf("%w: field id is empty", core.ErrInvalidName))
	}
	return s.mutateSchema(file, func(doc *core.SchemaDocument) error {
		if doc.FieldIndex(field.ID) >= 0 {
			return fmt.Errorf("%w: %s in %s", core.ErrDuplicateFieldID, field.ID, file)
		}
		doc.Fields = append(doc.Fields, field.Clone())
		return nil
	})
}

// UpdateField merges patch onto the field with the given id. Renaming a field
// onto an id that is already taken is rejected.
func (s *Store) UpdateField(file, id string, patch FieldPatch) error {
	return s.mutateSchema(file, func(doc *core.SchemaDocument) error {
		i := doc.FieldIndex(id)
		if i < 0 {
			return errNoChange
		}
		f := &doc.Fields[i]
		if patch.ID != nil && *patch.ID != id {
			if *patch.ID == "" {
				return fmt.Errorf("%w: field id is empty", core.ErrInvalidName)
			}
			if doc.FieldIndex(*patch.ID) >= 0 {
				return fmt.Errorf("%w: %s in %s", core.ErrDuplicateFieldID, *patch.ID, file)
			}
			f.ID = *patch.ID
		}
		if patch.Group != nil {
			f.Group = *patch.Group
		}
		if patch.Label != nil {
			f.Label = patch.Label.Clone()
		}
		if patch.Description != nil {
			f.Description = patch.Description.Clone()
		}
		if patch.Examples != nil {
			f.Examples = core.Field{Examples: patch.Examples}.Clone().Examples
		}
		if patch.Prompt != nil {
			f.Prompt = patch.Prompt.Clone()
		}
		if patch.System != nil {
			f.System = patch.System.Clone()
		}
		return nil
	})
}

// DeleteField removes the field with the given id.
func (s *Store) DeleteField(file, id string) error {
	return s.mutateSchema(file, func(doc *core.SchemaDocument) error {
		i := doc.FieldIndex(id)
		if i < 0 {
			return errNoChange
		}
		doc.Fields = append(doc.Fields[:i], doc.Fields[i+1:]...)
		return nil
	})
}

// MoveField moves a field to newIndex, clamped to the bounds of the list.
// Field order is the display order of the document.
func (s *Store) MoveField(file, id string, newIndex int) error {
	return s.mutateSchema(file, func(doc *core.SchemaDocument) error {
		i := doc.FieldIndex(id)
		if i < 0 {
			return errNoChange
		}
		f := doc.Fields[i]
		rest := append(doc.Fields[:i:i], doc.Fields[i+1:]...)

		newIndex = max(0, min(newIndex, len(rest)))
		if newIndex == i {
			return errNoChange
		}
		fields := make([]core.Field, 0, len(doc.Fields))
		fields = append(fields, rest[:newIndex]...)
		fields = append(fields, f)
		fields = append(fields, rest[newIndex:]...)
		doc.Fields = fields
		return nil
	})
}

// AddGroup appends a group to a schema of the active version.
func (s *Store) AddGroup(file string, group core.Group) error {
	if group.ID == "" {
		return s.fail(fmt.Errorf("%w: group id is empty", core.ErrInvalidName))
	}
	return s.mutateSchema(file, func(doc *core.SchemaDocument) error {
		if doc.GroupIndex(group.ID) >= 0 {
			return fmt.Errorf("%w: %s in %s", core.ErrDuplicateGroupID, group.ID, file)
		}
		doc.Groups = append(doc.Groups, group.Clone())
		return nil
	})
}

// UpdateGroup merges patch onto the group with the given id.
func (s *Store) UpdateGroup(file, id string, patch GroupPatch) error {
	return s.mutateSchema(file, func(doc *core.SchemaDocument) error {
		i := doc.GroupIndex(id)
		if i < 0 {
			return errNoChange
		}
		g := &doc.Groups[i]
		if patch.Label != nil {
			g.Label = patch.Label.Clone()
		}
		if patch.Description != nil {
			g.Description = patch.Description.Clone()
		}
		if patch.Order != nil {
			order := *patch.Order
			g.Order = &order
		}
		return nil
	})
}

// DeleteGroup removes a group and, in the same swap, clears the group
// reference of every field that pointed at it. The fields themselves stay.
func (s *Store) DeleteGroup(file, id string) error {
	return s.mutateSchema(file, func(doc *core.SchemaDocument) error {
		i := doc.GroupIndex(id)
		if i < 0 {
			return errNoChange
		}
		doc.Groups = append(doc.Groups[:i], doc.Groups[i+1:]...)
		for j := range doc.Fields {
			if doc.Fields[j].Group == id {
				doc.Fields[j].Group = ""
			}
		}
		return nil
	})
}
