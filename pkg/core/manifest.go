package core

import "sort"

// ChangeType classifies a changelog entry.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeChanged ChangeType = "changed"
	ChangeRemoved ChangeType = "removed"
	ChangeFixed   ChangeType = "fixed"
)

// Valid reports whether t is one of the known change types.
func (t ChangeType) Valid() bool {
	switch t {
	case ChangeAdded, ChangeChanged, ChangeRemoved, ChangeFixed:
		return true
	}
	return false
}

// ChangelogEntry records one change in a version.
type ChangelogEntry struct {
	Date        string     `json:"date"`
	Type        ChangeType `json:"type"`
	Description string     `json:"description"`
	FieldID     string     `json:"fieldId,omitempty"`
	Author      string     `json:"author,omitempty"`

	Extra Members `json:"-"`
}

func (c ChangelogEntry) MarshalJSON() ([]byte, error) {
	type plain ChangelogEntry
	return encodeMembers(plain(c), c.Extra)
}

func (c *ChangelogEntry) UnmarshalJSON(data []byte) error {
	type plain ChangelogEntry
	var p plain
	extra, err := decodeMembers(data, &p)
	if err != nil {
		return err
	}
	p.Extra = extra
	*c = ChangelogEntry(p)
	return nil
}

// VersionEntry describes one version of a context.
//
// Schemas is the authoritative list of schema document filenames that exist
// in the version. Changelog is kept most-recent-first.
type VersionEntry struct {
	ReleaseDate string           `json:"releaseDate"`
	IsDefault   bool             `json:"isDefault,omitempty"`
	Schemas     []string         `json:"schemas"`
	Changelog   []ChangelogEntry `json:"changelog,omitempty"`

	Extra Members `json:"-"`
}

// MarshalJSON writes the entry with its unknown members. A missing schema
// list is written as an empty array.
func (v VersionEntry) MarshalJSON() ([]byte, error) {
	type plain VersionEntry
	p := plain(v)
	if p.Schemas == nil {
		p.Schemas = []string{}
	}
	return encodeMembers(p, v.Extra)
}

// UnmarshalJSON keeps members the model does not know in Extra.
func (v *VersionEntry) UnmarshalJSON(data []byte) error {
	type plain VersionEntry
	var p plain
	extra, err := decodeMembers(data, &p)
	if err != nil {
		return err
	}
	p.Extra = extra
	*v = VersionEntry(p)
	return nil
}

// Clone returns an independent copy.
func (v VersionEntry) Clone() VersionEntry {
	v.Schemas = cloneStrings(v.Schemas)
	if v.Changelog != nil {
		cl := make([]ChangelogEntry, len(v.Changelog))
		for i, c := range v.Changelog {
			c.Extra = c.Extra.Clone()
			cl[i] = c
		}
		v.Changelog = cl
	}
	v.Extra = v.Extra.Clone()
	return v
}

// HasSchema reports whether file is listed in the version.
func (v VersionEntry) HasSchema(file string) bool {
	for _, s := range v.Schemas {
		if s == file {
			return true
		}
	}
	return false
}

// ContextManifest is the per-context index of versions.
type ContextManifest struct {
	ContextName string                  `json:"contextName"`
	Name        string                  `json:"name"`
	BasedOn     string                  `json:"basedOn,omitempty"`
	Versions    map[string]VersionEntry `json:"versions"`

	Extra Members `json:"-"`
}

// MarshalJSON writes the manifest with its unknown members.
func (m ContextManifest) MarshalJSON() ([]byte, error) {
	type plain ContextManifest
	p := plain(m)
	if p.Versions == nil {
		p.Versions = map[string]VersionEntry{}
	}
	return encodeMembers(p, m.Extra)
}

// UnmarshalJSON keeps members the model does not know in Extra.
func (m *ContextManifest) UnmarshalJSON(data []byte) error {
	type plain ContextManifest
	var p plain
	extra, err := decodeMembers(data, &p)
	if err != nil {
		return err
	}
	p.Extra = extra
	*m = ContextManifest(p)
	return nil
}

// Clone returns an independent copy.
func (m *ContextManifest) Clone() *ContextManifest {
	if m == nil {
		return nil
	}
	out := *m
	out.Extra = m.Extra.Clone()
	if m.Versions != nil {
		out.Versions = make(map[string]VersionEntry, len(m.Versions))
		for k, v := range m.Versions {
			out.Versions[k] = v.Clone()
		}
	}
	return &out
}

// SortedVersions returns the version keys in ascending version order.
func (m *ContextManifest) SortedVersions() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(m.Versions))
	for k := range m.Versions {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return CompareVersions(keys[i], keys[j]) < 0
	})
	return keys
}

// LatestVersion returns the highest version, or "" for an empty manifest.
func (m *ContextManifest) LatestVersion() string {
	versions := m.SortedVersions()
	if len(versions) == 0 {
		return ""
	}
	return versions[len(versions)-1]
}

// DefaultVersion returns the version flagged as default. When none (or
// several) are flagged, the highest flagged version wins, then the highest
// version overall.
func (m *ContextManifest) DefaultVersion() string {
	versions := m.SortedVersions()
	for i := len(versions) - 1; i >= 0; i-- {
		if m.Versions[versions[i]].IsDefault {
			return versions[i]
		}
	}
	if len(versions) == 0 {
		return ""
	}
	return versions[len(versions)-1]
}
