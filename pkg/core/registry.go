package core

import "sort"

// DefaultContextName is the context that can never be deleted.
const DefaultContextName = "default"

// InitialVersion is the version every new context starts with.
const InitialVersion = "1.0.0"

// ContextEntry describes a context inside the registry.
// Path is the storage folder name and is decoupled from the map key.
type ContextEntry struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	DefaultVersion string `json:"defaultVersion"`
	Path           string `json:"path"`
	BasedOn        string `json:"basedOn,omitempty"`

	Extra Members `json:"-"`
}

// MarshalJSON writes the entry with its unknown members.
func (e ContextEntry) MarshalJSON() ([]byte, error) {
	type plain ContextEntry
	return encodeMembers(plain(e), e.Extra)
}

// UnmarshalJSON keeps members the model does not know in Extra.
func (e *ContextEntry) UnmarshalJSON(data []byte) error {
	type plain ContextEntry
	var p plain
	extra, err := decodeMembers(data, &p)
	if err != nil {
		return err
	}
	p.Extra = extra
	*e = ContextEntry(p)
	return nil
}

// Clone returns an independent copy.
func (e ContextEntry) Clone() ContextEntry {
	e.Extra = e.Extra.Clone()
	return e
}

// ContextRegistry is the root index of all contexts.
type ContextRegistry struct {
	Contexts       map[string]ContextEntry `json:"contexts"`
	DefaultContext string                  `json:"defaultContext"`

	Extra Members `json:"-"`
}

// MarshalJSON writes the registry with its unknown members.
func (r ContextRegistry) MarshalJSON() ([]byte, error) {
	type plain ContextRegistry
	p := plain(r)
	if p.Contexts == nil {
		p.Contexts = map[string]ContextEntry{}
	}
	return encodeMembers(p, r.Extra)
}

// UnmarshalJSON keeps members the model does not know in Extra.
func (r *ContextRegistry) UnmarshalJSON(data []byte) error {
	type plain ContextRegistry
	var p plain
	extra, err := decodeMembers(data, &p)
	if err != nil {
		return err
	}
	p.Extra = extra
	*r = ContextRegistry(p)
	return nil
}

// NewContextRegistry returns an empty registry pointing at the default context.
func NewContextRegistry() *ContextRegistry {
	return &ContextRegistry{
		Contexts:       make(map[string]ContextEntry),
		DefaultContext: DefaultContextName,
	}
}

// Clone returns an independent copy.
func (r *ContextRegistry) Clone() *ContextRegistry {
	if r == nil {
		return nil
	}
	out := *r
	out.Extra = r.Extra.Clone()
	if r.Contexts != nil {
		out.Contexts = make(map[string]ContextEntry, len(r.Contexts))
		for k, v := range r.Contexts {
			out.Contexts[k] = v.Clone()
		}
	}
	return &out
}

// Names returns the context keys in sorted order.
func (r *ContextRegistry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.Contexts))
	for k := range r.Contexts {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Dir returns the storage folder of a context, falling back to its name.
func (r *ContextRegistry) Dir(name string) string {
	if r != nil {
		if e, ok := r.Contexts[name]; ok && e.Path != "" {
			return e.Path
		}
	}
	return name
}
