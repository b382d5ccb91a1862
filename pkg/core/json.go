package core

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"sync"
)

// MarshalDocument renders v as pretty-printed JSON with a two-space indent.
// Object members are written in key order, so equal values yield equal bytes.
// HTML characters are kept as-is to match documents written by other tools.
func MarshalDocument(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Members holds the object members of a persisted document that the model
// does not know about. They are written back unchanged.
type Members map[string]json.RawMessage

// Clone returns an independent copy.
func (m Members) Clone() Members {
	if m == nil {
		return nil
	}
	out := make(Members, len(m))
	for k, raw := range m {
		out[k] = append(json.RawMessage(nil), raw...)
	}
	return out
}

func encodeCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// encodeMembers encodes v, a struct without JSON methods, and merges extra
// into the resulting object. Known members win over extra ones.
func encodeMembers(v any, extra Members) ([]byte, error) {
	data, err := encodeCompact(v)
	if err != nil {
		return nil, err
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}
	for k, raw := range extra {
		if _, ok := members[k]; !ok {
			members[k] = raw
		}
	}
	return encodeCompact(members)
}

// decodeMembers decodes data into dst and returns the members that no field
// of dst's struct type claims.
func decodeMembers[T any](data []byte, dst *T) (Members, error) {
	if err := json.Unmarshal(data, dst); err != nil {
		return nil, err
	}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, nil
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}
	known := memberNames(reflect.TypeOf(dst).Elem())
	var extra Members
	for k, raw := range members {
		if known[k] {
			continue
		}
		if extra == nil {
			extra = make(Members)
		}
		extra[k] = raw
	}
	return extra, nil
}

var memberNameCache sync.Map // reflect.Type -> map[string]bool

func memberNames(t reflect.Type) map[string]bool {
	if v, ok := memberNameCache.Load(t); ok {
		return v.(map[string]bool)
	}
	names := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if !f.IsExported() || tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			name = f.Name
		}
		names[name] = true
	}
	memberNameCache.Store(t, names)
	return names
}
