package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Supported languages. Values built by the system always carry both.
const (
	LangDE = "de"
	LangEN = "en"
)

// legacyKey marks a value decoded from the plain-string form. No language
// code is empty, so it never collides with a translation.
const legacyKey = ""

// LocalizedValue maps a language code to text.
//
// Older documents store plain strings where a localized pair is expected.
// Those decode to a pair holding the same text in every language and keep
// their string form when written back, until the text is changed or the
// value replaced.
type LocalizedValue map[string]string

// Localized builds a value with a German and an English text.
func Localized(de, en string) LocalizedValue {
	return LocalizedValue{LangDE: de, LangEN: en}
}

// Get returns the text for lang, falling back to the other supported language.
func (v LocalizedValue) Get(lang string) string {
	if s, ok := v[lang]; ok && s != "" {
		return s
	}
	for _, alt := range []string{LangEN, LangDE} {
		if s := v[alt]; s != "" {
			return s
		}
	}
	return ""
}

// Legacy reports whether v still carries the plain-string form it was read from.
func (v LocalizedValue) Legacy() (string, bool) {
	s, ok := v[legacyKey]
	if !ok || len(v) != 3 || v[LangDE] != s || v[LangEN] != s {
		return "", false
	}
	return s, true
}

// Normalized returns a copy in the object form, dropping the legacy marker.
func (v LocalizedValue) Normalized() LocalizedValue {
	out := v.Clone()
	delete(out, legacyKey)
	return out
}

// Complete returns a normalized copy where a missing language is filled from
// the other one.
func (v LocalizedValue) Complete() LocalizedValue {
	if v == nil {
		return nil
	}
	out := v.Normalized()
	if out[LangDE] == "" {
		out[LangDE] = out[LangEN]
	}
	if out[LangEN] == "" {
		out[LangEN] = out[LangDE]
	}
	return out
}

// Clone returns an independent copy.
func (v LocalizedValue) Clone() LocalizedValue {
	if v == nil {
		return nil
	}
	out := make(LocalizedValue, len(v))
	for k, s := range v {
		out[k] = s
	}
	return out
}

// MarshalJSON writes the object form, or the plain string for an unchanged
// legacy value.
func (v LocalizedValue) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	if s, ok := v.Legacy(); ok {
		return encodeCompact(s)
	}
	m := make(map[string]string, len(v))
	for k, s := range v {
		if k != legacyKey {
			m[k] = s
		}
	}
	return encodeCompact(m)
}

// UnmarshalJSON accepts both the object form and the legacy plain string.
func (v *LocalizedValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*v = nil
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("invalid localized value: %w", err)
		}
		*v = LocalizedValue{LangDE: s, LangEN: s, legacyKey: s}
		return nil
	}

	var m map[string]string
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return fmt.Errorf("invalid localized value: %w", err)
	}
	*v = m
	return nil
}
