package display

import (
	"encoding/json"
	"strings"
)

// Meta is a section's metadata bag. Every reader validates the shape of the
// key it asks for and returns the caller's default on any mismatch.
type Meta map[string]json.RawMessage

// ParseMeta never fails: anything that is not a JSON object reads as empty.
func ParseMeta(raw []byte) Meta {
	m := Meta{}
	if len(raw) == 0 {
		return m
	}
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return Meta{}
	}
	return m
}

// String returns the non-blank string stored under key, else def.
func (m Meta) String(key, def string) string {
	raw, ok := m[key]
	if !ok {
		return def
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func (m Meta) Links(key string, def []Link) []Link {
	return list(m, key, def, func(l Link) bool { return l.Label != "" && l.Href != "" })
}

func (m Meta) Brands(key string, def []Brand) []Brand {
	return list(m, key, def, func(b Brand) bool { return b.Name != "" })
}

func (m Meta) Skills(key string, def []Skill) []Skill {
	return list(m, key, def, func(s Skill) bool { return s.Name != "" })
}

// Link reads an object with text and link keys.
func (m Meta) Link(key string, def Link) Link {
	raw, ok := m[key]
	if !ok {
		return def
	}
	var v struct {
		Text string `json:"text"`
		Link string `json:"link"`
	}
	if err := json.Unmarshal(raw, &v); err != nil || v.Text == "" || v.Link == "" {
		return def
	}
	return Link{Label: v.Text, Href: v.Link}
}

// list decodes a JSON array of objects. An empty array, a non-array, or any
// element failing valid yields def.
func list[T any](m Meta, key string, def []T, valid func(T) bool) []T {
	raw, ok := m[key]
	if !ok {
		return def
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return def
	}
	for _, it := range items {
		if !valid(it) {
			return def
		}
	}
	return items
}
