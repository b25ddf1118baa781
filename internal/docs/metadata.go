package docs

import (
	"encoding/json"
	"maps"
	"slices"
)

// Well-known directive keys.
const (
	KeyType     = "type"
	KeyTitle    = "title"
	KeyCategory = "category"
	KeySequence = "sequence"
	KeyParam    = "param"
	KeyReturn   = "return"
	KeyTags     = "tags"
	KeyInclude  = "include"
	KeyIndex    = "index"
	KeyIcon     = "icon"
)

// Param is one @param directive.
type Param struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Return is the @return directive.
type Return struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Metadata is the typed directive map of a comment.
//
// Title, Category, Sequence and Index are always exposed and take their
// defaults when a comment does not declare them. The remaining fields are
// only present when declared: Type when non-empty, Tags, Params and Return
// when non-nil, and Extra per key.
type Metadata struct {
	Title    string
	Type     string
	Category []string
	Sequence float64
	Index    int
	Tags     []string
	Params   []Param
	Return   *Return
	Extra    map[string]string
}

// NewMetadata returns the defaults exposed by a comment with the given index.
func NewMetadata(index int) Metadata {
	return Metadata{
		Category: []string{},
		Sequence: DefaultSequence,
		Index:    index,
	}
}

// Lookup returns a pass-through value such as the icon.
func (m Metadata) Lookup(key string) (string, bool) {
	v, ok := m.Extra[key]
	return v, ok
}

// Icon returns the pass-through @icon value.
func (m Metadata) Icon() string {
	return m.Extra[KeyIcon]
}

// Merge overwrites m with every key src exposes. Later writers win, so the
// operation is not commutative.
func (m *Metadata) Merge(src Metadata) {
	m.Title = src.Title
	m.Category = slices.Clone(src.Category)
	m.Sequence = src.Sequence
	m.Index = src.Index

	if src.Type != "" {
		m.Type = src.Type
	}
	if src.Tags != nil {
		m.Tags = slices.Clone(src.Tags)
	}
	if src.Params != nil {
		m.Params = slices.Clone(src.Params)
	}
	if src.Return != nil {
		r := *src.Return
		m.Return = &r
	}
	if len(src.Extra) > 0 {
		if m.Extra == nil {
			m.Extra = make(map[string]string, len(src.Extra))
		}
		maps.Copy(m.Extra, src.Extra)
	}
}

// Clone returns a deep copy of m.
func (m Metadata) Clone() Metadata {
	var out Metadata
	out.Merge(m)
	return out
}

// MarshalJSON renders the metadata as one flat object keyed by directive name.
func (m Metadata) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(m.Extra)+8)
	for k, v := range m.Extra {
		obj[k] = v
	}

	category := m.Category
	if category == nil {
		category = []string{}
	}
	obj[KeyTitle] = m.Title
	obj[KeyCategory] = category
	obj[KeySequence] = m.Sequence
	obj[KeyIndex] = m.Index

	if m.Type != "" {
		obj[KeyType] = m.Type
	}
	if m.Tags != nil {
		obj[KeyTags] = m.Tags
	}
	if m.Params != nil {
		obj[KeyParam] = m.Params
	}
	if m.Return != nil {
		obj[KeyReturn] = m.Return
	}
	return json.Marshal(obj)
}
