package model

import (
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Context keys used by the consultation flow
const (
	ContextCaseType  = "case_type"
	ContextSubtype   = "subtype"
	ContextSituation = "situation"
)

const emptySummary = "Case memory empty"

// CaseMemory is the accumulated understanding of one matter. It is not safe
// for concurrent use; a session's memory is only touched by the holder of
// that session's lock.
type CaseMemory struct {
	entities  map[EntityCategory]map[string]struct{}
	relations []Relation
	context   map[string]string
}

// NewCaseMemory creates an empty CaseMemory
func NewCaseMemory() *CaseMemory {
	return &CaseMemory{
		entities: make(map[EntityCategory]map[string]struct{}),
		context:  make(map[string]string),
	}
}

// AddEntity inserts value into the set of category. Blank values and blank
// categories are ignored; repeated insertions have no effect.
func (m *CaseMemory) AddEntity(category EntityCategory, value string) {
	value = strings.TrimSpace(value)
	if category == "" || value == "" {
		return
	}
	set, ok := m.entities[category]
	if !ok {
		set = make(map[string]struct{})
		m.entities[category] = set
	}
	set[value] = struct{}{}
}

// AddEntities inserts every value of an extractor result
func (m *CaseMemory) AddEntities(entities Entities) {
	for category, values := range entities {
		for _, v := range values {
			m.AddEntity(category, v)
		}
	}
}

// GetEntities returns the values of category sorted lexicographically. The
// result is a copy and is empty when the category is absent.
func (m *CaseMemory) GetEntities(category EntityCategory) []string {
	set := m.entities[category]
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// HasEntity reports whether value was recorded under category
func (m *CaseMemory) HasEntity(category EntityCategory, value string) bool {
	_, ok := m.entities[category][strings.TrimSpace(value)]
	return ok
}

// Categories returns the categories holding at least one value, sorted
func (m *CaseMemory) Categories() []EntityCategory {
	categories := make([]EntityCategory, 0, len(m.entities))
	for c, set := range m.entities {
		if len(set) > 0 {
			categories = append(categories, c)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	return categories
}

// SetContext stores a context value. case_type can be set only once; setting
// it again with the same value is a no-op and with a different value fails.
func (m *CaseMemory) SetContext(key, value string) error {
	if key == ContextCaseType {
		if current, ok := m.context[key]; ok && current != value {
			return goerr.New("case type is immutable",
				goerr.T(TagState),
				goerr.V("current", current),
				goerr.V("requested", value))
		}
	}
	m.context[key] = value
	return nil
}

// GetContext returns the value stored under key
func (m *CaseMemory) GetContext(key string) (string, bool) {
	v, ok := m.context[key]
	return v, ok
}

// AddRelation appends a relation record
func (m *CaseMemory) AddRelation(r Relation) {
	m.relations = append(m.relations, r)
}

// Relations returns a copy of the relation records in insertion order
func (m *CaseMemory) Relations() []Relation {
	return append([]Relation(nil), m.relations...)
}

// Summarize renders context and entities as a single line. Keys, categories
// and values are sorted so the same state always yields the same text.
func (m *CaseMemory) Summarize() string {
	var parts []string

	keys := make([]string, 0, len(m.context))
	for k := range m.context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if m.context[k] == "" {
			continue
		}
		parts = append(parts, strings.ToUpper(k)+": "+m.context[k])
	}

	for _, c := range m.Categories() {
		parts = append(parts, strings.ToUpper(string(c))+": "+strings.Join(m.GetEntities(c), ", "))
	}

	if len(parts) == 0 {
		return emptySummary
	}
	return strings.Join(parts, " | ")
}

// Snapshot returns all entities with sorted values
func (m *CaseMemory) Snapshot() Entities {
	out := make(Entities, len(m.entities))
	for _, c := range m.Categories() {
		out[c] = m.GetEntities(c)
	}
	return out
}

// Clone returns a deep copy. The consultation flow stages a turn on a clone
// and swaps it in only when the whole turn succeeded.
func (m *CaseMemory) Clone() *CaseMemory {
	c := NewCaseMemory()
	for category, set := range m.entities {
		copied := make(map[string]struct{}, len(set))
		for v := range set {
			copied[v] = struct{}{}
		}
		c.entities[category] = copied
	}
	c.relations = append([]Relation(nil), m.relations...)
	for k, v := range m.context {
		c.context[k] = v
	}
	return c
}
