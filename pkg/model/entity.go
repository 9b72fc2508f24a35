package model

// EntityCategory names a kind of fact extracted from user text. The constants
// below are the categories the built-in extractor produces; any other
// non-empty value is accepted as a custom category.
type EntityCategory string

const (
	EntityDates          EntityCategory = "dates"
	EntityLocations      EntityCategory = "locations"
	EntityMonetaryValues EntityCategory = "monetary_values"
	EntityItems          EntityCategory = "items"
	EntityParties        EntityCategory = "parties"
)

// KnownEntityCategories returns the built-in categories in display order
func KnownEntityCategories() []EntityCategory {
	return []EntityCategory{
		EntityDates,
		EntityLocations,
		EntityMonetaryValues,
		EntityItems,
		EntityParties,
	}
}

// Known reports whether c is one of the built-in categories
func (c EntityCategory) Known() bool {
	switch c {
	case EntityDates, EntityLocations, EntityMonetaryValues, EntityItems, EntityParties:
		return true
	default:
		return false
	}
}

func (c EntityCategory) String() string { return string(c) }

// Entities maps a category to its values. It is the shape returned by
// extractors and by CaseMemory.Snapshot.
type Entities map[EntityCategory][]string

// Relation is a free-form fact linking two entities, e.g. "accused" "knows" "victim"
type Relation struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
}
