package table

// GeographicLevel is the granularity of an observation
type GeographicLevel string

const (
	LevelUS          GeographicLevel = "US"
	LevelCity        GeographicLevel = "City"
	LevelCensusTract GeographicLevel = "Census Tract"
)

// Value is a nullable measurement. Missing values are representable state,
// not errors; DropIncompleteRows consumes them downstream.
type Value struct {
	Float   float64
	Missing bool
}

// Some wraps a present measurement
func Some(f float64) Value { return Value{Float: f} }

// None returns an explicit missing marker
func None() Value { return Value{Missing: true} }

// Record is one observation of one health measure for one geographic unit.
// Immutable once loaded.
type Record struct {
	EntityID    string          `json:"entity_id"`
	MeasureName string          `json:"measure_name"`
	ShortName   string          `json:"short_name,omitempty"`
	Value       Value           `json:"value"`
	Level       GeographicLevel `json:"geographic_level"`

	// Descriptive columns, consumed by the aggregator and renderer only
	StateAbbr string `json:"state_abbr,omitempty"`
	CityName  string `json:"city_name,omitempty"`
}

// LongTable is an ordered sequence of records. It is the source of truth:
// never mutated in place, only filtered into new sequences.
type LongTable []Record

// Len returns the record count
func (t LongTable) Len() int { return len(t) }

// Measures returns the distinct measure names in first-seen order
func (t LongTable) Measures() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range t {
		if !seen[r.MeasureName] {
			seen[r.MeasureName] = true
			out = append(out, r.MeasureName)
		}
	}
	return out
}

// Entities returns the distinct entity IDs in first-seen order
func (t LongTable) Entities() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range t {
		if !seen[r.EntityID] {
			seen[r.EntityID] = true
			out = append(out, r.EntityID)
		}
	}
	return out
}
