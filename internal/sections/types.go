package sections

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-page-composer/internal/legacydate"
)

// DataSource selects the backend a section is resolved against.
type DataSource string

const (
	DataSourceContent DataSource = "content"
	DataSourceBatch   DataSource = "batch"
)

// ParseDataSource normalises a stored data source. Blank values resolve
// against the content search service; unrecognised values are kept as is and
// resolve to nothing.
func ParseDataSource(value string) DataSource {
	trimmed := strings.TrimSpace(value)
	switch {
	case trimmed == "", strings.EqualFold(trimmed, string(DataSourceContent)):
		return DataSourceContent
	case strings.EqualFold(trimmed, string(DataSourceBatch)):
		return DataSourceBatch
	default:
		return DataSource(trimmed)
	}
}

// FilterPolicy controls how request filters interact with a section.
type FilterPolicy string

const (
	PolicyOptional FilterPolicy = "optional"
	PolicyRequired FilterPolicy = "required"
	PolicyIgnore   FilterPolicy = "ignore"
)

// ParsePolicy normalises a stored policy. Blank or unknown values are optional.
func ParsePolicy(value string) FilterPolicy {
	switch FilterPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case PolicyRequired:
		return PolicyRequired
	case PolicyIgnore:
		return PolicyIgnore
	default:
		return PolicyOptional
	}
}

// Section is a section definition.
type Section struct {
	bun.BaseModel `bun:"table:section_definitions,alias:sd"`

	ID             uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	Key            string         `bun:"section_key,notnull,unique" json:"section_id"`
	Name           string         `bun:"name" json:"name"`
	DataSource     DataSource     `bun:"data_source" json:"data_source"`
	SearchQuery    string         `bun:"search_query,type:text" json:"search_query"`
	DynamicFilters FilterPolicy   `bun:"dynamic_filters" json:"dynamic_filters"`
	Display        map[string]any `bun:"display,type:jsonb" json:"display,omitempty"`
	Status         string         `bun:"status" json:"status,omitempty"`
	CreatedBy      string         `bun:"created_by" json:"created_by,omitempty"`
	UpdatedBy      string         `bun:"updated_by" json:"updated_by,omitempty"`
	CreatedDate    *time.Time     `bun:"created_date,nullzero" json:"created_date,omitempty"`
	UpdatedDate    *time.Time     `bun:"updated_date,nullzero" json:"updated_date,omitempty"`
	// LegacyCreatedDate holds dates written as text by older writers.
	LegacyCreatedDate string `bun:"created_date_text" json:"-"`
}

// Source returns the normalised data source.
func (s *Section) Source() DataSource {
	return ParseDataSource(string(s.DataSource))
}

// Policy returns the normalised dynamic filter policy.
func (s *Section) Policy() FilterPolicy {
	return ParsePolicy(string(s.DynamicFilters))
}

// Query parses the section's query template.
func (s *Section) Query() (*Query, error) {
	return ParseQuery(s.SearchQuery)
}

// Clone returns a deep copy.
func (s *Section) Clone() *Section {
	if s == nil {
		return nil
	}
	cloned := *s
	if s.Display != nil {
		cloned.Display = cloneMap(s.Display)
	}
	cloned.CreatedDate = legacydate.Clone(s.CreatedDate)
	cloned.UpdatedDate = legacydate.Clone(s.UpdatedDate)
	return &cloned
}

// NormalizeDates fills CreatedDate from the legacy text column.
func (s *Section) NormalizeDates() {
	if s == nil || s.CreatedDate != nil {
		return
	}
	if parsed, ok := legacydate.Parse(s.LegacyCreatedDate); ok {
		s.CreatedDate = &parsed
	}
}
