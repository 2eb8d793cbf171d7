package compose

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-page-composer/internal/filters"
	"github.com/goliatone/go-page-composer/internal/pages"
	"github.com/goliatone/go-page-composer/internal/sections"
)

// Request asks for one page to be composed.
type Request struct {
	PageName string
	OrgScope string
	Channel  pages.Channel
	// Filters are request-level filters merged into every section's defaults.
	Filters *filters.Set
	// Params are extra request keys copied into each content search query.
	Params map[string]any
	// SectionOverrides replace section defaults key by key, per section id.
	SectionOverrides map[string]*filters.Set
	// Limit is the requested page size; zero uses the configured default.
	Limit         int
	ViewerProfile map[string]any
	Headers       map[string]string
}

// override returns the section-specific filters, if any were supplied.
func (r Request) override(sectionID string) (*filters.Set, bool) {
	if r.SectionOverrides == nil {
		return nil, false
	}
	set, ok := r.SectionOverrides[sectionID]
	if !ok {
		return nil, false
	}
	if set == nil {
		set = filters.NewSet()
	}
	return set, true
}

// ComposedPage is the assembled page.
type ComposedPage struct {
	Name            string             `json:"name"`
	ID              string             `json:"id"`
	Sections        []*ResolvedSection `json:"sections"`
	IgnoredSections []string           `json:"ignored_sections"`
}

// ContentItem is an opaque backend record.
type ContentItem map[string]any

const originDataField = "originData"

// IsShallowCopy reports whether the item is a personalised shallow copy.
func (c ContentItem) IsShallowCopy() bool {
	raw, ok := c[originDataField]
	if !ok || raw == nil {
		return false
	}
	switch v := raw.(type) {
	case string:
		return strings.Contains(v, "shallow")
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return false
		}
		return strings.Contains(string(encoded), "shallow")
	}
}

// ResolvedSection is a section definition plus the content resolved for it.
// Backend fields without a dedicated slot are kept in Extra and rendered
// alongside the section fields.
type ResolvedSection struct {
	SectionID        string                `json:"section_id"`
	Name             string                `json:"name,omitempty"`
	DataSource       sections.DataSource   `json:"data_source"`
	SearchQuery      string                `json:"search_query,omitempty"`
	DynamicFilters   sections.FilterPolicy `json:"dynamic_filters"`
	Display          map[string]any        `json:"display,omitempty"`
	Group            int                   `json:"group"`
	Index            int                   `json:"index"`
	Contents         []ContentItem         `json:"contents,omitempty"`
	Count            int64                 `json:"count"`
	Collections      []ContentItem         `json:"collections,omitempty"`
	CollectionsCount int64                 `json:"collections_count,omitempty"`
	APIID            string                `json:"-"`
	ResMsgID         string                `json:"-"`
	Extra            map[string]any        `json:"-"`
}

type resolvedSectionJSON ResolvedSection

// MarshalJSON renders the section with backend extras merged in. Section
// fields win over extras with the same name.
func (s *ResolvedSection) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal((*resolvedSectionJSON)(s))
	if err != nil {
		return nil, err
	}
	if len(s.Extra) == 0 {
		return base, nil
	}
	merged := make(map[string]json.RawMessage, len(s.Extra))
	for key, value := range s.Extra {
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode section field %q: %w", key, err)
		}
		merged[key] = encoded
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for key, value := range fields {
		merged[key] = value
	}
	return json.Marshal(merged)
}

func newResolvedSection(ref pages.SectionRef, section *sections.Section) *ResolvedSection {
	display := map[string]any(nil)
	if section.Display != nil {
		display = make(map[string]any, len(section.Display))
		for key, value := range section.Display {
			display[key] = value
		}
	}
	return &ResolvedSection{
		SectionID:      section.Key,
		Name:           section.Name,
		DataSource:     section.Source(),
		SearchQuery:    section.SearchQuery,
		DynamicFilters: section.Policy(),
		Display:        display,
		Group:          ref.Group,
		Index:          ref.Index,
	}
}

func toContentItems(raw any) []ContentItem {
	switch v := raw.(type) {
	case []any:
		out := make([]ContentItem, 0, len(v))
		for _, item := range v {
			if record, ok := item.(map[string]any); ok {
				out = append(out, ContentItem(record))
			}
		}
		return out
	case []map[string]any:
		out := make([]ContentItem, 0, len(v))
		for _, record := range v {
			out = append(out, ContentItem(record))
		}
		return out
	case []ContentItem:
		return v
	default:
		return nil
	}
}

func toCount(raw any) (int64, bool) {
	switch v := raw.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		if f, err := v.Float64(); err == nil {
			return int64(f), true
		}
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	}
	return 0, false
}
