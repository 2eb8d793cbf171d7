package pages

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-page-composer/internal/legacydate"
)

// NoOrganization is the scope of default page definitions used when an
// organization has no page of its own.
const NoOrganization = "NA"

// Channel selects which section list of a page is composed.
type Channel string

const (
	ChannelWeb Channel = "web"
	ChannelApp Channel = "app"
)

// ParseChannel normalises a caller supplied channel. Unknown values map to web.
func ParseChannel(value string) Channel {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "app":
		return ChannelApp
	default:
		return ChannelWeb
	}
}

// SectionRef places a section within a page.
type SectionRef struct {
	SectionID string `json:"section_id" yaml:"section_id"`
	Group     int    `json:"group" yaml:"group"`
	Index     int    `json:"index" yaml:"index"`
}

// Page is a page definition: two ordered section lists, one per channel.
type Page struct {
	bun.BaseModel `bun:"table:page_definitions,alias:pd"`

	ID                uuid.UUID    `bun:",pk,type:uuid" json:"id"`
	Name              string       `bun:"name,notnull" json:"name"`
	OrganizationScope string       `bun:"organization_scope,notnull" json:"organization_scope"`
	WebSections       []SectionRef `bun:"web_sections,type:jsonb" json:"web_sections"`
	AppSections       []SectionRef `bun:"app_sections,type:jsonb" json:"app_sections"`
	CreatedBy         string       `bun:"created_by" json:"created_by,omitempty"`
	UpdatedBy         string       `bun:"updated_by" json:"updated_by,omitempty"`
	CreatedDate       *time.Time   `bun:"created_date,nullzero" json:"created_date,omitempty"`
	UpdatedDate       *time.Time   `bun:"updated_date,nullzero" json:"updated_date,omitempty"`
	// LegacyCreatedDate holds dates written as text by older writers.
	LegacyCreatedDate string `bun:"created_date_text" json:"-"`
}

// Sections returns the ordered section list for the channel.
func (p *Page) Sections(channel Channel) []SectionRef {
	if p == nil {
		return nil
	}
	if channel == ChannelApp {
		return p.AppSections
	}
	return p.WebSections
}

// CacheKey is the metadata cache key of the page.
func (p *Page) CacheKey() string {
	return Key(p.OrganizationScope, p.Name)
}

// Key builds the cache key for a page lookup.
func Key(orgScope, name string) string {
	return NormalizeScope(orgScope) + ":" + name
}

// NormalizeScope maps a blank organization scope to NoOrganization.
func NormalizeScope(orgScope string) string {
	if trimmed := strings.TrimSpace(orgScope); trimmed != "" {
		return trimmed
	}
	return NoOrganization
}

// Clone returns a deep copy.
func (p *Page) Clone() *Page {
	if p == nil {
		return nil
	}
	cloned := *p
	cloned.WebSections = append([]SectionRef(nil), p.WebSections...)
	cloned.AppSections = append([]SectionRef(nil), p.AppSections...)
	cloned.CreatedDate = legacydate.Clone(p.CreatedDate)
	cloned.UpdatedDate = legacydate.Clone(p.UpdatedDate)
	return &cloned
}

// NormalizeDates fills CreatedDate from the legacy text column when the typed
// column is empty. Unparseable legacy values are left untouched.
func (p *Page) NormalizeDates() {
	if p == nil || p.CreatedDate != nil {
		return
	}
	if parsed, ok := legacydate.Parse(p.LegacyCreatedDate); ok {
		p.CreatedDate = &parsed
	}
}
