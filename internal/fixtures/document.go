package fixtures

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-page-composer/internal/pages"
)

// Kind identifies the definition a fixture describes.
type Kind string

const (
	KindPage    Kind = "page"
	KindSection Kind = "section"
)

var (
	ErrUnknownKind = errors.New("fixtures: unknown definition kind")
	ErrMissingKey  = errors.New("fixtures: definition key could not be derived")
)

// SectionFixture is the authoring shape of a section definition.
type SectionFixture struct {
	ID             string         `yaml:"id" json:"section_id"`
	Name           string         `yaml:"name" json:"name"`
	DataSource     string         `yaml:"data_source" json:"data_source"`
	DynamicFilters string         `yaml:"dynamic_filters" json:"dynamic_filters"`
	Status         string         `yaml:"status" json:"status"`
	Query          map[string]any `yaml:"query" json:"query"`
	SearchQuery    string         `yaml:"search_query" json:"search_query"`
	Display        map[string]any `yaml:"display" json:"display"`
}

// PageFixture is the authoring shape of a page definition.
type PageFixture struct {
	Name         string             `yaml:"name" json:"name"`
	Organization string             `yaml:"organization" json:"organization"`
	WebSections  []pages.SectionRef `yaml:"web_sections" json:"web_sections"`
	AppSections  []pages.SectionRef `yaml:"app_sections" json:"app_sections"`
}

// Document is one parsed fixture file.
type Document struct {
	Path    string
	Kind    Kind
	Page    *PageFixture
	Section *SectionFixture
}

type documentEnvelope struct {
	Kind           string             `yaml:"kind"`
	Title          string             `yaml:"title"`
	ID             string             `yaml:"id"`
	Name           string             `yaml:"name"`
	Organization   string             `yaml:"organization"`
	DataSource     string             `yaml:"data_source"`
	DynamicFilters string             `yaml:"dynamic_filters"`
	Status         string             `yaml:"status"`
	Query          map[string]any     `yaml:"query"`
	SearchQuery    string             `yaml:"search_query"`
	Display        map[string]any     `yaml:"display"`
	WebSections    []pages.SectionRef `yaml:"web_sections"`
	AppSections    []pages.SectionRef `yaml:"app_sections"`
}

// ParseDocument reads a markdown fixture. The frontmatter carries the
// definition; for sections the rendered body is stored as
// display.description_html.
func ParseDocument(filePath string, source []byte, renderer Renderer) (*Document, error) {
	var env documentEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(source), &env)
	if err != nil {
		return nil, fmt.Errorf("fixtures: parse %s: %w", filePath, err)
	}

	fallback := strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))
	switch Kind(strings.ToLower(strings.TrimSpace(env.Kind))) {
	case KindSection:
		section := &SectionFixture{
			ID:             firstNonEmpty(env.ID, env.Title, fallback),
			Name:           firstNonEmpty(env.Name, env.Title),
			DataSource:     env.DataSource,
			DynamicFilters: env.DynamicFilters,
			Status:         env.Status,
			Query:          normalizeMap(env.Query),
			SearchQuery:    env.SearchQuery,
			Display:        cloneDisplay(normalizeMap(env.Display)),
		}
		if text := bytes.TrimSpace(body); len(text) > 0 && renderer != nil {
			html, err := renderer.Render(text)
			if err != nil {
				return nil, fmt.Errorf("fixtures: render %s: %w", filePath, err)
			}
			section.Display["description_html"] = string(html)
		}
		return &Document{Path: filePath, Kind: KindSection, Section: section}, nil
	case KindPage:
		return &Document{
			Path: filePath,
			Kind: KindPage,
			Page: &PageFixture{
				Name:         firstNonEmpty(env.Name, env.Title, fallback),
				Organization: env.Organization,
				WebSections:  env.WebSections,
				AppSections:  env.AppSections,
			},
		}, nil
	default:
		return nil, fmt.Errorf("%w %q in %s", ErrUnknownKind, env.Kind, filePath)
	}
}

// Key returns the normalised section identifier.
func (s *SectionFixture) Key() (string, error) {
	return normalizeKey(s.ID)
}

// Template returns the stored query template. An explicit search_query wins
// over the structured query map.
func (s *SectionFixture) Template() (string, error) {
	if strings.TrimSpace(s.SearchQuery) != "" {
		return s.SearchQuery, nil
	}
	if len(s.Query) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(normalizeMap(s.Query))
	if err != nil {
		return "", fmt.Errorf("fixtures: encode query for %s: %w", s.ID, err)
	}
	return string(raw), nil
}

// PageName returns the normalised page name.
func (p *PageFixture) PageName() (string, error) {
	return normalizeKey(p.Name)
}

func normalizeKey(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", ErrMissingKey
	}
	key, err := slug.Normalize(trimmed)
	if err != nil {
		return "", fmt.Errorf("fixtures: normalise %q: %w", trimmed, err)
	}
	if key == "" {
		return "", ErrMissingKey
	}
	return key, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func cloneDisplay(in map[string]any) map[string]any {
	out := make(map[string]any, len(in)+1)
	for key, value := range in {
		out[key] = value
	}
	return out
}

// normalizeMap converts YAML decoded maps with interface keys into string
// keyed maps so they can be encoded as JSON.
func normalizeMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return normalizeMap(typed)
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, inner := range typed {
			out[fmt.Sprint(key)] = normalizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, inner := range typed {
			out[i] = normalizeValue(inner)
		}
		return out
	default:
		return value
	}
}
