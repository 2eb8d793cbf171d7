package fixtures

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	definitionscmd "github.com/goliatone/go-page-composer/internal/commands/definitions"
	"github.com/goliatone/go-page-composer/internal/pages"
	"github.com/goliatone/go-page-composer/internal/sections"
)

const featuredSection = `---
kind: section
id: featured
name: Featured courses
data_source: batch
dynamic_filters: ignore
query:
  request:
    filters:
      status: [Live]
    limit: 4
display:
  heading: Featured
---
Hand picked **courses** for this week.
`

const homePage = `---
kind: page
name: home
web_sections:
  - section_id: featured
    group: 1
    index: 1
  - section_id: popular-courses
    group: 1
    index: 2
---
`

const bundle = `sections:
  - id: popular-courses
    search_query: '{"request":{"filters":{"contentType":["Course"]}}}'
pages:
  - name: explore
    organization: org-1
    app_sections:
      - section_id: popular-courses
        index: 1
`

func newTestImporter(fsys fstest.MapFS) (*Importer, pages.Service, sections.Service) {
	pageService := pages.NewService(pages.NewMemoryPageRepository())
	sectionService := sections.NewService(sections.NewMemorySectionRepository())
	importer := NewImporter(fsys,
		definitionscmd.NewSaveSectionHandler(sectionService, nil),
		definitionscmd.NewSavePageHandler(pageService, nil),
	)
	return importer, pageService, sectionService
}

func TestImporterSavesSectionsAndPages(t *testing.T) {
	fsys := fstest.MapFS{
		"defs/sections/featured.md": {Data: []byte(featuredSection)},
		"defs/pages/home.md":        {Data: []byte(homePage)},
		"defs/bundle.yaml":          {Data: []byte(bundle)},
		"defs/README.txt":           {Data: []byte("ignored")},
	}
	importer, pageService, sectionService := newTestImporter(fsys)

	result, err := importer.Import(context.Background(), "defs")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(result.Sections) != 2 || len(result.Pages) != 2 {
		t.Fatalf("unexpected result %+v", result)
	}

	featured, err := sectionService.Get(context.Background(), "featured")
	if err != nil {
		t.Fatalf("get featured: %v", err)
	}
	if featured.DataSource != sections.DataSourceBatch || featured.DynamicFilters != sections.PolicyIgnore {
		t.Fatalf("unexpected featured section %+v", featured)
	}
	html, _ := featured.Display["description_html"].(string)
	if !strings.Contains(html, "<strong>courses</strong>") {
		t.Fatalf("expected rendered description, got %q", html)
	}
	query, err := featured.Query()
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	if limit, ok := query.Limit(); !ok || limit != 4 {
		t.Fatalf("expected limit 4, got %d", limit)
	}

	home, err := pageService.Get(context.Background(), pages.NoOrganization, "home")
	if err != nil {
		t.Fatalf("get home: %v", err)
	}
	if len(home.WebSections) != 2 || home.WebSections[1].SectionID != "popular-courses" {
		t.Fatalf("unexpected home sections %+v", home.WebSections)
	}

	explore, err := pageService.Get(context.Background(), "org-1", "explore")
	if err != nil {
		t.Fatalf("get explore: %v", err)
	}
	if len(explore.AppSections) != 1 {
		t.Fatalf("unexpected explore sections %+v", explore.AppSections)
	}
}

func TestImporterRejectsUnknownKind(t *testing.T) {
	fsys := fstest.MapFS{
		"defs/odd.md": {Data: []byte("---\nkind: widget\n---\n")},
	}
	importer, _, _ := newTestImporter(fsys)
	if _, err := importer.Import(context.Background(), "defs"); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}

func TestImporterSurfacesInvalidQuery(t *testing.T) {
	fsys := fstest.MapFS{
		"defs/broken.md": {Data: []byte("---\nkind: section\nid: broken\nsearch_query: '{\"request\":{\"filters\":[]}}'\n---\n")},
	}
	importer, _, sectionService := newTestImporter(fsys)
	if _, err := importer.Import(context.Background(), "defs"); err == nil {
		t.Fatalf("expected invalid query error")
	}
	if _, err := sectionService.Get(context.Background(), "broken"); !sections.IsNotFound(err) {
		t.Fatalf("expected broken section to be skipped, got %v", err)
	}
}

func TestSectionKeyFallsBackToFileName(t *testing.T) {
	doc, err := ParseDocument("sections/popular.md", []byte("---\nkind: section\n---\n"), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	key, err := doc.Section.Key()
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	if key != "popular" {
		t.Fatalf("expected popular, got %q", key)
	}
	template, err := doc.Section.Template()
	if err != nil || template != "" {
		t.Fatalf("expected empty template, got %q (%v)", template, err)
	}
}
