package definitionscmd

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-page-composer/internal/commands"
	"github.com/goliatone/go-page-composer/internal/pages"
	"github.com/goliatone/go-page-composer/internal/sections"
)

func TestSavePageHandlerPersistsPage(t *testing.T) {
	service := pages.NewService(pages.NewMemoryPageRepository())
	handler := NewSavePageHandler(service, commands.CommandLogger(nil, "pages"))

	err := handler.Execute(context.Background(), SavePageCommand{
		Name:              "home",
		OrganizationScope: "org-1",
		WebSections:       []pages.SectionRef{{SectionID: "s1", Index: 1}},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	page, err := service.Get(context.Background(), "org-1", "home")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(page.WebSections) != 1 {
		t.Fatalf("unexpected sections %+v", page.WebSections)
	}
}

func TestSavePageCommandValidation(t *testing.T) {
	handler := NewSavePageHandler(pages.NewService(pages.NewMemoryPageRepository()), nil)

	err := handler.Execute(context.Background(), SavePageCommand{
		WebSections: []pages.SectionRef{{SectionID: "s1"}, {SectionID: "s1"}, {SectionID: ""}},
	})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}

	msg := SavePageCommand{Name: "home", WebSections: []pages.SectionRef{{SectionID: "s1"}, {SectionID: "s1"}}}
	if msg.Validate() == nil {
		t.Fatalf("expected duplicate section references to be rejected")
	}
}

func TestSaveSectionHandlerPersistsSection(t *testing.T) {
	service := sections.NewService(sections.NewMemorySectionRepository())
	handler := NewSaveSectionHandler(service, nil)

	err := handler.Execute(context.Background(), SaveSectionCommand{
		SectionID:      "featured",
		DataSource:     "batch",
		SearchQuery:    `{"request":{"filters":{"status":"Live"}}}`,
		DynamicFilters: "ignore",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	section, err := service.Get(context.Background(), "featured")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if section.DataSource != sections.DataSourceBatch || section.DynamicFilters != sections.PolicyIgnore {
		t.Fatalf("unexpected section %+v", section)
	}
}

func TestSaveSectionCommandValidation(t *testing.T) {
	cases := []SaveSectionCommand{
		{},
		{SectionID: "s1", DataSource: "feed"},
		{SectionID: "s1", DynamicFilters: "sometimes"},
		{SectionID: "s1", SearchQuery: `{"request":{"filters":[]}}`},
	}
	handler := NewSaveSectionHandler(sections.NewService(sections.NewMemorySectionRepository()), nil)
	for i, msg := range cases {
		err := handler.Execute(context.Background(), msg)
		if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
			t.Fatalf("case %d: expected validation category, got %v", i, err)
		}
	}
}
