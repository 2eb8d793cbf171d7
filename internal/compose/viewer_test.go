package compose

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/goliatone/go-page-composer/internal/filters"
	"github.com/goliatone/go-page-composer/internal/sections"
)

func item(id string, shallow bool, fields map[string]any) ContentItem {
	out := ContentItem{"identifier": id}
	if shallow {
		out["originData"] = `{"identifier":"` + id + `-origin","copyType":"shallow"}`
	}
	for key, value := range fields {
		out[key] = value
	}
	return out
}

func identifiers(items []ContentItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it["identifier"].(string))
	}
	return out
}

func TestViewerSelectEmptyProfileKeepsOrigin(t *testing.T) {
	page := &ComposedPage{Sections: []*ResolvedSection{{
		SectionID: "S1",
		Contents: []ContentItem{
			item("o1", false, nil),
			item("s1", true, map[string]any{"board": "CBSE"}),
			item("o2", false, nil),
		},
		Count: 3,
	}}}

	NewViewerSelector("board").Select(page, nil)

	section := page.Sections[0]
	if got := identifiers(section.Contents); !equalStrings(got, []string{"o1", "o2"}) {
		t.Fatalf("expected origin items, got %v", got)
	}
	if section.Count != 2 {
		t.Fatalf("expected count 2, got %d", section.Count)
	}
}

func TestViewerSelectDiscardsDisallowedAndNullKeys(t *testing.T) {
	page := &ComposedPage{Sections: []*ResolvedSection{{
		Contents: []ContentItem{
			item("o1", false, nil),
			item("s1", true, map[string]any{"medium": "English"}),
		},
	}}}

	NewViewerSelector("board").Select(page, map[string]any{"medium": "English", "board": nil})

	if got := identifiers(page.Sections[0].Contents); !equalStrings(got, []string{"o1"}) {
		t.Fatalf("expected profile to reduce to empty, got %v", got)
	}
}

func TestViewerSelectMatchesShallowCopies(t *testing.T) {
	page := &ComposedPage{Sections: []*ResolvedSection{{
		Contents: []ContentItem{
			item("o1", false, nil),
			item("s1", true, map[string]any{"board": []any{"ICSE", "CBSE"}}),
			item("s2", true, map[string]any{"board": "State"}),
		},
	}}}

	NewViewerSelector("board").Select(page, map[string]any{"board": []any{"CBSE"}})

	section := page.Sections[0]
	if got := identifiers(section.Contents); !equalStrings(got, []string{"s1"}) {
		t.Fatalf("expected matching shallow copy, got %v", got)
	}
	if section.Count != 1 {
		t.Fatalf("expected count 1, got %d", section.Count)
	}
}

func TestViewerSelectMatchesNamedSliceFields(t *testing.T) {
	type boards []string
	page := &ComposedPage{Sections: []*ResolvedSection{{
		Contents: []ContentItem{
			item("o1", false, nil),
			item("s1", true, map[string]any{"board": bson.A{"CBSE", "ICSE"}}),
			item("s2", true, map[string]any{"board": boards{"State", "CBSE"}}),
		},
	}}}

	NewViewerSelector("board").Select(page, map[string]any{"board": "CBSE"})

	section := page.Sections[0]
	if got := identifiers(section.Contents); !equalStrings(got, []string{"s1", "s2"}) {
		t.Fatalf("expected shallow copies with list boards, got %v", got)
	}
	if section.Count != 2 {
		t.Fatalf("expected count 2, got %d", section.Count)
	}
}

func TestViewerSelectRequiresEveryKey(t *testing.T) {
	page := &ComposedPage{Sections: []*ResolvedSection{{
		Contents: []ContentItem{
			item("o1", false, nil),
			item("partial", true, map[string]any{"board": "CBSE", "medium": "Hindi"}),
			item("full", true, map[string]any{"board": "CBSE", "medium": []any{"English", "Hindi"}}),
		},
	}}}

	NewViewerSelector("board", "medium").Select(page, map[string]any{"board": "CBSE", "medium": "English"})

	if got := identifiers(page.Sections[0].Contents); !equalStrings(got, []string{"full"}) {
		t.Fatalf("expected only the item matching every key, got %v", got)
	}
}

func TestViewerSelectFallsBackToOriginWithoutMatch(t *testing.T) {
	page := &ComposedPage{Sections: []*ResolvedSection{{
		Contents: []ContentItem{
			item("o1", false, nil),
			item("s1", true, map[string]any{"board": "ICSE"}),
		},
		Count: 2,
	}}}

	NewViewerSelector("board").Select(page, map[string]any{"board": "CBSE"})

	section := page.Sections[0]
	if got := identifiers(section.Contents); !equalStrings(got, []string{"o1"}) {
		t.Fatalf("expected origin fallback, got %v", got)
	}
	if section.Count != 1 {
		t.Fatalf("expected count 1, got %d", section.Count)
	}
}

func TestViewerSelectPrefersCollections(t *testing.T) {
	contents := []ContentItem{item("o1", false, nil), item("s1", true, nil)}
	page := &ComposedPage{Sections: []*ResolvedSection{
		{SectionID: "contents", Contents: contents, Count: 2},
		{
			SectionID:        "collections",
			Collections:      []ContentItem{item("c1", false, nil), item("c2", true, nil)},
			CollectionsCount: 2,
		},
	}}

	NewViewerSelector("board").Select(page, nil)

	if got := identifiers(page.Sections[0].Contents); len(got) != 2 {
		t.Fatalf("contents partition must be untouched when collections exist, got %v", got)
	}
	collections := page.Sections[1]
	if got := identifiers(collections.Collections); !equalStrings(got, []string{"c1"}) {
		t.Fatalf("expected origin collections, got %v", got)
	}
	if collections.CollectionsCount != 1 {
		t.Fatalf("expected collections count 1, got %d", collections.CollectionsCount)
	}
}

func TestComposeForViewer(t *testing.T) {
	f := newFixture(t)
	f.addSection(t, "S1", sections.DataSourceContent, sections.PolicyOptional)
	f.addPage(t, "NA", "home", "S1")

	page, err := f.service(WithViewerProfileKeys("board")).ComposeForViewer(context.Background(), Request{
		PageName:      "home",
		Filters:       filters.NewSet(),
		ViewerProfile: map[string]any{"board": "CBSE"},
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	// Stub content carries no shallow copies, so origin items stay.
	if page.Sections[0].Count != 2 {
		t.Fatalf("expected origin items, got %d", page.Sections[0].Count)
	}
}
