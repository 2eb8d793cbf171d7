package compose

import (
	"encoding/json"
	"testing"

	"github.com/goliatone/go-page-composer/internal/filters"
)

func mustSet(t *testing.T, raw string) *filters.Set {
	t.Helper()
	set := filters.NewSet()
	if err := json.Unmarshal([]byte(raw), set); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return set
}

func TestResolvedSectionMarshalMergesExtras(t *testing.T) {
	section := &ResolvedSection{
		SectionID: "S1",
		Count:     3,
		APIID:     "api.content.search",
		Extra: map[string]any{
			"facets": []any{"board"},
			"count":  99,
		},
	}
	data, err := json.Marshal(section)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["section_id"] != "S1" {
		t.Fatalf("expected section id, got %v", decoded)
	}
	if _, ok := decoded["facets"]; !ok {
		t.Fatalf("expected extras rendered, got %v", decoded)
	}
	if decoded["count"] != float64(3) {
		t.Fatalf("section fields must win over extras, got %v", decoded["count"])
	}
	if _, ok := decoded["APIID"]; ok {
		t.Fatalf("markers must not be rendered")
	}
}

func TestContentItemShallowMarker(t *testing.T) {
	cases := []struct {
		item ContentItem
		want bool
	}{
		{ContentItem{}, false},
		{ContentItem{"originData": nil}, false},
		{ContentItem{"originData": `{"copyType":"deep"}`}, false},
		{ContentItem{"originData": `{"copyType":"shallow"}`}, true},
		{ContentItem{"originData": map[string]any{"copyType": "shallow"}}, true},
	}
	for i, tc := range cases {
		if got := tc.item.IsShallowCopy(); got != tc.want {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, got)
		}
	}
}

func TestEffectiveFiltersDivergeBetweenMergeAndOverlay(t *testing.T) {
	defaults := mustSet(t, `{"a":1,"b":2}`)
	incoming := mustSet(t, `{"a":9}`)

	overlaid := effectiveFilters(defaults, nil, incoming, true)
	merged := effectiveFilters(defaults, incoming, nil, false)

	a, _ := overlaid.Get("a")
	if scalar, _ := a.ScalarValue(); scalar != json.Number("9") {
		t.Fatalf("expected overlay to replace a, got %v", a.Interface())
	}
	a, _ = merged.Get("a")
	if items := a.Items(); len(items) != 2 {
		t.Fatalf("expected merge to escalate a to a list, got %v", a.Interface())
	}
}
