package pages

import (
	"testing"
	"time"
)

func TestParseChannel(t *testing.T) {
	cases := map[string]Channel{
		"app":   ChannelApp,
		" APP ": ChannelApp,
		"web":   ChannelWeb,
		"":      ChannelWeb,
		"tv":    ChannelWeb,
	}
	for input, want := range cases {
		if got := ParseChannel(input); got != want {
			t.Fatalf("ParseChannel(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestPageSectionsByChannel(t *testing.T) {
	page := &Page{
		WebSections: []SectionRef{{SectionID: "w1"}},
		AppSections: []SectionRef{{SectionID: "a1"}, {SectionID: "a2"}},
	}
	if got := page.Sections(ChannelWeb); len(got) != 1 || got[0].SectionID != "w1" {
		t.Fatalf("unexpected web sections %+v", got)
	}
	if got := page.Sections(ChannelApp); len(got) != 2 || got[1].SectionID != "a2" {
		t.Fatalf("unexpected app sections %+v", got)
	}
	var missing *Page
	if got := missing.Sections(ChannelWeb); got != nil {
		t.Fatalf("expected nil sections for nil page, got %+v", got)
	}
}

func TestKeyNormalizesBlankScope(t *testing.T) {
	if got := Key("", "home"); got != "NA:home" {
		t.Fatalf("expected NA:home, got %q", got)
	}
	if got := Key("org-1", "home"); got != "org-1:home" {
		t.Fatalf("expected org-1:home, got %q", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	now := time.Now()
	page := &Page{
		Name:        "home",
		WebSections: []SectionRef{{SectionID: "s1"}},
		CreatedDate: &now,
	}
	cloned := page.Clone()
	cloned.WebSections[0].SectionID = "changed"
	*cloned.CreatedDate = now.Add(time.Hour)

	if page.WebSections[0].SectionID != "s1" {
		t.Fatalf("clone shares section slice")
	}
	if !page.CreatedDate.Equal(now) {
		t.Fatalf("clone shares created date")
	}
}

func TestNormalizeDatesFromLegacyText(t *testing.T) {
	page := &Page{LegacyCreatedDate: "2019-03-04 10:11:12:000+0000"}
	page.NormalizeDates()
	if page.CreatedDate == nil {
		t.Fatalf("expected created date to be parsed")
	}
	want := time.Date(2019, 3, 4, 10, 11, 12, 0, time.UTC)
	if !page.CreatedDate.Equal(want) {
		t.Fatalf("expected %v, got %v", want, page.CreatedDate)
	}

	typed := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	page = &Page{CreatedDate: &typed, LegacyCreatedDate: "2019-03-04"}
	page.NormalizeDates()
	if !page.CreatedDate.Equal(typed) {
		t.Fatalf("typed date must win over legacy text")
	}

	page = &Page{LegacyCreatedDate: "not a date"}
	page.NormalizeDates()
	if page.CreatedDate != nil {
		t.Fatalf("unparseable legacy date should be ignored")
	}
}
