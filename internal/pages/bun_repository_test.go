package pages_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-page-composer/internal/identity"
	"github.com/goliatone/go-page-composer/internal/pages"
	"github.com/goliatone/go-page-composer/pkg/testsupport"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

func newBunDB(t *testing.T) *bun.DB {
	t.Helper()
	return testsupport.NewBunDB(t, (*pages.Page)(nil))
}

func TestBunPageRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newBunDB(t)

	repo := pages.NewBunPageRepository(db)

	page := &pages.Page{
		ID:                identity.PageUUID("bun-org", "explore"),
		Name:              "explore",
		OrganizationScope: "bun-org",
		WebSections:       []pages.SectionRef{{SectionID: "s1", Group: 1, Index: 1}},
		AppSections:       []pages.SectionRef{{SectionID: "s2", Group: 1, Index: 1}},
		LegacyCreatedDate: "2018-05-06",
	}
	if _, err := repo.Save(ctx, page); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.GetByName(ctx, "bun-org", "explore")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if len(got.WebSections) != 1 || got.WebSections[0].SectionID != "s1" {
		t.Fatalf("unexpected web sections %+v", got.WebSections)
	}
	if got.LegacyCreatedDate != "2018-05-06" {
		t.Fatalf("expected legacy date text to persist, got %q", got.LegacyCreatedDate)
	}

	update := got.Clone()
	update.WebSections = []pages.SectionRef{{SectionID: "s3"}}
	if _, err := repo.Save(ctx, update); err != nil {
		t.Fatalf("update: %v", err)
	}
	byID, err := repo.GetByID(ctx, page.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.WebSections[0].SectionID != "s3" {
		t.Fatalf("expected updated sections, got %+v", byID.WebSections)
	}

	if _, err := repo.GetByName(ctx, "bun-org", "missing"); !pages.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBunPageRepositoryWithCacheReadsByName(t *testing.T) {
	ctx := context.Background()
	db := newBunDB(t)

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	repo := pages.NewBunPageRepositoryWithCache(db, cacheService, repocache.NewDefaultKeySerializer())

	page := &pages.Page{
		ID:                identity.PageUUID("cached-org", "home"),
		Name:              "home",
		OrganizationScope: "cached-org",
		WebSections:       []pages.SectionRef{{SectionID: "s1"}},
	}
	if _, err := repo.Save(ctx, page); err != nil {
		t.Fatalf("save: %v", err)
	}
	for i := 0; i < 2; i++ {
		got, err := repo.GetByName(ctx, "cached-org", "home")
		if err != nil {
			t.Fatalf("get by name (attempt %d): %v", i, err)
		}
		if got.ID != page.ID {
			t.Fatalf("unexpected id %s", got.ID)
		}
	}
}
