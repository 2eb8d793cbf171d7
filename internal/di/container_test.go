package di

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	definitionscmd "github.com/goliatone/go-page-composer/internal/commands/definitions"
	"github.com/goliatone/go-page-composer/internal/compose"
	"github.com/goliatone/go-page-composer/internal/pages"
	"github.com/goliatone/go-page-composer/internal/runtimeconfig"
	"github.com/goliatone/go-page-composer/pkg/interfaces"
)

type stubContent struct {
	calls int
}

func (s *stubContent) Search(_ context.Context, req interfaces.ContentSearchRequest) (*interfaces.ContentSearchResult, error) {
	s.calls++
	return &interfaces.ContentSearchResult{
		APIID:    "api.content.search",
		ResMsgID: "msg-1",
		Fields: map[string]any{
			"content": []any{map[string]any{"identifier": "do_1"}},
			"count":   1,
		},
	}, nil
}

func testConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "noop"
	return cfg
}

func seedDefinitions(t *testing.T, c *Container) {
	t.Helper()
	ctx := context.Background()
	if err := c.SaveSectionHandler().Execute(ctx, definitionscmd.SaveSectionCommand{
		SectionID:   "S1",
		Name:        "Popular",
		SearchQuery: `{"request":{"filters":{"status":"Live"}}}`,
	}); err != nil {
		t.Fatalf("save section: %v", err)
	}
	if err := c.SavePageHandler().Execute(ctx, definitionscmd.SavePageCommand{
		Name:        "home",
		WebSections: []pages.SectionRef{{SectionID: "S1", Group: 1, Index: 1}},
	}); err != nil {
		t.Fatalf("save page: %v", err)
	}
}

func TestNewContainerWithMemoryStorageComposesPages(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Provider = "memory"
	content := &stubContent{}

	container, err := NewContainer(context.Background(), cfg, WithContentSearcher(content))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	t.Cleanup(func() { _ = container.Close(context.Background()) })

	seedDefinitions(t, container)
	container.Pool().Wait()
	if _, ok := container.MetadataCache().GetPage(context.Background(), pages.NoOrganization, "home"); !ok {
		t.Fatalf("expected saved page to populate the metadata cache")
	}

	page, err := container.ComposeService().Compose(context.Background(), compose.Request{
		PageName: "home",
		Channel:  pages.ChannelWeb,
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if len(page.Sections) != 1 || page.Sections[0].SectionID != "S1" || page.Sections[0].Count != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
	if content.calls != 1 {
		t.Fatalf("expected one content search, got %d", content.calls)
	}
}

type activitySink struct {
	mu      sync.Mutex
	records []interfaces.ActivityRecord
}

func (s *activitySink) Log(_ context.Context, record interfaces.ActivityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func TestNewContainerRecordsDefinitionActivity(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Provider = "memory"
	sink := &activitySink{}

	container, err := NewContainer(context.Background(), cfg, WithContentSearcher(&stubContent{}), WithActivitySink(sink))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	t.Cleanup(func() { _ = container.Close(context.Background()) })

	seedDefinitions(t, container)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.records) != 2 {
		t.Fatalf("expected section and page records, got %d", len(sink.records))
	}
	if sink.records[0].ObjectType != "section_definition" || sink.records[1].ObjectType != "page_definition" {
		t.Fatalf("unexpected record order %+v", sink.records)
	}
	if sink.records[1].Data["organization_scope"] != pages.NoOrganization {
		t.Fatalf("expected page scope in record data, got %v", sink.records[1].Data)
	}
}

func TestNewContainerWithSQLiteStorage(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.DSN = fmt.Sprintf("file:di_container_%d?mode=memory&cache=shared", time.Now().UnixNano())
	cfg.Cache.RepositoryCache = true

	container, err := NewContainer(context.Background(), cfg, WithContentSearcher(&stubContent{}))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	t.Cleanup(func() { _ = container.Close(context.Background()) })

	seedDefinitions(t, container)

	page, err := container.PageService().Get(context.Background(), "", "home")
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	if page.OrganizationScope != pages.NoOrganization || len(page.WebSections) != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
	section, err := container.SectionService().Get(context.Background(), "S1")
	if err != nil {
		t.Fatalf("get section: %v", err)
	}
	if section.Name != "Popular" {
		t.Fatalf("unexpected section %+v", section)
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Provider = "cassandra"
	if _, err := NewContainer(context.Background(), cfg); !errors.Is(err, runtimeconfig.ErrStorageProviderUnknown) {
		t.Fatalf("expected unknown provider error, got %v", err)
	}
}

func TestOpenDBRejectsUnknownDriver(t *testing.T) {
	_, err := OpenDB(runtimeconfig.StorageConfig{Driver: "oracle", DSN: "x"})
	if !errors.Is(err, runtimeconfig.ErrStorageDriverUnknown) {
		t.Fatalf("expected unknown driver error, got %v", err)
	}
}
