package composer_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	composer "github.com/goliatone/go-page-composer"
	"github.com/goliatone/go-page-composer/internal/di"
	"github.com/goliatone/go-page-composer/pkg/interfaces"
)

type staticContent struct{}

func (staticContent) Search(context.Context, interfaces.ContentSearchRequest) (*interfaces.ContentSearchResult, error) {
	return &interfaces.ContentSearchResult{Fields: map[string]any{"content": []any{}, "count": 0}}, nil
}

func newModule(t *testing.T) *composer.Module {
	t.Helper()
	cfg := composer.DefaultConfig()
	cfg.Storage.Provider = "memory"
	cfg.Logging.Provider = "noop"
	module, err := composer.New(context.Background(), cfg, di.WithContentSearcher(staticContent{}))
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	t.Cleanup(func() { _ = module.Close(context.Background()) })
	return module
}

func TestModuleImportsAndComposes(t *testing.T) {
	module := newModule(t)
	fsys := fstest.MapFS{
		"defs/definitions.yaml": {Data: []byte(`sections:
  - id: s1
    query:
      request:
        filters:
          status: Live
  - id: s2
    dynamic_filters: ignore
pages:
  - name: home
    web_sections:
      - section_id: s1
        index: 1
      - section_id: s2
        index: 2
`)},
	}
	result, err := module.Import(context.Background(), fsys, "defs")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(result.Sections) != 2 || len(result.Pages) != 1 {
		t.Fatalf("unexpected import result %+v", result)
	}

	page, err := module.Composer().Compose(context.Background(), composer.ComposeRequest{PageName: "home"})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if len(page.Sections) != 1 || page.Sections[0].SectionID != "s1" {
		t.Fatalf("unexpected sections %+v", page.Sections)
	}
	if len(page.IgnoredSections) != 1 || page.IgnoredSections[0] != "s2" {
		t.Fatalf("unexpected ignored sections %+v", page.IgnoredSections)
	}
}

func TestModuleServesHTTP(t *testing.T) {
	module := newModule(t)
	if err := module.SaveSection(context.Background(), composer.SaveSectionCommand{SectionID: "s1"}); err != nil {
		t.Fatalf("save section: %v", err)
	}
	if err := module.SavePage(context.Background(), composer.SavePageCommand{Name: "home"}); err != nil {
		t.Fatalf("save page: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/page/assemble", strings.NewReader(`{"request":{"name":"home"}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := module.HTTPApp().Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestDefaultConfigValidates(t *testing.T) {
	if err := composer.DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config: %v", err)
	}
	cfg := composer.DefaultConfig()
	cfg.Composer.Workers = 0
	if err := cfg.Validate(); !errors.Is(err, composer.ErrWorkersInvalid) {
		t.Fatalf("expected workers error, got %v", err)
	}
}
