package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sectionFixture = `---
kind: section
id: popular
query:
  request:
    filters:
      status: Live
---
Most *popular* this week.
`

const pageFixture = `---
kind: page
name: home
web_sections:
  - section_id: popular
    index: 1
---
`

func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"sections/popular.md": sectionFixture,
		"pages/home.md":       pageFixture,
	}
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func setMemoryEnv(t *testing.T, contentURL string) {
	t.Helper()
	t.Setenv("COMPOSER_STORAGE_PROVIDER", "memory")
	t.Setenv("COMPOSER_LOG_PROVIDER", "noop")
	if contentURL != "" {
		t.Setenv("COMPOSER_CONTENT_SEARCH_URL", contentURL)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env", filepath.Join(t.TempDir(), "missing.env")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestImportCommandListsDefinitions(t *testing.T) {
	setMemoryEnv(t, "")
	dir := writeFixtures(t)

	out, err := run(t, "import", dir)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "section popular") || !strings.Contains(out, "page home") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestComposeCommandPrintsPage(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"api.content.search","params":{"resmsgid":"m1"},"result":{"count":1,"content":[{"identifier":"do_1"}]}}`))
	}))
	defer server.Close()
	setMemoryEnv(t, server.URL)
	dir := writeFixtures(t)

	out, err := run(t, "compose", "home", "--fixtures", dir, "--filters", `{"board":["CBSE"]}`)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	var page struct {
		Name     string `json:"name"`
		Sections []struct {
			SectionID string           `json:"section_id"`
			Count     int              `json:"count"`
			Contents  []map[string]any `json:"contents"`
		} `json:"sections"`
	}
	if err := json.Unmarshal([]byte(out), &page); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if page.Name != "home" || len(page.Sections) != 1 || page.Sections[0].Count != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
	request, _ := received["request"].(map[string]any)
	filters, _ := request["filters"].(map[string]any)
	if _, ok := filters["board"]; !ok {
		t.Fatalf("expected request filters forwarded, got %+v", received)
	}
}

func TestComposeCommandRejectsBadSectionOverride(t *testing.T) {
	setMemoryEnv(t, "")
	if _, err := run(t, "compose", "home", "--section", "nofilters"); err == nil {
		t.Fatalf("expected override parse error")
	}
}
