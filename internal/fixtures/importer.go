package fixtures

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-command"
	"gopkg.in/yaml.v3"

	definitionscmd "github.com/goliatone/go-page-composer/internal/commands/definitions"
	"github.com/goliatone/go-page-composer/internal/logging"
	"github.com/goliatone/go-page-composer/pkg/interfaces"
)

// Bundle groups several definitions in a single YAML file.
type Bundle struct {
	Sections []SectionFixture `yaml:"sections"`
	Pages    []PageFixture    `yaml:"pages"`
}

// Result summarises an import run.
type Result struct {
	Sections []string
	Pages    []string
}

// Importer loads definition fixtures from a filesystem and dispatches them
// through the definition commands. Sections are saved before pages.
type Importer struct {
	fs       fs.FS
	sections command.Commander[definitionscmd.SaveSectionCommand]
	pages    command.Commander[definitionscmd.SavePageCommand]
	renderer Renderer
	actor    string
	logger   interfaces.Logger
}

// ImporterOption customises the importer.
type ImporterOption func(*Importer)

func WithRenderer(renderer Renderer) ImporterOption {
	return func(i *Importer) {
		if renderer != nil {
			i.renderer = renderer
		}
	}
}

func WithActor(actor string) ImporterOption {
	return func(i *Importer) {
		i.actor = strings.TrimSpace(actor)
	}
}

func WithLogger(logger interfaces.Logger) ImporterOption {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

func NewImporter(filesystem fs.FS, sections command.Commander[definitionscmd.SaveSectionCommand], pages command.Commander[definitionscmd.SavePageCommand], opts ...ImporterOption) *Importer {
	importer := &Importer{
		fs:       filesystem,
		sections: sections,
		pages:    pages,
		renderer: NewGoldmarkRenderer(),
		actor:    "fixtures",
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(importer)
	}
	return importer
}

// Load parses every fixture under root without saving anything.
func (i *Importer) Load(ctx context.Context, root string) ([]*SectionFixture, []*PageFixture, error) {
	if root == "" {
		root = "."
	}
	var files []string
	err := fs.WalkDir(i.fs, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(path.Ext(p)) {
		case ".md", ".yaml", ".yml":
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("fixtures: walk %s: %w", root, err)
	}
	sort.Strings(files)

	var sections []*SectionFixture
	var pages []*PageFixture
	for _, file := range files {
		data, err := fs.ReadFile(i.fs, file)
		if err != nil {
			return nil, nil, fmt.Errorf("fixtures: read %s: %w", file, err)
		}
		if strings.EqualFold(path.Ext(file), ".md") {
			doc, err := ParseDocument(file, data, i.renderer)
			if err != nil {
				return nil, nil, err
			}
			if doc.Section != nil {
				sections = append(sections, doc.Section)
			}
			if doc.Page != nil {
				pages = append(pages, doc.Page)
			}
			continue
		}
		var bundle Bundle
		if err := yaml.Unmarshal(data, &bundle); err != nil {
			return nil, nil, fmt.Errorf("fixtures: decode %s: %w", file, err)
		}
		for idx := range bundle.Sections {
			sections = append(sections, &bundle.Sections[idx])
		}
		for idx := range bundle.Pages {
			pages = append(pages, &bundle.Pages[idx])
		}
	}
	return sections, pages, nil
}

// Import loads and saves every fixture under root.
func (i *Importer) Import(ctx context.Context, root string) (*Result, error) {
	sections, pages, err := i.Load(ctx, root)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, section := range sections {
		key, err := section.Key()
		if err != nil {
			return result, err
		}
		template, err := section.Template()
		if err != nil {
			return result, err
		}
		err = i.sections.Execute(ctx, definitionscmd.SaveSectionCommand{
			SectionID:      key,
			Name:           section.Name,
			DataSource:     section.DataSource,
			SearchQuery:    template,
			DynamicFilters: section.DynamicFilters,
			Display:        section.Display,
			Status:         section.Status,
			Actor:          i.actor,
		})
		if err != nil {
			return result, fmt.Errorf("fixtures: section %s: %w", key, err)
		}
		result.Sections = append(result.Sections, key)
	}

	for _, page := range pages {
		name, err := page.PageName()
		if err != nil {
			return result, err
		}
		err = i.pages.Execute(ctx, definitionscmd.SavePageCommand{
			Name:              name,
			OrganizationScope: page.Organization,
			WebSections:       page.WebSections,
			AppSections:       page.AppSections,
			Actor:             i.actor,
		})
		if err != nil {
			return result, fmt.Errorf("fixtures: page %s: %w", name, err)
		}
		result.Pages = append(result.Pages, name)
	}

	i.logger.Info("fixtures.import.completed", "sections", len(result.Sections), "pages", len(result.Pages))
	return result, nil
}
