// Package composer assembles client facing pages out of independently defined
// sections resolved against content search and search index backends.
package composer

import (
	"context"
	"io/fs"

	"github.com/gofiber/fiber/v2"

	definitionscmd "github.com/goliatone/go-page-composer/internal/commands/definitions"
	"github.com/goliatone/go-page-composer/internal/compose"
	"github.com/goliatone/go-page-composer/internal/di"
	"github.com/goliatone/go-page-composer/internal/fixtures"
	composerhttp "github.com/goliatone/go-page-composer/internal/http"
	"github.com/goliatone/go-page-composer/internal/pages"
	"github.com/goliatone/go-page-composer/internal/sections"
)

// ComposeService exports the page composition contract.
type ComposeService = compose.Service

// ComposeRequest exports the composition request.
type ComposeRequest = compose.Request

// ComposedPage exports the composition result.
type ComposedPage = compose.ComposedPage

// PageService exports the page definition service contract.
type PageService = pages.Service

// SectionService exports the section definition service contract.
type SectionService = sections.Service

// SavePageCommand exports the page definition write command.
type SavePageCommand = definitionscmd.SavePageCommand

// SaveSectionCommand exports the section definition write command.
type SaveSectionCommand = definitionscmd.SaveSectionCommand

// ImportResult exports the fixture import summary.
type ImportResult = fixtures.Result

// Module is the top level composer runtime.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(ctx context.Context, cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Composer returns the page composition service.
func (m *Module) Composer() ComposeService {
	return m.container.ComposeService()
}

// Pages returns the page definition service.
func (m *Module) Pages() PageService {
	return m.container.PageService()
}

// Sections returns the section definition service.
func (m *Module) Sections() SectionService {
	return m.container.SectionService()
}

// SavePage validates and stores a page definition.
func (m *Module) SavePage(ctx context.Context, cmd SavePageCommand) error {
	return m.container.SavePageHandler().Execute(ctx, cmd)
}

// SaveSection validates and stores a section definition.
func (m *Module) SaveSection(ctx context.Context, cmd SaveSectionCommand) error {
	return m.container.SaveSectionHandler().Execute(ctx, cmd)
}

// Import loads markdown and YAML definition fixtures below root.
func (m *Module) Import(ctx context.Context, fsys fs.FS, root string) (*ImportResult, error) {
	return m.container.FixtureImporter(fsys).Import(ctx, root)
}

// HTTPApp returns a fiber application serving the composer routes.
func (m *Module) HTTPApp() *fiber.App {
	return composerhttp.NewApp(m.container.HTTPAPI())
}

// Close releases backend connections after detached work completes.
func (m *Module) Close(ctx context.Context) error {
	return m.container.Close(ctx)
}
