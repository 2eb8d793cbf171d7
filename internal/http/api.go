package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-command"

	definitionscmd "github.com/goliatone/go-page-composer/internal/commands/definitions"
	"github.com/goliatone/go-page-composer/internal/compose"
	"github.com/goliatone/go-page-composer/internal/logging"
	"github.com/goliatone/go-page-composer/internal/pages"
	"github.com/goliatone/go-page-composer/internal/sections"
	"github.com/goliatone/go-page-composer/pkg/interfaces"
)

const (
	apiAssemble       = "api.page.assemble"
	apiAssembleViewer = "api.page.assemble.viewer"
	apiPageRead       = "api.page.read"
	apiPageList       = "api.page.list"
	apiPageSave       = "api.page.save"
	apiSectionRead    = "api.page.section.read"
	apiSectionList    = "api.page.section.list"
	apiSectionSave    = "api.page.section.save"
)

// forwardedHeaders are passed through to the content search backend.
var forwardedHeaders = []string{
	"X-Channel-Id",
	"X-App-Id",
	"X-Device-Id",
	"X-Session-Id",
	fiber.HeaderXRequestID,
	fiber.HeaderAuthorization,
}

// Dependencies are the services exposed over HTTP. Nil services disable
// their routes with 503 responses.
type Dependencies struct {
	Composer    compose.Service
	Pages       pages.Service
	Sections    sections.Service
	SavePage    command.Commander[definitionscmd.SavePageCommand]
	SaveSection command.Commander[definitionscmd.SaveSectionCommand]
}

// API serves composition and definition routes.
type API struct {
	composer    compose.Service
	pages       pages.Service
	sections    sections.Service
	savePage    command.Commander[definitionscmd.SavePageCommand]
	saveSection command.Commander[definitionscmd.SaveSectionCommand]
	logger      interfaces.Logger
}

// APIOption customises the API.
type APIOption func(*API)

func WithLogger(logger interfaces.Logger) APIOption {
	return func(api *API) {
		if logger != nil {
			api.logger = logger
		}
	}
}

func NewAPI(deps Dependencies, opts ...APIOption) *API {
	api := &API{
		composer:    deps.Composer,
		pages:       deps.Pages,
		sections:    deps.Sections,
		savePage:    deps.SavePage,
		saveSection: deps.SaveSection,
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		opt(api)
	}
	return api
}

// NewApp returns a fiber application with the API mounted under /v1.
func NewApp(api *API) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "go-page-composer",
		DisableStartupMessage: true,
		ErrorHandler:          api.handleError,
	})
	api.Register(app.Group("/" + apiVersion))
	return app
}

// Register mounts the routes on router. Static segments are registered ahead
// of the :org/:name pattern.
func (api *API) Register(router fiber.Router) {
	router.Post("/page/assemble", api.handleAssemble)
	router.Post("/page/assemble/viewer", api.handleAssembleViewer)
	router.Get("/page/sections", api.handleSectionList)
	router.Get("/page/section/:id", api.handleSectionGet)
	router.Post("/page/section/:id", api.handleSectionSave)
	router.Get("/pages", api.handlePageList)
	router.Get("/page/:org/:name", api.handlePageGet)
	router.Post("/page/:org/:name", api.handlePageSave)
}

func (api *API) handleError(c *fiber.Ctx, err error) error {
	apiID, _ := c.Locals(localAPIID).(string)
	if apiID == "" {
		apiID = "api.page"
	}
	status, _, _ := mapError(err)
	if status >= fiber.StatusInternalServerError {
		api.logger.Error("http.request.failed", "path", c.Path(), "status", status, "error", err)
	} else {
		api.logger.Debug("http.request.rejected", "path", c.Path(), "status", status, "error", err)
	}
	return writeError(c, apiID, err)
}

const localAPIID = "composer.api_id"

func fail(c *fiber.Ctx, apiID string, err error) error {
	c.Locals(localAPIID, apiID)
	return err
}

func unavailable(c *fiber.Ctx, apiID string) error {
	return fail(c, apiID, fiber.NewError(fiber.StatusServiceUnavailable, "service unavailable"))
}
