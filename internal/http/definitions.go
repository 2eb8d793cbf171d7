package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	definitionscmd "github.com/goliatone/go-page-composer/internal/commands/definitions"
	"github.com/goliatone/go-page-composer/internal/pages"
)

type pageSavePayload struct {
	WebSections []pages.SectionRef `json:"web_sections"`
	AppSections []pages.SectionRef `json:"app_sections"`
	Actor       string             `json:"actor,omitempty"`
}

type sectionSavePayload struct {
	Name           string         `json:"name"`
	DataSource     string         `json:"data_source"`
	SearchQuery    string         `json:"search_query"`
	DynamicFilters string         `json:"dynamic_filters"`
	Display        map[string]any `json:"display,omitempty"`
	Status         string         `json:"status,omitempty"`
	Actor          string         `json:"actor,omitempty"`
}

func (api *API) handlePageGet(c *fiber.Ctx) error {
	if api.pages == nil {
		return unavailable(c, apiPageRead)
	}
	page, err := api.pages.Get(c.UserContext(), c.Params("org"), c.Params("name"))
	if err != nil {
		return fail(c, apiPageRead, err)
	}
	return writeResult(c, apiPageRead, fiber.Map{"page": page})
}

func (api *API) handlePageList(c *fiber.Ctx) error {
	if api.pages == nil {
		return unavailable(c, apiPageList)
	}
	list, err := api.pages.List(c.UserContext(), c.Query("org"))
	if err != nil {
		return fail(c, apiPageList, err)
	}
	return writeResult(c, apiPageList, fiber.Map{"pages": list, "count": len(list)})
}

func (api *API) handlePageSave(c *fiber.Ctx) error {
	if api.pages == nil || api.savePage == nil {
		return unavailable(c, apiPageSave)
	}
	var payload pageSavePayload
	if err := decodeJSON(c.Body(), &payload); err != nil {
		return fail(c, apiPageSave, fiber.NewError(fiber.StatusBadRequest, "invalid body"))
	}
	org, name := c.Params("org"), c.Params("name")
	err := api.savePage.Execute(c.UserContext(), definitionscmd.SavePageCommand{
		Name:              name,
		OrganizationScope: org,
		WebSections:       payload.WebSections,
		AppSections:       payload.AppSections,
		Actor:             strings.TrimSpace(payload.Actor),
	})
	if err != nil {
		return fail(c, apiPageSave, err)
	}
	page, err := api.pages.Get(c.UserContext(), org, name)
	if err != nil {
		return fail(c, apiPageSave, err)
	}
	return writeResult(c, apiPageSave, fiber.Map{"page": page})
}

func (api *API) handleSectionGet(c *fiber.Ctx) error {
	if api.sections == nil {
		return unavailable(c, apiSectionRead)
	}
	section, err := api.sections.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, apiSectionRead, err)
	}
	return writeResult(c, apiSectionRead, fiber.Map{"section": section})
}

func (api *API) handleSectionList(c *fiber.Ctx) error {
	if api.sections == nil {
		return unavailable(c, apiSectionList)
	}
	list, err := api.sections.List(c.UserContext())
	if err != nil {
		return fail(c, apiSectionList, err)
	}
	return writeResult(c, apiSectionList, fiber.Map{"sections": list, "count": len(list)})
}

func (api *API) handleSectionSave(c *fiber.Ctx) error {
	if api.sections == nil || api.saveSection == nil {
		return unavailable(c, apiSectionSave)
	}
	var payload sectionSavePayload
	if err := decodeJSON(c.Body(), &payload); err != nil {
		return fail(c, apiSectionSave, fiber.NewError(fiber.StatusBadRequest, "invalid body"))
	}
	id := c.Params("id")
	err := api.saveSection.Execute(c.UserContext(), definitionscmd.SaveSectionCommand{
		SectionID:      id,
		Name:           payload.Name,
		DataSource:     payload.DataSource,
		SearchQuery:    payload.SearchQuery,
		DynamicFilters: payload.DynamicFilters,
		Display:        payload.Display,
		Status:         payload.Status,
		Actor:          strings.TrimSpace(payload.Actor),
	})
	if err != nil {
		return fail(c, apiSectionSave, err)
	}
	section, err := api.sections.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, apiSectionSave, err)
	}
	return writeResult(c, apiSectionSave, fiber.Map{"section": section})
}
