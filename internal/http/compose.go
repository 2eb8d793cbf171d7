package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/goliatone/go-page-composer/internal/compose"
	"github.com/goliatone/go-page-composer/internal/filters"
	"github.com/goliatone/go-page-composer/internal/pages"
)

// assembleRequest keys with a dedicated meaning. Every other key of the
// request object is copied into content search queries.
var reservedRequestKeys = map[string]struct{}{
	"name":           {},
	"source":         {},
	"organisationId": {},
	"filters":        {},
	"sections":       {},
	"limit":          {},
	"userProfile":    {},
}

type assembleEnvelope struct {
	Request map[string]json.RawMessage `json:"request"`
}

type sectionOverride struct {
	Filters json.RawMessage `json:"filters"`
}

func (api *API) handleAssemble(c *fiber.Ctx) error {
	return api.assemble(c, apiAssemble, false)
}

func (api *API) handleAssembleViewer(c *fiber.Ctx) error {
	return api.assemble(c, apiAssembleViewer, true)
}

func (api *API) assemble(c *fiber.Ctx, apiID string, viewer bool) error {
	if api.composer == nil {
		return unavailable(c, apiID)
	}
	req, err := decodeAssembleRequest(c.Body())
	if err != nil {
		return fail(c, apiID, fiber.NewError(fiber.StatusBadRequest, err.Error()))
	}
	req.Headers = collectHeaders(c)

	var page *compose.ComposedPage
	if viewer {
		page, err = api.composer.ComposeForViewer(c.UserContext(), req)
	} else {
		page, err = api.composer.Compose(c.UserContext(), req)
	}
	if err != nil {
		return fail(c, apiID, err)
	}
	return writeResult(c, apiID, fiber.Map{"response": page})
}

func decodeAssembleRequest(body []byte) (compose.Request, error) {
	var env assembleEnvelope
	if err := decodeJSON(body, &env); err != nil {
		return compose.Request{}, fmt.Errorf("invalid request body: %w", err)
	}
	if env.Request == nil {
		return compose.Request{}, fmt.Errorf("request object is required")
	}

	var req compose.Request
	if err := decodeField(env.Request, "name", &req.PageName); err != nil {
		return req, err
	}
	if strings.TrimSpace(req.PageName) == "" {
		return req, fmt.Errorf("request.name is required")
	}

	var source string
	if err := decodeField(env.Request, "source", &source); err != nil {
		return req, err
	}
	req.Channel = pages.ParseChannel(source)

	if err := decodeField(env.Request, "organisationId", &req.OrgScope); err != nil {
		return req, err
	}
	if err := decodeField(env.Request, "limit", &req.Limit); err != nil {
		return req, err
	}
	if err := decodeField(env.Request, "userProfile", &req.ViewerProfile); err != nil {
		return req, err
	}

	if raw, ok := env.Request["filters"]; ok && !isNull(raw) {
		set := filters.NewSet()
		if err := set.UnmarshalJSON(raw); err != nil {
			return req, fmt.Errorf("request.filters: %w", err)
		}
		req.Filters = set
	}

	if raw, ok := env.Request["sections"]; ok && !isNull(raw) {
		var overrides map[string]sectionOverride
		if err := decodeJSON(raw, &overrides); err != nil {
			return req, fmt.Errorf("request.sections: %w", err)
		}
		req.SectionOverrides = make(map[string]*filters.Set, len(overrides))
		for id, override := range overrides {
			set := filters.NewSet()
			if len(override.Filters) > 0 && !isNull(override.Filters) {
				if err := set.UnmarshalJSON(override.Filters); err != nil {
					return req, fmt.Errorf("request.sections.%s.filters: %w", id, err)
				}
			}
			req.SectionOverrides[id] = set
		}
	}

	for key, raw := range env.Request {
		if _, reserved := reservedRequestKeys[key]; reserved {
			continue
		}
		var value any
		if err := decodeJSON(raw, &value); err != nil {
			return req, fmt.Errorf("request.%s: %w", key, err)
		}
		if req.Params == nil {
			req.Params = map[string]any{}
		}
		req.Params[key] = value
	}
	return req, nil
}

func decodeField(fields map[string]json.RawMessage, key string, target any) error {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return nil
	}
	if err := decodeJSON(raw, target); err != nil {
		return fmt.Errorf("request.%s: %w", key, err)
	}
	return nil
}

func decodeJSON(data []byte, target any) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	return decoder.Decode(target)
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

func collectHeaders(c *fiber.Ctx) map[string]string {
	headers := map[string]string{}
	for _, name := range forwardedHeaders {
		if value := c.Get(name); value != "" {
			headers[name] = value
		}
	}
	return headers
}
