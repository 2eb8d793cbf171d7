package http

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-page-composer/internal/compose"
	"github.com/goliatone/go-page-composer/internal/pages"
	"github.com/goliatone/go-page-composer/internal/sections"
	schemavalidation "github.com/goliatone/go-page-composer/internal/validation"
)

const apiVersion = "v1"

type responseParams struct {
	ResMsgID string `json:"resmsgid"`
	MsgID    string `json:"msgid,omitempty"`
	Status   string `json:"status"`
	Err      string `json:"err,omitempty"`
	ErrMsg   string `json:"errmsg,omitempty"`
}

type envelope struct {
	ID           string         `json:"id"`
	Ver          string         `json:"ver"`
	TS           string         `json:"ts"`
	Params       responseParams `json:"params"`
	ResponseCode string         `json:"responseCode"`
	Result       any            `json:"result"`
}

type errorResult struct {
	Issues     []schemavalidation.ValidationIssue `json:"issues,omitempty"`
	Violations map[string]string                  `json:"violations,omitempty"`
}

func newEnvelope(apiID string) envelope {
	return envelope{
		ID:  apiID,
		Ver: apiVersion,
		TS:  time.Now().UTC().Format(time.RFC3339Nano),
		Params: responseParams{
			ResMsgID: uuid.NewString(),
			Status:   "successful",
		},
		ResponseCode: "OK",
	}
}

func writeResult(c *fiber.Ctx, apiID string, result any) error {
	env := newEnvelope(apiID)
	env.Params.MsgID = c.Get(fiber.HeaderXRequestID)
	env.Result = result
	return c.Status(fiber.StatusOK).JSON(env)
}

func writeError(c *fiber.Ctx, apiID string, err error) error {
	status, code, result := mapError(err)
	env := newEnvelope(apiID)
	env.Params.MsgID = c.Get(fiber.HeaderXRequestID)
	env.Params.Status = "failed"
	env.Params.Err = code
	env.Params.ErrMsg = err.Error()
	env.ResponseCode = responseCode(status)
	env.Result = result
	return c.Status(status).JSON(env)
}

// mapError resolves the status, error code and details for err.
func mapError(err error) (int, string, errorResult) {
	var result errorResult

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, "HTTP_ERROR", result
	}

	if issues := schemavalidation.Issues(err); len(issues) > 0 {
		result.Issues = issues
	}
	var violations validation.Errors
	if errors.As(err, &violations) {
		result.Violations = make(map[string]string, len(violations))
		for field, violation := range violations {
			if violation != nil {
				result.Violations[field] = violation.Error()
			}
		}
	}

	if pages.IsNotFound(err) || sections.IsNotFound(err) {
		return fiber.StatusNotFound, "RESOURCE_NOT_FOUND", result
	}

	code := textCode(err)
	switch {
	case goerrors.IsCategory(err, goerrors.CategoryNotFound):
		return fiber.StatusNotFound, code, result
	case goerrors.IsCategory(err, goerrors.CategoryBadInput),
		goerrors.IsCategory(err, goerrors.CategoryValidation):
		return fiber.StatusBadRequest, code, result
	case goerrors.IsCategory(err, goerrors.CategoryExternal):
		return fiber.StatusBadGateway, code, result
	}
	return fiber.StatusInternalServerError, code, result
}

func textCode(err error) string {
	if code := compose.TextCode(err); code != "" {
		return code
	}
	return "SERVER_ERROR"
}

func responseCode(status int) string {
	switch {
	case status == fiber.StatusNotFound:
		return "RESOURCE_NOT_FOUND"
	case status >= 400 && status < 500:
		return "CLIENT_ERROR"
	default:
		return "SERVER_ERROR"
	}
}
