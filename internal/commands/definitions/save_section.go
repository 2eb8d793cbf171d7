package definitionscmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-command"

	"github.com/goliatone/go-page-composer/internal/commands"
	"github.com/goliatone/go-page-composer/internal/logging"
	"github.com/goliatone/go-page-composer/internal/sections"
	"github.com/goliatone/go-page-composer/pkg/interfaces"
)

const saveSectionMessageType = "composer.sections.save"

// SaveSectionCommand creates or replaces a section definition.
type SaveSectionCommand struct {
	SectionID      string         `json:"section_id"`
	Name           string         `json:"name"`
	DataSource     string         `json:"data_source"`
	SearchQuery    string         `json:"search_query"`
	DynamicFilters string         `json:"dynamic_filters"`
	Display        map[string]any `json:"display,omitempty"`
	Status         string         `json:"status,omitempty"`
	Actor          string         `json:"actor,omitempty"`
}

// Type implements command.Message.
func (SaveSectionCommand) Type() string { return saveSectionMessageType }

// Validate checks identifiers, enumerations and the query template.
func (m SaveSectionCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.SectionID, validation.Required.Error("section_id is required")),
		validation.Field(&m.DataSource, validation.In("", "content", "batch").Error("data_source must be content or batch")),
		validation.Field(&m.DynamicFilters, validation.In("", "optional", "required", "ignore").Error("dynamic_filters must be optional, required or ignore")),
		validation.Field(&m.SearchQuery, validation.By(validQueryTemplate)),
	)
}

func validQueryTemplate(value any) error {
	raw, _ := value.(string)
	if _, err := sections.ParseQuery(raw); err != nil {
		return validation.NewError("composer.sections.save.search_query_invalid", err.Error())
	}
	return nil
}

var _ command.Commander[SaveSectionCommand] = (*SaveSectionHandler)(nil)

// SaveSectionHandler persists section definitions through the section service.
type SaveSectionHandler struct {
	inner *commands.Handler[SaveSectionCommand]
}

// NewSaveSectionHandler constructs a handler wired to the section service.
func NewSaveSectionHandler(service sections.Service, logger interfaces.Logger, opts ...commands.HandlerOption[SaveSectionCommand]) *SaveSectionHandler {
	if logger == nil {
		logger = logging.NoOp()
	}
	exec := func(ctx context.Context, msg SaveSectionCommand) error {
		_, err := service.Save(ctx, sections.SaveSectionRequest{
			Key:            strings.TrimSpace(msg.SectionID),
			Name:           msg.Name,
			DataSource:     msg.DataSource,
			SearchQuery:    msg.SearchQuery,
			DynamicFilters: msg.DynamicFilters,
			Display:        msg.Display,
			Status:         msg.Status,
			Actor:          msg.Actor,
		})
		return err
	}
	handlerOpts := []commands.HandlerOption[SaveSectionCommand]{
		commands.WithLogger[SaveSectionCommand](logger),
		commands.WithErrorClassifier[SaveSectionCommand](classify),
		commands.WithOperation[SaveSectionCommand]("sections.save"),
		commands.WithMessageFields(func(msg SaveSectionCommand) map[string]any {
			return map[string]any{"section": msg.SectionID}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)
	return &SaveSectionHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[SaveSectionCommand].Execute.
func (h *SaveSectionHandler) Execute(ctx context.Context, msg SaveSectionCommand) error {
	return h.inner.Execute(ctx, msg)
}
