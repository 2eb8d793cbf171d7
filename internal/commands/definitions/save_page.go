package definitionscmd

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-command"

	"github.com/goliatone/go-page-composer/internal/commands"
	"github.com/goliatone/go-page-composer/internal/logging"
	"github.com/goliatone/go-page-composer/internal/pages"
	"github.com/goliatone/go-page-composer/pkg/interfaces"
)

const savePageMessageType = "composer.pages.save"

// SavePageCommand creates or replaces a page definition.
type SavePageCommand struct {
	Name              string             `json:"name"`
	OrganizationScope string             `json:"organization_scope"`
	WebSections       []pages.SectionRef `json:"web_sections"`
	AppSections       []pages.SectionRef `json:"app_sections"`
	Actor             string             `json:"actor,omitempty"`
}

// Type implements command.Message.
func (SavePageCommand) Type() string { return savePageMessageType }

// Validate ensures the page carries a name and well formed section references.
func (m SavePageCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.Name) == "" {
		errs["name"] = validation.NewError("composer.pages.save.name_required", "name is required")
	}
	validateRefs(errs, "web_sections", m.WebSections)
	validateRefs(errs, "app_sections", m.AppSections)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateRefs(errs validation.Errors, field string, refs []pages.SectionRef) {
	seen := map[string]struct{}{}
	for i, ref := range refs {
		id := strings.TrimSpace(ref.SectionID)
		key := fmt.Sprintf("%s.%d", field, i)
		if id == "" {
			errs[key] = validation.NewError("composer.pages.save.section_id_required", "section_id is required")
			continue
		}
		if _, ok := seen[id]; ok {
			errs[key] = validation.NewError("composer.pages.save.section_duplicate", "section "+id+" is listed twice")
			continue
		}
		seen[id] = struct{}{}
	}
}

var _ command.Commander[SavePageCommand] = (*SavePageHandler)(nil)

// SavePageHandler persists page definitions through the page service.
type SavePageHandler struct {
	inner *commands.Handler[SavePageCommand]
}

// NewSavePageHandler constructs a handler wired to the page service.
func NewSavePageHandler(service pages.Service, logger interfaces.Logger, opts ...commands.HandlerOption[SavePageCommand]) *SavePageHandler {
	if logger == nil {
		logger = logging.NoOp()
	}
	exec := func(ctx context.Context, msg SavePageCommand) error {
		_, err := service.Save(ctx, pages.SavePageRequest{
			Name:              msg.Name,
			OrganizationScope: msg.OrganizationScope,
			WebSections:       msg.WebSections,
			AppSections:       msg.AppSections,
			Actor:             msg.Actor,
		})
		return err
	}
	handlerOpts := []commands.HandlerOption[SavePageCommand]{
		commands.WithLogger[SavePageCommand](logger),
		commands.WithErrorClassifier[SavePageCommand](classify),
		commands.WithOperation[SavePageCommand]("pages.save"),
		commands.WithMessageFields(func(msg SavePageCommand) map[string]any {
			return map[string]any{
				"page": pages.Key(msg.OrganizationScope, msg.Name),
			}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)
	return &SavePageHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[SavePageCommand].Execute.
func (h *SavePageHandler) Execute(ctx context.Context, msg SavePageCommand) error {
	return h.inner.Execute(ctx, msg)
}
