package definitionscmd

import (
	"errors"

	"github.com/goliatone/go-page-composer/internal/commands"
	"github.com/goliatone/go-page-composer/internal/pages"
	"github.com/goliatone/go-page-composer/internal/sections"
)

var clientErrors = []error{
	pages.ErrNameRequired,
	pages.ErrSectionIDRequired,
	sections.ErrKeyRequired,
	sections.ErrInvalidQuery,
}

// classify marks definition errors caused by the caller as validation failures.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return commands.InvalidInput(err, "definition rejected")
		}
	}
	return err
}
