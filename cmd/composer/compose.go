package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	composer "github.com/goliatone/go-page-composer"
	"github.com/goliatone/go-page-composer/internal/filters"
	"github.com/goliatone/go-page-composer/internal/pages"
)

type composeOptions struct {
	org         string
	channel     string
	filters     string
	sections    []string
	viewer      string
	limit       int
	fixturesDir string
}

func newComposeCmd(root *rootOptions) *cobra.Command {
	opts := &composeOptions{}
	cmd := &cobra.Command{
		Use:   "compose [page]",
		Short: "Compose a page and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request(args[0])
			if err != nil {
				return err
			}

			module, err := root.module(cmd.Context())
			if err != nil {
				return err
			}
			defer module.Close(cmd.Context())

			if opts.fixturesDir != "" {
				if _, err := importFixtures(cmd.Context(), module, opts.fixturesDir); err != nil {
					return err
				}
			}

			var page *composer.ComposedPage
			if req.ViewerProfile != nil {
				page, err = module.Composer().ComposeForViewer(cmd.Context(), req)
			} else {
				page, err = module.Composer().Compose(cmd.Context(), req)
			}
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(page)
		},
	}
	cmd.Flags().StringVar(&opts.org, "org", "", "Organisation scope (defaults to the shared scope)")
	cmd.Flags().StringVar(&opts.channel, "channel", string(pages.ChannelWeb), "Source channel: web or app")
	cmd.Flags().StringVar(&opts.filters, "filters", "", "Request filters as a JSON object")
	cmd.Flags().StringArrayVar(&opts.sections, "section", nil, "Section override as id=<filters JSON>; repeatable")
	cmd.Flags().StringVar(&opts.viewer, "viewer", "", "Viewer profile as a JSON object")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Content page size")
	cmd.Flags().StringVar(&opts.fixturesDir, "fixtures", "", "Import definition fixtures before composing")
	return cmd
}

func (o *composeOptions) request(name string) (composer.ComposeRequest, error) {
	req := composer.ComposeRequest{
		PageName: name,
		OrgScope: o.org,
		Channel:  pages.ParseChannel(o.channel),
		Limit:    o.limit,
	}
	if strings.TrimSpace(o.filters) != "" {
		set := filters.NewSet()
		if err := set.UnmarshalJSON([]byte(o.filters)); err != nil {
			return req, fmt.Errorf("--filters: %w", err)
		}
		req.Filters = set
	}
	for _, entry := range o.sections {
		id, raw, ok := strings.Cut(entry, "=")
		if !ok || strings.TrimSpace(id) == "" {
			return req, fmt.Errorf("--section %q: expected id=<filters JSON>", entry)
		}
		set := filters.NewSet()
		if strings.TrimSpace(raw) != "" {
			if err := set.UnmarshalJSON([]byte(raw)); err != nil {
				return req, fmt.Errorf("--section %s: %w", id, err)
			}
		}
		if req.SectionOverrides == nil {
			req.SectionOverrides = map[string]*filters.Set{}
		}
		req.SectionOverrides[strings.TrimSpace(id)] = set
	}
	if strings.TrimSpace(o.viewer) != "" {
		if err := json.Unmarshal([]byte(o.viewer), &req.ViewerProfile); err != nil {
			return req, fmt.Errorf("--viewer: %w", err)
		}
	}
	return req, nil
}
