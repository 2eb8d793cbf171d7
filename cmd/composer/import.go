package main

import (
	"github.com/spf13/cobra"
)

func newImportCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import [dir]",
		Short: "Import page and section definitions from markdown and YAML fixtures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := root.module(cmd.Context())
			if err != nil {
				return err
			}
			defer module.Close(cmd.Context())

			result, err := importFixtures(cmd.Context(), module, args[0])
			if err != nil {
				return err
			}
			for _, id := range result.Sections {
				cmd.Printf("section %s\n", id)
			}
			for _, name := range result.Pages {
				cmd.Printf("page %s\n", name)
			}
			return nil
		},
	}
}
