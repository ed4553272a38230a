package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/billrecon/internal/infrastructure/di"
	"github.com/YoshitsuguKoike/billrecon/internal/infrastructure/parser"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <fixture.yaml>",
		Short: "Load projects, work items and rates from a fixture file",
		Long: `Import writes every entry of a YAML (or JSON) fixture into the stores in one
transaction. Nothing is written when any entry is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := parser.LoadFixture(opts.fs, args[0])
			if err != nil {
				return err
			}
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				report, err := c.GetImportUseCase().Execute(ctx, *doc)
				return present(c, "Fixture imported", report, err)
			})
		},
	}
}
