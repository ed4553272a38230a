package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/billrecon/internal/infrastructure/di"
)

func newReportCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Browse archived audit, repair and generation reports",
	}

	var kind string
	list := &cobra.Command{
		Use:   "list",
		Short: "List archived reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				reports, err := c.GetReportUseCase().ListReports(ctx, kind)
				return present(c, fmt.Sprintf("%d report(s)", len(reports)), reports, err)
			})
		},
	}
	list.Flags().StringVar(&kind, "kind", "", "audit, repair or generate (default: all)")

	show := &cobra.Command{
		Use:   "show <report-id>",
		Short: "Print one archived report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				doc, err := c.GetReportUseCase().ShowReport(ctx, args[0])
				return present(c, "Report "+args[0], doc, err)
			})
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}
