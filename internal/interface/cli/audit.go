package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/billrecon/internal/infrastructure/di"
)

func newAuditCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Report work item consistency and billing readiness (read-only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				report, err := c.GetAuditUseCase().Execute(ctx)
				if err != nil && report != nil {
					return presentPartial(c, report, err)
				}
				return present(c, "Audit complete", report, err)
			})
		},
	}
}
