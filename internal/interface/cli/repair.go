package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/billrecon/internal/infrastructure/di"
)

func newRepairCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repair",
		Short: "Make every work item satisfy finished <=> hours logged",
		Long: `Repair patches work items so that an item is finished exactly when it has hours.
Finished items without hours get the minimal hours quantum; open items with hours
are moved to their kind's canonical finished status. Running it twice changes nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				report, err := c.GetRepairUseCase().Execute(ctx)
				if err != nil {
					return present(c, "", nil, err)
				}
				return present(c, report.Message, report, nil)
			})
		},
	}
}
