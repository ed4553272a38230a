package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/billrecon/internal/infrastructure/di"
)

func newLedgerCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect the expense ledger",
	}

	var period string
	list := &cobra.Command{
		Use:   "list",
		Short: "List the expense records of a billing period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				listing, err := c.GetDirectoryUseCase().ListLedger(ctx, period)
				if err != nil {
					return present(c, "", nil, err)
				}
				return present(c, fmt.Sprintf("Ledger %s: %d record(s)", listing.Period, len(listing.Records)), listing, nil)
			})
		},
	}
	list.Flags().StringVar(&period, "period", "", "billing period YYYY-MM (default: current)")

	cmd.AddCommand(list)
	return cmd
}
