package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/billrecon/internal/application/dto"
	"github.com/YoshitsuguKoike/billrecon/internal/infrastructure/di"
)

type generateFlags struct {
	person string
	period string
	dryRun bool
}

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	flags := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create expense records for finished, hour-logged work",
		Long: `Generate bills every person in the rate directory for the billing period
(default: the current month in the configured time zone). Work already in the
ledger is never billed twice. Use --dry-run to see what would be created.`,
		Example: `  billrecon generate
  billrecon generate --person alice --period 2026-09
  billrecon generate --dry-run --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				report, err := runGenerate(ctx, c, flags)
				if err != nil {
					return present(c, "", nil, err)
				}
				return present(c, report.Message, report, nil)
			})
		},
	}

	cmd.Flags().StringVar(&flags.person, "person", "", "bill only this person")
	cmd.Flags().StringVar(&flags.period, "period", "", "billing period YYYY-MM (default: current)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "report what would be created without writing")
	return cmd
}

func runGenerate(ctx context.Context, c *di.Container, flags *generateFlags) (*dto.GenerateReport, error) {
	req := dto.GenerateRequest{
		Period:   strings.TrimSpace(flags.period),
		PersonID: strings.TrimSpace(flags.person),
	}
	uc := c.GetGenerateUseCase()
	switch {
	case flags.dryRun:
		return uc.Preview(ctx, req)
	case req.PersonID != "":
		return uc.GenerateForPerson(ctx, req)
	default:
		return uc.GenerateAll(ctx, req)
	}
}
