package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/billrecon/internal/application/dto"
	"github.com/YoshitsuguKoike/billrecon/internal/infrastructure/di"
)

func newRateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Maintain the hourly rate directory",
	}
	cmd.AddCommand(newRateListCmd(opts))
	cmd.AddCommand(newRateSetCmd(opts))
	return cmd
}

func newRateListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every person with an hourly rate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				rates, err := c.GetDirectoryUseCase().ListRates(ctx)
				return present(c, fmt.Sprintf("%d rate(s)", len(rates)), rates, err)
			})
		},
	}
}

func newRateSetCmd(opts *rootOptions) *cobra.Command {
	var (
		name     string
		generate bool
		period   string
	)

	cmd := &cobra.Command{
		Use:   "set <person-id> <rate-per-hour>",
		Short: "Create or replace the hourly rate of a person",
		Long: `Set stores the hourly rate of one person. With --generate it then bills that
person's unbilled finished work at the new rate, as a single-person generation.`,
		Example: `  billrecon rate set alice 500 --name "Alice Smith"
  billrecon rate set bob 320 --generate --period 2026-09`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			perHour, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid rate %q: %w", args[1], err)
			}
			if name == "" {
				name = args[0]
			}

			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				saved, err := c.GetDirectoryUseCase().SetRate(ctx, dto.RateDTO{
					PersonID:    args[0],
					PersonName:  name,
					RatePerHour: perHour,
				})
				if err != nil || !generate {
					return present(c, "Rate saved", saved, err)
				}

				result := &dto.RateGeneration{Rate: *saved}
				report, err := c.GetGenerateUseCase().GenerateForPerson(ctx, dto.GenerateRequest{
					PersonID: saved.PersonID,
					Period:   period,
				})
				if err != nil {
					return presentPartial(c, result, fmt.Errorf("rate saved, generation failed: %w", err))
				}
				result.Generation = report
				return present(c, "Rate saved; "+report.Message, result, nil)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name (default: the person ID)")
	cmd.Flags().BoolVar(&generate, "generate", false, "bill the person's finished work right after saving")
	cmd.Flags().StringVar(&period, "period", "", "billing period YYYY-MM for --generate (default: current)")
	return cmd
}
