package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/billrecon/internal/application/dto"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/lock"
	"github.com/YoshitsuguKoike/billrecon/internal/infrastructure/di"
)

func newLockCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Inspect and maintain the period locks held by generation runs",
		Long: `Every generation run holds the lock "generate:<period>" while it bills.
A crashed run leaves its lock behind until the lease expires.`,
	}

	cmd.AddCommand(newLockListCmd(opts))
	cmd.AddCommand(newLockInfoCmd(opts))
	cmd.AddCommand(newLockExtendCmd(opts))
	cmd.AddCommand(newLockCleanupCmd(opts))
	return cmd
}

func newLockListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List run locks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				locks, err := c.GetLockService().ListRunLocks(ctx)
				infos := make([]dto.LockInfo, 0, len(locks))
				for _, l := range locks {
					infos = append(infos, dto.ToLockInfo(l))
				}
				return present(c, fmt.Sprintf("%d lock(s)", len(infos)), infos, err)
			})
		},
	}
}

func newLockInfoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info <lock-id|period>",
		Short: "Show one run lock",
		Example: `  billrecon lock info generate:2026-10
  billrecon lock info 2026-10`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lockID, err := lock.ParseLockID(args[0])
			if err != nil {
				return err
			}
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				found, err := c.GetLockService().FindRunLock(ctx, lockID)
				if err != nil {
					return present(c, "", nil, err)
				}
				info := dto.ToLockInfo(found)
				return present(c, "Lock "+lockID.String(), &info, nil)
			})
		},
	}
}

func newLockExtendCmd(opts *rootOptions) *cobra.Command {
	var by time.Duration

	cmd := &cobra.Command{
		Use:   "extend <lock-id|period>",
		Short: "Push back the expiry of a run lock",
		Long: `Extend keeps a period frozen for longer, e.g. while its ledger is being
corrected by hand after a run was stopped.`,
		Example: "  billrecon lock extend generate:2026-10 --by 30m",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if by <= 0 {
				return fmt.Errorf("--by must be positive, got %s", by)
			}
			lockID, err := lock.ParseLockID(args[0])
			if err != nil {
				return err
			}
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				svc := c.GetLockService()
				if err := svc.ExtendRunLock(ctx, lockID, by); err != nil {
					return present(c, "", nil, err)
				}
				found, err := svc.FindRunLock(ctx, lockID)
				if err != nil {
					return present(c, "", nil, err)
				}
				info := dto.ToLockInfo(found)
				return present(c, "Lock extended by "+by.String(), &info, nil)
			})
		},
	}

	cmd.Flags().DurationVar(&by, "by", 10*time.Minute, "how much longer the lock lives")
	return cmd
}

func newLockCleanupCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired run locks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				count, err := c.GetLockService().CleanupExpiredRunLocks(ctx)
				return present(c, fmt.Sprintf("Removed %d expired lock(s)", count), nil, err)
			})
		},
	}
}
