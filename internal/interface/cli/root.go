package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/billrecon/internal/app"
	"github.com/YoshitsuguKoike/billrecon/internal/app/config"
	infraConfig "github.com/YoshitsuguKoike/billrecon/internal/infra/config"
	"github.com/YoshitsuguKoike/billrecon/internal/infrastructure/di"
	"github.com/YoshitsuguKoike/billrecon/internal/interface/cli/version"
)

// rootOptions carries the persistent flags and the state loaded before any command runs
type rootOptions struct {
	home   string
	format string
	fs     afero.Fs

	config *config.AppConfig
	logger app.Logger
}

// reportedError marks an error the presenter has already shown
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// NewRoot builds the billrecon command tree
func NewRoot() *cobra.Command {
	return newRoot(afero.NewOsFs())
}

func newRoot(fs afero.Fs) *cobra.Command {
	opts := &rootOptions{fs: fs}

	cmd := &cobra.Command{
		Use:           "billrecon",
		Short:         "Reconcile work item hours and generate expense records",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Priority: setting file > defaults
			baseDir := opts.home
			if baseDir == "" {
				baseDir = infraConfig.ResolveHome()
			}

			cfg, err := infraConfig.LoadSettings(opts.fs, baseDir)
			if err != nil {
				return err
			}
			opts.config = cfg
			opts.logger = InitializeLoggers(InitGlobalLogger(cfg.StderrLevel(), cmd.ErrOrStderr()))
			opts.logger.Debug("configuration loaded from %s", cfg.ConfigSource())
			return nil
		},
		RunE: func(c *cobra.Command, _ []string) error { return c.Help() },
	}

	cmd.PersistentFlags().StringVar(&opts.home, "home", "", "base directory holding setting.yaml (default $BILLRECON_HOME or .billrecon)")
	cmd.PersistentFlags().StringVar(&opts.format, "format", "", "output format: cli or json (default from settings)")

	cmd.AddCommand(newAuditCmd(opts))
	cmd.AddCommand(newRepairCmd(opts))
	cmd.AddCommand(newGenerateCmd(opts))
	cmd.AddCommand(newRateCmd(opts))
	cmd.AddCommand(newLedgerCmd(opts))
	cmd.AddCommand(newImportCmd(opts))
	cmd.AddCommand(newReportCmd(opts))
	cmd.AddCommand(newLockCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newInitCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(version.NewCommand())
	return cmd
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	return execute(NewRoot())
}

func execute(root *cobra.Command) int {
	err := root.Execute()
	if err == nil {
		return 0
	}
	var reported *reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
	}
	return 1
}

// containerConfig maps the loaded settings and flags onto the DI config
func (o *rootOptions) containerConfig(cmd *cobra.Command) (di.Config, error) {
	cfg, err := di.ConfigFromApp(o.config)
	if err != nil {
		return di.Config{}, err
	}
	cfg.OutputWriter = cmd.OutOrStdout()
	cfg.Logger = o.logger
	if o.format != "" {
		cfg.OutputFormat = o.format
	}
	if cfg.ArchiveType == config.ArchiveLocal {
		cfg.ArchiveFs = o.fs
	}
	return cfg, nil
}

// withContainer builds and starts a container for one command and closes it afterwards
func (o *rootOptions) withContainer(cmd *cobra.Command, fn func(ctx context.Context, c *di.Container) error) error {
	cfg, err := o.containerConfig(cmd)
	if err != nil {
		return err
	}

	c, err := di.NewContainer(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx := cmd.Context()
	if err := c.Start(ctx); err != nil {
		return err
	}
	return fn(ctx, c)
}

// present shows the outcome through the configured presenter.
// data is shown only on success.
func present(c *di.Container, message string, data interface{}, err error) error {
	p := c.GetPresenter()
	if err != nil {
		if perr := p.PresentError(err); perr != nil {
			return perr
		}
		return &reportedError{err: err}
	}
	return p.PresentSuccess(message, data)
}

// presentPartial shows a failed run together with what it produced
func presentPartial(c *di.Container, data interface{}, err error) error {
	if perr := c.GetPresenter().PresentPartial(err, data); perr != nil {
		return perr
	}
	return &reportedError{err: err}
}
