package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	infraConfig "github.com/YoshitsuguKoike/billrecon/internal/infra/config"
	"github.com/YoshitsuguKoike/billrecon/internal/infra/persistence/file"
)

func newInitCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default setting.yaml into the base directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			home := opts.config.Home()
			path := filepath.Join(home, infraConfig.YAMLFileName)

			exists, err := afero.Exists(opts.fs, path)
			if err != nil {
				return fmt.Errorf("check %s: %w", path, err)
			}
			if exists && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if err := opts.fs.MkdirAll(home, 0755); err != nil {
				return fmt.Errorf("create %s: %w", home, err)
			}
			if err := file.WriteFileAtomic(opts.fs, path, infraConfig.CreateDefaultSettings(home)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing setting file")
	return cmd
}
