package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/YoshitsuguKoike/billrecon/internal/app/config"
	"github.com/YoshitsuguKoike/billrecon/internal/buildinfo"
)

// EffectiveConfig is the resolved configuration as printed by "billrecon config"
type EffectiveConfig struct {
	Meta    EffectiveConfigMeta    `json:"meta" yaml:"meta"`
	Store   EffectiveConfigStore   `json:"store" yaml:"store"`
	Billing EffectiveConfigBilling `json:"billing" yaml:"billing"`
	Lock    EffectiveConfigLock    `json:"lock" yaml:"lock"`
	HTTP    EffectiveConfigHTTP    `json:"http" yaml:"http"`
	Archive EffectiveConfigArchive `json:"archive" yaml:"archive"`
	Logging EffectiveConfigLogging `json:"logging" yaml:"logging"`
}

// EffectiveConfigMeta contains metadata about the configuration
type EffectiveConfigMeta struct {
	Source      string `json:"source" yaml:"source"`
	SettingPath string `json:"setting_path,omitempty" yaml:"setting_path,omitempty"`
	Home        string `json:"home" yaml:"home"`
	Version     string `json:"version" yaml:"version"`
}

// EffectiveConfigStore describes the datastore
type EffectiveConfigStore struct {
	Type   string `json:"type" yaml:"type"`
	DBPath string `json:"db_path" yaml:"db_path"`
}

// EffectiveConfigBilling holds the billing settings
type EffectiveConfigBilling struct {
	Timezone         string `json:"timezone" yaml:"timezone"`
	FallbackPersonID string `json:"fallback_person_id" yaml:"fallback_person_id"`
}

// EffectiveConfigLock holds the generation lock settings
type EffectiveConfigLock struct {
	TTLSec       int `json:"ttl_sec" yaml:"ttl_sec"`
	HeartbeatSec int `json:"heartbeat_sec" yaml:"heartbeat_sec"`
}

// EffectiveConfigHTTP holds the HTTP API settings
type EffectiveConfigHTTP struct {
	Addr string `json:"addr" yaml:"addr"`
}

// EffectiveConfigArchive describes the report archive
type EffectiveConfigArchive struct {
	Type     string `json:"type" yaml:"type"`
	Dir      string `json:"dir,omitempty" yaml:"dir,omitempty"`
	S3Bucket string `json:"s3_bucket,omitempty" yaml:"s3_bucket,omitempty"`
	S3Prefix string `json:"s3_prefix,omitempty" yaml:"s3_prefix,omitempty"`
	S3Region string `json:"s3_region,omitempty" yaml:"s3_region,omitempty"`
}

// EffectiveConfigLogging represents logging configuration
type EffectiveConfigLogging struct {
	StderrLevel  string `json:"stderr_level" yaml:"stderr_level"`
	OutputFormat string `json:"output_format" yaml:"output_format"`
}

func (o *rootOptions) effectiveConfig() EffectiveConfig {
	cfg := o.config
	eff := EffectiveConfig{
		Meta: EffectiveConfigMeta{
			Source:      cfg.ConfigSource(),
			SettingPath: cfg.SettingPath(),
			Home:        cfg.Home(),
			Version:     buildinfo.String(),
		},
		Store:   EffectiveConfigStore{Type: cfg.Store(), DBPath: cfg.DBPath()},
		Billing: EffectiveConfigBilling{Timezone: cfg.Timezone(), FallbackPersonID: cfg.FallbackPersonID()},
		Lock:    EffectiveConfigLock{TTLSec: cfg.LockTTLSec(), HeartbeatSec: cfg.LockHeartbeatSec()},
		HTTP:    EffectiveConfigHTTP{Addr: cfg.HTTPAddr()},
		Archive: EffectiveConfigArchive{Type: cfg.ArchiveType()},
		Logging: EffectiveConfigLogging{StderrLevel: cfg.StderrLevel(), OutputFormat: cfg.OutputFormat()},
	}
	switch cfg.ArchiveType() {
	case config.ArchiveLocal:
		eff.Archive.Dir = cfg.ArchiveDir()
	case config.ArchiveS3:
		eff.Archive.S3Bucket = cfg.ArchiveS3Bucket()
		eff.Archive.S3Prefix = cfg.ArchiveS3Prefix()
		eff.Archive.S3Region = cfg.ArchiveS3Region()
	}
	if o.format != "" {
		eff.Logging.OutputFormat = o.format
	}
	return eff
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eff := opts.effectiveConfig()
			out := cmd.OutOrStdout()

			if eff.Logging.OutputFormat == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(eff)
			}

			data, err := yaml.Marshal(eff)
			if err != nil {
				return fmt.Errorf("render configuration: %w", err)
			}
			_, err = out.Write(data)
			return err
		},
	}
}
