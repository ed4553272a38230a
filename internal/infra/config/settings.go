package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/YoshitsuguKoike/billrecon/internal/app/config"
)

// Setting file names, in lookup order
const (
	YAMLFileName = "setting.yaml"
	TOMLFileName = "setting.toml"
)

// RawSettings represents the structure of the setting file.
// Pointer fields distinguish "unset" from zero values.
type RawSettings struct {
	DBPath           *string `yaml:"db_path" toml:"db_path"`
	Store            *string `yaml:"store" toml:"store"`
	StderrLevel      *string `yaml:"stderr_level" toml:"stderr_level"`
	OutputFormat     *string `yaml:"output_format" toml:"output_format"`
	Timezone         *string `yaml:"timezone" toml:"timezone"`
	FallbackPersonID *string `yaml:"fallback_person_id" toml:"fallback_person_id"`
	HTTPAddr         *string `yaml:"http_addr" toml:"http_addr"`
	LockTTLSec       *int    `yaml:"lock_ttl_sec" toml:"lock_ttl_sec"`
	LockHeartbeatSec *int    `yaml:"lock_heartbeat_sec" toml:"lock_heartbeat_sec"`

	Archive *RawArchive `yaml:"archive" toml:"archive"`
}

// RawArchive is the archive section of the setting file
type RawArchive struct {
	Type     *string `yaml:"type" toml:"type"`
	Dir      *string `yaml:"dir" toml:"dir"`
	S3Bucket *string `yaml:"s3_bucket" toml:"s3_bucket"`
	S3Prefix *string `yaml:"s3_prefix" toml:"s3_prefix"`
	S3Region *string `yaml:"s3_region" toml:"s3_region"`
}

// LoadSettings loads configuration from setting.yaml, or setting.toml when no
// YAML file exists. Priority: setting file > defaults.
func LoadSettings(fs afero.Fs, baseDir string) (*config.AppConfig, error) {
	settings := &RawSettings{}
	configSource := "default"
	settingPath := ""

	yamlPath := filepath.Join(baseDir, YAMLFileName)
	tomlPath := filepath.Join(baseDir, TOMLFileName)

	if data, err := afero.ReadFile(fs, yamlPath); err == nil {
		if err := yaml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", yamlPath, err)
		}
		configSource = "yaml"
		settingPath = yamlPath
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", yamlPath, err)
	} else if data, err := afero.ReadFile(fs, tomlPath); err == nil {
		if err := toml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", tomlPath, err)
		}
		configSource = "toml"
		settingPath = tomlPath
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", tomlPath, err)
	}

	applyDefaults(settings, baseDir)

	values := toValues(settings, baseDir)
	if err := validate(values); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", describeSource(configSource, settingPath), err)
	}

	return config.NewAppConfig(values, configSource, settingPath), nil
}

func describeSource(source, path string) string {
	if path == "" {
		return source
	}
	return path
}

func stringDefault(p **string, v string) {
	if *p == nil {
		*p = &v
	}
}

func intDefault(p **int, v int) {
	if *p == nil {
		*p = &v
	}
}

// applyDefaults fills in default values for any nil fields
func applyDefaults(s *RawSettings, baseDir string) {
	stringDefault(&s.DBPath, filepath.Join(baseDir, "billrecon.db"))
	stringDefault(&s.Store, config.StoreSQLite)
	stringDefault(&s.StderrLevel, "warn")
	stringDefault(&s.OutputFormat, "cli")
	stringDefault(&s.Timezone, "Local")
	stringDefault(&s.FallbackPersonID, "")
	stringDefault(&s.HTTPAddr, "127.0.0.1:8787")
	intDefault(&s.LockTTLSec, 300)
	intDefault(&s.LockHeartbeatSec, 30)

	if s.Archive == nil {
		s.Archive = &RawArchive{}
	}
	stringDefault(&s.Archive.Type, config.ArchiveNone)
	stringDefault(&s.Archive.Dir, baseDir)
	stringDefault(&s.Archive.S3Bucket, "")
	stringDefault(&s.Archive.S3Prefix, "billrecon")
	stringDefault(&s.Archive.S3Region, "")
}

func toValues(s *RawSettings, baseDir string) config.Values {
	return config.Values{
		Home:             baseDir,
		DBPath:           strings.TrimSpace(*s.DBPath),
		Store:            strings.ToLower(strings.TrimSpace(*s.Store)),
		StderrLevel:      strings.ToLower(strings.TrimSpace(*s.StderrLevel)),
		OutputFormat:     strings.ToLower(strings.TrimSpace(*s.OutputFormat)),
		Timezone:         strings.TrimSpace(*s.Timezone),
		FallbackPersonID: strings.TrimSpace(*s.FallbackPersonID),
		LockTTLSec:       *s.LockTTLSec,
		LockHeartbeatSec: *s.LockHeartbeatSec,
		HTTPAddr:         strings.TrimSpace(*s.HTTPAddr),
		ArchiveType:      strings.ToLower(strings.TrimSpace(*s.Archive.Type)),
		ArchiveDir:       strings.TrimSpace(*s.Archive.Dir),
		ArchiveS3Bucket:  strings.TrimSpace(*s.Archive.S3Bucket),
		ArchiveS3Prefix:  strings.TrimSpace(*s.Archive.S3Prefix),
		ArchiveS3Region:  strings.TrimSpace(*s.Archive.S3Region),
	}
}

func validate(v config.Values) error {
	switch v.Store {
	case config.StoreSQLite:
		if v.DBPath == "" {
			return errors.New("db_path is required for the sqlite store")
		}
	case config.StoreMemory:
	default:
		return fmt.Errorf("store must be sqlite or memory, got %q", v.Store)
	}

	switch v.StderrLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("stderr_level must be debug, info, warn or error, got %q", v.StderrLevel)
	}

	switch v.OutputFormat {
	case "cli", "json":
	default:
		return fmt.Errorf("output_format must be cli or json, got %q", v.OutputFormat)
	}

	if _, err := time.LoadLocation(v.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", v.Timezone, err)
	}

	if v.LockTTLSec <= 0 {
		return fmt.Errorf("lock_ttl_sec must be positive, got %d", v.LockTTLSec)
	}
	if v.LockHeartbeatSec <= 0 || v.LockHeartbeatSec >= v.LockTTLSec {
		return fmt.Errorf("lock_heartbeat_sec must be positive and below lock_ttl_sec, got %d", v.LockHeartbeatSec)
	}

	switch v.ArchiveType {
	case config.ArchiveNone:
	case config.ArchiveLocal:
		if v.ArchiveDir == "" {
			return errors.New("archive.dir is required for the local archive")
		}
	case config.ArchiveS3:
		if v.ArchiveS3Bucket == "" {
			return errors.New("archive.s3_bucket is required for the s3 archive")
		}
	default:
		return fmt.Errorf("archive.type must be none, local or s3, got %q", v.ArchiveType)
	}
	return nil
}

// CreateDefaultSettings renders a default setting.yaml for baseDir
func CreateDefaultSettings(baseDir string) []byte {
	settings := &RawSettings{}
	applyDefaults(settings, baseDir)

	data, _ := yaml.Marshal(settings)
	return data
}
