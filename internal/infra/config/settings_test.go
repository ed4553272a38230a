package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/YoshitsuguKoike/billrecon/internal/app/config"
)

const home = "/srv/billrecon"

func writeSetting(t *testing.T, fs afero.Fs, name, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, filepath.Join(home, name), []byte(content), 0o644))
}

func TestLoadSettings_Defaults(t *testing.T) {
	cfg, err := LoadSettings(afero.NewMemMapFs(), home)
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.ConfigSource())
	assert.Empty(t, cfg.SettingPath())
	assert.Equal(t, home, cfg.Home())
	assert.Equal(t, filepath.Join(home, "billrecon.db"), cfg.DBPath())
	assert.Equal(t, appconfig.StoreSQLite, cfg.Store())
	assert.Equal(t, "warn", cfg.StderrLevel())
	assert.Equal(t, "cli", cfg.OutputFormat())
	assert.Equal(t, "Local", cfg.Timezone())
	assert.Empty(t, cfg.FallbackPersonID())
	assert.Equal(t, 5*time.Minute, cfg.LockTTL())
	assert.Equal(t, 30*time.Second, cfg.LockHeartbeat())
	assert.Equal(t, appconfig.ArchiveNone, cfg.ArchiveType())
	assert.Equal(t, home, cfg.ArchiveDir())
}

func TestLoadSettings_YAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeSetting(t, fs, YAMLFileName, `
store: memory
stderr_level: DEBUG
output_format: json
timezone: Asia/Tokyo
fallback_person_id: ops
http_addr: 0.0.0.0:9000
lock_ttl_sec: 120
lock_heartbeat_sec: 10
archive:
  type: s3
  s3_bucket: billing-reports
  s3_region: ap-northeast-1
`)

	cfg, err := LoadSettings(fs, home)
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.ConfigSource())
	assert.Equal(t, filepath.Join(home, YAMLFileName), cfg.SettingPath())
	assert.Equal(t, appconfig.StoreMemory, cfg.Store())
	assert.Equal(t, "debug", cfg.StderrLevel())
	assert.Equal(t, "json", cfg.OutputFormat())
	assert.Equal(t, "Asia/Tokyo", cfg.Timezone())
	assert.Equal(t, "ops", cfg.FallbackPersonID())
	assert.Equal(t, "0.0.0.0:9000", cfg.HTTPAddr())
	assert.Equal(t, 2*time.Minute, cfg.LockTTL())
	assert.Equal(t, appconfig.ArchiveS3, cfg.ArchiveType())
	assert.Equal(t, "billing-reports", cfg.ArchiveS3Bucket())
	assert.Equal(t, "billrecon", cfg.ArchiveS3Prefix(), "unset keys keep their defaults")
	assert.Equal(t, "ap-northeast-1", cfg.ArchiveS3Region())
}

func TestLoadSettings_TOML(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeSetting(t, fs, TOMLFileName, `
db_path = "/data/ledger.db"
lock_ttl_sec = 600

[archive]
type = "local"
dir = "/data/reports"
`)

	cfg, err := LoadSettings(fs, home)
	require.NoError(t, err)

	assert.Equal(t, "toml", cfg.ConfigSource())
	assert.Equal(t, "/data/ledger.db", cfg.DBPath())
	assert.Equal(t, 600, cfg.LockTTLSec())
	assert.Equal(t, appconfig.ArchiveLocal, cfg.ArchiveType())
	assert.Equal(t, "/data/reports", cfg.ArchiveDir())
}

func TestLoadSettings_YAMLWinsOverTOML(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeSetting(t, fs, YAMLFileName, "output_format: json\n")
	writeSetting(t, fs, TOMLFileName, "output_format = \"cli\"\n")

	cfg, err := LoadSettings(fs, home)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.ConfigSource())
	assert.Equal(t, "json", cfg.OutputFormat())
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"Malformed YAML", "store: [\n", "failed to parse"},
		{"Unknown store", "store: postgres\n", "store must be"},
		{"Unknown level", "stderr_level: loud\n", "stderr_level"},
		{"Unknown format", "output_format: xml\n", "output_format"},
		{"Unknown zone", "timezone: Mars/Olympus\n", "timezone"},
		{"Zero TTL", "lock_ttl_sec: 0\n", "lock_ttl_sec"},
		{"Heartbeat above TTL", "lock_ttl_sec: 10\nlock_heartbeat_sec: 20\n", "lock_heartbeat_sec"},
		{"S3 without bucket", "archive:\n  type: s3\n", "s3_bucket"},
		{"Unknown archive", "archive:\n  type: ftp\n", "archive.type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeSetting(t, fs, YAMLFileName, tt.content)

			_, err := LoadSettings(fs, home)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCreateDefaultSettings_RoundTrips(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeSetting(t, fs, YAMLFileName, string(CreateDefaultSettings(home)))

	cfg, err := LoadSettings(fs, home)
	require.NoError(t, err)

	defaults, err := LoadSettings(afero.NewMemMapFs(), home)
	require.NoError(t, err)
	assert.Equal(t, defaults.Snapshot(), cfg.Snapshot())
}

func TestResolveHome(t *testing.T) {
	t.Setenv(HomeEnv, "")
	assert.Equal(t, DefaultHome, ResolveHome())

	t.Setenv(HomeEnv, "/opt/billing")
	assert.Equal(t, "/opt/billing", ResolveHome())
}
