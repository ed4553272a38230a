package config

import "time"

// Store backends
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Archive backends
const (
	ArchiveNone  = "none"
	ArchiveLocal = "local"
	ArchiveS3    = "s3"
)

// Config provides read-only access to application configuration.
// This interface abstracts the configuration source (YAML, TOML, defaults)
// and ensures the app layer doesn't depend on infrastructure details.
type Config interface {
	// Core settings
	Home() string   // Base directory (BILLRECON_HOME)
	DBPath() string // SQLite database file
	Store() string  // "sqlite" or "memory"

	// Output and logging
	StderrLevel() string  // Stderr log level
	OutputFormat() string // "cli" or "json"

	// Billing
	Timezone() string         // IANA zone used to derive the current billing period
	FallbackPersonID() string // Payee for finished unassigned work; empty disables

	// Generation lock
	LockTTLSec() int
	LockTTL() time.Duration
	LockHeartbeatSec() int
	LockHeartbeat() time.Duration

	// HTTP API
	HTTPAddr() string

	// Report archive
	ArchiveType() string // "none", "local" or "s3"
	ArchiveDir() string
	ArchiveS3Bucket() string
	ArchiveS3Prefix() string
	ArchiveS3Region() string

	// Metadata
	ConfigSource() string // Source of configuration: "yaml", "toml" or "default"
	SettingPath() string  // Path to the setting file if loaded from file
}

// Values carries every resolved setting. The infrastructure layer fills it
// after merging file values over defaults.
type Values struct {
	Home             string
	DBPath           string
	Store            string
	StderrLevel      string
	OutputFormat     string
	Timezone         string
	FallbackPersonID string
	LockTTLSec       int
	LockHeartbeatSec int
	HTTPAddr         string
	ArchiveType      string
	ArchiveDir       string
	ArchiveS3Bucket  string
	ArchiveS3Prefix  string
	ArchiveS3Region  string
}

// AppConfig is the concrete implementation of Config interface
type AppConfig struct {
	values       Values
	configSource string
	settingPath  string
}

// NewAppConfig creates a new AppConfig with the given values
func NewAppConfig(values Values, configSource, settingPath string) *AppConfig {
	return &AppConfig{
		values:       values,
		configSource: configSource,
		settingPath:  settingPath,
	}
}

// Home returns the base directory
func (c *AppConfig) Home() string {
	return c.values.Home
}

// DBPath returns the SQLite database path
func (c *AppConfig) DBPath() string {
	return c.values.DBPath
}

// Store returns the store backend
func (c *AppConfig) Store() string {
	return c.values.Store
}

// StderrLevel returns the stderr log level
func (c *AppConfig) StderrLevel() string {
	return c.values.StderrLevel
}

// OutputFormat returns the default presenter format
func (c *AppConfig) OutputFormat() string {
	return c.values.OutputFormat
}

// Timezone returns the billing time zone name
func (c *AppConfig) Timezone() string {
	return c.values.Timezone
}

// FallbackPersonID returns the payee for unassigned work
func (c *AppConfig) FallbackPersonID() string {
	return c.values.FallbackPersonID
}

// LockTTLSec returns the period lock lease in seconds
func (c *AppConfig) LockTTLSec() int {
	return c.values.LockTTLSec
}

// LockTTL returns the period lock lease as a Duration
func (c *AppConfig) LockTTL() time.Duration {
	return time.Duration(c.values.LockTTLSec) * time.Second
}

// LockHeartbeatSec returns the lock heartbeat interval in seconds
func (c *AppConfig) LockHeartbeatSec() int {
	return c.values.LockHeartbeatSec
}

// LockHeartbeat returns the lock heartbeat interval as a Duration
func (c *AppConfig) LockHeartbeat() time.Duration {
	return time.Duration(c.values.LockHeartbeatSec) * time.Second
}

// HTTPAddr returns the listen address of the HTTP API
func (c *AppConfig) HTTPAddr() string {
	return c.values.HTTPAddr
}

// ArchiveType returns the report archive backend
func (c *AppConfig) ArchiveType() string {
	return c.values.ArchiveType
}

// ArchiveDir returns the local archive directory
func (c *AppConfig) ArchiveDir() string {
	return c.values.ArchiveDir
}

// ArchiveS3Bucket returns the archive bucket
func (c *AppConfig) ArchiveS3Bucket() string {
	return c.values.ArchiveS3Bucket
}

// ArchiveS3Prefix returns the archive key prefix
func (c *AppConfig) ArchiveS3Prefix() string {
	return c.values.ArchiveS3Prefix
}

// ArchiveS3Region returns the archive region; empty uses the SDK default chain
func (c *AppConfig) ArchiveS3Region() string {
	return c.values.ArchiveS3Region
}

// ConfigSource returns the source of configuration
func (c *AppConfig) ConfigSource() string {
	return c.configSource
}

// SettingPath returns the path to the setting file if loaded from file
func (c *AppConfig) SettingPath() string {
	return c.settingPath
}

// Snapshot returns a copy of every resolved value
func (c *AppConfig) Snapshot() Values {
	return c.values
}
