package config

import (
	"os"
	"strings"
)

// HomeEnv names the environment variable that selects the base directory
const HomeEnv = "BILLRECON_HOME"

// DefaultHome is the base directory used when HomeEnv is unset
const DefaultHome = ".billrecon"

// ResolveHome returns the base directory holding setting.yaml or setting.toml.
// The environment only picks the directory; every setting comes from the file.
func ResolveHome() string {
	if v := strings.TrimSpace(os.Getenv(HomeEnv)); v != "" {
		return v
	}
	return DefaultHome
}
