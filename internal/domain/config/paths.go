package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName names the plm directories under the XDG base directories.
const AppName = "plm"

// EnvHome relocates both the config file and the cache.
const EnvHome = "PLM_HOME"

// DefaultFileName is the config file name inside the config directory.
const DefaultFileName = "config.yaml"

// Paths are the resolved plm locations.
type Paths struct {
	ConfigFile string
	CacheDir   string
}

// ResolvePaths returns the config file and plugin cache locations.
// $PLM_HOME wins over the XDG directories when set.
func ResolvePaths(getenv func(string) string) Paths {
	if home := getenv(EnvHome); home != "" {
		return Paths{
			ConfigFile: filepath.Join(home, DefaultFileName),
			CacheDir:   filepath.Join(home, "cache", "plugins"),
		}
	}
	return Paths{
		ConfigFile: filepath.Join(xdg.ConfigHome, AppName, DefaultFileName),
		CacheDir:   filepath.Join(xdg.CacheHome, AppName, "plugins"),
	}
}
