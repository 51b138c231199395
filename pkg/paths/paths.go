// Package paths provides centralized XDG Base Directory handling for
// overlayforge: where the archive byte-cache lives, where the log file
// goes, and where user-level configuration is read from.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names that override the XDG-derived defaults.
const (
	EnvConfigDir = "OVERLAYFORGE_CONFIG_DIR"
	EnvCacheDir  = "OVERLAYFORGE_CACHE_DIR"
	EnvStateDir  = "OVERLAYFORGE_STATE_DIR"
)

// AppDirName is the subdirectory name used under each XDG base directory.
const AppDirName = "overlayforge"

// Paths resolves the application's on-disk locations.
type Paths struct {
	configDir string
	cacheDir  string
	stateDir  string
}

// New resolves the application's directories, honoring the Env* overrides
// before falling back to XDG defaults.
func New() *Paths {
	return &Paths{
		configDir: firstNonEmpty(os.Getenv(EnvConfigDir), filepath.Join(xdg.ConfigHome, AppDirName)),
		cacheDir:  firstNonEmpty(os.Getenv(EnvCacheDir), filepath.Join(xdg.CacheHome, AppDirName)),
		stateDir:  firstNonEmpty(os.Getenv(EnvStateDir), filepath.Join(xdg.StateHome, AppDirName)),
	}
}

// ConfigDir returns the directory holding user configuration
// (config.toml).
func (p *Paths) ConfigDir() string { return p.configDir }

// ConfigFile returns the path to the main configuration file.
func (p *Paths) ConfigFile() string { return filepath.Join(p.configDir, "config.toml") }

// CacheDir returns the directory used for the byte-level archive cache.
func (p *Paths) CacheDir() string { return p.cacheDir }

// ArchiveCachePath returns where a fetched archive for the given cache key
// would be cached on disk.
func (p *Paths) ArchiveCachePath(cacheKey string) string {
	return filepath.Join(p.cacheDir, "archives", cacheKey)
}

// StateDir returns the directory used for runtime state, such as the log
// file.
func (p *Paths) StateDir() string { return p.stateDir }

// EnsureDirs creates the config, cache and state directories if missing.
func (p *Paths) EnsureDirs() error {
	for _, dir := range []string{p.configDir, p.cacheDir, p.stateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
