package folder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized). Config files are JSONC.
	DataDir       string `json:"data_dir"`
	RecentDir     string `json:"recent_dir,omitempty"`
	Opener        string `json:"opener,omitempty"`
	BatchSize     int    `json:"batch_size,omitempty"`
	PrioritySlice int    `json:"priority_slice,omitempty"`
	ListingCap    int    `json:"listing_cap,omitempty"`

	// Resolved paths (computed, not serialized)
	EffectiveCwd string `json:"-"` // absolute working directory (from -C flag or os.Getwd)
	DataDirAbs   string `json:"-"`
	RecentDirAbs string `json:"-"`
	HistoryFile  string `json:"-"` // DataDirAbs/history.json
	IndexFile    string `json:"-"` // DataDirAbs/index.db

	// Sources tracks which config files were loaded (for diagnostics)
	Sources ConfigSources `json:"-"`
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Global  string // path to global config if loaded, empty otherwise
	Project string // path to project config if loaded, empty otherwise
}

// ConfigFileName is the project-level config file name.
const ConfigFileName = ".rf.json"

// Persisted file names inside the data dir.
const (
	HistoryFileName = "history.json"
	IndexFileName   = "index.db"
)

// DefaultConfig returns the default configuration. The data dir and recent
// dir defaults are home-relative and resolved against env at load time.
func DefaultConfig() Config {
	return Config{
		BatchSize:     DefaultBatchSize,
		PrioritySlice: DefaultPrioritySlice,
		ListingCap:    DefaultListingCap,
	}
}

// getGlobalConfigPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/rf/config.json if set, otherwise ~/.config/rf/config.json.
// Returns empty string if home directory cannot be determined.
func getGlobalConfigPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "rf", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "rf", "config.json")
	}

	return ""
}

// defaultDataDir is $XDG_DATA_HOME/rf, falling back to ~/.local/share/rf.
func defaultDataDir(env map[string]string) string {
	if xdgData := env["XDG_DATA_HOME"]; xdgData != "" {
		return filepath.Join(xdgData, "rf")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".local", "share", "rf")
	}

	return ""
}

// defaultRecentDir is ~/.local/share/RecentDocuments, the symlink-per-item
// recent folder this engine's portable enumerator understands. Platform
// specific enumeration mechanisms plug in behind the Enumerator interface
// instead of the config.
func defaultRecentDir(env map[string]string) string {
	if xdgData := env["XDG_DATA_HOME"]; xdgData != "" {
		return filepath.Join(xdgData, "RecentDocuments")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".local", "share", "RecentDocuments")
	}

	return ""
}

// LoadConfigInput holds the inputs for LoadConfig.
type LoadConfigInput struct {
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	DataDirOverride string            // --data-dir flag value; empty means no override
	RecentOverride  string            // --recent-dir flag value; empty means no override
	Env             map[string]string // environment variables
}

// LoadConfig loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config (~/.config/rf/config.json or $XDG_CONFIG_HOME/rf/config.json)
// 3. Project config file at default location (.rf.json, if exists)
// 4. Explicit config file via ConfigPath (if non-empty)
// 5. CLI overrides.
//
// All paths in the returned Config are resolved to absolute paths.
func LoadConfig(input LoadConfigInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := DefaultConfig()

	globalCfg, globalPath, err := loadGlobalConfig(input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = globalPath
	cfg = mergeConfig(cfg, globalCfg)

	projectCfg, projectPath, err := loadProjectConfig(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectPath
	cfg = mergeConfig(cfg, projectCfg)

	if input.DataDirOverride != "" {
		cfg.DataDir = input.DataDirOverride
	}

	if input.RecentOverride != "" {
		cfg.RecentDir = input.RecentOverride
	}

	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir(input.Env)
	}

	if cfg.RecentDir == "" {
		cfg.RecentDir = defaultRecentDir(input.Env)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	cfg.EffectiveCwd = workDir
	cfg.DataDirAbs = absAgainst(workDir, cfg.DataDir)
	cfg.RecentDirAbs = absAgainst(workDir, cfg.RecentDir)
	cfg.HistoryFile = filepath.Join(cfg.DataDirAbs, HistoryFileName)
	cfg.IndexFile = filepath.Join(cfg.DataDirAbs, IndexFileName)

	return cfg, nil
}

func absAgainst(workDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(workDir, p)
}

func validateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrDataDirEmpty
	}

	if cfg.BatchSize < 0 {
		return ErrBatchSizeInvalid
	}

	if cfg.ListingCap < 0 {
		return ErrListingCapInvalid
	}

	return nil
}

// loadGlobalConfig loads the global user config file if it exists.
// Returns the config, the path if loaded, and any error.
func loadGlobalConfig(env map[string]string) (Config, string, error) {
	globalCfgPath := getGlobalConfigPath(env)
	if globalCfgPath == "" {
		return Config{}, "", nil
	}

	globalCfg, loaded, err := loadConfigFile(globalCfgPath, false)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return globalCfg, globalCfgPath, nil
}

// loadProjectConfig loads the project config file (.rf.json) or an explicit
// config file. Returns the config, the path if loaded, and any error.
func loadProjectConfig(workDir, configPath string) (Config, string, error) {
	var cfgFile string

	var mustExist bool

	if configPath != "" {
		cfgFile = configPath
		if !filepath.IsAbs(cfgFile) {
			cfgFile = filepath.Join(workDir, cfgFile)
		}

		mustExist = true

		_, statErr := os.Stat(cfgFile)
		if statErr != nil {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	} else {
		cfgFile = filepath.Join(workDir, ConfigFileName)
		mustExist = false
	}

	fileCfg, loaded, err := loadConfigFile(cfgFile, mustExist)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return fileCfg, cfgFile, nil
}

// loadConfigFile loads a config file. If mustExist is false, missing files
// return zero config.
func loadConfigFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
		}

		return Config{}, false, nil
	}

	cfg, parseErr := parseConfig(data)
	if parseErr != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, parseErr)
	}

	return cfg, true, nil
}

func parseConfig(data []byte) (Config, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return cfg, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.DataDir != "" {
		base.DataDir = overlay.DataDir
	}

	if overlay.RecentDir != "" {
		base.RecentDir = overlay.RecentDir
	}

	if overlay.Opener != "" {
		base.Opener = overlay.Opener
	}

	if overlay.BatchSize != 0 {
		base.BatchSize = overlay.BatchSize
	}

	if overlay.PrioritySlice != 0 {
		base.PrioritySlice = overlay.PrioritySlice
	}

	if overlay.ListingCap != 0 {
		base.ListingCap = overlay.ListingCap
	}

	return base
}

// FormatConfig renders the serializable part of a config as indented JSON,
// for print-config.
func FormatConfig(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("formatting config: %w", err)
	}

	return string(data), nil
}
