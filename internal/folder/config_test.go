package folder

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, err := LoadConfig(LoadConfigInput{
		WorkDirOverride: dir,
		Env:             map[string]string{"HOME": dir},
	})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DataDirAbs != filepath.Join(dir, ".local", "share", "rf") {
		t.Errorf("DataDirAbs = %q", cfg.DataDirAbs)
	}

	if cfg.RecentDirAbs != filepath.Join(dir, ".local", "share", "RecentDocuments") {
		t.Errorf("RecentDirAbs = %q", cfg.RecentDirAbs)
	}

	if cfg.BatchSize != DefaultBatchSize || cfg.PrioritySlice != DefaultPrioritySlice || cfg.ListingCap != DefaultListingCap {
		t.Errorf("tuning defaults wrong: %+v", cfg)
	}

	if cfg.HistoryFile != filepath.Join(cfg.DataDirAbs, "history.json") {
		t.Errorf("HistoryFile = %q", cfg.HistoryFile)
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	xdg := filepath.Join(dir, "xdg")

	writeConfig(t, filepath.Join(xdg, "rf", "config.json"), `{
		// global config
		"data_dir": "global-data",
		"batch_size": 5,
	}`)

	writeConfig(t, filepath.Join(dir, ConfigFileName), `{"data_dir": "project-data"}`)

	cfg, err := LoadConfig(LoadConfigInput{
		WorkDirOverride: dir,
		Env:             map[string]string{"XDG_CONFIG_HOME": xdg, "HOME": dir},
	})
	if err != nil {
		t.Fatal(err)
	}

	// Project overrides global for the fields it sets; the rest falls through.
	if cfg.DataDirAbs != filepath.Join(dir, "project-data") {
		t.Errorf("DataDirAbs = %q", cfg.DataDirAbs)
	}

	if cfg.BatchSize != 5 {
		t.Errorf("BatchSize = %d, want the global value", cfg.BatchSize)
	}

	if cfg.Sources.Global == "" || cfg.Sources.Project == "" {
		t.Errorf("Sources = %+v, want both recorded", cfg.Sources)
	}
}

func TestLoadConfigCLIOverridesWin(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeConfig(t, filepath.Join(dir, ConfigFileName), `{"data_dir": "from-file", "recent_dir": "also-from-file"}`)

	cfg, err := LoadConfig(LoadConfigInput{
		WorkDirOverride: dir,
		DataDirOverride: "from-cli",
		RecentOverride:  "/abs/recent",
		Env:             map[string]string{"HOME": dir},
	})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DataDirAbs != filepath.Join(dir, "from-cli") {
		t.Errorf("DataDirAbs = %q", cfg.DataDirAbs)
	}

	if cfg.RecentDirAbs != "/abs/recent" {
		t.Errorf("RecentDirAbs = %q, absolute paths must pass through", cfg.RecentDirAbs)
	}
}

func TestLoadConfigExplicitFileMustExist(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := LoadConfig(LoadConfigInput{
		WorkDirOverride: dir,
		ConfigPath:      "nope.json",
		Env:             map[string]string{"HOME": dir},
	})

	if !errors.Is(err, ErrConfigFileNotFound) {
		t.Errorf("err = %v, want ErrConfigFileNotFound", err)
	}
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeConfig(t, filepath.Join(dir, ConfigFileName), `{broken`)

	_, err := LoadConfig(LoadConfigInput{
		WorkDirOverride: dir,
		Env:             map[string]string{"HOME": dir},
	})

	if !errors.Is(err, ErrConfigInvalid) {
		t.Errorf("err = %v, want ErrConfigInvalid", err)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeConfig(t, filepath.Join(dir, ConfigFileName), `{"batch_size": -1}`)

	_, err := LoadConfig(LoadConfigInput{
		WorkDirOverride: dir,
		Env:             map[string]string{"HOME": dir},
	})

	if !errors.Is(err, ErrBatchSizeInvalid) {
		t.Errorf("err = %v, want ErrBatchSizeInvalid", err)
	}
}

func TestLoadConfigNoHome(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// Without HOME or XDG vars there is no derivable data dir.
	_, err := LoadConfig(LoadConfigInput{
		WorkDirOverride: dir,
		Env:             map[string]string{},
	})

	if !errors.Is(err, ErrDataDirEmpty) {
		t.Errorf("err = %v, want ErrDataDirEmpty", err)
	}
}
