// Package config loads process-wide settings.
//
// Settings come from an optional toolcall.toml at the project root and are
// then overlaid with TOOLCALL_* environment variables. The same file may
// also carry [[tool]] and [[task]] tables; those are read by the manifest
// backend and ignored here.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	FileName = "toolcall.toml"

	EnvVerbose   = "TOOLCALL_VERBOSE"
	EnvDryRun    = "TOOLCALL_DRY_RUN"
	EnvDelimiter = "TOOLCALL_DELIMITER"
	EnvLogLevel  = "TOOLCALL_LOG_LEVEL"

	DefaultDelimiter = "+"
)

// Settings is the read-only configuration handed to runners and tools.
type Settings struct {
	Folders Folders

	Verbose   bool
	DryRun    bool
	Delimiter string
	LogLevel  string

	// Manifest is the path of the file holding [[tool]] and [[task]]
	// entries. Empty disables the manifest backend.
	Manifest string

	// Scripts is the directory scanned for JavaScript tools.
	Scripts string

	// Executables maps tool names, optionally with an "@version" suffix, to
	// executable paths.
	Executables map[string]string
}

// Folders is the on-disk layout below a project root.
type Folders struct {
	Root  string
	Home  string
	Cache string
	Tools string
	Tmp   string
}

// NewFolders derives the standard layout for root.
func NewFolders(root string) Folders {
	home := filepath.Join(root, ".toolcall")
	return Folders{
		Root:  root,
		Home:  home,
		Cache: filepath.Join(home, "cache"),
		Tools: filepath.Join(home, "tools"),
		Tmp:   filepath.Join(home, "tmp"),
	}
}

// Default returns the settings used when no file is present.
func Default(root string) Settings {
	folders := NewFolders(root)
	return Settings{
		Folders:   folders,
		Delimiter: DefaultDelimiter,
		LogLevel:  "info",
		Manifest:  filepath.Join(root, FileName),
		Scripts:   folders.Tools,
	}
}

// fileConfig is the toolcall.toml key mapping.
type fileConfig struct {
	Verbose     bool              `toml:"verbose"`
	DryRun      bool              `toml:"dry_run"`
	Delimiter   string            `toml:"delimiter"`
	LogLevel    string            `toml:"log_level"`
	Manifest    string            `toml:"manifest"`
	Scripts     string            `toml:"scripts"`
	Executables map[string]string `toml:"executables"`
}

// Load reads root/toolcall.toml when it exists and applies environment
// overrides.
func Load(root string) (Settings, error) {
	return load(root, os.Getenv)
}

func load(root string, getenv func(string) string) (Settings, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	cfg := Default(abs)

	path := filepath.Join(abs, FileName)
	if _, err := os.Stat(path); err == nil {
		if err := decodeFile(path, &cfg); err != nil {
			return Settings{}, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}

	applyEnvOverrides(&cfg, getenv)
	if strings.TrimSpace(cfg.Delimiter) == "" {
		return Settings{}, fmt.Errorf("load settings: delimiter must not be blank")
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Settings) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load settings %s: %w", path, err)
	}

	if meta.IsDefined("verbose") {
		cfg.Verbose = raw.Verbose
	}
	if meta.IsDefined("dry_run") {
		cfg.DryRun = raw.DryRun
	}
	if meta.IsDefined("delimiter") {
		cfg.Delimiter = strings.TrimSpace(raw.Delimiter)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("manifest") {
		cfg.Manifest = resolve(cfg.Folders.Root, raw.Manifest)
	}
	if meta.IsDefined("scripts") {
		cfg.Scripts = resolve(cfg.Folders.Root, raw.Scripts)
	}
	if meta.IsDefined("executables") {
		cfg.Executables = make(map[string]string, len(raw.Executables))
		for name, p := range raw.Executables {
			cfg.Executables[strings.TrimSpace(name)] = strings.TrimSpace(p)
		}
	}
	return nil
}

func resolve(root, p string) string {
	p = strings.TrimSpace(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

func applyEnvOverrides(cfg *Settings, getenv func(string) string) {
	if v, ok := parseBool(getenv(EnvVerbose)); ok {
		cfg.Verbose = v
	}
	if v, ok := parseBool(getenv(EnvDryRun)); ok {
		cfg.DryRun = v
	}
	if v := strings.TrimSpace(getenv(EnvDelimiter)); v != "" {
		cfg.Delimiter = v
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = v
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
