package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hpungsan/clickr/internal/keys"
)

// DirName is the name of both the global (~/.clickr) and repo (.clickr)
// configuration directories.
const DirName = ".clickr"

// Config holds application configuration.
type Config struct {
	// SocketPath overrides the daemon's unix socket (default <tmp>/clickr.sock).
	SocketPath string `json:"socket_path,omitempty"`

	// PipeName overrides the daemon's named pipe on Windows (default \\.\pipe\clickr).
	PipeName string `json:"pipe_name,omitempty"`

	// DaemonTimeoutMs bounds every daemon request, connect included.
	DaemonTimeoutMs int `json:"daemon_timeout_ms"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// LogFormat is "text" or "json". Logs always go to stderr.
	LogFormat string `json:"log_format,omitempty"`

	// TargetOS overrides the detected OS the daemon runs on. Profiles are
	// translated to, and compiled for, this OS.
	TargetOS string `json:"target_os,omitempty"`

	// AllowedPaths is an allowlist of directories for import/export operations.
	// Paths outside ~/.clickr/exports require either being in this list or AllowUnsafePaths=true.
	// Paths should be absolute (relative paths are ignored).
	AllowedPaths []string `json:"allowed_paths,omitempty"`

	// AllowUnsafePaths disables directory restrictions for import/export.
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DaemonTimeoutMs: 5000,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// DaemonTimeout returns DaemonTimeoutMs as a duration.
func (c *Config) DaemonTimeout() time.Duration {
	return time.Duration(c.DaemonTimeoutMs) * time.Millisecond
}

// DaemonAddress returns the configured socket path or pipe name for goos,
// or "" to use the bridge default.
func (c *Config) DaemonAddress(goos string) string {
	if keys.FromGOOS(goos) == keys.Windows {
		return c.PipeName
	}
	return c.SocketPath
}

// Target returns the OS profiles are translated to and compiled for:
// TargetOS when set and recognized, otherwise detected.
func (c *Config) Target(detected keys.OS) keys.OS {
	if c.TargetOS == "" {
		return detected
	}
	if o, ok := keys.ParseOS(c.TargetOS); ok {
		return o
	}
	return detected
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.clickr.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.clickr) and repo (.clickr) directories.
// Repo config is found by walking upward from startDir to find the nearest .clickr/config.json.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repoConfigPath := FindRepoConfig(startDir)
	repo, err := loadFileRaw(repoConfigPath)
	if err != nil {
		return nil, err
	}

	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .clickr/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, DirName, "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{
		SocketPath:      firstString(overlay.SocketPath, base.SocketPath),
		PipeName:        firstString(overlay.PipeName, base.PipeName),
		LogLevel:        firstString(overlay.LogLevel, base.LogLevel),
		LogFormat:       firstString(overlay.LogFormat, base.LogFormat),
		TargetOS:        firstString(overlay.TargetOS, base.TargetOS),
		DaemonTimeoutMs: firstInt(overlay.DaemonTimeoutMs, base.DaemonTimeoutMs),
		DBMaxOpenConns:  firstInt(overlay.DBMaxOpenConns, base.DBMaxOpenConns),
		DBMaxIdleConns:  firstInt(overlay.DBMaxIdleConns, base.DBMaxIdleConns),
	}

	// Booleans: overlay wins if true, else base
	result.AllowUnsafePaths = base.AllowUnsafePaths || overlay.AllowUnsafePaths

	result.AllowedPaths = mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func firstString(overlay, base string) string {
	if s := strings.TrimSpace(overlay); s != "" {
		return s
	}
	return base
}

func firstInt(overlay, base int) int {
	if overlay > 0 {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
