package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/harrison/phplint/internal/autoload"
	"github.com/harrison/phplint/internal/cache"
	"github.com/harrison/phplint/internal/repository"
)

// FileName is the configuration file looked up in the project root.
const FileName = ".phplint.yaml"

// VCS backend names accepted by the vcs option.
const (
	VCSCLI   = "cli"
	VCSGoGit = "go-git"
)

// Config represents phplint configuration options
type Config struct {
	// Tool names the analyzer whose cache directory is staged (var/cache/<tool>)
	Tool string `yaml:"tool"`

	// ComposerFile is the PSR-4 mapping source, relative to the project root
	ComposerFile string `yaml:"composer_file"`

	// ExpectedBranch is the default branch the remote should advertise
	ExpectedBranch string `yaml:"expected_branch"`

	// FileType selects which tracked files are listed and staged
	FileType string `yaml:"file_type"`

	// VCS selects the repository backend (cli, go-git)
	VCS string `yaml:"vcs"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// CacheBase is the directory that holds var/cache; empty means the project root
	CacheBase string `yaml:"cache_base"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Tool:           cache.DefaultTool,
		ComposerFile:   autoload.DefaultComposerFile,
		ExpectedBranch: repository.DefaultExpectedBranch,
		FileType:       string(repository.TypePHP),
		VCS:            VCSCLI,
		LogLevel:       "info",
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.merge(&fileCfg)

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .phplint.yaml in the specified directory
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, FileName))
}

// merge copies every non-empty field of other into c.
func (c *Config) merge(other *Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Tool, other.Tool)
	set(&c.ComposerFile, other.ComposerFile)
	set(&c.ExpectedBranch, other.ExpectedBranch)
	set(&c.FileType, other.FileType)
	set(&c.VCS, other.VCS)
	set(&c.LogLevel, other.LogLevel)
	set(&c.CacheBase, other.CacheBase)
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(logLevel, vcs, fileType *string) {
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if vcs != nil {
		c.VCS = *vcs
	}
	if fileType != nil {
		c.FileType = *fileType
	}
}

// ResolveCacheBase returns CacheBase made absolute against projectRoot,
// or projectRoot itself when CacheBase is empty.
func (c *Config) ResolveCacheBase(projectRoot string) string {
	switch {
	case c.CacheBase == "":
		return projectRoot
	case filepath.IsAbs(c.CacheBase):
		return c.CacheBase
	default:
		return filepath.Join(projectRoot, c.CacheBase)
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.VCS != VCSCLI && c.VCS != VCSGoGit {
		return fmt.Errorf("invalid vcs %q, must be one of: %s, %s", c.VCS, VCSCLI, VCSGoGit)
	}

	if _, err := repository.ParseFileType(c.FileType); err != nil {
		return fmt.Errorf("invalid file_type: %w", err)
	}

	if c.Tool == "" {
		return fmt.Errorf("tool cannot be empty")
	}
	if _, err := cache.New(c.ResolveCacheBase("."), c.Tool); err != nil {
		return fmt.Errorf("invalid tool: %w", err)
	}

	if c.ComposerFile == "" {
		return fmt.Errorf("composer_file cannot be empty")
	}
	if c.ExpectedBranch == "" {
		return fmt.Errorf("expected_branch cannot be empty")
	}

	return nil
}
