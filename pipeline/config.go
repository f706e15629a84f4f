package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/surveyforge/draftd/extract"
)

// Config holds the full draftd configuration.
type Config struct {
	Listen    string `yaml:"listen"`
	DraftsDir string `yaml:"drafts_dir"`
	AuditDB   string `yaml:"audit_db"` // empty disables the audit trail
	MaxFileMB int    `yaml:"max_file_mb"`
	LogLevel  string `yaml:"log_level"`

	// SurveyTitle and SurveyLanguage are applied to extracted surveys.
	SurveyTitle    string `yaml:"survey_title"`
	SurveyLanguage string `yaml:"survey_language"`

	// KeepDrafts retains uploaded files in DraftsDir after the request
	// completes, for debugging. Default is to remove them on every exit path.
	KeepDrafts bool `yaml:"keep_drafts"`
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:         ":8080",
		DraftsDir:      "drafts",
		AuditDB:        "db/audit.db",
		MaxFileMB:      100,
		LogLevel:       "info",
		SurveyTitle:    extract.DefaultTitle,
		SurveyLanguage: extract.DefaultLanguage,
	}
}

// LoadConfig reads and parses a YAML config file. Returns DefaultConfig
// merged with the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.DraftsDir == "" {
		return fmt.Errorf("drafts_dir is required")
	}
	if c.MaxFileMB <= 0 {
		return fmt.Errorf("max_file_mb must be > 0")
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log_level %q", c.LogLevel)
	}
	return nil
}

// MaxFileBytes returns the max upload size in bytes.
func (c *Config) MaxFileBytes() int64 { return int64(c.MaxFileMB) * 1024 * 1024 }
