// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// AppConfig holds all application configuration.
// It is instantiated by NewConfig() and passed to components that need it.
type AppConfig struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Server   ServerConfig   `mapstructure:"server"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Repos    ReposConfig    `mapstructure:"repos"`
	Shell    ShellConfig    `mapstructure:"shell"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Agents   AgentsConfig   `mapstructure:"agents"`
}

// DatabaseConfig holds run-history database configuration.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level         string            `mapstructure:"level"`
	Format        string            `mapstructure:"format"`
	Output        []LogOutputConfig `mapstructure:"output"`
	Levels        map[string]string `mapstructure:"levels"`
	IncludeCaller bool              `mapstructure:"include_caller"`
}

// LogOutputConfig defines where logs are written.
type LogOutputConfig struct {
	Type    string          `mapstructure:"type"` // "file" or "console"
	Enabled bool            `mapstructure:"enabled"`
	Path    string          `mapstructure:"path"`
	Rotate  LogRotateConfig `mapstructure:"rotate"`
}

// LogRotateConfig defines log rotation settings.
type LogRotateConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	Compress   bool `mapstructure:"compress"`
}

// ServerConfig holds the observer API configuration.
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"` // Empty = allow all (development)
}

// LLMConfig holds the language-model endpoint configuration.
type LLMConfig struct {
	Model           string            `mapstructure:"model"`            // default model for all roles
	Models          map[string]string `mapstructure:"models"`           // per-role overrides, keyed by agent id
	APIKey          string            `mapstructure:"api_key"`          // SOLIDFORGE_LLM_API_KEY
	BaseURL         string            `mapstructure:"base_url"`         // Gemini-compatible endpoint root
	Temperature     float64           `mapstructure:"temperature"`
	MaxOutputTokens int               `mapstructure:"max_output_tokens"`
	Timeout         time.Duration     `mapstructure:"timeout"` // per-request HTTP timeout
}

// ModelFor returns the model configured for an agent id, falling back to
// the default model.
func (lc *LLMConfig) ModelFor(agentID string) string {
	if m, ok := lc.Models[agentID]; ok && m != "" {
		return m
	}
	return lc.Model
}

// ReposConfig points at the two repository checkouts the agents work
// against: the SHACL shape definitions and the data-object library.
type ReposConfig struct {
	ShapesPath string `mapstructure:"shapes_path"`
	ObjectPath string `mapstructure:"object_path"`
}

// ShellConfig constrains the shell tool.
type ShellConfig struct {
	Timeout         time.Duration `mapstructure:"timeout"`
	AllowedCommands []string      `mapstructure:"allowed_commands"` // first-token whitelist; empty = allow all
}

// PipelineConfig holds crew execution settings.
type PipelineConfig struct {
	Tasks        []string `mapstructure:"tasks"`         // agent ids in execution order
	MaxRevisions int      `mapstructure:"max_revisions"` // approval revise-loop bound
	MaxToolSteps int      `mapstructure:"max_tool_steps"`
	WorkDir      string   `mapstructure:"work_dir"` // where task artifacts are written
}

// AgentsConfig locates the declarative agent definitions.
type AgentsConfig struct {
	DefinitionsDir string `mapstructure:"definitions_dir"`
}

// NewConfig creates a new AppConfig by reading from a file, environment
// variables, and applying defaults.
func NewConfig(configPath string) (*AppConfig, error) {
	cfg := defaultConfig()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/solidforge/")
		v.AddConfigPath("$HOME/.solidforge")
	}

	v.SetEnvPrefix("SOLIDFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Missing config file is fine; defaults plus env are enough to run.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.expandPaths()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// defaultConfig returns an AppConfig with default values.
// This is more type-safe than using viper.SetDefault().
func defaultConfig() AppConfig {
	return AppConfig{
		Database: DatabaseConfig{
			Driver:   "sqlite",
			Database: "solidforge.db",
			Host:     "localhost",
			Port:     5432,
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Level:  "INFO",
			Format: "console",
			Output: []LogOutputConfig{
				{
					Type:    "file",
					Enabled: true,
					Path:    "./logs/solidforge.log",
					Rotate: LogRotateConfig{
						MaxSizeMB:  100,
						MaxBackups: 7,
						MaxAgeDays: 30,
						Compress:   true,
					},
				},
				{
					Type:    "console",
					Enabled: true,
				},
			},
			Levels: map[string]string{
				"crew":   "INFO",
				"agents": "INFO",
				"tools":  "INFO",
				"llm":    "INFO",
				"store":  "INFO",
				"api":    "INFO",
			},
			IncludeCaller: false,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		LLM: LLMConfig{
			Model:           "gemini-2.5-pro",
			BaseURL:         "https://generativelanguage.googleapis.com/v1beta",
			Temperature:     0.1,
			MaxOutputTokens: 8192,
			Timeout:         120 * time.Second,
		},
		Repos: ReposConfig{
			ShapesPath: "./shapes",
			ObjectPath: "./objects",
		},
		Shell: ShellConfig{
			Timeout: 60 * time.Second,
		},
		Pipeline: PipelineConfig{
			Tasks:        []string{"architect", "developer", "qa"},
			MaxRevisions: 3,
			MaxToolSteps: 16,
			WorkDir:      "./agent_work",
		},
		Agents: AgentsConfig{
			DefinitionsDir: "./agents",
		},
	}
}

// expandPaths expands ~ and environment variables in path values.
func (c *AppConfig) expandPaths() {
	c.Repos.ShapesPath = expandPath(c.Repos.ShapesPath)
	c.Repos.ObjectPath = expandPath(c.Repos.ObjectPath)
	c.Pipeline.WorkDir = expandPath(c.Pipeline.WorkDir)
	c.Agents.DefinitionsDir = expandPath(c.Agents.DefinitionsDir)
}

// expandPath expands ~ to home directory and environment variables.
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}

	return os.ExpandEnv(path)
}

// validate checks if the configuration is valid.
func (c *AppConfig) validate() error {
	if c.Database.Driver == "" {
		return errors.New("database driver is required")
	}

	validLogLevels := map[string]bool{
		"TRACE": true, "DEBUG": true, "INFO": true, "WARN": true, "ERROR": true, "FATAL": true, "PANIC": true,
	}
	if !validLogLevels[strings.ToUpper(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.LLM.Model == "" {
		return errors.New("llm.model is required")
	}
	if c.LLM.BaseURL == "" {
		return errors.New("llm.base_url is required")
	}

	if c.Shell.Timeout <= 0 {
		return fmt.Errorf("shell.timeout must be positive, got: %s", c.Shell.Timeout)
	}

	if c.Pipeline.MaxRevisions < 0 {
		return fmt.Errorf("pipeline.max_revisions must not be negative, got: %d", c.Pipeline.MaxRevisions)
	}
	if c.Pipeline.MaxToolSteps <= 0 {
		return fmt.Errorf("pipeline.max_tool_steps must be positive, got: %d", c.Pipeline.MaxToolSteps)
	}
	if len(c.Pipeline.Tasks) == 0 {
		return errors.New("pipeline.tasks must list at least one agent id")
	}

	if c.Agents.DefinitionsDir == "" {
		return errors.New("agents.definitions_dir is required")
	}

	return nil
}

// GetDSN returns the database connection string.
func (dc *DatabaseConfig) GetDSN() string {
	switch dc.Driver {
	case "sqlite":
		dsn := dc.Database
		if dsn == ":memory:" {
			dsn = "file::memory:?cache=shared"
		}
		return dsn
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			dc.Host, dc.Port, dc.Username, dc.Password, dc.Database, dc.SSLMode)
	default:
		return dc.Database
	}
}
