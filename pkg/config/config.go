// Package config loads tool configuration the same way for every command:
// defaults, an optional config.yaml, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for the tool.
type Config struct {
	App     AppConfig
	Git     GitConfig
	History HistoryConfig
	Log     LogConfig
}

// AppConfig holds platform application settings.
type AppConfig struct {
	DefaultName string
	Buildpack   string
	HerokuBin   string
}

// GitConfig holds deployment publishing settings.
type GitConfig struct {
	Remote        string
	CommitMessage string
}

// HistoryConfig holds the deploy-run ledger settings.
type HistoryConfig struct {
	Enabled bool
	Driver  string
	DSN     string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// Load loads configuration from defaults, an optional config file, and
// environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars only
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			DefaultName: viper.GetString("app.default_name"),
			Buildpack:   viper.GetString("app.buildpack"),
			HerokuBin:   viper.GetString("app.heroku_bin"),
		},
		Git: GitConfig{
			Remote:        viper.GetString("git.remote"),
			CommitMessage: viper.GetString("git.commit_message"),
		},
		History: HistoryConfig{
			Enabled: viper.GetBool("history.enabled"),
			Driver:  viper.GetString("history.driver"),
			DSN:     viper.GetString("history.dsn"),
		},
		Log: LogConfig{
			Level: viper.GetString("log.level"),
		},
	}

	return config, nil
}

// ResolveAppName applies the name precedence: positional argument, then
// manifest, then the configured default.
func (c *Config) ResolveAppName(arg, manifestName string) string {
	if arg != "" {
		return arg
	}
	if manifestName != "" {
		return manifestName
	}
	return c.App.DefaultName
}

// setDefaults sets default configuration values.
func setDefaults() {
	viper.SetDefault("app.default_name", "resume-analyzer")
	viper.SetDefault("app.buildpack", "heroku/python")
	viper.SetDefault("app.heroku_bin", "heroku")

	viper.SetDefault("git.remote", "heroku")
	viper.SetDefault("git.commit_message", "Deploy to Heroku")

	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.driver", "sqlite")
	viper.SetDefault("history.dsn", defaultHistoryPath())

	viper.SetDefault("log.level", "info")
}

// defaultHistoryPath keeps the ledger out of the application repository.
func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "resume-deploy-history.db"
	}
	return filepath.Join(home, ".resume-deploy", "history.db")
}
