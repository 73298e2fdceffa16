package config

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port               string   `mapstructure:"PORT"`
	Env                string   `mapstructure:"ENV"`
	CORSOrigins        []string `mapstructure:"CORS_ORIGINS"`
	DatabaseURL        string   `mapstructure:"DATABASE_URL"`
	DBMaxConns         int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns         int32    `mapstructure:"DB_MIN_CONNS"`
	SessionFile        string   `mapstructure:"SESSION_FILE"`
	SessionSigningKey  string   `mapstructure:"SESSION_SIGNING_KEY"`
	AnalysisDurationMS int      `mapstructure:"ANALYSIS_DURATION_MS"`
	AnalysisSteps      int      `mapstructure:"ANALYSIS_STEPS"`
	UploadMaxBytes     int64    `mapstructure:"UPLOAD_MAX_BYTES"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("SESSION_FILE", "workstation_session.json")
	v.SetDefault("ANALYSIS_DURATION_MS", 8000)
	v.SetDefault("ANALYSIS_STEPS", 40)
	v.SetDefault("UPLOAD_MAX_BYTES", 10*1024*1024)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("SESSION_FILE")
	v.BindEnv("SESSION_SIGNING_KEY")
	v.BindEnv("ANALYSIS_DURATION_MS")
	v.BindEnv("ANALYSIS_STEPS")
	v.BindEnv("UPLOAD_MAX_BYTES")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// AnalysisDuration returns the wall-clock duration of one simulated analysis run.
func (c *Config) AnalysisDuration() time.Duration {
	return time.Duration(c.AnalysisDurationMS) * time.Millisecond
}

// UsePostgres reports whether the study catalog should be backed by Postgres
// instead of the in-memory repository.
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

// Validate checks that the configuration is safe to run. The signing key,
// when provided, must be a valid hex string; the analysis simulation must
// have at least one step.
func (c *Config) Validate() error {
	if c.SessionSigningKey != "" {
		if _, err := hex.DecodeString(c.SessionSigningKey); err != nil {
			return fmt.Errorf("SESSION_SIGNING_KEY is not valid hex: %w", err)
		}
	}
	if c.AnalysisSteps < 1 {
		return fmt.Errorf("ANALYSIS_STEPS must be at least 1, got %d", c.AnalysisSteps)
	}
	if c.AnalysisDurationMS < 0 {
		return fmt.Errorf("ANALYSIS_DURATION_MS must not be negative, got %d", c.AnalysisDurationMS)
	}
	if c.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", c.UploadMaxBytes)
	}
	return nil
}
