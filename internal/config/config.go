package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/drone-weather-heatmap/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"gopkg.in/yaml.v3"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Weather cache source. CacheURL takes precedence over CacheFile.
	CacheFile    string
	CacheURL     string
	CacheTimeout time.Duration

	// Initial selection.
	Profile      string
	Thresholds   domain.Thresholds
	ProfilesFile string

	// Optional overlay publishing.
	KafkaEnabled      bool
	KafkaBrokers      []string
	KafkaOverlayTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	cacheTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("CACHE_TIMEOUT", "30s"))
	if err != nil || cacheTimeout <= 0 {
		return nil, errors.New("invalid CACHE_TIMEOUT")
	}

	thresholds, err := parseThresholds()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CacheFile:    sharedcfg.EnvOrDefault("CACHE_FILE", "weather_cache.json"),
		CacheURL:     os.Getenv("CACHE_URL"),
		CacheTimeout: cacheTimeout,

		Profile:      sharedcfg.EnvOrDefault("PROFILE", domain.CustomProfile),
		Thresholds:   thresholds,
		ProfilesFile: os.Getenv("PROFILES_FILE"),

		KafkaEnabled:      os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:      sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaOverlayTopic: sharedcfg.EnvOrDefault("KAFKA_OVERLAY_TOPIC", "weather-exceedance-overlay"),
	}

	if cfg.CacheURL == "" && cfg.CacheFile == "" {
		return nil, errors.New("CACHE_FILE or CACHE_URL is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaOverlayTopic == "" {
		return nil, errors.New("KAFKA_OVERLAY_TOPIC is required")
	}

	return cfg, nil
}

func parseThresholds() (domain.Thresholds, error) {
	temp, err := parseFloatEnv("TEMP_THRESHOLD", 30)
	if err != nil {
		return domain.Thresholds{}, err
	}
	precip, err := parseFloatEnv("PRECIP_THRESHOLD", 5)
	if err != nil {
		return domain.Thresholds{}, err
	}
	wind, err := parseFloatEnv("WIND_THRESHOLD", 10)
	if err != nil {
		return domain.Thresholds{}, err
	}
	return domain.Thresholds{Temperature: temp, Precipitation: precip, Wind: wind}, nil
}

func parseFloatEnv(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || domain.ValidThreshold(v) != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

// profilesDocument is the YAML shape of PROFILES_FILE:
//
//	profiles:
//	  - name: survey-quad
//	    label: Survey quadcopter
//	    thresholds: {temp: 45, precip: 2, wind: 14}
type profilesDocument struct {
	Profiles []domain.Profile `yaml:"profiles"`
}

// LoadProfiles returns the profile table: the built-in presets, or the ones
// listed in the YAML file at path when path is set.
func LoadProfiles(path string) (*domain.ProfileTable, error) {
	if path == "" {
		return domain.NewProfileTable(domain.DefaultProfiles)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read PROFILES_FILE: %w", err)
	}

	var doc profilesDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse PROFILES_FILE: %w", err)
	}

	table, err := domain.NewProfileTable(doc.Profiles)
	if err != nil {
		return nil, fmt.Errorf("PROFILES_FILE: %w", err)
	}
	return table, nil
}
