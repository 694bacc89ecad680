package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Source is one remote playlist listing.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Config holds the complete application configuration
type Config struct {
	// Playlist sources, fetched in this order
	Sources []Source `yaml:"sources"`

	// Source download settings
	Fetch struct {
		Timeout     time.Duration `yaml:"timeout"`
		UserAgent   string        `yaml:"user_agent"`
		Concurrency int           `yaml:"concurrency"`
		MaxBytes    int64         `yaml:"max_bytes"`

		// Scheduled runs skip a source after this many consecutive failures
		// until the cooldown has passed; zero disables skipping
		BreakerThreshold int           `yaml:"breaker_threshold"`
		BreakerCooldown  time.Duration `yaml:"breaker_cooldown"`
	} `yaml:"fetch"`

	// Liveness probe settings
	Verify struct {
		Timeout       time.Duration `yaml:"timeout"`
		Workers       int           `yaml:"workers"`
		UserAgent     string        `yaml:"user_agent"`
		ProgressEvery int           `yaml:"progress_every"`
	} `yaml:"verify"`

	// Output file settings
	Output struct {
		Dir      string `yaml:"dir"`
		BaseName string `yaml:"base_name"`
		TimeZone string `yaml:"time_zone"`
	} `yaml:"output"`

	// BoltDB snapshot of the latest run; empty keeps it in memory
	DB struct {
		Path string `yaml:"path"`
	} `yaml:"db"`

	// Redis run lock; empty URL disables locking
	Redis struct {
		URL     string        `yaml:"url"`
		LockKey string        `yaml:"lock_key"`
		LockTTL time.Duration `yaml:"lock_ttl"`
	} `yaml:"redis"`

	// HTTP server settings, used when running on a schedule
	HTTP struct {
		Address string `yaml:"address"`
		Port    string `yaml:"port"`
	} `yaml:"http"`

	// Interval between runs; zero runs once and exits
	Schedule struct {
		Interval time.Duration `yaml:"interval"`
	} `yaml:"schedule"`

	LogLevel string `yaml:"log_level"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	cfg := &Config{}

	cfg.Sources = []Source{
		{Name: "free-iptv", URL: "https://raw.githubusercontent.com/Free-IPTV/Countries/master/Italy/italy.m3u"},
		{Name: "iptv-org", URL: "https://iptv-org.github.io/iptv/languages/ita.m3u"},
		{Name: "freearhey", URL: "https://raw.githubusercontent.com/freearhey/iptv/master/playlists/it.m3u"},
	}

	cfg.Fetch.Timeout = 30 * time.Second
	cfg.Fetch.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	cfg.Fetch.Concurrency = 4
	cfg.Fetch.MaxBytes = 32 * 1024 * 1024 // 32MB
	cfg.Fetch.BreakerThreshold = 3
	cfg.Fetch.BreakerCooldown = 6 * time.Hour

	cfg.Verify.Timeout = 5 * time.Second
	cfg.Verify.Workers = 50
	cfg.Verify.UserAgent = cfg.Fetch.UserAgent
	cfg.Verify.ProgressEvery = 50

	cfg.Output.Dir = filepath.Join("LiveTV", "Italy")
	cfg.Output.BaseName = "LiveTV"
	cfg.Output.TimeZone = "UTC"

	cfg.Redis.LockKey = "livetv-collector:run"
	cfg.Redis.LockTTL = 30 * time.Minute

	cfg.HTTP.Address = "127.0.0.1"
	cfg.HTTP.Port = "8080"

	cfg.LogLevel = "INFO"

	return cfg
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	var errors []string

	// An empty source list is valid and yields an empty run
	for i, src := range c.Sources {
		if src.URL == "" {
			errors = append(errors, fmt.Sprintf("Source %d (%s): URL is required", i, src.Name))
			continue
		}
		u, err := url.Parse(src.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, fmt.Sprintf("Source %d (%s): URL %q is not absolute", i, src.Name, src.URL))
		}
	}

	if c.Fetch.Timeout <= 0 {
		errors = append(errors, "Fetch timeout must be positive")
	}
	if c.Fetch.Concurrency <= 0 {
		errors = append(errors, "Fetch concurrency must be positive")
	}
	if c.Fetch.MaxBytes <= 0 {
		errors = append(errors, "Fetch max bytes must be positive")
	}
	if c.Fetch.BreakerThreshold < 0 {
		errors = append(errors, "Fetch breaker threshold cannot be negative")
	}
	if c.Fetch.BreakerThreshold > 0 && c.Fetch.BreakerCooldown <= 0 {
		errors = append(errors, "Fetch breaker cooldown must be positive")
	}

	if c.Verify.Timeout <= 0 {
		errors = append(errors, "Verify timeout must be positive")
	}
	if c.Verify.Workers <= 0 {
		errors = append(errors, "Verify workers must be positive")
	}
	if c.Verify.ProgressEvery < 0 {
		errors = append(errors, "Verify progress interval cannot be negative")
	}

	if c.Output.Dir == "" {
		errors = append(errors, "Output directory is required")
	}
	if c.Output.BaseName == "" || strings.ContainsAny(c.Output.BaseName, `/\`) {
		errors = append(errors, "Output base name is required and cannot contain path separators")
	}

	if _, err := time.LoadLocation(c.Output.TimeZone); err != nil {
		errors = append(errors, fmt.Sprintf("Output time zone %q is invalid: %v", c.Output.TimeZone, err))
	}

	if c.Redis.URL != "" {
		if c.Redis.LockKey == "" {
			errors = append(errors, "Redis lock key is required when Redis is enabled")
		}
		if c.Redis.LockTTL <= 0 {
			errors = append(errors, "Redis lock TTL must be positive")
		}
	}

	if c.Schedule.Interval < 0 {
		errors = append(errors, "Schedule interval cannot be negative")
	}
	if c.Schedule.Interval > 0 && c.HTTP.Port == "" {
		errors = append(errors, "HTTP port is required when running on a schedule")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// normalize fills derived values that do not need user input.
func (c *Config) normalize() {
	for i := range c.Sources {
		c.Sources[i].URL = strings.TrimSpace(c.Sources[i].URL)
		c.Sources[i].Name = strings.TrimSpace(c.Sources[i].Name)
		if c.Sources[i].Name == "" {
			c.Sources[i].Name = fmt.Sprintf("source-%d", i+1)
		}
	}
	if c.Verify.UserAgent == "" {
		c.Verify.UserAgent = c.Fetch.UserAgent
	}
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Load loads configuration from a file (if provided) and applies environment variable overrides.
// An empty path falls back to CONFIG_FILE, then to config.yaml in the working directory.
func Load(path string) (*Config, error) {
	configPath := path
	if configPath == "" {
		configPath = os.Getenv("CONFIG_FILE")
	}
	explicit := configPath != ""
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); err == nil {
		cfg, err = LoadFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file %s: %w", configPath, err)
	} else {
		// File doesn't exist, use defaults
		cfg = Default()
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) error {
	if val, ok := os.LookupEnv("SOURCES"); ok {
		cfg.Sources = parseSourceList(val)
	}

	if err := durationEnv("FETCH_TIMEOUT", &cfg.Fetch.Timeout); err != nil {
		return err
	}
	if err := intEnv("FETCH_CONCURRENCY", &cfg.Fetch.Concurrency); err != nil {
		return err
	}
	if val := os.Getenv("FETCH_USER_AGENT"); val != "" {
		cfg.Fetch.UserAgent = val
	}

	if err := durationEnv("VERIFY_TIMEOUT", &cfg.Verify.Timeout); err != nil {
		return err
	}
	if err := intEnv("VERIFY_WORKERS", &cfg.Verify.Workers); err != nil {
		return err
	}

	if val := os.Getenv("OUTPUT_DIR"); val != "" {
		cfg.Output.Dir = val
	}
	if val := os.Getenv("DB_PATH"); val != "" {
		cfg.DB.Path = val
	}
	if val := os.Getenv("REDIS_URL"); val != "" {
		cfg.Redis.URL = val
	}
	if val := os.Getenv("HTTP_ADDRESS"); val != "" {
		cfg.HTTP.Address = val
	}
	if val := os.Getenv("HTTP_PORT"); val != "" {
		cfg.HTTP.Port = val
	}
	if val := os.Getenv("RUN_INTERVAL"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid RUN_INTERVAL (expected duration like '6h'): %w", err)
		}
		cfg.Schedule.Interval = d
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		cfg.LogLevel = val
	}

	return nil
}

// parseSourceList reads a comma separated list of URLs or name=URL pairs.
func parseSourceList(val string) []Source {
	sources := []Source{}
	for _, item := range strings.Split(val, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		var src Source
		if name, rawURL, ok := strings.Cut(item, "="); ok && !strings.Contains(name, "://") {
			src = Source{Name: strings.TrimSpace(name), URL: strings.TrimSpace(rawURL)}
		} else {
			src = Source{URL: item}
		}
		sources = append(sources, src)
	}
	return sources
}

func durationEnv(key string, dst *time.Duration) error {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return fmt.Errorf("invalid %s (expected duration like '5s'): %w", key, err)
	}
	if d <= 0 {
		return fmt.Errorf("%s must be positive, got: %s", key, val)
	}
	*dst = d
	return nil
}

func intEnv(key string, dst *int) error {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	if n <= 0 {
		return fmt.Errorf("%s must be positive", key)
	}
	*dst = n
	return nil
}

// Location returns the time zone used for dates in exported files.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Output.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SlogLevel converts the configured level name to a slog.Level.
// Unknown names fall back to INFO.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
