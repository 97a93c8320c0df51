package shared

import (
	_ "embed"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Supported database drivers.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

// Environment variables holding the database credentials.
const (
	EnvDBHost     = "SCRAPPER_DB_HOST"
	EnvDBPort     = "SCRAPPER_DB_PORT"
	EnvDBName     = "SCRAPPER_DB_NAME"
	EnvDBUser     = "SCRAPPER_DB_USER"
	EnvDBPassword = "SCRAPPER_DB_PASSWORD"
)

// Config represents the application configuration loaded from a TOML file and the environment.
type Config struct {
	Scraper  ScraperConfig  `toml:"scraper"`
	Sync     SyncConfig     `toml:"sync"`
	Database DatabaseConfig `toml:"database"`
}

// ScraperConfig contains settings for fetching the listing page.
type ScraperConfig struct {
	URL               string  `toml:"url"`
	BaseURL           string  `toml:"base_url"`
	UserAgent         string  `toml:"user_agent"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// SyncConfig contains settings for the sync run.
type SyncConfig struct {
	Submitter string `toml:"submitter"` // Name of the user songs are stored under
}

// DatabaseConfig contains database connection settings.
//
// Credentials are never read from the TOML file, see [Config.ApplyEnv].
type DatabaseConfig struct {
	Driver       string `toml:"driver"`
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`

	Host     string `toml:"-"`
	Port     string `toml:"-"`
	Name     string `toml:"-"`
	User     string `toml:"-"`
	Password string `toml:"-"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnvFile loads variables from a dotenv file into the process environment.
//
// Variables already set in the environment win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv copies the database credentials from the environment into c.
func (c *Config) ApplyEnv() {
	c.Database.Host = os.Getenv(EnvDBHost)
	c.Database.Port = os.Getenv(EnvDBPort)
	c.Database.Name = os.Getenv(EnvDBName)
	c.Database.User = os.Getenv(EnvDBUser)
	c.Database.Password = os.Getenv(EnvDBPassword)
}

// Timeout returns the HTTP timeout for the listing request.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Scraper.TimeoutSeconds) * time.Second
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if c.Scraper.URL == "" {
		problems = append(problems, "scraper.url cannot be empty")
	} else if _, err := url.ParseRequestURI(c.Scraper.URL); err != nil {
		problems = append(problems, fmt.Sprintf("scraper.url is not a valid URL: %s", c.Scraper.URL))
	}

	if c.Scraper.BaseURL == "" {
		problems = append(problems, "scraper.base_url cannot be empty")
	} else if u, err := url.Parse(c.Scraper.BaseURL); err != nil || !u.IsAbs() {
		problems = append(problems, fmt.Sprintf("scraper.base_url must be an absolute URL: %s", c.Scraper.BaseURL))
	}

	if c.Scraper.TimeoutSeconds < 0 {
		problems = append(problems, fmt.Sprintf("scraper.timeout_seconds cannot be negative, got: %d", c.Scraper.TimeoutSeconds))
	}

	if c.Scraper.RequestsPerSecond < 0 {
		problems = append(problems, fmt.Sprintf("scraper.requests_per_second cannot be negative, got: %v", c.Scraper.RequestsPerSecond))
	}

	if c.Sync.Submitter == "" {
		problems = append(problems, "sync.submitter cannot be empty")
	}

	switch c.Database.Driver {
	case DriverPostgres:
		for _, v := range []struct{ key, value string }{
			{EnvDBHost, c.Database.Host},
			{EnvDBPort, c.Database.Port},
			{EnvDBName, c.Database.Name},
			{EnvDBUser, c.Database.User},
			{EnvDBPassword, c.Database.Password},
		} {
			if v.value == "" {
				problems = append(problems, fmt.Sprintf("%s is not set", v.key))
			}
		}
		if c.Database.Port != "" {
			if port, err := strconv.Atoi(c.Database.Port); err != nil || port < 1 || port > 65535 {
				problems = append(problems, fmt.Sprintf("%s must be a port between 1 and 65535, got: %s", EnvDBPort, c.Database.Port))
			}
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			problems = append(problems, "database.path cannot be empty for sqlite3")
		}
	default:
		problems = append(problems, fmt.Sprintf("database.driver must be one of: %s, %s, got: %q", DriverPostgres, DriverSQLite, c.Database.Driver))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w:\n  - %s", ErrInvalidConfig, strings.Join(problems, "\n  - "))
	}

	return nil
}

// DSN returns the data source name for the configured driver.
func (c *Config) DSN() string {
	if c.Database.Driver == DriverSQLite {
		return c.Database.Path
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Database.User, c.Database.Password),
		Host:   net.JoinHostPort(c.Database.Host, c.Database.Port),
		Path:   "/" + c.Database.Name,
	}
	return u.String()
}
