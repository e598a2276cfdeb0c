// Package config loads the service configuration from defaults, an optional config file, a .env
// file and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
	HTTP     HTTPConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string // host[:port]
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	RequestLogging bool
	Mode           string // gin mode: debug, release, test
}

// legacyEnv maps configuration keys to the environment variables the service has always read.
// They rank below the CONTACTS_ prefixed variables.
var legacyEnv = map[string]string{
	"database.host":        "DBHOST",
	"database.user":        "DBUSER",
	"database.password":    "DBPWD",
	"app.port":             "PORT",
	"http.request_logging": "GIN_LOGGING",
	"http.mode":            "GIN_MODE",
}

// Load reads the configuration.
// Priority (highest to lowest):
// 1. Environment variables with CONTACTS_ prefix (e.g., CONTACTS_DATABASE_PASSWORD)
// 2. Legacy environment variables (DBHOST, DBUSER, DBPWD, PORT, GIN_LOGGING, GIN_MODE)
// 3. config.toml or config.yaml in . or /etc/contacts
// 4. Built-in defaults
//
// A .env file in the working directory is loaded into the environment first, without
// overriding variables that are already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/contacts")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("CONTACTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, legacy := range legacyEnv {
		envKey := "CONTACTS_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, legacy); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", key, err)
		}
	}
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			Name:            v.GetString("database.name"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			RequestLogging: parseSwitch(v.GetString("http.request_logging")),
			Mode:           v.GetString("http.mode"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "contacts")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.host", "localhost:3306")
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "contacts")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("http.request_logging", "on")
	v.SetDefault("http.mode", "release")
}

// parseSwitch reads on/off style values. Only an explicit off, false or 0 disables.
func parseSwitch(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "false", "0", "no":
		return false
	}
	return true
}

func (c *Config) validate() error {
	if c.App.Port == "" {
		return fmt.Errorf("app port must be set")
	}
	for _, r := range c.App.Port {
		if r < '0' || r > '9' {
			return fmt.Errorf("could not parse port %q", c.App.Port)
		}
	}
	switch c.HTTP.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown http mode %q", c.HTTP.Mode)
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database name must be set")
	}
	return nil
}

// DSN returns the data source name for the service connection.
func (d DatabaseConfig) DSN() string {
	return d.mysqlConfig().FormatDSN()
}

// MigrationDSN returns the data source name for schema migrations, which send several
// statements per query.
func (d DatabaseConfig) MigrationDSN() string {
	c := d.mysqlConfig()
	c.MultiStatements = true
	return c.FormatDSN()
}

func (d DatabaseConfig) mysqlConfig() *mysql.Config {
	c := mysql.NewConfig()
	c.User = d.User
	c.Passwd = d.Password
	c.Net = "tcp"
	c.Addr = d.Host
	c.DBName = d.Name
	c.ParseTime = true
	c.ClientFoundRows = true
	return c
}
