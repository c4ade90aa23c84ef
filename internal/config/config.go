package config

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
)

var (
	cfg     *APIConfig
	cfgErr  error
	once    sync.Once
	envKeys = "VOCAB_"
)

// APIConfig represents the root element.
type APIConfig struct {
	XMLName        xml.Name             `xml:"API"`
	RequestDump    bool                 `xml:"REQUEST_DUMP,attr"`
	Context        ContextConfig        `xml:"CONTEXT"`
	Authentication AuthenticationConfig `xml:"AUTHENTICATION"`
	Pagination     PaginationConfig     `xml:"PAGINATION"`
	DB             DBConfig             `xml:"DB"`
	Logging        LoggingConfig        `xml:"LOGGING"`
	RateLimit      RateLimitConfig      `xml:"RATE_LIMIT"`
	PDF            PDFConfig            `xml:"PDF"`
}

// ContextConfig holds basic server settings.
type ContextConfig struct {
	Port           int    `xml:"PORT"`
	Host           string `xml:"HOST"`
	StaticDir      string `xml:"STATIC_DIR"`
	TimeZone       string `xml:"TIME_ZONE"`
	MaxConnections int    `xml:"MAX_CONNECTIONS"`
}

// AuthenticationConfig holds the single instructor account and token secrets.
type AuthenticationConfig struct {
	EnableTokenAuth bool   `xml:"ENABLE_TOKEN_AUTH"`
	Username        string `xml:"USERNAME"`
	PasswordHash    string `xml:"PASSWORD_HASH"`
	AccessSecret    string `xml:"ACCESS_SECRET"`
	RefreshSecret   string `xml:"REFRESH_SECRET"`
}

// PaginationConfig holds pagination settings.
type PaginationConfig struct {
	PageSize     int `xml:"PAGE_SIZE"`
	TestPageSize int `xml:"TEST_PAGE_SIZE"`
	MaxPageSize  int `xml:"MAX_PAGE_SIZE"`
}

// DBConfig holds database connection settings.
type DBConfig struct {
	Initialize bool         `xml:"INITIALIZE"`
	Driver     string       `xml:"DRIVER"`
	Host       string       `xml:"HOST"`
	Port       int          `xml:"PORT"`
	SSLMode    string       `xml:"SSL_MODE"`
	Names      DBNames      `xml:"NAMES"`
	Username   string       `xml:"USERNAME"`
	Password   DBPassword   `xml:"PASSWORD"`
	Path       string       `xml:"PATH"`
	Pool       DBPoolConfig `xml:"POOL"`
}

// DBNames holds the names defined in the DB section.
type DBNames struct {
	Vocab string `xml:"VOCAB,attr"`
}

// DBPassword holds password details.
type DBPassword struct {
	Type  string `xml:"TYPE,attr"`
	Value string `xml:",chardata"`
}

// DBPoolConfig holds database connection pooling settings.
type DBPoolConfig struct {
	MaxOpenConns    int `xml:"MAX_OPEN_CONNS"`
	MaxIdleConns    int `xml:"MAX_IDLE_CONNS"`
	ConnMaxLifetime int `xml:"CONN_MAX_LIFETIME"`
}

// LoggingConfig controls the rotating log files.
type LoggingConfig struct {
	Dir        string `xml:"DIR"`
	MaxSizeMB  int    `xml:"MAX_SIZE_MB"`
	MaxBackups int    `xml:"MAX_BACKUPS"`
	MaxAgeDays int    `xml:"MAX_AGE_DAYS"`
	Debug      bool   `xml:"DEBUG"`
}

// RateLimitConfig sets the API token bucket. RPS <= 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64 `xml:"RPS"`
	Burst int     `xml:"BURST"`
}

// PDFConfig holds printable sheet settings.
type PDFConfig struct {
	FontPath string `xml:"FONT_PATH"`
}

// LoadConfig loads and parses the XML configuration from the given file.
// The result is cached for the lifetime of the process.
func LoadConfig(xmlPath string) (*APIConfig, error) {
	once.Do(func() {
		f, err := os.Open(xmlPath)
		if err != nil {
			cfgErr = fmt.Errorf("open config: %w", err)
			return
		}
		defer f.Close()

		cfg, cfgErr = Parse(f)
	})

	if cfgErr != nil {
		return nil, cfgErr
	}
	return cfg, nil
}

// Parse decodes a configuration document, fills defaults and applies
// VOCAB_* environment overrides.
func Parse(r io.Reader) (*APIConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var newCfg APIConfig
	if err := xml.Unmarshal(data, &newCfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	newCfg.applyEnv()
	newCfg.applyDefaults()
	return &newCfg, nil
}

// Default returns a configuration with every default filled in, backed by a
// local SQLite file.
func Default() *APIConfig {
	c := &APIConfig{}
	c.applyDefaults()
	return c
}

// GetConfig returns the loaded configuration.
func GetConfig() *APIConfig {
	return cfg
}

// Addr is the listen address for the HTTP server.
func (c *APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Context.Host, c.Context.Port)
}

func (c *APIConfig) applyDefaults() {
	if c.Context.Port == 0 {
		c.Context.Port = 8080
	}
	if c.Context.StaticDir == "" {
		c.Context.StaticDir = "./public"
	}
	if c.Pagination.PageSize <= 0 {
		c.Pagination.PageSize = 50
	}
	if c.Pagination.TestPageSize <= 0 {
		c.Pagination.TestPageSize = 20
	}
	if c.Pagination.MaxPageSize <= 0 {
		c.Pagination.MaxPageSize = 500
	}
	if c.DB.Driver == "" {
		c.DB.Driver = "sqlite"
	}
	if c.DB.Driver == "sqlite" && c.DB.Path == "" {
		c.DB.Path = "data/vocab.db"
	}
	if c.DB.Port == 0 && c.DB.Driver == "postgres" {
		c.DB.Port = 5432
	}
	if c.DB.SSLMode == "" {
		c.DB.SSLMode = "disable"
	}
	if c.Logging.Dir == "" {
		c.Logging.Dir = "logs"
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = 10
	}
	if c.Logging.MaxBackups <= 0 {
		c.Logging.MaxBackups = 5
	}
	if c.Logging.MaxAgeDays <= 0 {
		c.Logging.MaxAgeDays = 28
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = int(c.RateLimit.RPS) + 1
	}
	if c.Authentication.Username == "" {
		c.Authentication.Username = "instructor"
	}
}

// applyEnv lets deployments keep secrets out of the XML file.
func (c *APIConfig) applyEnv() {
	setString(&c.DB.Driver, "DB_DRIVER")
	setString(&c.DB.Host, "DB_HOST")
	setInt(&c.DB.Port, "DB_PORT")
	setString(&c.DB.Names.Vocab, "DB_NAME")
	setString(&c.DB.Username, "DB_USERNAME")
	setString(&c.DB.Password.Value, "DB_PASSWORD")
	setString(&c.DB.Path, "DB_PATH")
	setInt(&c.Context.Port, "PORT")
	setString(&c.Authentication.PasswordHash, "PASSWORD_HASH")
	setString(&c.Authentication.AccessSecret, "ACCESS_SECRET")
	setString(&c.Authentication.RefreshSecret, "REFRESH_SECRET")
	setString(&c.PDF.FontPath, "PDF_FONT_PATH")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(envKeys + key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(envKeys + key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
