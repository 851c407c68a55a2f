package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds the server configuration. Values come from defaults, then an
// optional TOML file, then MAIL_MCP_* environment variables, each layer
// overriding the one before.
type Config struct {
	OsascriptPath        string `toml:"osascript_path"`
	ScriptTimeoutSeconds int    `toml:"script_timeout_seconds"`
	DefaultScanLimit     int    `toml:"default_scan_limit"`
	BulkDeleteLimit      int    `toml:"bulk_delete_limit"`
	MaxAttachmentBytes   int64  `toml:"max_attachment_bytes"`
	AllowExecutables     bool   `toml:"allow_executable_attachments"`
	SendRatePerMinute    int    `toml:"send_rate_per_minute"`
	SendBurst            int    `toml:"send_burst"`
	AuditLogSize         int    `toml:"audit_log_size"`
}

// DefaultConfigPath returns the default config file location
// (~/.mcp-apple-mail/config.toml), or "" when no home directory is known.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mcp-apple-mail", "config.toml")
}

// Load reads configuration from the defaults, an optional TOML file, and
// environment variables. A file named explicitly via MAIL_MCP_CONFIG must
// exist; the default location is optional.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		OsascriptPath:        "/usr/bin/osascript",
		ScriptTimeoutSeconds: 60,
		DefaultScanLimit:     200,
		BulkDeleteLimit:      100,
		MaxAttachmentBytes:   25 * 1024 * 1024,
		SendRatePerMinute:    10,
		SendBurst:            10,
		AuditLogSize:         1000,
	}

	path := os.Getenv("MAIL_MCP_CONFIG")
	explicit := path != ""
	if path == "" {
		path = DefaultConfigPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if explicit {
				return nil, fmt.Errorf("config file %s: %w", path, err)
			}
		} else if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ScriptTimeout returns the bridge subprocess bound as a duration.
func (c *Config) ScriptTimeout() time.Duration {
	return time.Duration(c.ScriptTimeoutSeconds) * time.Second
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("MAIL_MCP_OSASCRIPT_PATH"); v != "" {
		cfg.OsascriptPath = v
	}

	var err error
	if cfg.ScriptTimeoutSeconds, err = envInt("MAIL_MCP_SCRIPT_TIMEOUT_SECONDS", cfg.ScriptTimeoutSeconds); err != nil {
		return err
	}
	if cfg.DefaultScanLimit, err = envInt("MAIL_MCP_DEFAULT_SCAN_LIMIT", cfg.DefaultScanLimit); err != nil {
		return err
	}
	if cfg.BulkDeleteLimit, err = envInt("MAIL_MCP_BULK_DELETE_LIMIT", cfg.BulkDeleteLimit); err != nil {
		return err
	}
	if cfg.MaxAttachmentBytes, err = envInt64("MAIL_MCP_MAX_ATTACHMENT_BYTES", cfg.MaxAttachmentBytes); err != nil {
		return err
	}
	if cfg.AllowExecutables, err = envBool("MAIL_MCP_ALLOW_EXECUTABLE_ATTACHMENTS", cfg.AllowExecutables); err != nil {
		return err
	}
	if cfg.SendRatePerMinute, err = envInt("MAIL_MCP_SEND_RATE_PER_MINUTE", cfg.SendRatePerMinute); err != nil {
		return err
	}
	if cfg.SendBurst, err = envInt("MAIL_MCP_SEND_BURST", cfg.SendBurst); err != nil {
		return err
	}
	if cfg.AuditLogSize, err = envInt("MAIL_MCP_AUDIT_LOG_SIZE", cfg.AuditLogSize); err != nil {
		return err
	}
	return nil
}

func (c *Config) validate() error {
	if c.OsascriptPath == "" {
		return fmt.Errorf("osascript_path must not be empty")
	}
	if c.ScriptTimeoutSeconds <= 0 {
		return fmt.Errorf("script_timeout_seconds must be positive, got %d", c.ScriptTimeoutSeconds)
	}
	if c.DefaultScanLimit <= 0 {
		return fmt.Errorf("default_scan_limit must be positive, got %d", c.DefaultScanLimit)
	}
	if c.BulkDeleteLimit <= 0 {
		return fmt.Errorf("bulk_delete_limit must be positive, got %d", c.BulkDeleteLimit)
	}
	if c.MaxAttachmentBytes <= 0 {
		return fmt.Errorf("max_attachment_bytes must be positive, got %d", c.MaxAttachmentBytes)
	}
	if c.SendRatePerMinute <= 0 {
		return fmt.Errorf("send_rate_per_minute must be positive, got %d", c.SendRatePerMinute)
	}
	if c.SendBurst <= 0 {
		return fmt.Errorf("send_burst must be positive, got %d", c.SendBurst)
	}
	if c.AuditLogSize <= 0 {
		return fmt.Errorf("audit_log_size must be positive, got %d", c.AuditLogSize)
	}
	return nil
}

func envInt(name string, fallback int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", name, v)
	}
	return n, nil
}

func envInt64(name string, fallback int64) (int64, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", name, v)
	}
	return n, nil
}

func envBool(name string, fallback bool) (bool, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", name, v)
	}
	return b, nil
}
