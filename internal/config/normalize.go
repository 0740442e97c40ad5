package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeNtfy()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	if err := c.normalizeMetrics(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeNtfy() {
	c.Ntfy.URL = strings.TrimSpace(c.Ntfy.URL)
	if value, ok := os.LookupEnv("NTFY_URL"); ok && strings.TrimSpace(value) != "" {
		c.Ntfy.URL = strings.TrimSpace(value)
	}
	if c.Ntfy.URL == "" {
		c.Ntfy.URL = defaultURL
	}

	if value, ok := os.LookupEnv("NTFY_TOPIC"); ok && strings.TrimSpace(value) != "" {
		c.Ntfy.Topic = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Ntfy.Topic) == "" {
		c.Ntfy.Topic = defaultTopic
	}
	if c.Ntfy.Message == "" {
		c.Ntfy.Message = defaultMessage
	}

	c.Ntfy.Auth = strings.TrimSpace(c.Ntfy.Auth)
	if c.Ntfy.Auth == "" {
		if value, ok := os.LookupEnv("NTFY_AUTH"); ok {
			c.Ntfy.Auth = strings.TrimSpace(value)
		} else if user, ok := os.LookupEnv("NTFY_USER"); ok && strings.TrimSpace(user) != "" {
			password := os.Getenv("NTFY_PASSWORD")
			c.Ntfy.Auth = EncodeBasicAuth(strings.TrimSpace(user), password)
		}
	}

	c.Ntfy.UserAgent = strings.TrimSpace(c.Ntfy.UserAgent)
	if c.Ntfy.UserAgent == "" {
		c.Ntfy.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeHistory() error {
	var err error
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = filepath.Join(c.Paths.StateDir, defaultHistoryFile)
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeMetrics() error {
	var err error
	c.Metrics.Textfile = strings.TrimSpace(c.Metrics.Textfile)
	if c.Metrics.Textfile, err = expandPath(c.Metrics.Textfile); err != nil {
		return fmt.Errorf("metrics.textfile: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = 0
	}
	if c.Logging.MaxAgeDays < 0 {
		c.Logging.MaxAgeDays = 0
	}
}

// EncodeBasicAuth returns the base64 "user:password" token sent after "Basic ".
func EncodeBasicAuth(user, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(user + ":" + password))
}
