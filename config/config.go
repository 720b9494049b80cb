package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "CINEMOX"

// Config holds the client settings. Every key can be set as CINEMOX_<KEY>
// in the environment or in a .env file.
type Config struct {
	APIURL      string
	Timeout     time.Duration
	MaxAttempts int
	RetryBase   time.Duration
	RetryCap    time.Duration
	Debug       bool
	// Token overrides the stored login when set.
	Token string
}

// New returns a viper instance with defaults and environment binding applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_url", "http://localhost:8080/api")
	v.SetDefault("timeout", "12s")
	v.SetDefault("max_attempts", 3)
	v.SetDefault("retry_base", "200ms")
	v.SetDefault("retry_cap", "1200ms")
	v.SetDefault("debug", false)
	v.SetDefault("token", "")
}

// LoadDotEnv loads path into the process environment. A missing file is fine.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load reads the configuration from v.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = New()
	}
	cfg := &Config{
		APIURL:      strings.TrimRight(strings.TrimSpace(v.GetString("api_url")), "/"),
		Timeout:     v.GetDuration("timeout"),
		MaxAttempts: v.GetInt("max_attempts"),
		RetryBase:   v.GetDuration("retry_base"),
		RetryCap:    v.GetDuration("retry_cap"),
		Debug:       v.GetBool("debug"),
		Token:       strings.TrimSpace(v.GetString("token")),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("api_url must be an http(s) URL, got %q", c.APIURL)
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if c.MaxAttempts < 1 {
		return errors.New("max_attempts must be at least 1")
	}
	if c.RetryBase <= 0 || c.RetryCap < c.RetryBase {
		return errors.New("retry_cap must be at least retry_base and both positive")
	}
	return nil
}
