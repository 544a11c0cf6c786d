// Package config loads and persists sysdash.config, the JSON settings file
// read once at startup.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultFileName is used when no --config path is given.
const DefaultFileName = "sysdash.config"

// Config is the persisted process configuration.
type Config struct {
	Port        int    `json:"port" validate:"min=1,max=65535"`
	BindAddress string `json:"bind_address" validate:"omitempty,ip|hostname"`
	RootPath    string `json:"root_path" validate:"required"`
	TrayEnabled bool   `json:"tray_enabled"`

	TLSEnabled  bool   `json:"tls_enabled"`
	TLSCertPath string `json:"tls_cert_path" validate:"required_if=TLSEnabled true"`
	TLSKeyPath  string `json:"tls_key_path" validate:"required_if=TLSEnabled true"`

	// GPUProbeTimeoutSeconds bounds the GPU tool run; 0 disables the bound.
	GPUProbeTimeoutSeconds int `json:"gpu_probe_timeout_seconds" validate:"min=0,max=600"`
	// PopulateIPAddresses fills networks[].ip_addresses. The view does not render
	// them, so the field ships empty unless this is turned on.
	PopulateIPAddresses bool `json:"populate_ip_addresses"`
	MetricsEnabled      bool `json:"metrics_enabled"`

	AuthEnabled        bool   `json:"auth_enabled"`
	AccessPasswordHash string `json:"access_password_hash" validate:"required_if=AuthEnabled true"`
	JWTSecret          string `json:"jwt_secret" validate:"omitempty,min=16"`

	RateLimitPerMinute int  `json:"rate_limit_per_minute" validate:"min=0"`
	AutoPortForward    bool `json:"auto_port_forward"`
	VerboseHTTP        bool `json:"verbose_http"`
}

// Default returns the configuration written for a fresh install rooted at rootPath.
func Default(rootPath string) *Config {
	return &Config{
		Port:                   5050,
		BindAddress:            "127.0.0.1",
		RootPath:               rootPath,
		TrayEnabled:            runtime.GOOS == "windows",
		GPUProbeTimeoutSeconds: 10,
		MetricsEnabled:         true,
		RateLimitPerMinute:     120,
	}
}

// GPUProbeTimeout converts the configured seconds into a duration.
func (c *Config) GPUProbeTimeout() time.Duration {
	return time.Duration(c.GPUProbeTimeoutSeconds) * time.Second
}

// minWriteTimeout is the HTTP write deadline when the GPU probe is short.
const minWriteTimeout = 30 * time.Second

// WriteTimeout is the HTTP server write deadline. It always outlasts the GPU
// probe so a slow probe cannot cut off a stats response, and is unbounded (0)
// when the probe is.
func (c *Config) WriteTimeout() time.Duration {
	probe := c.GPUProbeTimeout()
	if probe <= 0 {
		return 0
	}
	return max(minWriteTimeout, probe+15*time.Second)
}

// ListenAddr is the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	host := strings.TrimSpace(c.BindAddress)
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	return fmt.Sprintf("%s:%d", host, c.Port)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and cross-field requirements.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid configuration: %s fails %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ResolvePath returns the config path to use: the explicit one when set,
// otherwise DefaultFileName in the working directory.
func ResolvePath(explicit string) string {
	if p := strings.TrimSpace(explicit); p != "" {
		return p
	}
	return DefaultFileName
}

// Bootstrap writes a default configuration to path when no file exists yet,
// rooted at the file's directory. created reports whether a file was written.
func Bootstrap(path string) (created bool, err error) {
	if strings.TrimSpace(path) == "" {
		return false, errors.New("config path cannot be empty")
	}
	if fileExists(path) {
		return false, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve config path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return false, fmt.Errorf("failed to ensure config directory: %w", err)
	}
	if err := Save(abs, Default(filepath.Dir(abs))); err != nil {
		return false, err
	}
	return true, nil
}

// Load reads path, applies defaults for missing fields and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("configuration file not found: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	cfg := Default(filepath.Dir(abs))
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing configuration: %w", err)
	}

	cfg.BindAddress = strings.TrimSpace(cfg.BindAddress)
	cfg.RootPath = strings.TrimSpace(cfg.RootPath)
	cfg.TLSCertPath = strings.TrimSpace(cfg.TLSCertPath)
	cfg.TLSKeyPath = strings.TrimSpace(cfg.TLSKeyPath)
	cfg.AccessPasswordHash = strings.TrimSpace(cfg.AccessPasswordHash)
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	if cfg.RootPath == "" {
		cfg.RootPath = filepath.Dir(abs)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// EnsureJWTSecret generates and stores a random signing secret when auth is
// enabled without one. changed reports whether the caller should Save.
func (c *Config) EnsureJWTSecret() (changed bool, err error) {
	if !c.AuthEnabled || c.JWTSecret != "" {
		return false, nil
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return false, fmt.Errorf("failed to generate jwt secret: %w", err)
	}
	c.JWTSecret = hex.EncodeToString(buf)
	return true, nil
}

// Save writes cfg to path as indented JSON.
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	return nil
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
