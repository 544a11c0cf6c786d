// Package manager owns the process-lifetime state of sysdash: configuration,
// logging, the telemetry session and optional port forwarding.
package manager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"sysdash/internal/config"
	"sysdash/internal/gpu"
	"sysdash/internal/middleware"
	"sysdash/internal/models"
	"sysdash/internal/telemetry"
	"sysdash/internal/utils"
)

type Manager struct {
	ConfigFile string
	Config     *config.Config
	Paths      *utils.Paths
	Log        *utils.Logger

	session   *telemetry.Session
	collector *telemetry.Collector
	gpu       *gpu.Identifier

	pfMu          sync.Mutex
	portForwarder *utils.PortForwarder
	closeOnce     sync.Once
}

type options struct {
	source     telemetry.Source
	gpuProbers []gpu.Prober
	gpuSet     bool
}

// Option customizes NewManager, mostly for tests.
type Option func(*options)

// WithSource replaces the gopsutil host source.
func WithSource(src telemetry.Source) Option {
	return func(o *options) { o.source = src }
}

// WithGPUProbers replaces the platform GPU probers.
func WithGPUProbers(probers ...gpu.Prober) Option {
	return func(o *options) {
		o.gpuProbers = probers
		o.gpuSet = true
	}
}

// NewManager loads configuration from configPath (./sysdash.config when
// empty), writing defaults first if the file does not exist, and builds the
// telemetry session with an eager host scan.
func NewManager(ctx context.Context, configPath string, opts ...Option) (*Manager, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	path := config.ResolvePath(configPath)
	created, err := config.Bootstrap(path)
	if err != nil {
		return nil, fmt.Errorf("unable to create default configuration at %s: %w", path, err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		ConfigFile: path,
		Config:     cfg,
		Paths:      utils.NewPaths(cfg.RootPath),
	}
	if err := m.startLogs(); err != nil {
		return nil, err
	}
	if created {
		m.Log.Write("Created default configuration at " + path)
	}

	if changed, err := cfg.EnsureJWTSecret(); err != nil {
		m.Log.Write(err.Error())
	} else if changed {
		if err := m.Save(); err != nil {
			m.Log.Write(err.Error())
		}
	}
	if cfg.AuthEnabled && cfg.JWTSecret == "" {
		m.Close()
		return nil, errors.New("auth_enabled requires a jwt_secret")
	}

	gpuOpts := []gpu.Option{gpu.WithTimeout(cfg.GPUProbeTimeout()), gpu.WithLogger(m.Log.Write)}
	if o.gpuSet {
		gpuOpts = append(gpuOpts, gpu.WithProbers(o.gpuProbers...))
	}
	m.gpu = gpu.NewIdentifier(gpuOpts...)

	src := o.source
	if src == nil {
		src = telemetry.NewHostSource()
	}
	m.session = telemetry.NewSession(ctx, src)
	m.collector = telemetry.NewCollector(m.session, m.gpu, telemetry.Options{
		PopulateIPAddresses: cfg.PopulateIPAddresses,
	})

	m.Log.Write("Configuration loaded from " + path)
	return m, nil
}

func (m *Manager) startLogs() error {
	m.Log = utils.NewLogger(m.Paths.LogFile())
	if err := m.Paths.DeployRoot(m.Log); err != nil {
		m.Log.Close()
		return fmt.Errorf("unable to prepare %s: %w", m.Paths.RootPath, err)
	}
	return nil
}

// SystemStats returns a fresh telemetry snapshot.
func (m *Manager) SystemStats(ctx context.Context) models.SystemStats {
	return m.collector.SystemStats(ctx)
}

// AuthService returns the token service, or nil when auth is disabled.
func (m *Manager) AuthService() *middleware.AuthService {
	if !m.Config.AuthEnabled {
		return nil
	}
	return middleware.NewAuthService(m.Config.JWTSecret, m.Config.AccessPasswordHash)
}

// TLSFiles resolves the certificate and key paths relative to the root and
// checks that both exist.
func (m *Manager) TLSFiles() (certFile, keyFile string, err error) {
	if certFile, err = m.Paths.Resolve(strings.TrimSpace(m.Config.TLSCertPath)); err != nil {
		return "", "", fmt.Errorf("tls_cert_path: %w", err)
	}
	if keyFile, err = m.Paths.Resolve(strings.TrimSpace(m.Config.TLSKeyPath)); err != nil {
		return "", "", fmt.Errorf("tls_key_path: %w", err)
	}
	for _, f := range []string{certFile, keyFile} {
		if _, err := os.Stat(f); err != nil {
			return "", "", fmt.Errorf("tls file unavailable: %w", err)
		}
	}
	return certFile, keyFile, nil
}

// Save writes the current configuration back to ConfigFile.
func (m *Manager) Save() error {
	if m.ConfigFile == "" {
		return errors.New("no configuration file; specify one with --config")
	}
	if err := config.Save(m.ConfigFile, m.Config); err != nil {
		return err
	}
	m.Log.Write("Configuration saved successfully")
	return nil
}

// StartPortForwarding maps the dashboard port on the local gateway when
// auto_port_forward is enabled.
func (m *Manager) StartPortForwarding(ctx context.Context) {
	if !m.Config.AutoPortForward {
		return
	}
	m.pfMu.Lock()
	defer m.pfMu.Unlock()
	if m.portForwarder == nil {
		m.portForwarder = utils.NewPortForwarder(m.Config.Port, m.Log)
	}
	m.portForwarder.Start(ctx)
}

// PortForwardStatus reports the forwarder state; zero when disabled.
func (m *Manager) PortForwardStatus() utils.PortForwardStatus {
	m.pfMu.Lock()
	defer m.pfMu.Unlock()
	if m.portForwarder == nil {
		return utils.PortForwardStatus{}
	}
	return m.portForwarder.Status()
}

// Shutdown removes the port mapping and closes the log.
func (m *Manager) Shutdown(ctx context.Context) {
	m.pfMu.Lock()
	pf := m.portForwarder
	m.pfMu.Unlock()
	if pf != nil {
		pf.Stop(ctx)
	}
	m.Log.Write("Shutdown complete")
	m.Close()
}

// Close releases the log file. It is safe to call more than once.
func (m *Manager) Close() {
	m.closeOnce.Do(func() { m.Log.Close() })
}
