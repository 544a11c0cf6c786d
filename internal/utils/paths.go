// Package utils contains logging, filesystem layout and network helpers
// shared by the sysdash process shell.
package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths resolves filesystem locations under the sysdash root directory.
type Paths struct {
	RootPath string `json:"root_path"`
}

// NewPaths constructs Paths rooted at the specified directory.
func NewPaths(rootPath string) *Paths {
	return &Paths{RootPath: rootPath}
}

// LogsDir returns the logs directory.
func (p *Paths) LogsDir() string {
	return filepath.Join(p.RootPath, "logs")
}

// ConfigDir holds TLS material and other operator-provided files.
func (p *Paths) ConfigDir() string {
	return filepath.Join(p.RootPath, "config")
}

// LogFile returns the main sysdash log file path.
func (p *Paths) LogFile() string {
	return filepath.Join(p.LogsDir(), "sysdash.log")
}

// GinLogFile receives the HTTP access log.
func (p *Paths) GinLogFile() string {
	return filepath.Join(p.LogsDir(), "GIN.log")
}

// CheckRoot verifies that the root and logs directories exist.
func (p *Paths) CheckRoot() bool {
	for _, dir := range []string{p.RootPath, p.LogsDir()} {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// DeployRoot creates the directory layout (idempotent).
func (p *Paths) DeployRoot(logger *Logger) error {
	dirs := []struct{ path, label string }{
		{p.RootPath, "root"},
		{p.LogsDir(), "logs"},
		{p.ConfigDir(), "config"},
	}
	for _, d := range dirs {
		if _, err := os.Stat(d.path); err == nil {
			continue
		}
		if err := os.MkdirAll(d.path, 0o755); err != nil {
			return fmt.Errorf("create %s path %s: %w", d.label, d.path, err)
		}
		logger.Write(fmt.Sprintf("Creating %s path: %s", d.label, d.path))
	}
	return nil
}

// Resolve returns path unchanged when absolute; otherwise it is joined under
// the root with SecureJoin so it cannot escape it.
func (p *Paths) Resolve(path string) (string, error) {
	if path == "" || filepath.IsAbs(path) {
		return path, nil
	}
	return SecureJoin(p.RootPath, path)
}
