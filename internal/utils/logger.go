package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// Logger writes timestamped lines to a log file. It is safe for concurrent use.
type Logger struct {
	mu        sync.Mutex
	writeFile *os.File
}

// defaultLogPath returns the sysdash log path next to the running executable,
// using the same layout as Paths.LogFile().
func defaultLogPath() string {
	exe, err := os.Executable()
	if err == nil {
		if resolved, rerr := filepath.EvalSymlinks(exe); rerr == nil && resolved != "" {
			exe = resolved
		}
		return NewPaths(filepath.Dir(exe)).LogFile()
	}
	return NewPaths(filepath.Join(os.TempDir(), "sysdash")).LogFile()
}

// NewLogger opens logFile for appending, creating its directory if needed.
// An empty path selects the default log next to the executable. If the file
// cannot be opened, Write falls back to stdout.
func NewLogger(logFile string) *Logger {
	logger := &Logger{}
	if strings.TrimSpace(logFile) == "" {
		logFile = defaultLogPath()
	}
	_ = os.MkdirAll(filepath.Dir(logFile), 0o755)

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: Error opening log file (%s): %v\n", time.Now().Format(timestampLayout), logFile, err)
		return logger
	}
	logger.writeFile = f
	return logger
}

// Write appends a timestamped message to the log (or stdout when no file).
// A nil Logger discards the message.
func (l *Logger) Write(message string) {
	if l == nil {
		return
	}
	line := fmt.Sprintf("%s: %s\n", time.Now().Format(timestampLayout), message)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.writeFile != nil {
		_, _ = l.writeFile.WriteString(line)
		_ = l.writeFile.Sync()
		return
	}
	fmt.Print(line)
}

// Writef formats according to a format specifier and writes the result.
func (l *Logger) Writef(format string, args ...any) {
	l.Write(fmt.Sprintf(format, args...))
}

// Close closes the underlying file handle.
func (l *Logger) Close() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.writeFile != nil {
		_ = l.writeFile.Close()
		l.writeFile = nil
	}
}

// File returns the underlying write file handle when available.
func (l *Logger) File() *os.File {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writeFile
}

// LineWriter adapts the Logger to io.Writer for libraries that log through
// a writer, such as http.Server.ErrorLog. Each write becomes one entry.
type LineWriter struct {
	Logger *Logger
	Prefix string
}

func (w LineWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\r\n")
	if msg != "" {
		w.Logger.Write(w.Prefix + msg)
	}
	return len(p), nil
}
