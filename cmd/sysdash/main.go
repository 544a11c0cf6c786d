package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"sysdash/internal/handlers"
	"sysdash/internal/manager"
	"sysdash/internal/middleware"
	"sysdash/internal/utils"
	"sysdash/internal/version"
)

type App struct {
	manager     *manager.Manager
	authService *middleware.AuthService
	dispatcher  *handlers.Dispatcher
	wsHub       *middleware.Hub
	rateLimiter *middleware.RateLimiter
	tlsEnabled  bool
}

func newApp(m *manager.Manager) *App {
	dispatcher := handlers.NewDispatcher(m)
	return &App{
		manager:     m,
		authService: m.AuthService(),
		dispatcher:  dispatcher,
		wsHub:       middleware.NewHub(dispatcher, m.Log),
		rateLimiter: middleware.NewRateLimiterPerMinute(m.Config.RateLimitPerMinute),
	}
}

func main() {
	gin.SetMode(gin.ReleaseMode)

	if err := newRootCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "sysdash: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:    "sysdash",
		Usage:   "Local system telemetry dashboard",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to sysdash.config (created with defaults when missing)",
				Sources: cli.EnvVars("SYSDASH_CONFIG"),
			},
		},
		Action: runServe,
		Commands: []*cli.Command{
			serveCmd(),
			snapshotCmd(),
			invokeCmd(),
			versionCmd(),
		},
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Start the dashboard server (default)",
		Action: runServe,
	}
}

func snapshotCmd() *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "Print one system stats snapshot and exit",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "output format: json or yaml",
				Value:   "json",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format := strings.ToLower(strings.TrimSpace(cmd.String("format")))
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unsupported format %q", format)
			}
			m, err := manager.NewManager(ctx, cmd.String("config"))
			if err != nil {
				return err
			}
			defer m.Close()
			return writeOutput(outputWriter(cmd), format, m.SystemStats(ctx))
		},
	}
}

func invokeCmd() *cli.Command {
	return &cli.Command{
		Name:      "invoke",
		Usage:     "Run a dashboard command and print its result",
		ArgsUsage: "<command> [json-args]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := strings.TrimSpace(cmd.Args().First())
			if name == "" {
				return errors.New("command name is required")
			}
			var args json.RawMessage
			if raw := strings.TrimSpace(cmd.Args().Get(1)); raw != "" {
				if !json.Valid([]byte(raw)) {
					return fmt.Errorf("arguments are not valid JSON: %s", raw)
				}
				args = json.RawMessage(raw)
			}
			m, err := manager.NewManager(ctx, cmd.String("config"))
			if err != nil {
				return err
			}
			defer m.Close()
			result, err := handlers.NewDispatcher(m).Invoke(ctx, name, args)
			if err != nil {
				return err
			}
			return writeOutput(outputWriter(cmd), "json", result)
		},
	}
}

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build metadata",
		Action: func(_ context.Context, cmd *cli.Command) error {
			return writeOutput(outputWriter(cmd), "json", version.Current())
		},
	}
}

func outputWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func writeOutput(w io.Writer, format string, v any) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := manager.NewManager(ctx, cmd.String("config"))
	if err != nil {
		return err
	}

	// With the tray on, a console launch hands off to a detached copy so the
	// console returns immediately.
	trayEnabled := runtime.GOOS == "windows" && m.Config.TrayEnabled
	if trayEnabled {
		if spawnDetachedIfNeeded(true) {
			m.Close()
			return nil
		}
		hideConsoleWindow()
	}

	ginLog := routeGinLogs(m)
	if ginLog != nil {
		defer ginLog.Close()
	}

	app := newApp(m)
	hubCtx, stopHub := context.WithCancel(context.Background())
	go app.wsHub.Run(hubCtx)

	srv := &http.Server{
		Addr:           m.Config.ListenAddr(),
		Handler:        setupRouter(app),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   m.Config.WriteTimeout(),
		MaxHeaderBytes: 1 << 20,
	}
	// TLS handshake errors and the like go to sysdash.log instead of stderr.
	srv.ErrorLog = log.New(utils.LineWriter{Logger: m.Log, Prefix: "http: "}, "", 0)

	var certFile, keyFile string
	if m.Config.TLSEnabled {
		certFile, keyFile, err = m.TLSFiles()
		if err != nil {
			m.Log.Write(fmt.Sprintf("TLS enabled but unusable (%v); falling back to HTTP", err))
		} else {
			app.tlsEnabled = true
		}
	}

	serveErr := make(chan error, 1)
	go func() {
		if app.tlsEnabled {
			m.Log.Write("Starting HTTPS server on " + srv.Addr)
			serveErr <- ignoreClosed(srv.ListenAndServeTLS(certFile, keyFile))
			return
		}
		m.Log.Write("Starting HTTP server on " + srv.Addr)
		serveErr <- ignoreClosed(srv.ListenAndServe())
	}()

	m.StartPortForwarding(ctx)

	var runErr error
	if trayEnabled {
		exitErr := make(chan error, 1)
		go func() {
			exitErr <- waitForExit(ctx, serveErr, m.Log)
			trayQuit()
		}()
		// systray needs the main thread; this blocks until the tray quits.
		startTray(app)
		m.Log.Write("Tray exit requested")
		select {
		case runErr = <-exitErr:
		default:
		}
	} else {
		runErr = waitForExit(ctx, serveErr, m.Log)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		m.Log.Write(fmt.Sprintf("HTTP server shutdown error: %v", err))
	}
	stopHub()
	app.rateLimiter.Stop()
	m.Log.Write("Server exited")
	m.Shutdown(shutdownCtx)
	return runErr
}

func waitForExit(ctx context.Context, serveErr <-chan error, logger *utils.Logger) error {
	select {
	case <-ctx.Done():
		logger.Write("Shutdown signal received")
		return nil
	case err := <-serveErr:
		if err != nil {
			logger.Write(fmt.Sprintf("Server failed: %v", err))
		}
		return err
	}
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// routeGinLogs sends Gin output to a fresh GIN.log, or to sysdash.log when
// the file cannot be opened.
func routeGinLogs(m *manager.Manager) *os.File {
	file, err := os.OpenFile(m.Paths.GinLogFile(), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		m.Log.Write(fmt.Sprintf("Failed to open Gin log file: %v", err))
		w := utils.LineWriter{Logger: m.Log, Prefix: "gin: "}
		gin.DefaultWriter = w
		gin.DefaultErrorWriter = w
		return nil
	}
	gin.DefaultWriter = file
	gin.DefaultErrorWriter = file
	return file
}
