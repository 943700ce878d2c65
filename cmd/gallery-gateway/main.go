// ABOUTME: Entry point for the gallery-gateway plugin marketplace server
// ABOUTME: Wires config, auth, caches, and the analytics store into the HTTP server

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/pluginbay/gallery-gateway/internal/analytics"
	"github.com/pluginbay/gallery-gateway/internal/auth"
	"github.com/pluginbay/gallery-gateway/internal/config"
	"github.com/pluginbay/gallery-gateway/internal/github"
	"github.com/pluginbay/gallery-gateway/internal/readme"
	"github.com/pluginbay/gallery-gateway/internal/registry"
	"github.com/pluginbay/gallery-gateway/internal/server"
	"github.com/pluginbay/gallery-gateway/internal/session"
)

// Version is set by goreleaser at build time.
var version = "dev"

// oauthHTTPTimeout bounds the token exchange and profile fetch calls to GitHub.
const oauthHTTPTimeout = 10 * time.Second

const banner = `
            _ _                                       _
  __ _ __ _| | | ___ _ __ _   _        __ _       _  (_)_      __ _ _   _
 / _' / _' | | |/ _ \ '__| | | |_____ / _' | __ _| |_ _ \ \ /\ / / _' | | | |
| (_| (_| | | |  __/ |  | |_| |_____| (_| |/ _' | __/ _ \ V  V / (_| | |_| |
 \__, \__,_|_|_|\___|_|   \__, |      \__, | (_| | ||  __/\_/\_/ \__,_|\__, |
 |___/                    |___/       |___/ \__,_|\__\___|             |___/
`

// getConfigPath returns the path to the gateway config file.
// Priority: GALLERY_CONFIG env var > XDG_CONFIG_HOME/gallery/gateway.yaml > ~/.config/gallery/gateway.yaml
func getConfigPath() string {
	if envPath := os.Getenv("GALLERY_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "gateway.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "gallery", "gateway.yaml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: gallery-gateway <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve     Start the gateway server")
		fmt.Println("  health    Check gateway health")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "health":
		err = runHealth(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	// Print banner
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	// Version info
	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	// Startup info
	green := color.New(color.FgGreen)

	green.Print("    ▶ ")
	fmt.Printf("Config:    %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:      %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Registry:  %s\n", cfg.Registry.URL)
	if cfg.Analytics.DatabasePath != "" {
		green.Print("    ▶ ")
		fmt.Printf("Analytics: %s\n", cfg.Analytics.DatabasePath)
	}
	fmt.Println()

	logger.Info("starting gallery-gateway",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
		"registry_url", cfg.Registry.URL,
	)

	srv, store, err := buildServer(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// buildServer assembles the server and its dependencies from config.
// The returned store is nil when analytics is disabled.
func buildServer(cfg *config.Config) (*server.Server, analytics.Store, error) {
	codec := session.NewCodec([]byte(cfg.Auth.CookieSecret))

	mode := auth.ModeAllowlist
	users := cfg.Auth.AllowedUsers
	if cfg.Auth.AccessMode == string(auth.ModeDenylist) {
		mode = auth.ModeDenylist
		users = cfg.Auth.DeniedUsers
	}
	policy := auth.NewPolicy(mode, users)

	provider := github.NewClient(
		cfg.Auth.GitHubClientID,
		cfg.Auth.GitHubClientSecret,
		cfg.Auth.GitHubCallbackURL,
		oauthHTTPTimeout,
	)

	fetcher := registry.NewClient(cfg.Registry.URL, cfg.Registry.FetchTimeout)
	catalog := registry.NewCache(fetcher, cfg.Registry.CacheTTL)

	resolver := readme.NewResolver(cfg.Readme.FetchTimeout)
	readmeCache := readme.NewCache(cfg.Readme.CacheTTL)

	var store analytics.Store
	if cfg.Analytics.DatabasePath != "" {
		dir := filepath.Dir(cfg.Analytics.DatabasePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("creating analytics directory: %w", err)
		}
		sqlStore, err := analytics.NewSQLiteStore(cfg.Analytics.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening analytics database: %w", err)
		}
		store = sqlStore
	}

	srv := server.New(cfg, codec, policy, provider, catalog, resolver, readmeCache, store)
	return srv, store, nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = &colorHandler{
			level: level,
		}
	}

	return slog.New(handler)
}

// colorHandler provides colorized log output with thread-safe writes.
type colorHandler struct {
	mu     sync.Mutex
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	// Format timestamp
	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	// Colorize level
	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	// Print message
	buf.WriteString(r.Message)

	// Print handler-level attrs first (from WithAttrs)
	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}

	// Print record attrs
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	fmt.Print(buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	return &colorHandler{
		level:  h.level,
		attrs:  h.attrs,
		groups: newGroups,
	}
}

func runHealth(ctx context.Context) error {
	configPath := getConfigPath()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	addr := strings.TrimPrefix(cfg.Server.HTTPAddr, "http://")
	url := fmt.Sprintf("http://%s/healthz", addr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}
