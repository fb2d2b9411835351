// FILE: chassis/cmd/chassis/app/serve.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"chassis"
	"chassis/internal/logger"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
	compressionLevel  = 5
)

// newServeCmd creates the development server command.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the development server with the assembled middleware chain",
		Long: `Serve resolves the full settings profile, maps the assembled middleware
identifiers onto their implementations, and runs a development HTTP server
until interrupted. An identifier with no implementation aborts startup.`,
		RunE: runServe,
	}
	cmd.Flags().Bool("watch-config", false, "Log configuration file changes while running")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings, err := buildSettings(cmd)
	if err != nil {
		return err
	}
	logger.Initialize(settings.Debug)

	router, err := buildRouter(settings)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	if err := watchConfigIfRequested(ctx, cmd); err != nil {
		return err
	}

	srv := &http.Server{
		BaseContext:       func(net.Listener) context.Context { return ctx },
		Addr:              settings.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("development server listening on http://%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped with error: %w", err)
	case <-ctx.Done():
	}

	// The command context is already canceled, so shutdown gets its own
	// deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Infof("development server stopped")
	return nil
}

// buildRouter assembles the chi router from the resolved middleware chain
// and mounts the development routes.
func buildRouter(settings *chassis.Settings) (*chi.Mux, error) {
	r := chi.NewRouter()

	r.Use(allowedHosts(settings.AllowedHosts, settings.Debug))
	for _, name := range settings.Middleware {
		mw, err := middlewareFor(name, settings)
		if err != nil {
			return nil, err
		}
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `{"status":"ok"}`)
	})
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "chassis development server\napps: %s\nmiddleware: %s\n",
			strings.Join(settings.Apps, ", "), strings.Join(settings.Middleware, ", "))
	})

	serveLocal, err := settings.Storage.ServesLocalFiles()
	if err != nil {
		return nil, err
	}
	if settings.Debug && serveLocal {
		r.Mount("/static", http.StripPrefix("/static", http.FileServer(http.Dir(settings.Storage.StaticRoot))))
		r.Mount("/media", http.StripPrefix("/media", http.FileServer(http.Dir(settings.Storage.MediaRoot))))
	}

	return r, nil
}

// knownMiddleware lists the identifiers the development server can mount.
func knownMiddleware() []string {
	return []string{
		"request_id",
		"real_ip",
		"logger",
		"recoverer",
		"security_headers",
		"compress",
		"timeout",
		"no_cache",
	}
}

// middlewareFor maps an assembled middleware identifier to its
// implementation. Every identifier the baseline or configuration can produce
// needs a branch here; anything else aborts startup.
func middlewareFor(name string, settings *chassis.Settings) (func(http.Handler) http.Handler, error) {
	switch name {
	case "request_id":
		return middleware.RequestID, nil
	case "real_ip":
		return middleware.RealIP, nil
	case "logger":
		return middleware.Logger, nil
	case "recoverer":
		return middleware.Recoverer, nil
	case "security_headers":
		return securityHeaders, nil
	case "compress":
		return middleware.Compress(compressionLevel), nil
	case "timeout":
		return middleware.Timeout(settings.Server.RequestTimeout), nil
	case "no_cache":
		return middleware.NoCache, nil
	default:
		return nil, &chassis.UnsupportedOptionError{Setting: "middleware", Value: name, Known: knownMiddleware()}
	}
}

// securityHeaders sets the browser protection headers on every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}

// allowedHosts rejects requests whose Host header is not in the configured
// list. Debug mode, an empty list, and a "*" entry disable the check.
func allowedHosts(hosts []string, debug bool) func(http.Handler) http.Handler {
	wildcard := debug || len(hosts) == 0
	allowed := make(map[string]bool, len(hosts))
	for _, h := range hosts {
		if h == "*" {
			wildcard = true
		}
		allowed[h] = true
	}
	if !debug && len(hosts) == 0 {
		logger.Warnf("allowed_hosts is empty, accepting any host")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if wildcard || allowed[requestHost(r)] {
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, "host not allowed", http.StatusBadRequest)
		})
	}
}

// requestHost returns the request's Host header without any port.
func requestHost(r *http.Request) string {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return host
}

// watchConfigIfRequested starts a configuration watcher that logs changed
// fields. The server does not hot reload; changes apply on restart.
func watchConfigIfRequested(ctx context.Context, cmd *cobra.Command) error {
	watch, err := cmd.Flags().GetBool("watch-config")
	if err != nil || !watch {
		return err
	}

	path, found, err := configFile(cmd)
	if err != nil {
		return err
	}
	if !found {
		logger.Warnf("watch-config requested but no configuration file found")
		return nil
	}

	registry, err := chassis.DefaultRegistry()
	if err != nil {
		return err
	}
	prefix, err := cmd.Flags().GetString("env-prefix")
	if err != nil {
		return err
	}

	opts := chassis.DefaultWatchOptions()
	opts.EnvPrefix = prefix
	watcher := chassis.NewWatcher(registry, path, opts)
	watcher.Start()

	updates := watcher.Subscribe()
	go func() {
		defer watcher.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case name, ok := <-updates:
				if !ok {
					return
				}
				logger.Infof("configuration change detected: %s (restart to apply)", name)
			}
		}
	}()
	return nil
}
