// Package server wires the Connect services into an HTTP server.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/lessmo/internal/auth"
	"github.com/mmynk/lessmo/internal/config"
	"github.com/mmynk/lessmo/internal/middleware"
	"github.com/mmynk/lessmo/internal/service"
	"github.com/mmynk/lessmo/internal/storage"
	"github.com/mmynk/lessmo/pkg/api/apiconnect"
)

// Server serves the ledger and auth services over Connect.
type Server struct {
	cfg        config.Config
	store      storage.Store
	logger     *slog.Logger
	jwtManager *auth.JWTManager
}

// New creates a Server. The store stays owned by the caller.
func New(cfg config.Config, store storage.Store, logger *slog.Logger) *Server {
	return &Server{
		cfg:        cfg,
		store:      store,
		logger:     logger,
		jwtManager: auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL.Duration),
	}
}

// Handler returns the router with every route mounted, wrapped with h2c so
// Connect clients can speak HTTP/2 without TLS.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors(s.cfg.Server.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	if s.cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	ledgerPath, ledgerHandler := apiconnect.NewLedgerServiceHandler(
		service.NewLedgerService(s.store, s.logger),
		connect.WithInterceptors(
			middleware.MetricsInterceptor(),
			middleware.RequireAuth(s.jwtManager),
			middleware.LoggingInterceptor(s.logger),
		),
	)
	r.Handle(ledgerPath+"*", ledgerHandler)

	authPath, authHandler := apiconnect.NewAuthServiceHandler(
		service.NewAuthService(auth.NewPasswordAuthenticator(s.store), s.jwtManager, s.store, s.logger),
		connect.WithInterceptors(
			middleware.MetricsInterceptor(),
			middleware.OptionalAuth(s.jwtManager),
			middleware.LoggingInterceptor(s.logger),
		),
	)
	r.Handle(authPath+"*", authHandler)

	return h2c.NewHandler(r, &http2.Server{})
}

// Run serves until ctx is cancelled, then drains in-flight requests for up
// to the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Connect server starting", "address", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down", "timeout", s.cfg.Server.ShutdownTimeout.Duration)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout.Duration)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// requestLogger logs every HTTP request once it completes.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.DebugContext(r.Context(), "Request completed",
			"request_id", chimw.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// cors adds CORS headers for browser clients from the allowed origins.
// "*" allows any origin.
func cors(allowed []string) func(http.Handler) http.Handler {
	anyOrigin := slices.Contains(allowed, "*")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case anyOrigin:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && slices.Contains(allowed, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", strings.Join([]string{
				"Content-Type", "Authorization", "Connect-Protocol-Version", "Connect-Timeout-Ms",
			}, ", "))
			w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
