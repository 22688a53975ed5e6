// Package server provides the HTTP REST API for the resume builder.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/cache"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/googleauth"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/stats"
	"github.com/jonathan/resume-builder/internal/storage"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const requestIDHeader = "X-Request-ID"

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	resumes     *resume.Store
	stats       *stats.Service
	authHandler *AuthHandler
	jwtService  *JWTService
	rateLimiter *ratelimit.Limiter
	corsOrigin  string
	uploadsDir  string
	health      func(context.Context) error
	closers     []func()
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	CORSOrigin  string
}

// Deps are the collaborators a Server routes requests to. Stats, RateLimiter
// and Health are optional.
type Deps struct {
	Resumes     *resume.Store
	Users       *UserService
	JWT         *JWTService
	Stats       *stats.Service
	RateLimiter *ratelimit.Limiter
	CORSOrigin  string
	// UploadsDir, when set, is served read-only under /uploads/.
	UploadsDir  string
	Health      func(context.Context) error
}

// New connects to the database and the optional cache and object storage,
// then builds a server listening on cfg.Port.
func New(ctx context.Context, cfg Config) (*Server, error) {
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	closers := []func(){database.Close}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	storageConfig, err := config.NewStorageConfig()
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("failed to create storage config: %w", err)
	}
	cacheConfig, err := config.NewCacheConfig()
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("failed to create cache config: %w", err)
	}
	googleConfig := config.NewGoogleConfig()

	assets, err := storage.New(ctx, storageConfig)
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("failed to create asset storage: %w", err)
	}

	var verifier googleauth.Verifier
	if googleConfig.Enabled() {
		v, err := googleauth.NewIDTokenVerifier(ctx, googleConfig.ClientID)
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("failed to create google verifier: %w", err)
		}
		verifier = v
	} else {
		log.Info().Msg("GOOGLE_CLIENT_ID not set, google login disabled")
	}

	redis := cache.NewRedis(ctx, cacheConfig)
	closers = append(closers, func() {
		if err := redis.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis client")
		}
	})

	deps := Deps{
		Resumes:     resume.NewStore(database, assets),
		Users:       NewUserService(database, passwordConfig, verifier, googleConfig),
		JWT:         NewJWTService(jwtConfig),
		Stats:       stats.NewService(database, redis, cacheConfig.StatsTTL),
		RateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		CORSOrigin:  cfg.CORSOrigin,
		Health:      database.Ping,
	}
	if storageConfig.Driver == config.StorageLocal {
		deps.UploadsDir = storageConfig.UploadsDir
	}

	s := NewWithDeps(deps)
	s.closers = closers
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// NewWithDeps builds the routing layer over already constructed collaborators.
func NewWithDeps(deps Deps) *Server {
	s := &Server{
		resumes:     deps.Resumes,
		stats:       deps.Stats,
		authHandler: NewAuthHandler(deps.Users, deps.JWT),
		jwtService:  deps.JWT,
		rateLimiter: deps.RateLimiter,
		corsOrigin:  deps.CORSOrigin,
		uploadsDir:  deps.UploadsDir,
		health:      deps.Health,
	}
	if s.corsOrigin == "" {
		s.corsOrigin = "*"
	}
	s.handler = s.routes()
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	requireAuth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	requireAdmin := func(h http.Handler) http.Handler {
		return requireAuth(middleware.RequireRole(types.RoleAdmin)(h))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /api/auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", s.authHandler.Login)
	mux.HandleFunc("POST /api/auth/google-login", s.authHandler.GoogleLogin)
	mux.Handle("GET /api/auth/profile", requireAuth(http.HandlerFunc(s.authHandler.Profile)))

	mux.Handle("POST /api/resume", requireAuth(http.HandlerFunc(s.handleCreateResume)))
	mux.Handle("GET /api/resume", requireAuth(http.HandlerFunc(s.handleListResumes)))
	mux.Handle("GET /api/resume/{id}", requireAuth(http.HandlerFunc(s.handleGetResume)))
	mux.Handle("PUT /api/resume/{id}", requireAuth(http.HandlerFunc(s.handleUpdateResume)))
	mux.Handle("DELETE /api/resume/{id}", requireAuth(http.HandlerFunc(s.handleDeleteResume)))
	mux.Handle("GET /api/resume/{id}/render", requireAuth(http.HandlerFunc(s.handleRenderResume)))

	mux.Handle("GET /api/admin/stats", requireAdmin(http.HandlerFunc(s.handleAdminStats)))

	if s.uploadsDir != "" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", noDirListing(http.FileServer(http.Dir(s.uploadsDir)))))
	}

	return s.withLogging(s.withCORS(s.withRateLimit(mux)))
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("server was not created with New")
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.close()
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.close()
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.close()
	log.Info().Msg("server stopped")
	return nil
}

func (s *Server) close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// withCORS adds CORS headers and answers preflight requests.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if s.corsOrigin != "*" {
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects requests over the per-client budget with 429.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	if s.rateLimiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rec *statusRecorder) WriteHeader(status int) {
	if rec.status == 0 {
		rec.status = status
	}
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += n
	return n, err
}

// withLogging tags each request with a request id, attaches a request scoped
// logger to its context and logs the outcome.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rid := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, rid)

		logger := log.With().Str("request_id", rid).Logger()
		r = r.WithContext(logger.WithContext(r.Context()))

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		var event *zerolog.Event
		switch {
		case rec.status >= 500:
			event = logger.Error()
		case rec.status >= 400:
			event = logger.Warn()
		default:
			event = logger.Info()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Int("resp_bytes", rec.bytes).
			Dur("latency", time.Since(start)).
			Str("ip", s.extractClientID(r)).
			Msg("request")
	})
}

func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("health check failed")
			jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// errorResponse writes an error JSON response
func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to its status code. Server side failures are logged and
// answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	errorResponse(w, status, publicMessage(err))
}

// extractClientID uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "Too many requests, please try again later",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.UTC().Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		secs := int(info.RetryAfter.Seconds())
		if secs < 1 {
			secs = 1
		}
		response["retry_after"] = secs
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}

	log.Ctx(r.Context()).Warn().
		Str("path", r.URL.Path).
		Int("limit", info.Limit).
		Time("reset", info.ResetTime).
		Msg("rate limit exceeded")

	jsonResponse(w, http.StatusTooManyRequests, response)
}
