// Package server provides the Placify HTTP REST API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/placify/internal/ats"
	"github.com/jonathan/placify/internal/ats/style"
	"github.com/jonathan/placify/internal/cache"
	"github.com/jonathan/placify/internal/config"
	"github.com/jonathan/placify/internal/db"
	"github.com/jonathan/placify/internal/llm"
	"github.com/jonathan/placify/internal/mail"
	"github.com/jonathan/placify/internal/server/middleware"
	"github.com/jonathan/placify/internal/server/ratelimit"
)

// resetTokenPurgeInterval is how often used and expired reset tokens are
// deleted while serving.
const resetTokenPurgeInterval = time.Hour

// Server represents the HTTP server
type Server struct {
	httpServer   *http.Server
	handler      http.Handler
	cfg          *config.Config
	database     *db.DB
	store        Store
	scorer       *ats.Scorer
	cache        *cache.Cache
	llm          llm.Client
	rateLimiter  *ratelimit.Limiter
	jwtService   *JWTService
	userService  *UserService
	authHandler  *AuthHandler
	resetService *PasswordResetService
	now          func() time.Time
}

// Deps are the collaborators a Server is built from. Store and LLM may be
// nil: without a store only scoring and health are served, without an LLM
// AI feedback and question generation are off.
type Deps struct {
	Store          Store
	Cache          *cache.Cache
	LLM            llm.Client
	Mailer         mail.Mailer
	Scorer         *ats.Scorer
	RateLimiter    *ratelimit.Limiter
	PasswordConfig *config.PasswordConfig
	JWTConfig      *config.JWTConfig
	Now            func() time.Time
}

// New connects every backing service named in cfg and builds the server.
// Postgres, Redis, Gemini and SMTP are each optional.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	var deps Deps

	var database *db.DB
	if cfg.Database.URL != "" {
		var err error
		database, err = db.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		deps.Store = database
	} else {
		slog.Warn("DATABASE_URL not set, running without persistence")
	}

	deps.Cache = cache.New(ctx, cache.Options{
		RedisURL:   cfg.Cache.RedisURL,
		TTL:        cfg.Cache.TTL,
		MaxEntries: cfg.Cache.MaxL1Entries,
	})

	if cfg.Gemini.APIKey != "" {
		client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.Gemini.APIKey)
		if err != nil {
			slog.Warn("Gemini client unavailable, AI feedback disabled", slog.Any("error", err))
		} else {
			deps.LLM = client
		}
	}

	if cfg.Mail.Host != "" && cfg.Mail.Username != "" {
		deps.Mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			FromName: cfg.Mail.FromName,
		})
	} else {
		deps.Mailer = &mail.LogMailer{Logger: slog.Default()}
	}

	analyzer := style.New()
	if cfg.Scoring.TargetAge > 0 {
		analyzer.TargetAge = cfg.Scoring.TargetAge
	}
	deps.Scorer = ats.NewScorer(analyzer, ats.WithWeights(cfg.Scoring.Weights))
	deps.RateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	deps.PasswordConfig = passwordConfig

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	deps.JWTConfig = jwtConfig

	s, err := NewWithDeps(cfg, deps)
	if err != nil {
		return nil, err
	}
	s.database = database
	return s, nil
}

// NewWithDeps builds a server from already constructed collaborators.
func NewWithDeps(cfg *config.Config, deps Deps) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if deps.Cache == nil {
		return nil, errors.New("server requires a cache")
	}
	if deps.PasswordConfig == nil || deps.JWTConfig == nil {
		return nil, errors.New("server requires password and JWT configuration")
	}
	if deps.Scorer == nil {
		deps.Scorer = ats.NewScorer(style.New())
	}
	if deps.RateLimiter == nil {
		deps.RateLimiter = ratelimit.NewLimiter(nil)
	}
	if deps.Mailer == nil {
		deps.Mailer = &mail.LogMailer{Logger: slog.Default()}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	s := &Server{
		cfg:         cfg,
		store:       deps.Store,
		scorer:      deps.Scorer,
		cache:       deps.Cache,
		llm:         deps.LLM,
		rateLimiter: deps.RateLimiter,
		jwtService:  NewJWTService(deps.JWTConfig),
		now:         deps.Now,
	}

	s.userService = NewUserService(deps.Store, deps.PasswordConfig)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)
	s.resetService = NewPasswordResetService(deps.Store, deps.PasswordConfig, deps.Mailer,
		cfg.Server.FrontendURL, cfg.ResetTokenTTL())
	s.resetService.now = deps.Now

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(s.routes())))
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second, // scoring plus Gemini feedback
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() *http.ServeMux {
	validator := s.jwtService.AsTokenValidator()
	authed := func(h http.HandlerFunc, roles ...string) http.Handler {
		return middleware.RequireAuth(validator, roles...)(s.withStore(h))
	}
	public := func(h http.HandlerFunc) http.Handler {
		return s.withStore(h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Auth and profile
	mux.Handle("POST /api/auth/register", public(s.authHandler.Register))
	mux.Handle("POST /api/auth/login", public(s.authHandler.Login))
	mux.Handle("GET /api/auth/profile", authed(s.authHandler.Profile))
	mux.Handle("PUT /api/auth/profile", authed(s.authHandler.UpdateProfile))

	// Password reset
	mux.Handle("POST /api/password/forgot-password", public(s.handleForgotPassword))
	mux.Handle("POST /api/password/reset-password", public(s.handleResetPassword))

	// Jobs
	mux.Handle("GET /api/jobs", public(s.handleListJobs))
	mux.Handle("GET /api/jobs/applied", authed(s.handleAppliedJobs, db.RoleStudent))
	mux.Handle("GET /api/jobs/mine", authed(s.handleMyJobs, db.RoleCompany))
	mux.Handle("GET /api/jobs/{id}", public(s.handleGetJob))
	mux.Handle("POST /api/jobs", authed(s.handleCreateJob, db.RoleCompany))
	mux.Handle("PATCH /api/jobs/{id}", authed(s.handleUpdateJob, db.RoleCompany))
	mux.Handle("DELETE /api/jobs/{id}", authed(s.handleDeleteJob, db.RoleCompany, db.RoleAdmin))
	mux.Handle("POST /api/jobs/{id}/apply", authed(s.handleApplyJob, db.RoleStudent))
	mux.Handle("DELETE /api/jobs/{id}/withdraw", authed(s.handleWithdrawApplication, db.RoleStudent))

	// Resume scoring works without a store; results are only saved when
	// a store is present and the caller is signed in.
	mux.Handle("POST /api/ats/upload", middleware.OptionalAuth(validator)(http.HandlerFunc(s.handleATSUpload)))

	// Score history
	mux.Handle("GET /api/resume/score", authed(s.handleScoreHistory))
	mux.Handle("GET /api/resume/score/latest", authed(s.handleLatestScore))
	mux.Handle("GET /api/resume/score/analytics", authed(s.handleScoreAnalytics))
	mux.Handle("GET /api/resume/score/admin/analytics", authed(s.handleAdminScoreAnalytics, db.RoleAdmin))
	mux.Handle("DELETE /api/resume/score/{id}", authed(s.handleDeleteScore))

	// Structured resumes. The literal score routes above take precedence
	// over {id}.
	mux.Handle("POST /api/resume", authed(s.handleCreateResume))
	mux.Handle("GET /api/resume", authed(s.handleListResumes))
	mux.Handle("GET /api/resume/analytics", authed(s.handleResumeAnalytics))
	mux.Handle("GET /api/resume/{id}", authed(s.handleGetResume))
	mux.Handle("PUT /api/resume/{id}", authed(s.handleUpdateResume))
	mux.Handle("DELETE /api/resume/{id}", authed(s.handleDeleteResume))

	// Dashboard
	mux.Handle("GET /api/dashboard", authed(s.handleDashboard))

	// Interview experiences
	mux.Handle("POST /api/interviews", public(s.handleCreateInterviewExperience))
	mux.Handle("GET /api/interviews", public(s.handleListInterviewExperiences))
	mux.Handle("GET /api/interviews/stats", public(s.handleInterviewStats))
	mux.Handle("GET /api/interviews/{id}", public(s.handleGetInterviewExperience))

	// Aptitude questions
	mux.Handle("GET /api/questions", public(s.handleListQuestions))
	mux.Handle("POST /api/questions/answers", public(s.handleCheckAnswer))
	mux.Handle("POST /api/questions/generate", authed(s.handleGenerateQuestion))

	return mux
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully and
// releases backing services.
func (s *Server) Start(ctx context.Context) error {
	if s.store != nil {
		go s.purgeResetTokensEvery(ctx, resetTokenPurgeInterval)
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.Close()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

// Close releases the rate limiter, cache, LLM client and database pool.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			slog.Warn("failed to close cache", slog.Any("error", err))
		}
	}
	if s.llm != nil {
		if err := s.llm.Close(); err != nil {
			slog.Warn("failed to close LLM client", slog.Any("error", err))
		}
	}
	if s.database != nil {
		s.database.Close()
	}
}

// withStore answers 503 when the server runs without a database.
func (s *Server) withStore(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.store == nil {
			errorResponse(w, http.StatusServiceUnavailable, "Database is not configured")
			return
		}
		next(w, r)
	})
}

// withCORS allows the frontend origin to call the API with credentials.
func (s *Server) withCORS(next http.Handler) http.Handler {
	origin := strings.TrimRight(s.cfg.Server.FrontendURL, "/")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
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

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(r.Context(), level, "request completed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
			slog.String("remote", r.RemoteAddr))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			slog.Error("database ping failed", slog.Any("error", err))
			jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// extractClientID extracts the client identifier from the request.
// X-Forwarded-For is ignored because the proxy chain is not trusted.
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
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	slog.Warn("rate limit exceeded",
		slog.String("path", r.URL.Path),
		slog.String("client", s.extractClientID(r)),
		slog.Int("limit", info.Limit))

	jsonResponse(w, http.StatusTooManyRequests, response)
}
