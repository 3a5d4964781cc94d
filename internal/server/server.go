// Package server provides the HTTP REST API for resume generation.
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/resume-forge/internal/config"
	"github.com/jonathan/resume-forge/internal/db"
	"github.com/jonathan/resume-forge/internal/embedding"
	"github.com/jonathan/resume-forge/internal/llm"
	"github.com/jonathan/resume-forge/internal/parsing"
	"github.com/jonathan/resume-forge/internal/pipeline"
	"github.com/jonathan/resume-forge/internal/server/middleware"
	"github.com/jonathan/resume-forge/internal/server/ratelimit"
	"github.com/jonathan/resume-forge/internal/types"
)

// Store is the persistence surface the handlers need. *db.DB implements it.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, username, email, passwordHash string) (*types.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*types.User, error)
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)

	CreateProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*types.Profile, error)
	ListProfileIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	DeleteProfile(ctx context.Context, id uuid.UUID) error
	UpsertPersonalInfo(ctx context.Context, profileID uuid.UUID, fullName, email, phone string) (*types.PersonalInfo, error)
	AddEducation(ctx context.Context, profileID uuid.UUID, e types.Education) (*types.Education, error)
	AddSkill(ctx context.Context, profileID uuid.UUID, name, category string) (*types.Skill, error)
	AddExperience(ctx context.Context, profileID uuid.UUID, exp types.Experience) (*types.Experience, error)
	AddProject(ctx context.Context, profileID uuid.UUID, proj types.Project) (*types.Project, error)
	AddCertification(ctx context.Context, profileID uuid.UUID, c types.Certification) (*types.Certification, error)
	AddAchievement(ctx context.Context, profileID uuid.UUID, a types.Achievement) (*types.Achievement, error)
	AddExternalProfile(ctx context.Context, profileID uuid.UUID, platform, url string) (*types.ExternalProfile, error)

	CreateJDAnalysis(ctx context.Context, rawText string, data *types.JDData) (*types.JDRecord, error)
	GetJDAnalysis(ctx context.Context, id uuid.UUID) (*types.JDRecord, error)

	ListResumesByProfile(ctx context.Context, profileID uuid.UUID) ([]types.ResumeSummary, error)
	GetResume(ctx context.Context, id uuid.UUID) (*types.ResumeRecord, error)
	GetResumeSections(ctx context.Context, resumeID uuid.UUID) ([]types.ResumeSection, error)
}

// Generator runs the resume generation pipeline.
type Generator interface {
	Generate(ctx context.Context, profileID uuid.UUID, jdText string, progress pipeline.ProgressFunc) (*pipeline.Result, error)
}

// Server represents the HTTP server.
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	store       Store
	cfg         *config.Config
	generator   Generator
	analyzer    *parsing.Analyzer
	validate    *validator.Validate
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
}

// New creates a server instance: connects to the database, applies
// migrations, and builds the generation pipeline from configuration.
// A missing API key or unreachable embedding backend is not an error;
// those components run on their deterministic fallbacks.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	var client llm.Client
	if cfg.APIKey != "" {
		llmCfg := llm.DefaultConfig().WithModel(cfg.LLMModel)
		llmCfg.RequestsPerMinute = cfg.LLMRPM
		llmCfg.CallTimeout = cfg.CallTimeout
		client, err = llm.NewClient(ctx, llmCfg, cfg.APIKey)
		if err != nil {
			log.Printf("[server] LLM client unavailable, using fallbacks: %v", err)
			client = nil
		}
	}

	engine, err := embedding.NewEngine(ctx, embedding.Config{
		Backend:           cfg.EmbeddingBackend,
		Model:             cfg.EmbeddingModel,
		Dimensions:        cfg.EmbeddingDim,
		LocalURL:          cfg.EmbeddingURL,
		APIKey:            cfg.APIKey,
		CallTimeout:       cfg.CallTimeout,
		RequestsPerMinute: cfg.LLMRPM,
	})
	if err != nil {
		log.Printf("[server] embedding engine unavailable, scoring degrades: %v", err)
		engine = nil
	}

	s := &Server{
		db:        database,
		store:     database,
		cfg:       cfg,
		generator: pipeline.NewGenerator(database, client, engine, cfg),
		analyzer:  parsing.NewAnalyzer(client),
		validate:  validator.New(),
	}
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(s.store, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		// Tokens still work within this process; they just don't survive
		// a restart.
		log.Printf("[server] %v; using an ephemeral JWT secret", err)
		jwtConfig = &config.JWTConfig{Secret: ephemeralSecret(), ExpirationHours: 24}
	}
	s.jwtService = NewJWTService(jwtConfig)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // generation holds the connection
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// ephemeralSecret returns a random per-process JWT secret.
func ephemeralSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// routes builds the request mux.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /api/jd/analyze", s.handleAnalyzeJD)
	mux.HandleFunc("GET /api/jd/{id}", s.handleGetJD)

	mux.HandleFunc("POST /api/resumes/generate", s.handleGenerate)
	mux.HandleFunc("POST /api/resumes/generate/stream", s.handleGenerateStream)
	mux.HandleFunc("GET /api/resumes", s.handleListResumes)
	mux.HandleFunc("GET /api/resumes/{id}", s.handleGetResume)
	mux.HandleFunc("GET /api/resumes/{id}/download", s.handleDownloadResume)
	mux.HandleFunc("GET /api/resumes/{id}/sections", s.handleGetResumeSections)

	mux.HandleFunc("POST /api/users/login-or-register", s.handleLoginOrRegister)
	mux.Handle("GET /api/users/me",
		middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(http.HandlerFunc(s.handleMe)))
	mux.HandleFunc("GET /api/users/{id}", s.handleGetUser)

	mux.HandleFunc("POST /api/profiles", s.handleCreateProfile)
	mux.HandleFunc("GET /api/profiles/{id}", s.handleGetProfile)
	mux.HandleFunc("DELETE /api/profiles/{id}", s.handleDeleteProfile)
	mux.HandleFunc("PUT /api/profiles/{id}/personal-info", s.handlePutPersonalInfo)
	mux.HandleFunc("POST /api/profiles/{id}/experiences", s.handleAddExperience)
	mux.HandleFunc("POST /api/profiles/{id}/projects", s.handleAddProject)
	mux.HandleFunc("POST /api/profiles/{id}/skills", s.handleAddSkill)
	mux.HandleFunc("POST /api/profiles/{id}/education", s.handleAddEducation)
	mux.HandleFunc("POST /api/profiles/{id}/certifications", s.handleAddCertification)
	mux.HandleFunc("POST /api/profiles/{id}/achievements", s.handleAddAchievement)
	mux.HandleFunc("POST /api/profiles/{id}/external-profiles", s.handleAddExternalProfile)

	return mux
}

// Start begins listening and blocks until SIGINT/SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded", "database": err.Error(),
			})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": status})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier (IP) from the request.
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

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
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

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
