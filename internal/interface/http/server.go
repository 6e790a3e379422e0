// Package http exposes the course platform over a JSON REST API.
// Authentication and authorization are handled upstream by the API
// gateway; handlers trust the caller identity headers it injects.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/eduhub/course-hub/internal/application/command"
	"github.com/eduhub/course-hub/internal/application/query"
	"github.com/eduhub/course-hub/internal/domain/shared"
	"github.com/eduhub/course-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Config contains HTTP server configuration.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration for writing the response.
	WriteTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Deps bundles everything the HTTP layer serves.
type Deps struct {
	Accounts         *command.AccountHandler
	Content          *command.ContentHandler
	Enroll           *command.EnrollHandler
	RecordProgress   *command.RecordProgressHandler
	RecordActivity   *command.RecordActivityHandler
	RegisterView     *command.RegisterViewHandler
	ChangeVisibility *command.ChangeVisibilityHandler

	CourseStatistics  *query.GetCourseStatisticsHandler
	TeacherStatistics *query.GetTeacherStatisticsHandler
	AdminStatistics   *query.GetAdminStatisticsHandler
	UserProgress      *query.GetUserProgressHandler

	// HealthCheck reports storage health for /healthz.
	HealthCheck func(ctx context.Context) error
}

// Server is the HTTP server for the course platform API.
type Server struct {
	config Config
	deps   Deps
	log    *logger.Logger
	server *http.Server
}

// NewServer creates a Server with all routes registered.
func NewServer(cfg Config, deps Deps, log *logger.Logger) *Server {
	s := &Server{config: cfg, deps: deps, log: log}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.withMiddleware(mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// ListenAndServe starts serving. Blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.log.Info("http server listening", logger.F("addr", s.config.Addr))
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)

	// Accounts
	mux.HandleFunc("POST /api/v1/users", s.handleRegister)
	mux.HandleFunc("POST /api/v1/users/me/password", s.handleChangePassword)
	mux.HandleFunc("POST /api/v1/users/me/role-request", s.handleRequestRole)
	mux.HandleFunc("POST /api/v1/users/{id}/role-request/resolve", s.handleResolveRoleRequest)
	mux.HandleFunc("DELETE /api/v1/users/me", s.handleDeleteAccount)
	mux.HandleFunc("POST /api/v1/users/me/wishlist/{courseId}", s.handleToggleWishlist)

	// Content authoring
	mux.HandleFunc("POST /api/v1/courses", s.handleCreateCourse)
	mux.HandleFunc("DELETE /api/v1/courses/{id}", s.handleDeleteCourse)
	mux.HandleFunc("POST /api/v1/courses/{id}/visibility", s.handleChangeVisibility)
	mux.HandleFunc("POST /api/v1/courses/{id}/articles", s.handleAddArticle)
	mux.HandleFunc("PUT /api/v1/courses/{id}/articles/{articleId}", s.handleUpdateArticle)
	mux.HandleFunc("DELETE /api/v1/courses/{id}/articles/{articleId}", s.handleRemoveArticle)
	mux.HandleFunc("POST /api/v1/courses/{id}/articles/{articleId}/sections", s.handleAddSection)
	mux.HandleFunc("PUT /api/v1/courses/{id}/articles/{articleId}/sections/{sectionId}", s.handleUpdateSection)
	mux.HandleFunc("DELETE /api/v1/courses/{id}/articles/{articleId}/sections/{sectionId}", s.handleRemoveSection)

	// Learning
	mux.HandleFunc("POST /api/v1/courses/{id}/enroll", s.handleEnroll)
	mux.HandleFunc("POST /api/v1/courses/{id}/view", s.handleRegisterView)
	mux.HandleFunc("POST /api/v1/progress", s.handleRecordProgress)
	mux.HandleFunc("GET /api/v1/users/me/courses", s.handleListEnrolledCourses)
	mux.HandleFunc("GET /api/v1/users/me/courses/{id}/progress", s.handleGetCourseProgress)

	// Statistics
	mux.HandleFunc("GET /api/v1/courses/{id}/statistics", s.handleCourseStatistics)
	mux.HandleFunc("GET /api/v1/teacher/statistics", s.handleTeacherStatistics)
	mux.HandleFunc("GET /api/v1/admin/statistics", s.handleAdminStatistics)
}

// ══════════════════════════════════════════════════════════════════════════════
// MIDDLEWARE
// ══════════════════════════════════════════════════════════════════════════════

// withMiddleware wraps the router with recovery, request logging, and the
// activity tracker. Every authenticated request counts as user activity.
func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("panic in handler",
					logger.F("path", r.URL.Path),
					logger.F("panic", fmt.Sprint(rec)),
					logger.F("stack", string(debug.Stack())))
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()

		if userID := callerID(r); userID != "" && s.deps.RecordActivity != nil {
			if err := s.deps.RecordActivity.Handle(r.Context(), userID); err != nil {
				// Activity tracking never fails a request.
				s.log.Warn("activity tracking failed",
					logger.F("user_id", userID), logger.Err(err))
			}
		}

		next.ServeHTTP(w, r)

		s.log.Debug("request handled",
			logger.F("method", r.Method),
			logger.F("path", r.URL.Path),
			logger.F("duration_ms", time.Since(start).Milliseconds()))
	})
}

// callerID returns the authenticated user ID injected by the gateway.
func callerID(r *http.Request) string {
	return r.Header.Get("X-User-Id")
}

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeDomainError maps domain errors onto HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case shared.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case shared.IsAlreadyExists(err):
		writeError(w, http.StatusConflict, err.Error())
	case shared.IsForbidden(err):
		writeError(w, http.StatusForbidden, err.Error())
	case shared.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shared.ErrInvalidState), errors.Is(err, shared.ErrStateTransition):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.log.Error("request failed", logger.Err(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(r *http.Request, dest any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}
