package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"log/slog"

	"github.com/Iryna9992004/crm-test-task-1/internal/domain"
	"github.com/Iryna9992004/crm-test-task-1/internal/service/auth"
)

const healthCheckTimeout = 2 * time.Second

// Router wires HTTP endpoints to the auth service.
type Router struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	auth     auth.Service
	dbHealth func(context.Context) error
}

// NewRouter assembles routes with dependencies.
func NewRouter(logger *slog.Logger, authSvc auth.Service, dbHealth func(context.Context) error) *Router {
	r := &Router{
		mux:      http.NewServeMux(),
		logger:   logger,
		auth:     authSvc,
		dbHealth: dbHealth,
	}
	r.register()
	return r
}

// ServeHTTP delegates to underlying mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) register() {
	r.mux.HandleFunc("/healthz", r.handleHealthz)
	r.mux.HandleFunc("/auth/login", r.handleLogin)
	r.mux.HandleFunc("/auth/register", r.handleRegister)
}

func (r *Router) handleHealthz(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	if r.dbHealth != nil {
		ctx, cancel := context.WithTimeout(req.Context(), healthCheckTimeout)
		defer cancel()
		if err := r.dbHealth(ctx); err != nil {
			r.logger.Error("health check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "storage_failure", "store unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	user, err := r.auth.Login(req.Context(), payload.Email, payload.Password)
	if err != nil {
		r.writeAuthError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": userPayload(user)})
}

func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		GitHubKey string `json:"githubKey"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	user, err := r.auth.Register(req.Context(), domain.Credentials{
		Username:  payload.Username,
		Email:     payload.Email,
		Password:  payload.Password,
		GitHubKey: payload.GitHubKey,
	})
	if err != nil {
		r.writeAuthError(w, req, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"user": userPayload(user)})
}

// writeAuthError maps the service failure taxonomy onto HTTP statuses.
func (r *Router) writeAuthError(w http.ResponseWriter, req *http.Request, err error) {
	var verr *auth.ValidationError
	if errors.As(err, &verr) {
		writeFieldErrors(w, http.StatusBadRequest, "validation_failed", verr.Error(), verr.Fields())
		return
	}
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	}
	var serr *auth.StorageError
	if errors.As(err, &serr) {
		r.logger.Error("storage failure", "error", err, "path", req.URL.Path)
		writeError(w, http.StatusServiceUnavailable, "storage_failure", "service temporarily unavailable")
		return
	}
	r.logger.Error("unexpected error", "error", err, "path", req.URL.Path)
	writeError(w, http.StatusInternalServerError, "internal_error", "")
}

func (r *Router) methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
}

// userPayload shapes the outward user; the stored password is never echoed.
func userPayload(user *domain.User) map[string]any {
	return map[string]any{
		"id":        user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"githubKey": user.GitHubKey,
	}
}
