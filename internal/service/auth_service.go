package service

import (
	"errors"
	"net/http"

	"github.com/dutchlock/dutchlock/internal/auth"
	"github.com/dutchlock/dutchlock/internal/models"
	"github.com/dutchlock/dutchlock/pkg/api"
)

// AuthService handles account registration and login for agents that talk
// to the coordinator.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{authenticator: authenticator, jwtManager: jwtManager}
}

// Register mounts the auth routes on mux.
func (s *AuthService) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/auth/register", s.RegisterUser)
	mux.HandleFunc("POST /v1/auth/login", s.Login)
}

// RegisterUser creates an account and returns a token for immediate use.
func (s *AuthService) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	user, err := s.authenticator.Register(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	s.respondWithToken(w, http.StatusCreated, user)
}

// Login authenticates an existing account.
func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	user, err := s.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	s.respondWithToken(w, http.StatusOK, user)
}

func (s *AuthService) respondWithToken(w http.ResponseWriter, status int, user *models.User) {
	token, err := s.jwtManager.Generate(user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, &api.AuthResponse{
		User: api.User{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			CreatedAt:   user.CreatedAt,
		},
		Token: token,
	})
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, &api.Error{Code: api.CodeUnauthenticated, Message: err.Error()})
	case errors.Is(err, auth.ErrWeakPassword):
		badRequest(w, err)
	case errors.Is(err, auth.ErrEmailExists):
		writeJSON(w, http.StatusConflict, &api.Error{Code: api.CodeConflict, Message: err.Error()})
	default:
		writeError(w, err)
	}
}
