package handlers

import (
	"context"
	"net/http"

	"github.com/wonny/buildbid/backend/internal/contracts"
	"github.com/wonny/buildbid/backend/internal/users"
	"github.com/wonny/buildbid/backend/pkg/logger"
)

// AuthService is the account logic behind /api/auth
type AuthService interface {
	Signup(ctx context.Context, in users.SignupInput) (*contracts.Session, error)
	Login(ctx context.Context, email, password string) (*contracts.Session, error)
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
}

// AuthHandler handles signup, login and password changes
type AuthHandler struct {
	auth   AuthService
	logger *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: log}
}

// Signup creates an account and its company or contractor profile
// POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req users.SignupInput
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.auth.Signup(r.Context(), req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create account")
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, h.logger, err, "Login failed")
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// ChangePasswordRequest is the body of POST /api/auth/change-password
type ChangePasswordRequest struct {
	UserID      int64  `json:"userId" validate:"required,gt=0"`
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

// ChangePassword replaces a user's password after checking the old one
// POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.auth.ChangePassword(r.Context(), req.UserID, req.OldPassword, req.NewPassword); err != nil {
		respondServiceError(w, h.logger, err, "Failed to change password")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
