package handlers

import (
	"net/http"

	"github.com/amaumene/gomeshelf/internal/controllers"
	"github.com/sirupsen/logrus"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthHandler serves setup, login and session endpoints
type AuthHandler struct {
	auth   *controllers.AuthController
	logger *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *controllers.AuthController, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// Setup creates the admin account
func (h *AuthHandler) Setup(w http.ResponseWriter, r *http.Request) {
	// refuse before parsing so any payload gets the same answer
	done, err := h.auth.HasUsers(r.Context())
	if err != nil {
		writeFailure(w, h.logger, err, "Internal server error")
		return
	}
	if done {
		WriteError(w, http.StatusForbidden, "Setup has already been completed. Users already exist.")
		return
	}

	var req credentials
	if err := decodeBody(w, r, &req); err != nil {
		writeFailure(w, h.logger, err, "Internal server error")
		return
	}

	user, err := h.auth.Setup(r.Context(), req.Email, req.Password)
	if err != nil {
		writeFailure(w, h.logger, err, "Internal server error")
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Admin account created successfully",
		"user":    userResponse{ID: user.ID, Email: user.Email},
	})
}

// SetupCheck reports whether the admin account exists
func (h *AuthHandler) SetupCheck(w http.ResponseWriter, r *http.Request) {
	done, err := h.auth.HasUsers(r.Context())
	if err != nil {
		writeFailure(w, h.logger, err, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"hasUsers": done})
}

// Login verifies credentials and sets the session cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeBody(w, r, &req); err != nil {
		writeFailure(w, h.logger, err, "Internal server error")
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeFailure(w, h.logger, err, "Internal server error")
		return
	}

	h.auth.Sessions().SetCookie(w, token)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user": userResponse{ID: user.ID, Email: user.Email},
	})
}

// Logout clears the session cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Sessions().ClearCookie(w)
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Session reports whether the request carries a valid session. It never fails.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	claims, err := h.auth.Sessions().FromRequest(r)
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]bool{"authenticated": false})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"user":          userResponse{ID: claims.UserID, Email: claims.Email},
	})
}
