// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/isbguide/isbguide-go/internal/api"
	"github.com/isbguide/isbguide-go/internal/middleware"
	"github.com/isbguide/isbguide-go/internal/render"
	"github.com/isbguide/isbguide-go/internal/session"
)

// minPasswordLen is the minimum accepted password length on registration.
// The backend enforces its own policy; this just catches obvious mistakes
// before a round trip.
const minPasswordLen = 8

// AuthHandler handles authentication routes.
type AuthHandler struct {
	client          *api.Client
	renderer        *render.Renderer
	sessions        *session.Store
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(client *api.Client, renderer *render.Renderer, sessions *session.Store, sm *scs.SessionManager, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		client:          client,
		renderer:        renderer,
		sessions:        sessions,
		sessionManager:  sm,
		loginProtection: lp,
	}
}

// LoginForm renders the login page. Authenticated users are sent home.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.sessions.IsAuthenticated(r.Context()) {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}

	data := templateData(r, h.sessions, "Log In", nil)
	if err := h.renderer.Render(w, r, "auth/login", data); err != nil {
		logAndInternalError(w, "failed to render login page", "error", err)
	}
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteLogin) {
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if email == "" || password == "" {
		flashError(w, r, h.renderer, RouteLogin, "Email and password are required")
		return
	}

	if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
		slog.Warn("login attempt on locked account", "email", email, "category", "auth")
		flashError(w, r, h.renderer, RouteLogin,
			fmt.Sprintf("Account temporarily locked. Try again in %s.", remaining.Round(time.Second)))
		return
	}

	result, err := h.client.Login(r.Context(), email, password)
	if err != nil {
		locked, lockDuration := h.loginProtection.RecordFailedAttempt(email)
		slog.Warn("login failed", "email", email, "error", err, "category", "auth")

		if locked {
			flashError(w, r, h.renderer, RouteLogin,
				fmt.Sprintf("Too many failed attempts. Account locked for %s.", lockDuration.Round(time.Second)))
			return
		}
		flashError(w, r, h.renderer, RouteLogin, backendErrorMessage(err, "Login failed"))
		return
	}

	h.loginProtection.RecordSuccessfulLogin(email)

	// Fresh session token on privilege change
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "failed to renew session token", "error", err)
		return
	}

	if err := h.sessions.Login(r.Context(), result.User, result.Token); err != nil {
		logAndInternalError(w, "failed to persist session", "error", err)
		return
	}

	slog.Info("user logged in", "user_id", result.User.ID, "category", "auth")
	flashSuccess(w, r, h.renderer, RouteRoot, "Welcome back, "+result.User.Name)
}

// RegisterForm renders the registration page. Authenticated users are sent home.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if h.sessions.IsAuthenticated(r.Context()) {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}

	data := templateData(r, h.sessions, "Create Account", nil)
	if err := h.renderer.Render(w, r, "auth/register", data); err != nil {
		logAndInternalError(w, "failed to render register page", "error", err)
	}
}

// Register handles the registration form submission. On success the backend
// issues a session pair immediately, so the new user lands logged in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteRegister) {
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	confirm := r.FormValue("password_confirm")

	if msg := validateRegistration(name, email, password, confirm); msg != "" {
		flashError(w, r, h.renderer, RouteRegister, msg)
		return
	}

	result, err := h.client.Register(r.Context(), name, email, password)
	if err != nil {
		slog.Warn("registration failed", "email", email, "error", err, "category", "auth")
		flashError(w, r, h.renderer, RouteRegister, backendErrorMessage(err, "Registration failed"))
		return
	}

	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "failed to renew session token", "error", err)
		return
	}

	if err := h.sessions.Login(r.Context(), result.User, result.Token); err != nil {
		logAndInternalError(w, "failed to persist session", "error", err)
		return
	}

	slog.Info("user registered", "user_id", result.User.ID, "category", "auth")
	flashSuccess(w, r, h.renderer, RouteRoot, "Welcome to isbGuide, "+result.User.Name)
}

// Logout clears the session. Idempotent: logging out while logged out
// still redirects home without error.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(r.Context())

	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		slog.Error("failed to renew session token on logout", "error", err, "category", "auth")
	}

	flashSuccess(w, r, h.renderer, RouteRoot, "You have been logged out")
}

// validateRegistration returns a user-facing message for the first invalid
// field, or "" when the form is acceptable.
func validateRegistration(name, email, password, confirm string) string {
	if name == "" || email == "" || password == "" {
		return "Name, email, and password are required"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "Invalid email address"
	}
	if len(password) < minPasswordLen {
		return fmt.Sprintf("Password must be at least %d characters", minPasswordLen)
	}
	if password != confirm {
		return "Passwords do not match"
	}
	return ""
}
