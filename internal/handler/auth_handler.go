package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/moementrabelsi/mma/internal/apperr"
	"github.com/moementrabelsi/mma/internal/middleware"
	"github.com/moementrabelsi/mma/internal/service"
)

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the body of PUT /auth/password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AuthHandler serves the authentication endpoints
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login exchanges admin credentials for a token
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return okMessage(c, http.StatusOK, "Login successful", res)
}

// Me returns the authenticated principal
func (h *AuthHandler) Me(c echo.Context) error {
	claims, found := middleware.GetPrincipal(c)
	if !found {
		return apperr.Unauthorized("Access denied. No token provided.")
	}

	user, err := h.auth.Me(c.Request().Context(), claims)
	if err != nil {
		return err
	}
	return ok(c, user)
}

// ChangePassword replaces the password of the authenticated principal
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	claims, found := middleware.GetPrincipal(c)
	if !found {
		return apperr.Unauthorized("Access denied. No token provided.")
	}

	var req ChangePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.auth.ChangePassword(c.Request().Context(), claims.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return okMessage(c, http.StatusOK, "Password changed successfully", nil)
}
