package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bibliotek/library-system/internal/api/middleware"
	"github.com/bibliotek/library-system/internal/core/domain"
	"github.com/bibliotek/library-system/internal/core/ports"
	"github.com/bibliotek/library-system/internal/infrastructure/config"
)

// SessionManager issues and revokes server-side sessions. Satisfied by
// redis.SessionStore; only wired when AUTH_MODE=session.
type SessionManager interface {
	Create(ctx context.Context, identity domain.Identity) (string, error)
	Delete(ctx context.Context, id string) error
}

type AuthHandler struct {
	auth       ports.AuthService
	sessions   SessionManager
	authMode   string
	sessionTTL time.Duration
}

func NewAuthHandler(auth ports.AuthService, sessions SessionManager, authMode string, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, authMode: authMode, sessionTTL: sessionTTL}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=6,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72,password"`
}

type loginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register creates a new member account. The role is always "user"; admins
// are provisioned through the seed command.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.auth.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Login verifies credentials and hands out either a bearer token or a
// session cookie depending on the configured auth mode.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	user, err := h.auth.Login(ctx, req.Login, req.Password)
	if err != nil {
		return err
	}

	if h.authMode == config.AuthModeSession {
		id, err := h.sessions.Create(ctx, domain.Identity{UserID: user.ID, Role: user.Role})
		if err != nil {
			return err
		}
		c.SetCookie(h.sessionCookie(id, h.sessionTTL))
		return c.JSON(http.StatusOK, echo.Map{"user": user})
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": user})
}

// Logout revokes the caller's session. In token mode there is no server-side
// state to revoke; the client simply discards the token.
func (h *AuthHandler) Logout(c echo.Context) error {
	if h.authMode == config.AuthModeSession {
		if cookie, err := c.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
			if err := h.sessions.Delete(c.Request().Context(), cookie.Value); err != nil {
				return err
			}
		}
		c.SetCookie(h.sessionCookie("", -time.Hour))
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHandler) sessionCookie(value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
