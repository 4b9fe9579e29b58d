package handler

import (
    "context"  // provides context with cancellation for DB calls
    "net/http" // HTTP status codes and primitives
    "strings"  // string manipulation utilities
    "time"     // timeouts for DB calls and cookie expiry

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/todoiti/todoiti/internal/config"     // app configuration
    "github.com/todoiti/todoiti/internal/middleware" // current-user extraction
    "github.com/todoiti/todoiti/internal/repository" // DB repositories
    "github.com/todoiti/todoiti/internal/utils"      // helper functions (hashing, token issuing)
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginUserPart struct {
	ID string `json:"id"`
}

// validateCredentials returns the first validation issue, or "".
func validateCredentials(req credentialsReq) string {
	if req.Email == "" {
		return "email required"
	}
	if !strings.Contains(req.Email, "@") {
		return "invalid email"
	}
	if len(req.Password) < 8 {
		return "password must be at least 8 characters"
	}
	return ""
}

// Register: create user, return its id.
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if msg := validateCredentials(req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Users.Create(ctx, req.Email, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already taken"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Login: verify credentials, return an access token and set the refresh
// cookie. Unknown email and wrong password answer with the same generic
// 401 so the endpoint cannot be used to enumerate registered emails.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if msg := validateCredentials(req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTAccessSecret, u.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	tokenID, err := h.Tokens.Create(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.JWTRefreshSecret, u.ID, tokenID, h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}

	// Refresh token travels only in an HTTP-only cookie, never in the body.
	c.SetCookie(&http.Cookie{
		Name:     h.Cfg.RefreshCookieName,
		Value:    refresh.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  refresh.Exp,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message":     "login successful",
		"user":        loginUserPart{ID: u.ID},
		"accessToken": access.Token,
	})
}

// Refresh: validate the refresh cookie against its auth_tokens row and
// mint a fresh access token. The refresh token itself is not rotated; it
// stays valid until logout or TTL expiry.
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(h.Cfg.RefreshCookieName)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing refresh auth token"})
	}

	userID, jti, err := utils.ParseToken(h.Cfg.JWTRefreshSecret, cookie.Value)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired refresh token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tok, err := h.Tokens.Get(ctx, jti)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired refresh token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !tok.Valid || tok.UserID != userID {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired refresh token"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTAccessSecret, tok.UserID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "refresh successful", "accessToken": access.Token})
}

// Logout: revoke all refresh tokens for the current user and clear the
// cookie. Already-issued access tokens self-expire by TTL; there is no
// server-side access-token blacklist.
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tokens.RevokeAllForUser(ctx, userID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}

	c.SetCookie(&http.Cookie{
		Name:     h.Cfg.RefreshCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "logout successful"})
}

// Whoami: resolve and return the authenticated user's identity.
func (h *AuthHandler) Whoami(c echo.Context) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetAuthUser(ctx, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, u)
}
