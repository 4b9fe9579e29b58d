package middleware // middleware provides reusable HTTP middleware functions

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/todoiti/todoiti/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's user id into the request context.  The provided
// secret must match the one used when issuing access tokens.  Protected
// routes wrap this middleware so handlers can resolve the caller via
// CurrentUserID.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            userID, _, err := utils.ParseToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            c.Set("user_id", userID)
            return next(c)
        }
    }
}

// CurrentUserID extracts the authenticated user id stored by JWTAuth.
// Returns an error when no user is attached, which indicates wrong
// middleware ordering rather than a client mistake.
func CurrentUserID(c echo.Context) (string, error) {
    if s, ok := c.Get("user_id").(string); ok && s != "" {
        return s, nil
    }
    return "", errors.New("no authenticated user in context")
}
