package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/todoiti/todoiti/internal/handler"    // import the handlers that implement business logic
	"github.com/todoiti/todoiti/internal/middleware" // import middleware for JWT authentication
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// This endpoint can be used by load balancers or monitoring systems to
	// verify that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while the protected logout and whoami endpoints require a valid access
// token.  The rate limiter guards the whole auth group: these are the only
// routes an attacker can hammer without holding credentials.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtAccessSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limiter)
	// Register a POST endpoint to handle user registration at /v1/auth/register.
	g.POST("/register", a.Register)
	// Register a POST endpoint to handle user login at /v1/auth/login.
	g.POST("/login", a.Login)
	// Refresh reads the HTTP-only cookie, so it is a GET without a body.
	g.GET("/refresh", a.Refresh)
	// Logout requires a bearer token and revokes every refresh token of the user.
	g.POST("/logout", a.Logout, middleware.JWTAuth(jwtAccessSecret))

	// Identity endpoint for clients to resolve who the bearer token belongs to.
	users := e.Group("/v1/users", limiter, middleware.JWTAuth(jwtAccessSecret))
	users.GET("/whoami", a.Whoami)
}
