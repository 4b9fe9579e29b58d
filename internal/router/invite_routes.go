package router

import (
	"github.com/labstack/echo/v4"

	"github.com/todoiti/todoiti/internal/handler"
	"github.com/todoiti/todoiti/internal/middleware"
	"github.com/todoiti/todoiti/internal/model"
	"github.com/todoiti/todoiti/internal/repository"
)

// RegisterInvites registers the collaboration invite routes.  Previewing
// an invite is public so the web app can show the invite before asking
// the visitor to sign in; the optional cache middleware shields the
// database from repeated previews of the same link.
func RegisterInvites(e *echo.Echo, h *handler.InviteHandler, access *repository.AccessRepo, jwtAccessSecret string, cache echo.MiddlewareFunc) {
	g := e.Group("/v1/invites")

	if cache != nil {
		g.GET("/:hash", h.Preview, cache)
	} else {
		g.GET("/:hash", h.Preview)
	}

	auth := middleware.JWTAuth(jwtAccessSecret)
	// Only admins of a list may mint invite links for it.
	g.POST("/:taskListId", h.Create, auth, middleware.RequireListAccess(access, model.AccessAdmin))
	// Accepting only needs a signed-in user; the grant is created from the invite itself.
	g.POST("/accept/:hash", h.Accept, auth)
}

// RegisterRealtime registers the WebSocket endpoint for live task list
// updates.  Authentication happens inside the handler because browsers
// cannot set headers on a WebSocket upgrade request.
func RegisterRealtime(e *echo.Echo, h *handler.WSHandler) {
	e.GET("/v1/ws/:taskListId", h.Subscribe)
}
