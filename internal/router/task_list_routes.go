package router

import (
	"github.com/labstack/echo/v4"

	"github.com/todoiti/todoiti/internal/handler"
	"github.com/todoiti/todoiti/internal/middleware"
	"github.com/todoiti/todoiti/internal/model"
	"github.com/todoiti/todoiti/internal/repository"
)

// RegisterTaskLists registers the task list CRUD routes.  Every route
// requires a valid access token; routes addressing a concrete list
// additionally pass through the access control middleware with the
// minimum level the operation needs.
func RegisterTaskLists(e *echo.Echo, h *handler.TaskListHandler, access *repository.AccessRepo, jwtAccessSecret string) {
	g := e.Group("/v1/task-lists", middleware.JWTAuth(jwtAccessSecret))

	// Collection routes only need authentication: List filters by the
	// caller's own grants and Create makes the caller the admin.
	g.GET("", h.List)
	g.POST("", h.Create)

	// Reading a list needs at least read access.
	g.GET("/:taskListId", h.Get, middleware.RequireListAccess(access, model.AccessRead))
	// Renaming and status changes need write access.
	g.PATCH("/:taskListId", h.Update, middleware.RequireListAccess(access, model.AccessWrite))
	g.POST("/:taskListId/:status", h.SetStatus, middleware.RequireListAccess(access, model.AccessWrite))
	// Deleting a list is reserved for admins.
	g.DELETE("/:taskListId", h.Delete, middleware.RequireListAccess(access, model.AccessAdmin))
}

// RegisterTasks registers the task routes nested under a task list.  The
// access middleware resolves the :taskListId parameter, so a caller can
// never reach a task through a list they have no grant on.
func RegisterTasks(e *echo.Echo, h *handler.TaskHandler, access *repository.AccessRepo, jwtAccessSecret string) {
	g := e.Group("/v1/tasks/:taskListId", middleware.JWTAuth(jwtAccessSecret))

	read := middleware.RequireListAccess(access, model.AccessRead)
	write := middleware.RequireListAccess(access, model.AccessWrite)

	g.GET("", h.List, read)
	g.GET("/:taskId", h.Get, read)
	g.POST("", h.Create, write)
	g.PATCH("/:taskId", h.Update, write)
	g.DELETE("/:taskId", h.Delete, write)
}
