package middleware

// access.go enforces task-list access levels on routes carrying a
// :taskListId parameter. The check runs after JWTAuth and before the
// handler, so handlers only ever see requests the caller is entitled to
// make. Responses deliberately leak nothing: a missing grant answers 404
// exactly like a list that does not exist, so unauthorized users cannot
// probe which ids are real.

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/todoiti/todoiti/internal/model"
    "github.com/todoiti/todoiti/internal/repository"
)

// GrantSource resolves the caller's grant on a task list. Satisfied by
// *repository.AccessRepo.
type GrantSource interface {
    Get(ctx context.Context, userID, taskListID string) (model.AccessGrant, error)
}

// RequireListAccess returns a middleware that resolves the caller's grant
// on the :taskListId route parameter and rejects the request unless the
// grant is effective and at least the required level.
func RequireListAccess(access GrantSource, required model.AccessLevel) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            userID, err := CurrentUserID(c)
            if err != nil {
                // wrong middleware order, not a client error
                c.Logger().Error("RequireListAccess: no user in context")
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
            }
            taskListID := c.Param("taskListId")
            if taskListID == "" {
                return c.JSON(http.StatusBadRequest, echo.Map{"error": "task list id required"})
            }

            grant, err := access.Get(c.Request().Context(), userID, taskListID)
            if err == repository.ErrNotFound {
                return c.JSON(http.StatusNotFound, echo.Map{"error": "task list not found"})
            }
            if err != nil {
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong"})
            }
            if grant.Level == model.AccessSuspended || grant.Expired(time.Now().UTC()) {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "your access to the task list has been suspended"})
            }
            if !grant.Level.Satisfies(required) {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "no sufficient access to task list"})
            }

            c.Set("access_level", grant.Level)
            return next(c)
        }
    }
}
