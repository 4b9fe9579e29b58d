package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/todoiti/todoiti/internal/middleware"
	"github.com/todoiti/todoiti/internal/model"
	"github.com/todoiti/todoiti/internal/realtime"
	"github.com/todoiti/todoiti/internal/repository"
)

// TaskHandler bundles dependencies for task endpoints. Every route
// carries a :taskListId and goes through middleware.RequireListAccess;
// the repository additionally filters each mutation on the (task id,
// list id) pair, so a forged pair affects zero rows and surfaces as 404.
type TaskHandler struct {
	Tasks *repository.TaskRepo
	Hub   *realtime.Hub
}

func NewTaskHandler(tasks *repository.TaskRepo, hub *realtime.Hub) *TaskHandler {
	return &TaskHandler{Tasks: tasks, Hub: hub}
}

type taskPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// List: all tasks of a list (read level enforced upstream).
func (h *TaskHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tasks, err := h.Tasks.ListByList(ctx, c.Param("taskListId"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	resp := make([]taskResp, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, toTaskResp(t))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get: one task, membership-checked in the query itself.
func (h *TaskHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tasks.GetByID(ctx, c.Param("taskId"), c.Param("taskListId"))
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "task not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toTaskResp(t))
}

// Create: add a task to the list (write level enforced upstream) and
// notify subscribers of the list.
func (h *TaskHandler) Create(c echo.Context) error {
	userID, _ := middleware.CurrentUserID(c)
	taskListID := c.Param("taskListId")

	var req taskPayload
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Tasks.Create(ctx, taskListID, userID, req.Name, req.Description)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create task failed"})
	}

	h.Hub.Publish(taskListID, realtime.EventUpdated)
	publishActivity(taskListID, id, userID, "task.created")
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Update: change a task (write level enforced upstream). The repository
// recomputes the list status in the same transaction, so completing the
// last active task promotes the list and reopening a task demotes it.
func (h *TaskHandler) Update(c echo.Context) error {
	userID, _ := middleware.CurrentUserID(c)
	taskListID := c.Param("taskListId")
	taskID := c.Param("taskId")

	var req taskPayload
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	status := model.StatusActive
	if req.Status != "" {
		var ok bool
		status, ok = model.ParseStatus(req.Status)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tasks.Update(ctx, taskID, taskListID, req.Name, req.Description, status); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "task not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update task failed"})
	}

	h.Hub.Publish(taskListID, realtime.EventUpdated)
	publishActivity(taskListID, taskID, userID, "task.updated")
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Delete: remove a task (write level enforced upstream).
func (h *TaskHandler) Delete(c echo.Context) error {
	userID, _ := middleware.CurrentUserID(c)
	taskListID := c.Param("taskListId")
	taskID := c.Param("taskId")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tasks.Delete(ctx, taskID, taskListID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "task not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete task failed"})
	}

	h.Hub.Publish(taskListID, realtime.EventUpdated)
	publishActivity(taskListID, taskID, userID, "task.deleted")
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
