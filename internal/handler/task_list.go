package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/todoiti/todoiti/internal/middleware"
	"github.com/todoiti/todoiti/internal/model"
	"github.com/todoiti/todoiti/internal/queue"
	"github.com/todoiti/todoiti/internal/realtime"
	"github.com/todoiti/todoiti/internal/repository"
	queue_publisher "github.com/todoiti/todoiti/internal/service"
)

// TaskListHandler bundles dependencies for task-list endpoints. Access
// enforcement happens in middleware.RequireListAccess before any of these
// handlers run; by the time a handler executes the caller is known to
// hold the required level.
type TaskListHandler struct {
	Lists  *repository.TaskListRepo
	Tasks  *repository.TaskRepo
	Access *repository.AccessRepo
	Hub    *realtime.Hub
}

func NewTaskListHandler(lists *repository.TaskListRepo, tasks *repository.TaskRepo, access *repository.AccessRepo, hub *realtime.Hub) *TaskListHandler {
	return &TaskListHandler{Lists: lists, Tasks: tasks, Access: access, Hub: hub}
}

// ----- DTOs -----

type taskListPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type taskResp struct {
	ID          string    `json:"id"`
	TaskListID  string    `json:"task_list_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type taskListResp struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Tasks       []taskResp `json:"tasks,omitempty"`
}

func toTaskResp(t model.Task) taskResp {
	return taskResp{
		ID:          t.ID,
		TaskListID:  t.TaskListID,
		Name:        t.Name,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTaskListResp(l model.TaskList, tasks []model.Task) taskListResp {
	resp := taskListResp{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Status:      string(l.Status),
		CreatedBy:   l.CreatedBy,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResp(t))
	}
	return resp
}

// publishActivity pushes a best-effort event to the activity queue. The
// publish runs in its own goroutine so a slow or unreachable broker never
// adds latency to the request, let alone fails it.
func publishActivity(taskListID, taskID, actorID, action string) {
	ev := queue.TaskActivityEvent{
		TaskListID: taskListID,
		TaskID:     taskID,
		ActorID:    actorID,
		Action:     action,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = queue_publisher.PublishTaskActivity(ctx, ev)
	}()
}

// List: return every task list the caller can access. ?onlyPersonal=true
// limits the result to lists the caller created; ?withTasks=true embeds
// each list's tasks.
func (h *TaskListHandler) List(c echo.Context) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	onlyPersonal := strings.EqualFold(c.QueryParam("onlyPersonal"), "true")
	withTasks := strings.EqualFold(c.QueryParam("withTasks"), "true")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	accessible, err := h.Access.ListAccessible(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	lists, err := h.Lists.List(ctx, accessible, userID, onlyPersonal)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	var tasksByList map[string][]model.Task
	if withTasks && len(lists) > 0 {
		ids := make([]string, len(lists))
		for i, l := range lists {
			ids[i] = l.ID
		}
		tasksByList, err = h.Tasks.MapByLists(ctx, ids)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
	}

	resp := make([]taskListResp, 0, len(lists))
	for _, l := range lists {
		resp = append(resp, toTaskListResp(l, tasksByList[l.ID]))
	}
	return c.JSON(http.StatusOK, resp)
}

// Create: any authenticated user may create a list; the creator becomes
// its admin in the same transaction.
func (h *TaskListHandler) Create(c echo.Context) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req taskListPayload
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Lists.Create(ctx, userID, req.Name, req.Description)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create task list failed"})
	}

	publishActivity(id, "", userID, "list.created")
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Get: fetch one task list (read level enforced upstream).
func (h *TaskListHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, err := h.Lists.GetByID(ctx, c.Param("taskListId"))
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "task list not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toTaskListResp(l, nil))
}

// Update: change name/description/status (write level enforced upstream).
func (h *TaskListHandler) Update(c echo.Context) error {
	userID, _ := middleware.CurrentUserID(c)
	taskListID := c.Param("taskListId")

	var req taskListPayload
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

	if err := h.Lists.Update(ctx, taskListID, req.Name, req.Description, status); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "task list not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update task list failed"})
	}

	h.Hub.Publish(taskListID, realtime.EventUpdated)
	publishActivity(taskListID, "", userID, "list.updated")
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// SetStatus: set the list status and cascade it to every child task in
// one transaction ("mark whole list done/active" from the UI).
func (h *TaskListHandler) SetStatus(c echo.Context) error {
	userID, _ := middleware.CurrentUserID(c)
	taskListID := c.Param("taskListId")

	status, ok := model.ParseStatus(c.Param("status"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	// cascade defaults to true; ?cascade=false updates only the list row
	cascade := !strings.EqualFold(c.QueryParam("cascade"), "false")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Lists.SetStatus(ctx, taskListID, status, cascade); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "task list not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update task list failed"})
	}

	h.Hub.Publish(taskListID, realtime.EventUpdated)
	publishActivity(taskListID, "", userID, "list.status."+string(status))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Delete: remove the list and its tasks (admin level enforced upstream).
func (h *TaskListHandler) Delete(c echo.Context) error {
	userID, _ := middleware.CurrentUserID(c)
	taskListID := c.Param("taskListId")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Lists.Delete(ctx, taskListID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "task list not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete task list failed"})
	}

	h.Hub.Publish(taskListID, realtime.EventDeleted)
	publishActivity(taskListID, "", userID, "list.deleted")
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
