package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/todoiti/todoiti/internal/config"
	"github.com/todoiti/todoiti/internal/middleware"
	"github.com/todoiti/todoiti/internal/model"
	"github.com/todoiti/todoiti/internal/repository"
	"github.com/todoiti/todoiti/internal/utils"
)

// InviteHandler bundles dependencies for invitation endpoints.
type InviteHandler struct {
	Cfg     config.Config
	Invites *repository.InviteRepo
}

func NewInviteHandler(cfg config.Config, invites *repository.InviteRepo) *InviteHandler {
	return &InviteHandler{Cfg: cfg, Invites: invites}
}

type createInviteReq struct {
	AccessLevel *int       `json:"access_level"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// invitePreview is the public projection of an invite. The inviter and
// accepter ids stay server-side.
type invitePreview struct {
	TaskListID  string    `json:"task_list_id"`
	AccessLevel int       `json:"access_level"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Preview: unauthenticated lookup so an invitee can see what they were
// invited to before logging in. Accepted and expired invites answer 400
// rather than leaking their task list.
func (h *InviteHandler) Preview(c echo.Context) error {
	hash := c.Param("hash")
	if hash == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invite hash required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	inv, err := h.Invites.GetByHash(ctx, hash)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "invite not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if inv.Accepted {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invite has already been accepted"})
	}
	if inv.Expired(time.Now().UTC()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invite has expired"})
	}

	return c.JSON(http.StatusOK, echo.Map{"invite": invitePreview{
		TaskListID:  inv.TaskListID,
		AccessLevel: int(inv.AccessLevel),
		ExpiresAt:   inv.ExpiresAt,
	}})
}

// Create: mint a shareable invite link for a task list. Admin level on
// the list is enforced upstream. The payload may pin an access level
// (default write) and an expiry (default from config).
func (h *InviteHandler) Create(c echo.Context) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	taskListID := c.Param("taskListId")

	var req createInviteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	level := model.AccessWrite
	if req.AccessLevel != nil {
		var ok bool
		level, ok = model.ParseAccessLevel(*req.AccessLevel)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid access level"})
		}
	}
	expiresAt := time.Now().UTC().Add(time.Duration(h.Cfg.InviteTTLHours) * time.Hour)
	if req.ExpiresAt != nil {
		if !req.ExpiresAt.After(time.Now().UTC()) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "expires_at must be in the future"})
		}
		expiresAt = req.ExpiresAt.UTC()
	}

	hash, err := utils.NewInviteHash()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate invite failed"})
	}
	link := h.Cfg.WebAppURL + "/accept-invite/" + hash

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Invites.Create(ctx, hash, taskListID, userID, link, level, expiresAt); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create invite failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"link": link})
}

// Accept: redeem an invite for the authenticated caller. The grant insert
// and the accepted flag flip commit atomically; a second redemption of
// the same hash fails with 400 and never double-grants access. A caller
// who already collaborates on the list also gets 400, keeps their current
// level and leaves the invite redeemable by others.
func (h *InviteHandler) Accept(c echo.Context) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hash := c.Param("hash")
	if hash == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invite hash required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	taskListID, err := h.Invites.Accept(ctx, hash, userID)
	if err != nil {
		switch err {
		case repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "invite not found"})
		case repository.ErrInviteAccepted:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invite has already been accepted"})
		case repository.ErrInviteExpired:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invite has expired"})
		case repository.ErrAlreadyCollaborator:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "already a collaborator on this task list"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "accept invite failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"taskListId": taskListID})
}
