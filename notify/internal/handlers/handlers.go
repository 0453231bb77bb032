package handlers

import (
	"net/http"
	"strconv"

	"github.com/hangoctan1012/FaceCookTan/notify/internal/repositories"

	"github.com/labstack/echo/v4"
)

// NotificationHandler serves the minimal read surface of the notify
// service.
type NotificationHandler struct {
	repo *repositories.NotificationRepository
}

func NewNotificationHandler(repo *repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{repo: repo}
}

// ListNotifications returns the newest notifications of a user.
func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	userID := c.QueryParam("userID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing userID")
	}

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	notifications, err := h.repo.ListByUser(c.Request().Context(), userID, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list notifications")
	}

	return c.JSON(http.StatusOK, notifications)
}

// MarkRead flags one notification as read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id := c.Param("id")
	if err := h.repo.MarkRead(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark notification read")
	}
	return c.NoContent(http.StatusNoContent)
}

// UnreadCount returns the number of unread notifications of a user.
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	userID := c.QueryParam("userID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing userID")
	}

	count, err := h.repo.CountUnread(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count notifications")
	}

	return c.JSON(http.StatusOK, map[string]int{"unread": count})
}
