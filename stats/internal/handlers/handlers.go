package handlers

import (
	"net/http"
	"strconv"
	"time"

	models "github.com/hangoctan1012/FaceCookTan/stats/internal/models"
	"github.com/hangoctan1012/FaceCookTan/stats/internal/repositories"
	services "github.com/hangoctan1012/FaceCookTan/stats/internal/service"

	"github.com/labstack/echo/v4"
)

// AdminHandler serves the moderation write path and the dashboard reads.
type AdminHandler struct {
	moderation *services.ModerationService
	searches   *repositories.SearchRepository
	reports    *repositories.ReportRepository
}

func NewAdminHandler(
	moderation *services.ModerationService,
	searches *repositories.SearchRepository,
	reports *repositories.ReportRepository,
) *AdminHandler {
	return &AdminHandler{
		moderation: moderation,
		searches:   searches,
		reports:    reports,
	}
}

// ApplyViolation handles POST /admin/violate.
func (h *AdminHandler) ApplyViolation(c echo.Context) error {
	var req struct {
		UserID    string     `json:"userID"`
		Action    string     `json:"action"`
		Type      string     `json:"type"`
		Target    string     `json:"target"`
		Reason    string     `json:"reason"`
		End       *bool      `json:"end"`
		ExpiredAt *time.Time `json:"expiredAt"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	violation := &models.Violation{
		UserID:    req.UserID,
		Action:    req.Action,
		Type:      req.Type,
		Target:    req.Target,
		Reason:    req.Reason,
		End:       true,
		ExpiredAt: req.ExpiredAt,
	}
	if req.End != nil {
		violation.End = *req.End
	}

	if err := h.moderation.ApplyViolation(c.Request().Context(), violation); err != nil {
		if err == services.ErrInvalidViolation {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to apply violation")
	}

	return c.JSON(http.StatusCreated, violation)
}

// TopSearches handles GET /admin/top-searches.
func (h *AdminHandler) TopSearches(c echo.Context) error {
	limit := 10
	if v := c.QueryParam("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	tops, err := h.searches.TopSearches(c.Request().Context(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list top searches")
	}
	return c.JSON(http.StatusOK, tops)
}

// ListReports handles GET /admin/reports.
func (h *AdminHandler) ListReports(c echo.Context) error {
	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	reports, err := h.reports.ListByType(c.Request().Context(), c.QueryParam("type"), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list reports")
	}
	return c.JSON(http.StatusOK, reports)
}
