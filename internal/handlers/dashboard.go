package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/crm_dashboard/internal/analytics"
	"github.com/Skotchmaster/crm_dashboard/internal/catalog"
	"github.com/Skotchmaster/crm_dashboard/internal/logging"
	"github.com/Skotchmaster/crm_dashboard/internal/notify"
	"github.com/Skotchmaster/crm_dashboard/internal/session"
)

// DashboardHandler serves the chart screens. Each request refetches the
// catalog page with the screen's own limit.
type DashboardHandler struct {
	Catalog *catalog.Catalog
	Session *session.Store
	Notices *notify.Queue
}

func (h *DashboardHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard")

	res := h.Catalog.Fetch(ctx, 0, analytics.DashboardLimit)
	if !res.IsOk() {
		h.Notices.Error("Error", "Failed to fetch products")
		l.Error("dashboard_error", "status", 502, "reason", res.Message())
		return echo.NewHTTPError(http.StatusBadGateway, res.Message())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"user":  h.Session.State().User,
		"stats": analytics.BuildDashboard(h.Catalog.State().Products),
	})
}

func (h *DashboardHandler) Analytics(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "analytics")

	res := h.Catalog.Fetch(ctx, 0, analytics.AnalyticsLimit)
	if !res.IsOk() {
		h.Notices.Error("Error", "Failed to fetch products")
		l.Error("analytics_error", "status", 502, "reason", res.Message())
		return echo.NewHTTPError(http.StatusBadGateway, res.Message())
	}

	return c.JSON(http.StatusOK, analytics.BuildAnalytics(h.Catalog.State().Products))
}
