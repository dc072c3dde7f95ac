package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/crm_dashboard/internal/notify"
)

type NotificationHandler struct {
	Notices *notify.Queue
}

// Drain hands every pending notice to the caller exactly once.
func (h *NotificationHandler) Drain(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Notices.Drain())
}
