package handlers

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/crm_dashboard/internal/logging"
	"github.com/Skotchmaster/crm_dashboard/internal/notify"
	"github.com/Skotchmaster/crm_dashboard/internal/session"
)

type Profile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
}

type NotificationPrefs struct {
	Email     bool `json:"email"`
	Push      bool `json:"push"`
	Marketing bool `json:"marketing"`
}

// SettingsHandler serves the settings screen. The profile form is only
// acknowledged and never written back to the auth provider.
type SettingsHandler struct {
	Session *session.Store
	Notices *notify.Queue

	mu    sync.Mutex
	prefs NotificationPrefs
}

func NewSettingsHandler(s *session.Store, n *notify.Queue) *SettingsHandler {
	return &SettingsHandler{
		Session: s,
		Notices: n,
		prefs:   NotificationPrefs{Email: true, Push: true},
	}
}

func (h *SettingsHandler) GetSettings(c echo.Context) error {
	var p Profile
	if u := h.Session.State().User; u != nil {
		p = Profile{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Phone: u.Phone}
	}

	h.mu.Lock()
	prefs := h.prefs
	h.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]any{"profile": p, "notifications": prefs})
}

func (h *SettingsHandler) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "settings.update_profile")

	var req Profile
	if err := c.Bind(&req); err != nil {
		l.Warn("update_profile_error", "status", 400, "reason", "invalid body", "error", err)
		return badRequest()
	}
	if err := validate.Struct(req); err != nil {
		l.Warn("update_profile_error", "status", 400, "reason", "validation failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid email")
	}

	h.Notices.Push(notify.LevelSuccess, "Profile Updated", "Your profile has been updated successfully.")
	return c.JSON(http.StatusOK, req)
}

func (h *SettingsHandler) UpdateNotifications(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "settings.update_notifications")

	var req NotificationPrefs
	if err := c.Bind(&req); err != nil {
		l.Warn("update_notifications_error", "status", 400, "reason", "invalid body", "error", err)
		return badRequest()
	}

	h.mu.Lock()
	h.prefs = req
	h.mu.Unlock()

	h.Notices.Push(notify.LevelSuccess, "Notification Settings Updated", "Your notification preferences have been saved.")
	return c.JSON(http.StatusOK, req)
}
