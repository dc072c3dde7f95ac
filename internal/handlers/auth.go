package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/crm_dashboard/internal/logging"
	authmw "github.com/Skotchmaster/crm_dashboard/internal/middleware/auth"
	"github.com/Skotchmaster/crm_dashboard/internal/notify"
	"github.com/Skotchmaster/crm_dashboard/internal/session"
)

type AuthHandler struct {
	Session *session.Store
	Notices *notify.Queue
}

type signupRequest struct {
	session.SignupCredentials
	ConfirmPassword string `json:"confirmPassword"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req session.Credentials
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return badRequest()
	}

	res := h.Session.Login(ctx, req)
	if !res.IsOk() {
		code := authStatus(res.Message())
		h.Notices.Error("Authentication Error", res.Message())
		h.Session.ClearError()
		l.Warn("login_error", "status", code, "reason", res.Message())
		return echo.NewHTTPError(code, res.Message())
	}

	st, _ := res.Data()
	setSessionCookie(c, st)
	h.Notices.Success("Welcome back!")
	l.Info("login_success")
	return c.JSON(http.StatusOK, st)
}

func (h *AuthHandler) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	var req signupRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_error", "status", 400, "reason", "invalid body", "error", err)
		return badRequest()
	}
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
		h.Notices.Error("Validation Error", "Passwords do not match")
		l.Warn("signup_error", "status", 400, "reason", "passwords do not match")
		return echo.NewHTTPError(http.StatusBadRequest, "Passwords do not match")
	}

	res := h.Session.Signup(ctx, req.SignupCredentials)
	if !res.IsOk() {
		code := authStatus(res.Message())
		h.Notices.Error("Authentication Error", res.Message())
		h.Session.ClearError()
		l.Warn("signup_error", "status", code, "reason", res.Message())
		return echo.NewHTTPError(code, res.Message())
	}

	st, _ := res.Data()
	setSessionCookie(c, st)
	h.Notices.Success("Account created successfully! Please check your email to verify your account.")
	l.Info("signup_success", "authenticated", st.IsAuthenticated)
	return c.JSON(http.StatusCreated, st)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	res := h.Session.Logout(ctx)
	if !res.IsOk() {
		l.Error("logout_error", "status", 502, "reason", res.Message())
		return echo.NewHTTPError(http.StatusBadGateway, res.Message())
	}

	c.SetCookie(authmw.ClearSessionCookie())
	st, _ := res.Data()
	l.Info("logout_success")
	return c.JSON(http.StatusOK, st)
}

func (h *AuthHandler) GetSession(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Session.State())
}

func (h *AuthHandler) Init(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.init")

	res := h.Session.Initialize(ctx)
	if !res.IsOk() {
		l.Error("init_error", "status", 502, "reason", res.Message())
		return echo.NewHTTPError(http.StatusBadGateway, res.Message())
	}

	st, _ := res.Data()
	setSessionCookie(c, st)
	return c.JSON(http.StatusOK, st)
}

func authStatus(msg string) int {
	switch msg {
	case session.ErrorMessage(session.ErrValidation):
		return http.StatusBadRequest
	case session.ErrorMessage(session.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case session.ErrorMessage(session.ErrUserAlreadyExist):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

func setSessionCookie(c echo.Context, st session.State) {
	if st.Session == nil || st.Session.AccessToken == "" {
		return
	}
	exp := time.Now().Add(15 * time.Minute)
	if st.Session.ExpiresAt > 0 {
		exp = time.Unix(st.Session.ExpiresAt, 0)
	}
	c.SetCookie(authmw.SessionCookie(st.Session.AccessToken, exp))
}
