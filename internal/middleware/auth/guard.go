package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/crm_dashboard/internal/logging"
	"github.com/Skotchmaster/crm_dashboard/internal/session"
	"github.com/Skotchmaster/crm_dashboard/internal/tokens"
)

type SessionSource interface {
	State() session.State
}

type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*tokens.AccessClaims, error)
}

// Guard lets a request through only while the session store reports an
// authenticated user. With a Verifier set, the presented access token
// must also verify.
type Guard struct {
	Session  SessionSource
	Verifier TokenVerifier
}

func (g *Guard) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "require_session")

		st := g.Session.State()
		if !st.IsAuthenticated {
			l.Warn("auth_error", "status", 401, "reason", "no active session")
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}

		if g.Verifier != nil {
			raw := accessToken(c)
			if raw == "" {
				l.Warn("auth_error", "status", 401, "reason", "missing access token")
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			claims, err := g.Verifier.VerifyAccessToken(ctx, raw)
			if err != nil {
				l.Warn("auth_error", "status", 401, "reason", "invalid access token", "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}
			c.Set("userID", claims.Subject)
			return next(c)
		}

		if st.User != nil {
			c.Set("userID", st.User.ID)
		}
		return next(c)
	}
}

func accessToken(c echo.Context) string {
	if ck, err := c.Cookie(AccessCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
