package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/crm_dashboard/internal/session"
	"github.com/Skotchmaster/crm_dashboard/internal/tokens"
)

type fixedSession session.State

func (f fixedSession) State() session.State { return session.State(f) }

type fakeVerifier struct {
	valid string
}

func (f fakeVerifier) VerifyAccessToken(ctx context.Context, token string) (*tokens.AccessClaims, error) {
	if token != f.valid {
		return nil, errors.New("bad token")
	}
	claims := &tokens.AccessClaims{}
	claims.Subject = "u-1"
	return claims, nil
}

func run(t *testing.T, g *Guard, req *http.Request) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	c := e.NewContext(req, httptest.NewRecorder())
	err := g.RequireSession(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	return c, err
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he))
	return he.Code
}

func TestGuard_GuestAlwaysPasses(t *testing.T) {
	st := session.InitialState(session.VariantGuest)
	c, err := run(t, &Guard{Session: fixedSession(st)}, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))
	require.NoError(t, err)
	assert.Equal(t, session.GuestID, c.Get("userID"))
}

func TestGuard_RejectsSignedOut(t *testing.T) {
	_, err := run(t, &Guard{Session: fixedSession(session.State{})}, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestGuard_VerifiesToken(t *testing.T) {
	g := &Guard{
		Session:  fixedSession(session.State{IsAuthenticated: true}),
		Verifier: fakeVerifier{valid: "good"},
	}

	_, err := run(t, g, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: "forged"})
	_, err = run(t, g, req)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: "good"})
	c, err := run(t, g, req)
	require.NoError(t, err)
	assert.Equal(t, "u-1", c.Get("userID"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good")
	_, err = run(t, g, req)
	require.NoError(t, err)
}

func TestSessionCookies(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	ck := SessionCookie("tok", exp)
	assert.Equal(t, AccessCookie, ck.Name)
	assert.Equal(t, "tok", ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, exp, ck.Expires)

	ck = ClearSessionCookie()
	assert.Equal(t, AccessCookie, ck.Name)
	assert.Equal(t, -1, ck.MaxAge)
	assert.Empty(t, ck.Value)
}
