package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/crm_dashboard/internal/catalog"
	"github.com/Skotchmaster/crm_dashboard/internal/customers"
	"github.com/Skotchmaster/crm_dashboard/internal/handlers"
	authmw "github.com/Skotchmaster/crm_dashboard/internal/middleware/auth"
	metricsmw "github.com/Skotchmaster/crm_dashboard/internal/middleware/metrics"
	"github.com/Skotchmaster/crm_dashboard/internal/notify"
	"github.com/Skotchmaster/crm_dashboard/internal/session"
)

type emptyAPI struct{}

func (emptyAPI) ListProducts(ctx context.Context, skip, limit int) (*catalog.Page, error) {
	return &catalog.Page{Products: []catalog.Product{}, Skip: skip, Limit: limit}, nil
}

func (emptyAPI) DeleteProduct(ctx context.Context, id int) error { return nil }

func (emptyAPI) UpdateProduct(ctx context.Context, id int, patch catalog.Patch) (*catalog.Product, error) {
	return &catalog.Product{ID: id}, nil
}

func newServer(v session.Variant) *echo.Echo {
	sess := session.NewStore(session.GuestProvider{}, v)
	notices := notify.NewQueue(0)
	cat := catalog.New(emptyAPI{}, nil)

	e := echo.New()
	Register(e, &Deps{
		AuthHandler:         &handlers.AuthHandler{Session: sess, Notices: notices},
		ProductHandler:      &handlers.ProductHandler{Catalog: cat, Notices: notices},
		SearchHandler:       &handlers.SearchHandler{Catalog: cat},
		CustomerHandler:     &handlers.CustomerHandler{Book: customers.NewBook(nil), Notices: notices},
		DashboardHandler:    &handlers.DashboardHandler{Catalog: cat, Session: sess, Notices: notices},
		SettingsHandler:     handlers.NewSettingsHandler(sess, notices),
		NotificationHandler: &handlers.NotificationHandler{Notices: notices},
		Guard:               &authmw.Guard{Session: sess},
		Metrics:             metricsmw.New(prometheus.NewRegistry()),
	})
	return e
}

func serve(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRegister_Health(t *testing.T) {
	e := newServer(session.VariantGuest)

	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/health/live").Code)
	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/health/ready").Code)
	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/metrics").Code)
}

func TestRegister_NotFound(t *testing.T) {
	e := newServer(session.VariantGuest)

	rec := serve(e, http.MethodGet, "/no/such/page")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"not found"}`, rec.Body.String())
}

func TestRegister_StaticSegmentsBeforeParams(t *testing.T) {
	e := newServer(session.VariantGuest)

	rec := serve(e, http.MethodGet, "/api/v1/customers/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalCustomers":5`)

	rec = serve(e, http.MethodGet, "/api/v1/products/search?q=lamp")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"source":"memory"`)
}

func TestRegister_GuardedRoutes(t *testing.T) {
	guest := newServer(session.VariantGuest)
	assert.Equal(t, http.StatusOK, serve(guest, http.MethodGet, "/api/v1/dashboard").Code)
	assert.Equal(t, http.StatusOK, serve(guest, http.MethodGet, "/api/v1/settings").Code)

	signedOut := newServer(session.VariantDelegating)
	assert.Equal(t, http.StatusUnauthorized, serve(signedOut, http.MethodGet, "/api/v1/dashboard").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(signedOut, http.MethodGet, "/api/v1/customers").Code)
	assert.Equal(t, http.StatusOK, serve(signedOut, http.MethodGet, "/api/v1/auth/session").Code)
}
