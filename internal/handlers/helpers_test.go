package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/crm_dashboard/internal/catalog"
)

type stubAPI struct {
	products []catalog.Product
	err      error

	lastLimit int
}

func (s *stubAPI) ListProducts(ctx context.Context, skip, limit int) (*catalog.Page, error) {
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	end := min(skip+limit, len(s.products))
	page := []catalog.Product{}
	if skip < end {
		page = append(page, s.products[skip:end]...)
	}
	return &catalog.Page{Products: page, Total: len(s.products), Skip: skip, Limit: limit}, nil
}

func (s *stubAPI) DeleteProduct(ctx context.Context, id int) error {
	return s.err
}

func (s *stubAPI) UpdateProduct(ctx context.Context, id int, patch catalog.Patch) (*catalog.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.products {
		if p.ID == id {
			if patch.Title != nil {
				p.Title = *patch.Title
			}
			return &p, nil
		}
	}
	return &catalog.Product{ID: id}, nil
}

func sampleProducts() []catalog.Product {
	return []catalog.Product{
		{ID: 1, Title: "Essence Mascara Lash Princess", Brand: "Essence", Category: "beauty", Price: 9.99, Rating: 4.94, Stock: 5},
		{ID: 2, Title: "Eyeshadow Palette with Mirror", Brand: "Glamour Beauty", Category: "beauty", Price: 19.99, Rating: 3.28, Stock: 44},
		{ID: 3, Title: "Powder Canister", Brand: "Velvet Touch", Category: "beauty", Price: 14.99, Rating: 3.82, Stock: 59},
		{ID: 6, Title: "Calvin Klein CK One", Brand: "Calvin Klein", Category: "fragrances", Price: 49.99, Rating: 4.85, Stock: 17},
		{ID: 7, Title: "Chanel Coco Noir Eau De", Brand: "Chanel", Category: "fragrances", Price: 129.99, Rating: 2.76, Stock: 41},
	}
}

func newCtx(method, target string, body any) (echo.Context, *httptest.ResponseRecorder) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he), "expected *echo.HTTPError, got %v", err)
	return he.Code
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}
