package productapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/crm_dashboard/internal/catalog"
)

func TestClient_ListProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "30", r.URL.Query().Get("limit"))
		assert.Equal(t, "60", r.URL.Query().Get("skip"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products":[{"id":61,"title":"Lamp","price":12.5,"stock":4,"rating":4.1,"discountPercentage":3,"brand":"B","category":"home","thumbnail":"t","images":["a"]}],"total":194,"skip":60,"limit":30}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	page, err := c.ListProducts(context.Background(), 60, 30)
	require.NoError(t, err)

	assert.Equal(t, 194, page.Total)
	assert.Equal(t, 60, page.Skip)
	assert.Equal(t, 30, page.Limit)
	require.Len(t, page.Products, 1)
	assert.Equal(t, 61, page.Products[0].ID)
	assert.Equal(t, 12.5, page.Products[0].Price)
	assert.Equal(t, []string{"a"}, page.Products[0].Images)
}

func TestClient_DeleteProduct(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		_, _ = w.Write([]byte(`{"id":5,"isDeleted":true}`))
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL, time.Second).DeleteProduct(context.Background(), 5))
	assert.Equal(t, "/products/5", gotPath)
	assert.Equal(t, http.MethodDelete, gotMethod)
}

func TestClient_UpdateProductSendsOnlySetFields(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/products/3", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &body))
		_, _ = w.Write([]byte(`{"id":3,"title":"Renamed","price":42}`))
	}))
	defer srv.Close()

	title := "Renamed"
	price := 42.0
	prod, err := NewClient(srv.URL, time.Second).UpdateProduct(context.Background(), 3, catalog.Patch{Title: &title, Price: &price})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"title": "Renamed", "price": 42.0}, body)
	assert.Equal(t, 3, prod.ID)
	assert.Equal(t, "Renamed", prod.Title)
}

func TestClient_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Product with id '999' not found"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, time.Second).DeleteProduct(context.Background(), 999)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Contains(t, se.Body, "not found")
}

func TestClient_ImplementsProductAPI(t *testing.T) {
	var _ catalog.ProductAPI = NewClient("", 0)
}
