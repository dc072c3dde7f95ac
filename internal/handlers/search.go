package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/crm_dashboard/internal/catalog"
	"github.com/Skotchmaster/crm_dashboard/internal/logging"
	"github.com/Skotchmaster/crm_dashboard/internal/util"
)

type ProductSearcher interface {
	Search(ctx context.Context, query string, from, size int) (int64, []catalog.Product, error)
}

// SearchHandler queries the search index and falls back to filtering the
// held catalog page when no index is configured or the index fails.
type SearchHandler struct {
	Index   ProductSearcher
	Catalog *catalog.Catalog
}

func (h *SearchHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	q := c.QueryParam("q")
	if q == "" {
		l.Warn("search_error", "status", 400, "reason", "empty query")
		return echo.NewHTTPError(http.StatusBadRequest, "query error")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, size := util.Calculate(page, size)

	if h.Index != nil {
		total, products, err := h.Index.Search(ctx, q, from, size)
		if err == nil {
			l.Info("search_success", "source", "index", "total", total)
			return c.JSON(http.StatusOK, map[string]any{"total": total, "products": products, "source": "index"})
		}
		l.Warn("search_error", "reason", "index unavailable, filtering held page", "error", err)
	}

	matched := catalog.FilterProducts(h.Catalog.State().Products, q)
	total := len(matched)
	end := min(from+size, total)
	products := []catalog.Product{}
	if from < total {
		products = matched[from:end]
	}

	l.Info("search_success", "source", "memory", "total", total)
	return c.JSON(http.StatusOK, map[string]any{"total": total, "products": products, "source": "memory"})
}
