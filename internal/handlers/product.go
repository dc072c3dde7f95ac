package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/crm_dashboard/internal/catalog"
	"github.com/Skotchmaster/crm_dashboard/internal/logging"
	"github.com/Skotchmaster/crm_dashboard/internal/notify"
	"github.com/Skotchmaster/crm_dashboard/internal/util"
)

type ProductHandler struct {
	Catalog *catalog.Catalog
	Notices *notify.Queue
}

// GetProducts loads a page from the product API and filters it by q.
func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	skip, limit := util.SkipLimit(c.QueryParam("skip"), c.QueryParam("limit"), util.DefaultListLimit)

	res := h.Catalog.Fetch(ctx, skip, limit)
	if !res.IsOk() {
		h.Notices.Error("Error", "Failed to fetch products")
		l.Error("get_products_error", "status", 502, "reason", res.Message())
		return echo.NewHTTPError(http.StatusBadGateway, res.Message())
	}

	st := h.Catalog.State()
	items := catalog.FilterProducts(st.Products, c.QueryParam("q"))

	l.Info("get_products_success", "count", len(items))
	return c.JSON(http.StatusOK, map[string]any{
		"products": items,
		"total":    st.Total,
		"skip":     st.Skip,
		"limit":    st.Limit,
	})
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req catalog.NewProduct
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
		return badRequest()
	}

	prod, err := h.Catalog.CreateLocal(ctx, req)
	if err != nil {
		if errors.Is(err, catalog.ErrValidation) {
			l.Warn("product_create_error", "status", 400, "reason", "validation failed", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "Please fill in all required fields")
		}
		l.Error("product_create_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create product")
	}

	h.Notices.Success("Product added successfully")
	l.Info("create_product_success", "id", prod.ID)
	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	id, err := parseID(c)
	if err != nil {
		l.Warn("product_update_error", "status", 400, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req catalog.Patch
	if err := c.Bind(&req); err != nil {
		l.Warn("product_update_error", "status", 400, "reason", "invalid body", "error", err)
		return badRequest()
	}

	res := h.Catalog.Update(ctx, id, req)
	if !res.IsOk() {
		h.Notices.Error("Error", res.Message())
		l.Error("product_update_error", "status", 502, "reason", res.Message())
		return echo.NewHTTPError(http.StatusBadGateway, res.Message())
	}

	prod, _ := res.Data()
	h.Notices.Success("Product updated successfully")
	l.Info("update_product_success", "id", id)
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := parseID(c)
	if err != nil {
		l.Warn("product_delete_error", "status", 400, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res := h.Catalog.Delete(ctx, id)
	if !res.IsOk() {
		h.Notices.Error("Error", res.Message())
		l.Error("product_delete_error", "status", 502, "reason", res.Message())
		return echo.NewHTTPError(http.StatusBadGateway, res.Message())
	}

	h.Notices.Success("Product deleted successfully")
	l.Info("delete_product_success", "id", id)
	return c.NoContent(http.StatusNoContent)
}
