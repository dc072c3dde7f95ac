package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/crm_dashboard/internal/customers"
	"github.com/Skotchmaster/crm_dashboard/internal/logging"
	"github.com/Skotchmaster/crm_dashboard/internal/notify"
)

type CustomerHandler struct {
	Book    *customers.Book
	Notices *notify.Queue
}

func (h *CustomerHandler) ListCustomers(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Book.List(c.QueryParam("q")))
}

func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.get_customer")

	id, err := parseID(c)
	if err != nil {
		l.Warn("get_customer_error", "status", 400, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cust, err := h.Book.Get(id)
	if err != nil {
		l.Warn("get_customer_error", "status", 404, "reason", "customer with this id does not exist")
		return echo.NewHTTPError(http.StatusNotFound, "customer with this id does not exist")
	}
	return c.JSON(http.StatusOK, cust)
}

func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.create_customer")

	var req customers.NewCustomer
	if err := c.Bind(&req); err != nil {
		l.Warn("customer_create_error", "status", 400, "reason", "invalid body", "error", err)
		return badRequest()
	}

	cust, err := h.Book.Add(ctx, req)
	if err != nil {
		l.Warn("customer_create_error", "status", 400, "reason", "validation failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Please fill in all required fields")
	}

	h.Notices.Success("Customer added successfully!")
	l.Info("create_customer_success", "id", cust.ID)
	return c.JSON(http.StatusCreated, cust)
}

func (h *CustomerHandler) UpdateCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.update_customer")

	id, err := parseID(c)
	if err != nil {
		l.Warn("customer_update_error", "status", 400, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Fields left out of the body keep their stored values.
	req, err := h.Book.Get(id)
	if err != nil {
		return customerError(l, "customer_update_error", err)
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("customer_update_error", "status", 400, "reason", "invalid body", "error", err)
		return badRequest()
	}
	req.ID = id

	cust, err := h.Book.Update(ctx, req)
	if err != nil {
		return customerError(l, "customer_update_error", err)
	}

	h.Notices.Success("Customer updated successfully!")
	l.Info("update_customer_success", "id", id)
	return c.JSON(http.StatusOK, cust)
}

func (h *CustomerHandler) DeleteCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.delete_customer")

	id, err := parseID(c)
	if err != nil {
		l.Warn("customer_delete_error", "status", 400, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Book.Delete(ctx, id); err != nil {
		return customerError(l, "customer_delete_error", err)
	}

	h.Notices.Success("Customer deleted successfully!")
	l.Info("delete_customer_success", "id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CustomerHandler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Book.Stats())
}

func (h *CustomerHandler) Reset(c echo.Context) error {
	h.Book.Reset()
	logging.FromContext(c.Request().Context()).Info("reset_customers_success")
	return c.JSON(http.StatusOK, h.Book.List(""))
}

func customerError(l *slog.Logger, msg string, err error) error {
	switch {
	case errors.Is(err, customers.ErrNotFound):
		l.Warn(msg, "status", 404, "reason", "customer with this id does not exist")
		return echo.NewHTTPError(http.StatusNotFound, "customer with this id does not exist")
	case errors.Is(err, customers.ErrValidation):
		l.Warn(msg, "status", 400, "reason", "validation failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	default:
		l.Warn(msg, "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save customer")
	}
}
