package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

var errBadID = errors.New("id is not an integer")

func parseID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, errBadID
	}
	return id, nil
}

// badRequest is the response for a body that does not bind.
func badRequest() error {
	return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
}
