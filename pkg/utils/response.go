package utils

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ValidationFailed membalas 422 dengan daftar field yang gagal validasi.
func ValidationFailed(c echo.Context, err error) error {
	fields := FieldErrors(err)
	if fields == nil {
		fields = map[string]string{}
	}
	return c.JSON(http.StatusUnprocessableEntity, echo.Map{
		"status":  http.StatusUnprocessableEntity,
		"message": "Validation failed",
		"data":    nil,
		"errors":  fields,
	})
}
