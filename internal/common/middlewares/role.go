package middlewares

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/billing-backend/internal/common/models"
)

// RequireRole menolak request yang perannya tidak ada di daftar roles.
// Harus dipasang setelah JWTMiddleware.
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := ActorFromContext(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"status":  http.StatusUnauthorized,
					"message": "Missing or invalid JWT claims",
					"data":    nil,
				})
			}
			if !actor.Is(roles...) {
				return c.JSON(http.StatusForbidden, echo.Map{
					"status":  http.StatusForbidden,
					"message": "Anda tidak memiliki hak akses",
					"data":    nil,
				})
			}
			return next(c)
		}
	}
}
