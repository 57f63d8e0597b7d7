package middlewares

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/billing-backend/internal/common/models"
	"github.com/c14220110/billing-backend/pkg/utils"
)

type contextKey string

const (
	ContextKeyClaims contextKey = "claims"
	ContextKeyActor  contextKey = "actor"
)

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"status":  http.StatusUnauthorized,
		"message": message,
		"data":    nil,
	})
}

// JWTMiddleware memvalidasi header "Authorization: Bearer <token>" lalu menyimpan
// klaim dan Actor ke context echo.
func JWTMiddleware(jm *utils.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return unauthorized(c, "Authorization header missing")
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return unauthorized(c, "Invalid authorization header")
			}

			claims, err := jm.ValidateJWTToken(parts[1])
			if err != nil {
				return unauthorized(c, "Invalid token: "+err.Error())
			}
			role := models.Role(claims.Role)
			if !role.Valid() {
				return unauthorized(c, "Invalid token: unknown role")
			}

			c.Set(string(ContextKeyClaims), claims)
			c.Set(string(ContextKeyActor), models.Actor{ID: claims.UserID, Role: role})
			return next(c)
		}
	}
}

// ActorFromContext mengambil Actor yang dipasang JWTMiddleware.
func ActorFromContext(c echo.Context) (models.Actor, bool) {
	actor, ok := c.Get(string(ContextKeyActor)).(models.Actor)
	return actor, ok
}
