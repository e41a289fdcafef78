package echo

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mohammadpnp/employee-registry/internal/application/auth"
)

const userIDContextKey = "auth_user_id"

// AuthMiddleware validates the bearer access token and stores the
// authenticated user id on the request context.
func AuthMiddleware(tokens *auth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return unauthorized(c, "missing bearer token")
			}

			claims, err := tokens.Parse(parts[1])
			if err != nil || claims.Type != auth.TokenTypeAccess {
				return unauthorized(c, "invalid or expired token")
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				return unauthorized(c, "invalid token subject")
			}

			c.Set(userIDContextKey, userID)
			return next(c)
		}
	}
}

// currentUserID reads the id stored by AuthMiddleware.
func currentUserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(userIDContextKey).(uuid.UUID)
	return id, ok
}

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, apiResponse{Error: &errorBody{
		Code:    "unauthorized",
		Message: message,
	}})
}
