package apis

import (
	"net/http"
	"strings"

	"event-hub-backend/cmd/event-hub/auth"
	"event-hub-backend/cmd/event-hub/model"

	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

type ITokenParser interface {
	Parse(token string) (auth.Identity, error)
}

// Authenticate admits requests carrying a valid session token, from the
// Authorization header or, for WebSocket clients, the token query param.
func Authenticate(tokens ITokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := tokens.Parse(bearerToken(c))
			if err != nil {
				return c.JSON(
					http.StatusUnauthorized,
					model.BaseResponse{
						Message: auth.ErrInvalidToken.Error(),
						Data:    map[string]string{"redirect": "/login"},
					},
				)
			}

			c.Set(identityKey, id)
			return next(c)
		}
	}
}

// RequireRole sends a signed-in user with another role back to their own
// area. It must run after Authenticate.
func RequireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := identity(c)
			if id.Role != role {
				return c.JSON(
					http.StatusForbidden,
					model.BaseResponse{
						Message: "forbidden",
						Data:    map[string]string{"redirect": "/" + string(id.Role)},
					},
				)
			}

			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return c.QueryParam("token")
}

func identity(c echo.Context) auth.Identity {
	id, _ := c.Get(identityKey).(auth.Identity)
	return id
}
