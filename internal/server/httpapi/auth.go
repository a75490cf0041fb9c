package httpapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/server/auth"
)

const clientContextKey = "client"

// AccessToken checks the same HS256 token the gRPC API expects. The token
// is read from the access_token header, an "Authorization: Bearer" header,
// or the access_token query parameter (browsers cannot set headers on a
// WebSocket handshake). An empty secret disables the check.
func AccessToken(secretKey []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if len(secretKey) == 0 {
			return next
		}
		return func(c echo.Context) error {
			token := tokenFromRequest(c)
			if token == "" {
				return common.ErrUnauthorized
			}
			client, err := auth.GetClientFromToken(token, secretKey)
			if err != nil {
				return err
			}
			c.Set(clientContextKey, client)
			return next(c)
		}
	}
}

func tokenFromRequest(c echo.Context) string {
	req := c.Request()
	if v := req.Header.Get(common.AccessTokenHeaderName); v != "" {
		return v
	}
	if v, ok := strings.CutPrefix(req.Header.Get(echo.HeaderAuthorization), "Bearer "); ok {
		return strings.TrimSpace(v)
	}
	return c.QueryParam(common.AccessTokenHeaderName)
}
