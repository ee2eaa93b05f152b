package server

import (
	"github.com/labstack/echo/v4"

	"github.com/wwicak/digital-signage-sub001/internal/platform/correlation"
)

const correlationHeader = "X-Correlation-ID"

// correlationMiddleware assigns every request a correlation ID (reusing the
// caller's if present) and carries it through the request context so log
// lines can be tied back to the request.
func correlationMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(correlationHeader)
			if id == "" {
				id = correlation.NewID()
			}

			ctx := correlation.WithID(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set(correlationHeader, id)

			return next(c)
		}
	}
}
