package middleware

import (
	"context"

	"flagCompare/business/similarity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const HeaderTraceID = "X-Trace-Id"

// Trace reuses an incoming X-Trace-Id or assigns a new one, and puts it on
// the request context and the response header.
func Trace() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(HeaderTraceID)
			if id == "" {
				id = uuid.NewString()
			}

			ctx := context.WithValue(c.Request().Context(), similarity.TraceIDKey, id)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set(HeaderTraceID, id)

			return next(c)
		}
	}
}

func traceID(c echo.Context) string {
	return similarity.TraceIDFromContext(c.Request().Context())
}
