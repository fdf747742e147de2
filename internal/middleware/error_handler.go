package middleware

import (
	"errors"
	"net/http"

	"flagCompare/domain"
	"flagCompare/pkg/logger"
	jsonres "flagCompare/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders every unhandled error as a response envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, code, message := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "trace_id", traceID(c), "path", c.Path(), "error", err)
	}

	var resErr error
	if c.Request().Method == http.MethodHead {
		resErr = c.NoContent(status)
	} else {
		resErr = c.JSON(status, jsonres.Error(code, message, nil))
	}
	if resErr != nil {
		logger.Error("Failed to write error response", resErr)
	}
}

func classify(err error) (int, string, string) {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok {
			msg = s
		}
		return he.Code, codeFor(he.Code), msg
	case errors.Is(err, domain.ErrFlagNotFound):
		return http.StatusNotFound, codeFor(http.StatusNotFound), "not found"
	case errors.Is(err, domain.ErrMatrixNotReady):
		return http.StatusServiceUnavailable, codeFor(http.StatusServiceUnavailable), "similarity matrix not ready"
	default:
		return http.StatusInternalServerError, codeFor(http.StatusInternalServerError), "internal server error"
	}
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		if status >= http.StatusInternalServerError {
			return "INTERNAL_SERVER_ERROR"
		}
		return "ERROR"
	}
}
