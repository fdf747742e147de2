package rest

import (
	"errors"
	"net/http"

	"flagCompare/business/similarity"
	"flagCompare/domain"

	"github.com/labstack/echo/v4"
)

type ResponseError struct {
	Message string `json:"message"`
}

func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrFlagNotFound):
		return c.JSON(http.StatusNotFound, ResponseError{Message: "not found"})
	case errors.Is(err, domain.ErrMatrixNotReady):
		return c.JSON(http.StatusServiceUnavailable, ResponseError{Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicateFlag),
		errors.Is(err, domain.ErrDuplicateFeature),
		errors.Is(err, domain.ErrInvalidWeight),
		errors.Is(err, domain.ErrUnknownFeatureKind),
		errors.Is(err, similarity.ErrInvalidFeature):
		return c.JSON(http.StatusUnprocessableEntity, ResponseError{Message: err.Error()})
	default:
		logFailure(c, "Request failed", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
}
