package rest

import (
	"context"
	"net/http"

	"flagCompare/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	SelectionStore interface {
		Current() domain.Selection
		SelectFlag(ctx context.Context, name string) (domain.Selection, error)
		SelectDetail(ctx context.Context, field string) (domain.Selection, error)
	}

	SelectionHandler struct {
		validate *validator.Validate
		store    SelectionStore
	}

	SelectFlagRequest struct {
		Name string `json:"name" validate:"required"`
	}

	SelectDetailRequest struct {
		Field string `json:"field" validate:"required"`
	}
)

func NewSelectionHandler(store SelectionStore) *SelectionHandler {
	return &SelectionHandler{
		validate: validator.New(),
		store:    store,
	}
}

// GET /api/v1/selection
func (h *SelectionHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.store.Current()))
}

// PUT /api/v1/selection/flag
func (h *SelectionHandler) SelectFlag(c echo.Context) error {
	var req SelectFlagRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	sel, err := h.store.SelectFlag(c.Request().Context(), req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(sel))
}

// PUT /api/v1/selection/detail
func (h *SelectionHandler) SelectDetail(c echo.Context) error {
	var req SelectDetailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	sel, err := h.store.SelectDetail(c.Request().Context(), req.Field)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(sel))
}
