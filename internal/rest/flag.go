package rest

import (
	"net/http"
	"strconv"

	"flagCompare/business/similarity"
	"flagCompare/domain"
	"flagCompare/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	SimilarityService interface {
		Names() ([]string, error)
		Profile(name string) (*domain.SimilarityProfile, error)
		TopSimilar(name string, n int) ([]domain.SimilarFlag, error)
		Attributes(name string) ([]domain.FlagAttribute, error)
		SearchProfile(term string) (*domain.SimilarityProfile, error)
		DetailValues(field string) ([]domain.DetailValue, error)
		Unresolved() ([]string, error)
		Version() string
	}

	FlagHandler struct {
		validate      *validator.Validate
		service       SimilarityService
		assetBasePath string
		topN          int
	}

	TopQuery struct {
		N int `validate:"min=1,max=50"`
	}

	SearchQuery struct {
		Q string `query:"q" validate:"required"`
	}

	DetailQuery struct {
		Field string `query:"field" validate:"required"`
	}

	FlagProfileResponse struct {
		*domain.SimilarityProfile
		ImageURL string `json:"image_url"`
	}

	SimilarFlagResponse struct {
		domain.SimilarFlag
		ImageURL string `json:"image_url"`
	}

	SearchResponse struct {
		Name     string `json:"name"`
		ImageURL string `json:"image_url"`
	}
)

func NewFlagHandler(svc SimilarityService, assetBasePath string, topN int) *FlagHandler {
	if topN <= 0 {
		topN = 5
	}
	return &FlagHandler{
		validate:      validator.New(),
		service:       svc,
		assetBasePath: assetBasePath,
		topN:          topN,
	}
}

// GET /api/v1/flags
func (h *FlagHandler) List(c echo.Context) error {
	names, err := h.service.Names()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(names))
}

// GET /api/v1/flags/:name
func (h *FlagHandler) Profile(c echo.Context) error {
	p, err := h.service.Profile(c.Param("name"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(FlagProfileResponse{
		SimilarityProfile: p,
		ImageURL:          h.imageURL(p.AssetReference),
	}))
}

// GET /api/v1/flags/:name/top?n=5
func (h *FlagHandler) Top(c echo.Context) error {
	q := TopQuery{N: h.topN}
	if raw := c.QueryParam("n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "n must be an integer"})
		}
		q.N = n
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	top, err := h.service.TopSimilar(c.Param("name"), q.N)
	if err != nil {
		return respondError(c, err)
	}

	res := make([]SimilarFlagResponse, 0, len(top))
	for _, f := range top {
		res = append(res, SimilarFlagResponse{SimilarFlag: f, ImageURL: h.imageURL(f.AssetReference)})
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(res))
}

// GET /api/v1/flags/:name/attributes
func (h *FlagHandler) Attributes(c echo.Context) error {
	attrs, err := h.service.Attributes(c.Param("name"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(attrs))
}

// GET /api/v1/search?q=Tom
func (h *FlagHandler) Search(c echo.Context) error {
	var q SearchQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	p, err := h.service.SearchProfile(q.Q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(SearchResponse{
		Name:     p.Name,
		ImageURL: h.imageURL(p.AssetReference),
	}))
}

// GET /api/v1/details?field=gdp
func (h *FlagHandler) Details(c echo.Context) error {
	var q DetailQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	values, err := h.service.DetailValues(q.Field)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(values))
}

// GET /api/v1/assets/unresolved
func (h *FlagHandler) Unresolved(c echo.Context) error {
	names, err := h.service.Unresolved()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]any{
		"version":    h.service.Version(),
		"unresolved": names,
	}))
}

func (h *FlagHandler) imageURL(assetRef string) string {
	return h.assetBasePath + assetRef
}

func logFailure(c echo.Context, msg string, err error) {
	logger.Error(msg, "trace_id", similarity.TraceIDFromContext(c.Request().Context()), "path", c.Path(), "error", err)
}
