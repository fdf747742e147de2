package rest

import (
	"context"
	"net/http"
	"time"

	"flagCompare/domain"
	"flagCompare/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	Rebuilder interface {
		Reload(ctx context.Context, force bool) (domain.RebuildStats, error)
	}

	AdminHandler struct {
		rebuilder Rebuilder
		timeout   time.Duration
	}
)

func NewAdminHandler(r Rebuilder) *AdminHandler {
	return &AdminHandler{
		rebuilder: r,
		timeout:   2 * time.Minute,
	}
}

// POST /api/v1/admin/rebuild
func (h *AdminHandler) Rebuild(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	stats, err := h.rebuilder.Reload(ctx, true)
	if err != nil {
		return respondError(c, err)
	}

	logger.Info("Similarity matrix rebuilt on request",
		"user_id", c.Get("user_id"),
		"version", stats.Version,
		"flags", stats.Flags,
	)
	return c.JSON(http.StatusOK, fres.Response.StatusOK(stats))
}
