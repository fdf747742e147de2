package router

import (
	"flagCompare/internal/middleware"
	"flagCompare/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupFlagRoutes(api *echo.Group, handler *rest.FlagHandler, mw ...echo.MiddlewareFunc) {
	flags := api.Group("/flags", mw...)
	flags.GET("", handler.List)
	flags.GET("/:name", handler.Profile)
	flags.GET("/:name/top", handler.Top)
	flags.GET("/:name/attributes", handler.Attributes)

	api.GET("/search", handler.Search, mw...)
	api.GET("/details", handler.Details, mw...)
	api.GET("/assets/unresolved", handler.Unresolved, mw...)
}

func SetupSelectionRoutes(api *echo.Group, handler *rest.SelectionHandler) {
	selection := api.Group("/selection")
	selection.GET("", handler.Get)
	selection.PUT("/flag", handler.SelectFlag)
	selection.PUT("/detail", handler.SelectDetail)
}

func SetupAdminRoutes(api *echo.Group, handler *rest.AdminHandler) {
	admin := api.Group("/admin", middleware.AuthMiddleware(), middleware.AdminOnly())
	admin.POST("/rebuild", handler.Rebuild)
}
