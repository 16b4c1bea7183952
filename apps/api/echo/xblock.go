package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studio/core/xblock"
)

type xblockApi struct {
	svc *xblock.Service
}

func registerXBlockAPI(g *echo.Group, svc *xblock.Service) {
	api := xblockApi{svc: svc}

	xg := g.Group("/xblocks")
	xg.POST("", api.create)

	// detail endpoints
	xg.GET("/:locator", api.retrieve)
	xg.PATCH("/:locator", api.save)
	xg.PUT("/:locator", api.save)
	xg.DELETE("/:locator", api.destroy)
}

// Handlers

func (api *xblockApi) create(ctx echo.Context) error {
	var data xblock.CreateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CreateRequest")
	}
	info, err := api.svc.Create(ctx.Request().Context(), data, editor(ctx))
	if err != nil {
		return errors.Wrap(err, "creating xblock")
	}
	return ctx.JSON(http.StatusCreated, info)
}

func (api *xblockApi) retrieve(ctx echo.Context) error {
	info, err := api.svc.Get(ctx.Request().Context(), ctx.Param("locator"))
	if err != nil {
		return errors.Wrap(err, "getting xblock")
	}
	return ctx.JSON(http.StatusOK, info)
}

func (api *xblockApi) save(ctx echo.Context) error {
	var data xblock.UpdateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRequest")
	}
	info, err := api.svc.Save(ctx.Request().Context(), ctx.Param("locator"), data, editor(ctx))
	if err != nil {
		return errors.Wrap(err, "saving xblock")
	}
	return ctx.JSON(http.StatusOK, info)
}

func (api *xblockApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("locator")); err != nil {
		return errors.Wrap(err, "deleting xblock")
	}
	return ctx.NoContent(http.StatusNoContent)
}
