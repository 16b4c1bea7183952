package echoapi

import (
	"io/ioutil"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studio/core/groupconfig"
)

type groupConfigApi struct {
	svc *groupconfig.Service
}

func registerGroupConfigAPI(g *echo.Group, svc *groupconfig.Service) {
	api := groupConfigApi{svc: svc}

	cg := g.Group("/courses/:course/group_configurations")
	cg.GET("", api.query)
	cg.POST("", api.create)

	// detail endpoints
	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update)
	cg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *groupConfigApi) query(ctx echo.Context) error {
	ordering := new(Ordering)
	ordering.Bind(ctx)

	cfgs, err := api.svc.Query(ctx.Request().Context(), ctx.Param("course"), ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying group configurations")
	}
	return ctx.JSON(http.StatusOK, cfgs)
}

func (api *groupConfigApi) create(ctx echo.Context) error {
	cfg, err := bindConfiguration(ctx)
	if err != nil {
		return err
	}
	created, err := api.svc.Create(ctx.Request().Context(), ctx.Param("course"), *cfg)
	if err != nil {
		return errors.Wrap(err, "creating group configuration")
	}
	return ctx.JSON(http.StatusCreated, created)
}

func (api *groupConfigApi) retrieve(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	cfg, err := api.svc.Get(ctx.Request().Context(), ctx.Param("course"), id)
	if err != nil {
		return errors.Wrap(err, "getting group configuration")
	}
	return ctx.JSON(http.StatusOK, cfg)
}

func (api *groupConfigApi) update(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	cfg, err := bindConfiguration(ctx)
	if err != nil {
		return err
	}
	updated, err := api.svc.Update(ctx.Request().Context(), ctx.Param("course"), id, *cfg)
	if err != nil {
		return errors.Wrap(err, "updating group configuration")
	}
	return ctx.JSON(http.StatusOK, updated)
}

func (api *groupConfigApi) destroy(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), ctx.Param("course"), id); err != nil {
		return errors.Wrap(err, "deleting group configuration")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// bindConfiguration decodes a wire-format configuration from the request body.
func bindConfiguration(ctx echo.Context) (*groupconfig.Configuration, error) {
	body, err := ioutil.ReadAll(ctx.Request().Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading request body")
	}
	cfg, err := groupconfig.Parse(body)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "malformed group configuration").SetInternal(err)
	}
	return cfg, nil
}

func idParam(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, errHttpNotFound
	}
	return id, nil
}
