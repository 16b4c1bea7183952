package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/studio/core"
)

const (
	orderingParam = "ordering"
	editorHeader  = "X-Studio-User"
)

type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind reads a comma separated list of fields, "-" prefixed for descending order (?ordering=-name,id).
func (ord *Ordering) Bind(ctx echo.Context) {
	ord.Orderings = core.ParseOrdering(ctx.QueryParam(orderingParam))
}

// editor is the studio user performing the request.
func editor(ctx echo.Context) string {
	return core.CleanString(ctx.Request().Header.Get(editorHeader))
}
