// Package resource serves the list, show, add, edit and delete screens
// shared by every backend collection.
package resource

import (
	"errors"
	"net/http"
	"strconv"

	v1 "fieldwork.com/console/api/v1"
	"fieldwork.com/console/core"
	"fieldwork.com/console/web/common"
	"github.com/gin-gonic/gin"
)

type Endpoint[T any, In any, AddForm core.Form[In], EditForm core.Form[In]] struct {
	base     *common.Handler
	entity   string
	resource func(*v1.Client) *v1.Resource[T, In]
	screen   func(*core.Screens) *core.ListScreen[T]
}

// Register mounts the five screens of one entity under path.
func Register[T any, In any, AddForm core.Form[In], EditForm core.Form[In]](
	r *gin.RouterGroup,
	base *common.Handler,
	path string,
	entity string,
	resource func(*v1.Client) *v1.Resource[T, In],
	screen func(*core.Screens) *core.ListScreen[T],
) *Endpoint[T, In, AddForm, EditForm] {
	ep := &Endpoint[T, In, AddForm, EditForm]{base: base, entity: entity, resource: resource, screen: screen}
	r.GET(path, ep.List)
	r.GET(path+"/:id", ep.Get)
	r.POST(path, ep.Add)
	r.PATCH(path+"/:id", ep.Edit)
	r.DELETE(path+"/:id", ep.Delete)
	return ep
}

func (ep *Endpoint[T, In, AddForm, EditForm]) List(c *gin.Context) {
	screen := ep.screen(ep.base.ScreensFor(c))
	res := ep.resource(ep.base.Client(c))

	if err := screen.Load(c.Request.Context(), res.List, common.Refresh(c)); err != nil {
		ep.base.Fail(c, err)
		return
	}

	screen.Update(common.ListChange(c))
	page := screen.View()
	c.JSON(http.StatusOK, common.NewPageResponse(page, screen.State()))
}

func (ep *Endpoint[T, In, AddForm, EditForm]) Get(c *gin.Context) {
	id, ok := common.ParamID(c)
	if !ok {
		return
	}

	item, err := ep.resource(ep.base.Client(c)).Get(c.Request.Context(), id)
	if err != nil {
		ep.base.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(item))
}

func (ep *Endpoint[T, In, AddForm, EditForm]) Add(c *gin.Context) {
	var form AddForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, common.NewToastResponse(core.Failure(common.FormatBindingError(err))))
		return
	}

	created, toast, err := core.Create[T, In](c.Request.Context(), form, ep.resource(ep.base.Client(c)), ep.entity)
	if err != nil {
		ep.base.FailWithToast(c, err, toast)
		return
	}

	ep.screen(ep.base.ScreensFor(c)).Invalidate()
	c.JSON(http.StatusCreated, common.NewSuccessResponse(created).WithToast(toast))
}

func (ep *Endpoint[T, In, AddForm, EditForm]) Edit(c *gin.Context) {
	id, ok := common.ParamID(c)
	if !ok {
		return
	}

	var form EditForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, common.NewToastResponse(core.Failure(common.FormatBindingError(err))))
		return
	}

	updated, toast, err := core.Update[T, In](c.Request.Context(), id, form, ep.resource(ep.base.Client(c)), ep.entity)
	if err != nil {
		ep.base.FailWithToast(c, err, toast)
		return
	}

	ep.screen(ep.base.ScreensFor(c)).Invalidate()
	c.JSON(http.StatusOK, common.NewSuccessResponse(updated).WithToast(toast))
}

func (ep *Endpoint[T, In, AddForm, EditForm]) Delete(c *gin.Context) {
	id, ok := common.ParamID(c)
	if !ok {
		return
	}
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))

	screen := ep.screen(ep.base.ScreensFor(c))
	res := ep.resource(ep.base.Client(c))

	toast, err := screen.Delete(c.Request.Context(), id, confirmed, res.Delete)
	if errors.Is(err, core.ErrConfirmationRequired) {
		c.JSON(http.StatusConflict, common.NewToastResponse(toast))
		return
	}
	if err != nil {
		ep.base.FailWithToast(c, err, toast)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"id": id}).WithToast(toast))
}
