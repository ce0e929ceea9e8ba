package assignments

import (
	"net/http"

	v1 "fieldwork.com/console/api/v1"
	"fieldwork.com/console/core"
	"fieldwork.com/console/web/common"
	"fieldwork.com/console/web/handlers/resource"
	"github.com/gin-gonic/gin"
)

type Endpoint struct {
	base *common.Handler
}

func Register(r *gin.RouterGroup, base *common.Handler) {
	endpoint := &Endpoint{base: base}
	// static segment registered alongside the :id routes below
	r.GET("/assignments/options", endpoint.Options)
	resource.Register[v1.AssignmentDTO, v1.AssignmentInput, core.AssignmentForm, core.AssignmentForm](
		r, base, "/assignments", "Assignment",
		func(c *v1.Client) *v1.Resource[v1.AssignmentDTO, v1.AssignmentInput] { return c.Assignments },
		func(s *core.Screens) *core.ListScreen[v1.AssignmentDTO] { return s.Assignments },
	)
}

// Options feeds the add and edit forms with their pickers.
func (ep *Endpoint) Options(c *gin.Context) {
	client := ep.base.Client(c)
	opts, err := core.LoadAssignmentOptions(c.Request.Context(), client.Fields, client.Departments, client.Employees)
	if err != nil {
		ep.base.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(opts))
}
