// Package web is the console's HTTP surface.
package web

import (
	"net/http"

	v1 "fieldwork.com/console/api/v1"
	"fieldwork.com/console/core"
	"fieldwork.com/console/web/common"
	"fieldwork.com/console/web/handlers/assignments"
	"fieldwork.com/console/web/handlers/attendance"
	"fieldwork.com/console/web/handlers/auth"
	"fieldwork.com/console/web/handlers/dashboard"
	"fieldwork.com/console/web/handlers/resource"
	"fieldwork.com/console/web/middlewares"
	"github.com/gin-gonic/gin"
)

// NewRouter wires every console route onto a gin engine. exports may be
// nil.
func NewRouter(r *gin.Engine, base *common.Handler, exports attendance.ExportStore) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	r.Use(middlewares.Sessions(base.Sessions))

	protected := r.Group("/console")
	protected.Use(middlewares.Guard(base.Sessions, base.Now))
	{
		auth.Register(r, protected, base)
		dashboard.Register(protected, base)

		resource.Register[v1.UserDTO, v1.UserInput, core.UserForm, core.UserEditForm](
			protected, base, "/users", "User",
			func(c *v1.Client) *v1.Resource[v1.UserDTO, v1.UserInput] { return c.Users },
			func(s *core.Screens) *core.ListScreen[v1.UserDTO] { return s.Users },
		)
		resource.Register[v1.EmployeeDTO, v1.EmployeeInput, core.EmployeeForm, core.EmployeeForm](
			protected, base, "/employees", "Employee",
			func(c *v1.Client) *v1.Resource[v1.EmployeeDTO, v1.EmployeeInput] { return c.Employees },
			func(s *core.Screens) *core.ListScreen[v1.EmployeeDTO] { return s.Employees },
		)
		resource.Register[v1.FieldDTO, v1.FieldInput, core.FieldForm, core.FieldForm](
			protected, base, "/fields", "Field",
			func(c *v1.Client) *v1.Resource[v1.FieldDTO, v1.FieldInput] { return c.Fields },
			func(s *core.Screens) *core.ListScreen[v1.FieldDTO] { return s.Fields },
		)
		resource.Register[v1.DepartmentDTO, v1.DepartmentInput, core.DepartmentForm, core.DepartmentForm](
			protected, base, "/departments", "Department",
			func(c *v1.Client) *v1.Resource[v1.DepartmentDTO, v1.DepartmentInput] { return c.Departments },
			func(s *core.Screens) *core.ListScreen[v1.DepartmentDTO] { return s.Departments },
		)
		assignments.Register(protected, base)
		attendance.Register(protected, base, exports)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Not found"))
	})

	return r
}
