package dashboard

import (
	"net/http"

	"fieldwork.com/console/core"
	"fieldwork.com/console/web/common"
	"github.com/gin-gonic/gin"
)

type Endpoint struct {
	base *common.Handler
}

func Register(r *gin.RouterGroup, base *common.Handler) {
	endpoint := &Endpoint{base: base}
	r.GET("/dashboard", endpoint.Dashboard)
	r.GET("/menu", endpoint.Menu)
}

func (ep *Endpoint) Dashboard(c *gin.Context) {
	counts, err := core.LoadDashboard(c.Request.Context(), ep.base.Client(c))
	if err != nil {
		ep.base.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(counts))
}

func (ep *Endpoint) Menu(c *gin.Context) {
	user := common.GetSession(c).User()
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"user":  user,
		"items": core.Menu(user.HasPermission),
	}))
}
