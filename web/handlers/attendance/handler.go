package attendance

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"fieldwork.com/console/collection"
	"fieldwork.com/console/core"
	"fieldwork.com/console/export"
	"fieldwork.com/console/utils"
	"fieldwork.com/console/web/common"
	"github.com/gin-gonic/gin"
)

// ExportStore keeps uploaded workbooks.
type ExportStore interface {
	Upload(ctx context.Context, name string, body io.Reader, contentType string) (string, error)
	List(ctx context.Context) ([]string, error)
	Download(ctx context.Context, name string, out io.Writer) error
}

type Endpoint struct {
	base    *common.Handler
	exports ExportStore
}

// Grid is one page of an attendance view.
type Grid struct {
	View  string               `json:"view"`
	Scope string               `json:"salary_scope"`
	Dates []string             `json:"dates"`
	Rows  []core.AttendanceRow `json:"rows"`
}

// Register mounts the attendance views. exports may be nil when no
// bucket is configured.
func Register(r *gin.RouterGroup, base *common.Handler, exports ExportStore) {
	endpoint := &Endpoint{base: base, exports: exports}
	for _, view := range []core.AttendanceView{core.DailyAttendance, core.WeeklyAttendance} {
		r.GET("/attendance/"+view.Name, endpoint.List(view))
		r.GET("/attendance/"+view.Name+"/export", endpoint.Export(view))
	}
	r.GET("/attendance/exports", endpoint.ListExports)
	r.GET("/attendance/exports/:name", endpoint.DownloadExport)
}

// rows loads the records and folds them for view, applying the screen's
// search and department filter but not its paging.
func (ep *Endpoint) rows(c *gin.Context, view core.AttendanceView) (core.Window, []core.AttendanceRow, core.ListState, error) {
	screen := ep.base.ScreensFor(c).Attendance
	client := ep.base.Client(c)

	today := ep.base.Today()
	window := view.Window(today)
	if err := screen.Load(c.Request.Context(), client.Attendance.List, common.Refresh(c)); err != nil {
		return window, nil, core.ListState{}, err
	}
	state := screen.Update(common.ListChange(c))

	rows := core.Aggregate(screen.Items(), window, today, view.Scope)
	q := core.AttendanceRowList.Query(state)
	q.Page, q.PageSize = 1, max(len(rows), 1)
	return window, collection.Apply(rows, q).Items, state, nil
}

func (ep *Endpoint) List(view core.AttendanceView) gin.HandlerFunc {
	return func(c *gin.Context) {
		window, rows, state, err := ep.rows(c, view)
		if err != nil {
			ep.base.Fail(c, err)
			return
		}

		page := collection.Apply(rows, collection.Query[core.AttendanceRow]{Page: state.Page})
		state.Page = page.Page

		res := common.NewPageResponse(page, state)
		res.Data = Grid{
			View:  view.Name,
			Scope: view.Scope.String(),
			Dates: utils.Map(window.Dates(), func(d time.Time) string { return d.Format(utils.DateLayout) }),
			Rows:  page.Items,
		}
		c.JSON(http.StatusOK, res)
	}
}

// Export streams the filtered grid as a workbook, or uploads it when
// ?upload=true and answers with the object key.
func (ep *Endpoint) Export(view core.AttendanceView) gin.HandlerFunc {
	return func(c *gin.Context) {
		window, rows, _, err := ep.rows(c, view)
		if err != nil {
			ep.base.Fail(c, err)
			return
		}

		data, err := export.AttendanceBytes(window, rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
			return
		}
		name := export.FileName(view.Name, ep.base.Today())

		if upload, _ := strconv.ParseBool(c.Query("upload")); !upload {
			c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
			c.Data(http.StatusOK, export.ContentType, data)
			return
		}

		if ep.exports == nil {
			c.JSON(http.StatusBadRequest, common.NewToastResponse(core.Failure("Export bucket is not configured")))
			return
		}
		key, err := ep.exports.Upload(c.Request.Context(), name, bytes.NewReader(data), export.ContentType)
		if err != nil {
			ep.base.FailWithToast(c, err, core.Failure("Could not upload the export"))
			return
		}
		c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"key": key}).WithToast(core.Success("Export uploaded")))
	}
}

func (ep *Endpoint) ListExports(c *gin.Context) {
	if ep.exports == nil {
		c.JSON(http.StatusOK, common.NewSearchResponse([]string{}, 0))
		return
	}
	names, err := ep.exports.List(c.Request.Context())
	if err != nil {
		ep.base.FailWithToast(c, err, core.Failure("Could not list exports"))
		return
	}
	names = utils.Filter(names, func(n string) bool { return strings.HasSuffix(n, ".xlsx") })
	c.JSON(http.StatusOK, common.NewSearchResponse(names, int64(len(names))))
}

func (ep *Endpoint) DownloadExport(c *gin.Context) {
	name := path.Base(c.Param("name"))
	if ep.exports == nil || !strings.HasSuffix(name, ".xlsx") {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Export not found"))
		return
	}

	var buf bytes.Buffer
	if err := ep.exports.Download(c.Request.Context(), name, &buf); err != nil {
		ep.base.FailWithToast(c, err, core.Failure("Could not download the export"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
