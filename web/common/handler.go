package common

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	v1 "fieldwork.com/console/api/v1"
	"fieldwork.com/console/core"
	"fieldwork.com/console/infrastructure/communication"
	"fieldwork.com/console/session"
	"fieldwork.com/console/utils"
	"github.com/gin-gonic/gin"
)

// SessionKey is the gin context key holding the request's *session.Session.
const SessionKey = "session"

// Handler carries what every console endpoint needs to reach the backend
// on behalf of the signed-in operator.
type Handler struct {
	APIBaseURL string
	HTTPClient *http.Client
	Sessions   *session.Manager
	Screens    *core.ScreenRegistry
	Notifier   communication.Notifier
	Location   *time.Location
	Now        func() time.Time
}

func GetSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(SessionKey); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return nil
}

// Client returns an API client reading its token from the request's session.
func (h *Handler) Client(c *gin.Context) *v1.Client {
	var tokens v1.TokenSource = v1.StaticToken("")
	if s := GetSession(c); s != nil {
		tokens = s
	}
	return v1.NewClient(h.APIBaseURL, tokens, h.HTTPClient)
}

func (h *Handler) ScreensFor(c *gin.Context) *core.Screens {
	s := GetSession(c)
	if s == nil {
		return core.NewScreens()
	}
	return h.Screens.For(s.ID())
}

// Today is the current calendar day in the console's timezone.
func (h *Handler) Today() time.Time {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	loc := h.Location
	if loc == nil {
		loc = time.Local
	}
	return utils.StartOfDay(now().In(loc))
}

// Fail answers a failed backend call with an error toast. Backend 4xx
// statuses are passed through; anything else becomes 502 and is reported.
func (h *Handler) Fail(c *gin.Context, err error) {
	h.FailWithToast(c, err, core.FromError(err))
}

func (h *Handler) FailWithToast(c *gin.Context, err error, toast core.Toast) {
	status := http.StatusBadGateway
	var apiErr *v1.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		status = apiErr.StatusCode
	}
	if _, ok := core.AsValidationError(err); ok {
		status = http.StatusBadRequest
	}

	if status == http.StatusBadGateway {
		log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		if h.Notifier != nil {
			if nerr := h.Notifier.Error(fmt.Sprintf("console: %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)); nerr != nil {
				log.Printf("[ERROR] notify: %v", nerr)
			}
		}
	}
	c.JSON(status, NewToastResponse(toast))
}

// ParamID reads the :id path parameter, answering 400 when it is not a
// number.
func ParamID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, NewErrorResponse("Invalid id"))
		return 0, false
	}
	return id, true
}
