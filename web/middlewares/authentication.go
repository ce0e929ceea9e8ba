package middlewares

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fieldwork.com/console/security"
	"fieldwork.com/console/session"
	"fieldwork.com/console/web/common"
	"github.com/gin-gonic/gin"
)

const (
	SessionCookie = "console_session"
	LoginPath     = "/login"
	ClaimsKey     = "claims"
)

// SetSessionCookie points the browser at session id.
func SetSessionCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, 0, "/", "", false, true)
}

func ClearSessionCookie(c *gin.Context) {
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
}

// Claims returns the token claims Guard accepted for this request.
func Claims(c *gin.Context) *security.IdentityClaims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*security.IdentityClaims); ok {
			return claims
		}
	}
	return nil
}

// Sessions attaches the operator's session to the request, starting a new
// one when the cookie is missing or points at nothing.
func Sessions(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(SessionCookie)

		s, err := manager.Load(c.Request.Context(), id)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				log.Printf("[ERROR] load session: %v", err)
			}
			s = manager.New()
			SetSessionCookie(c, s.ID())
		}

		c.Set(common.SessionKey, s)
		c.Next()
	}
}

// LoginLocation is where a rejected request is sent.
func LoginLocation(reason string) string {
	return LoginPath + "?error=" + url.QueryEscape(reason)
}

func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

// Guard lets a request through only with an unexpired token. Expired and
// undecodable tokens are cleared from the session before redirecting;
// a missing token has nothing to clear.
func Guard(manager *session.Manager, now func() time.Time) gin.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(c *gin.Context) {
		s := common.GetSession(c)
		token := ""
		if s != nil {
			token = s.Token()
		}

		decision := security.Evaluate(token, now())
		if decision.Allowed() {
			c.Set(ClaimsKey, decision.Claims)
			c.Next()
			return
		}

		if decision.State == security.StateInvalid && s != nil {
			if err := manager.Invalidate(c.Request.Context(), s, decision.Reason); err != nil {
				log.Printf("[ERROR] %v", err)
			}
		}

		location := LoginLocation(decision.Reason)
		if wantsJSON(c) {
			res := common.NewErrorResponse(decision.Reason)
			res.Redirect = location
			c.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}
		c.Redirect(http.StatusFound, location)
		c.Abort()
	}
}
