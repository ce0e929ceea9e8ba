package auth

import (
	"log"
	"net/http"

	v1 "fieldwork.com/console/api/v1"
	"fieldwork.com/console/core"
	"fieldwork.com/console/security"
	"fieldwork.com/console/session"
	"fieldwork.com/console/web/common"
	"fieldwork.com/console/web/middlewares"
	"github.com/gin-gonic/gin"
)

const HomePath = "/console/dashboard"

var reasonMessages = map[string]string{
	security.ReasonUnauthorized:   "Please log in to continue",
	security.ReasonSessionExpired: "Your session has expired, please log in again",
	security.ReasonInvalidToken:   "Your session is invalid, please log in again",
}

type Endpoint struct {
	base *common.Handler
}

// Register mounts the public login and logout routes on r and the
// profile screen on protected.
func Register(r gin.IRoutes, protected *gin.RouterGroup, base *common.Handler) {
	endpoint := &Endpoint{base: base}
	r.GET("/login", endpoint.LoginView)
	r.POST("/login", endpoint.Login)
	r.POST("/logout", endpoint.Logout)

	protected.GET("/profile", endpoint.Profile)
	protected.PATCH("/profile", endpoint.UpdateProfile)
}

// LoginView explains why the operator landed on the login screen.
func (ep *Endpoint) LoginView(c *gin.Context) {
	reason := c.Query("error")
	res := gin.H{
		"authenticated": common.GetSession(c).Authenticated(),
		"error":         reason,
	}
	if message, ok := reasonMessages[reason]; ok {
		res["message"] = message
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(res))
}

func (ep *Endpoint) Login(c *gin.Context) {
	var form core.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, common.NewToastResponse(core.Failure(common.FormatBindingError(err))))
		return
	}
	if err := form.Validate(); err != nil {
		ep.base.Fail(c, err)
		return
	}

	resp, err := v1.NewClient(ep.base.APIBaseURL, v1.StaticToken(""), ep.base.HTTPClient).
		Auth.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		ep.base.Fail(c, err)
		return
	}

	// credentials always land in a fresh session id
	previous := common.GetSession(c)
	s := ep.base.Sessions.New()
	s.SetToken(resp.Token)
	s.SetUser(profileFrom(resp.User))
	if err := ep.base.Sessions.Save(c.Request.Context(), s); err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	if previous != nil {
		if err := ep.base.Sessions.Destroy(c.Request.Context(), previous); err != nil {
			log.Printf("[ERROR] destroy session: %v", err)
		}
		ep.base.Screens.Drop(previous.ID())
	}
	c.Set(common.SessionKey, s)
	middlewares.SetSessionCookie(c, s.ID())

	res := common.NewSuccessResponse(gin.H{
		"user":     s.User(),
		"redirect": HomePath,
	})
	c.JSON(http.StatusOK, res.WithToast(core.Success("Welcome back, "+resp.User.Name)))
}

// Logout tells the backend, then forgets the session whatever it answered.
func (ep *Endpoint) Logout(c *gin.Context) {
	s := common.GetSession(c)
	if s.Authenticated() {
		if err := ep.base.Client(c).Auth.Logout(c.Request.Context()); err != nil {
			log.Printf("[WARN] backend logout: %v", err)
		}
	}

	if err := ep.base.Sessions.Destroy(c.Request.Context(), s); err != nil {
		log.Printf("[ERROR] destroy session: %v", err)
	}
	ep.base.Screens.Drop(s.ID())
	middlewares.ClearSessionCookie(c)

	res := common.NewSuccessResponse(gin.H{"redirect": middlewares.LoginPath})
	c.JSON(http.StatusOK, res.WithToast(core.Success("You have been logged out")))
}

// Profile shows the signed-in user and when their token runs out.
func (ep *Endpoint) Profile(c *gin.Context) {
	res := gin.H{"user": common.GetSession(c).User()}
	if claims := middlewares.Claims(c); claims != nil && claims.ExpiresAt != nil {
		res["expires_at"] = claims.ExpiresAt.Time
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(res))
}

func (ep *Endpoint) UpdateProfile(c *gin.Context) {
	var form core.ProfileForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, common.NewToastResponse(core.Failure(common.FormatBindingError(err))))
		return
	}
	if err := form.Validate(); err != nil {
		ep.base.Fail(c, err)
		return
	}

	s := common.GetSession(c)
	updated, err := ep.base.Client(c).Auth.UpdateProfile(c.Request.Context(), form.Input())
	if err != nil {
		ep.base.Fail(c, err)
		return
	}

	profile := profileFrom(*updated)
	// the update endpoint may omit permissions
	if current := s.User(); profile.Permissions == nil && current != nil {
		profile.Permissions = current.Permissions
	}
	s.SetUser(profile)
	if err := ep.base.Sessions.Save(c.Request.Context(), s); err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(s.User()).WithToast(core.Success("Profile updated successfully")))
}

func profileFrom(u v1.ProfileDTO) *session.Profile {
	return &session.Profile{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		Permissions: u.Permissions,
	}
}
