package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/recordkit/errors"
	"github.com/kbukum/recordkit/logger"
	"github.com/kbukum/recordkit/server"
	"github.com/kbukum/recordkit/validation"
)

// loginRequest accepts both OAuth2 password form fields and JSON.
type loginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

type resetRequest struct {
	Password string `json:"password"`
}

func (a *API) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		server.RespondWithError(c, errors.InvalidInput("body", "expected username and password"))
		return
	}
	if err := validation.New().
		Required("username", req.Username).
		Required("password", req.Password).
		Validate(); err != nil {
		server.RespondWithError(c, err)
		return
	}

	resp, err := a.flow.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	a.setTokenCookie(c, resp.AccessToken)
	server.RespondOK(c, resp)
}

// setTokenCookie stores the token so browser clients authenticate without
// an Authorization header.
func (a *API) setTokenCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		a.tokens.CookieName(),
		token,
		int(a.cfg.LoginTTL.Seconds()),
		"/",
		"",
		!a.cfg.InsecureCookie,
		true,
	)
}

func (a *API) redeemReset(c *gin.Context) {
	var req resetRequest
	if err := bindBody(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := validation.New().Required("password", req.Password).Validate(); err != nil {
		server.RespondWithError(c, err)
		return
	}

	user, err := a.flow.RedeemReset(c.Request.Context(), c.Param("token"), req.Password)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	a.log.WithContext(c.Request.Context()).Debug("Password reset via API", logger.Fields("user_id", user.ID))
	server.RespondOK(c, user)
}
