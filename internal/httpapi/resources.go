package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/recordkit/auth/authctx"
	"github.com/kbukum/recordkit/internal/models"
	"github.com/kbukum/recordkit/server"
)

func (a *API) list(c *gin.Context) {
	ctx := c.Request.Context()
	page, err := a.resources.List(ctx, authctx.MustUser[*models.User](ctx), c.Param("resource"), c.Request.URL.Query())
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, page)
}

func (a *API) get(c *gin.Context) {
	ctx := c.Request.Context()
	record, err := a.resources.Get(ctx, authctx.MustUser[*models.User](ctx), c.Param("resource"), c.Param("id"))
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, record)
}

func (a *API) create(c *gin.Context) {
	var body map[string]any
	if err := bindBody(c, &body); err != nil {
		server.RespondWithError(c, err)
		return
	}
	ctx := c.Request.Context()
	record, err := a.resources.Create(ctx, authctx.MustUser[*models.User](ctx), c.Param("resource"), body)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, record)
}

func (a *API) update(c *gin.Context) {
	var body map[string]any
	if err := bindBody(c, &body); err != nil {
		server.RespondWithError(c, err)
		return
	}
	ctx := c.Request.Context()
	record, err := a.resources.Update(ctx, authctx.MustUser[*models.User](ctx), c.Param("resource"), c.Param("id"), body)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, record)
}

func (a *API) remove(c *gin.Context) {
	ctx := c.Request.Context()
	if err := a.resources.Delete(ctx, authctx.MustUser[*models.User](ctx), c.Param("resource"), c.Param("id")); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}
