// Package httpapi exposes the record and authentication operations over HTTP.
//
// All routes live under /api/v1:
//
//	GET    /api/v1                       health
//	POST   /api/v1/token                 login
//	POST   /api/v1/token/:token          redeem a reset token
//	GET    /api/v1/:resource             list
//	POST   /api/v1/:resource             create
//	GET    /api/v1/:resource/:id         get
//	PUT    /api/v1/:resource/:id         partial update
//	DELETE /api/v1/:resource/:id         soft delete
package httpapi

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/recordkit/auth"
	"github.com/kbukum/recordkit/auth/jwt"
	"github.com/kbukum/recordkit/errors"
	"github.com/kbukum/recordkit/internal/authflow"
	"github.com/kbukum/recordkit/internal/identity"
	"github.com/kbukum/recordkit/internal/models"
	"github.com/kbukum/recordkit/internal/resource"
	"github.com/kbukum/recordkit/logger"
	"github.com/kbukum/recordkit/server/endpoint"
	"github.com/kbukum/recordkit/server/middleware"
)

// BasePath is the prefix of every API route.
const BasePath = "/api/v1"

// API holds the HTTP handlers.
type API struct {
	resources *resource.Controller
	flow      *authflow.Service
	identity  *identity.Resolver
	tokens    *jwt.Service
	cfg       auth.Config
	log       *logger.Logger

	loginRateLimit int
}

// Option configures an API.
type Option func(*API)

// WithLoginRateLimit throttles login attempts per client IP and minute.
// Zero disables throttling.
func WithLoginRateLimit(perMinute int) Option {
	return func(a *API) { a.loginRateLimit = perMinute }
}

// New creates the API handlers.
func New(
	resources *resource.Controller,
	flow *authflow.Service,
	resolver *identity.Resolver,
	tokens *jwt.Service,
	cfg auth.Config,
	log *logger.Logger,
	opts ...Option,
) *API {
	a := &API{
		resources: resources,
		flow:      flow,
		identity:  resolver,
		tokens:    tokens,
		cfg:       cfg,
		log:       log.WithComponent("httpapi"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register mounts every route on r.
func (a *API) Register(r gin.IRouter) {
	api := r.Group(BasePath)
	api.GET("", endpoint.Message("ok"))

	login := []gin.HandlerFunc{}
	if a.loginRateLimit > 0 {
		login = append(login, middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerMinute: a.loginRateLimit,
		}))
	}
	api.POST("/token", append(login, a.login)...)
	api.POST("/token/:token", a.redeemReset)

	records := api.Group("", middleware.Auth(middleware.AuthConfig[*models.User]{
		Authenticator: a.identity,
		Extract:       a.tokens.Extract,
		Scopes:        []string{models.ScopeUser},
		UserID:        func(u *models.User) uint { return u.ID },
	}))
	records.GET("/:resource", a.list)
	records.POST("/:resource", a.create)
	records.GET("/:resource/:id", a.get)
	records.PUT("/:resource/:id", a.update)
	records.DELETE("/:resource/:id", a.remove)
}

// bindBody decodes a JSON request body into dst.
func bindBody(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.New(errors.ErrCodeInvalidInput, "Request body too large", http.StatusRequestEntityTooLarge)
		}
		return errors.InvalidInput("body", "must be a JSON object")
	}
	return nil
}
