package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/recordkit/auth/authctx"
	"github.com/kbukum/recordkit/errors"
	"github.com/kbukum/recordkit/logger"
)

// Authenticator resolves a raw bearer token to an authorized user holding
// every required scope.
type Authenticator[T any] interface {
	Authenticate(ctx context.Context, token string, required ...string) (T, error)
}

// AuthConfig configures the authentication middleware.
type AuthConfig[T any] struct {
	// Authenticator validates the token and loads the user.
	Authenticator Authenticator[T]
	// Extract pulls the raw token from the request.
	Extract func(*http.Request) string
	// Scopes lists the scopes every request must carry.
	Scopes []string
	// UserID returns the id logged for an authenticated user. Optional.
	UserID func(T) uint
}

// Auth returns a Gin middleware that authenticates the request's bearer
// token. The user is stored in the request context for authctx.User;
// failures abort with the authenticator's error body.
func Auth[T any](cfg AuthConfig[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		user, err := cfg.Authenticator.Authenticate(ctx, cfg.Extract(c.Request), cfg.Scopes...)
		if err != nil {
			appErr := errors.From(err)
			if appErr.HTTPStatus == http.StatusUnauthorized {
				c.Header("WWW-Authenticate", "Bearer")
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}

		ctx = authctx.WithUser(ctx, user)
		if cfg.UserID != nil {
			ctx = logger.ContextWithUserID(ctx, cfg.UserID(user))
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
