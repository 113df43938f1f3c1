// Package authctx carries the authenticated user through a request context.
//
// The auth middleware stores the resolved user; handlers read it back with a
// type parameter so this package stays independent of the user model.
//
//	ctx = authctx.WithUser(ctx, user)
//	user, ok := authctx.User[*models.User](ctx)
package authctx

import (
	"context"
	"errors"
)

type userKey struct{}

// ErrNoUser is the panic value of MustUser when no user is stored.
var ErrNoUser = errors.New("authctx: no authenticated user in context")

// WithUser stores the authenticated user in the context.
func WithUser[T any](ctx context.Context, user T) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// User returns the authenticated user if one of type T is stored.
func User[T any](ctx context.Context) (T, bool) {
	user, ok := ctx.Value(userKey{}).(T)
	return user, ok
}

// MustUser returns the authenticated user and panics if it is missing.
// Use only behind the authentication middleware.
func MustUser[T any](ctx context.Context) T {
	user, ok := User[T](ctx)
	if !ok {
		panic(ErrNoUser)
	}
	return user
}
