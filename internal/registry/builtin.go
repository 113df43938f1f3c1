package registry

import (
	stderrors "errors"

	"github.com/kbukum/recordkit/auth/password"
	"github.com/kbukum/recordkit/database/query"
	"github.com/kbukum/recordkit/errors"
	"github.com/kbukum/recordkit/internal/models"
)

// Builtin returns the frozen registry of the entities shipped with the
// service. hasher stores the password supplied when users are written.
func Builtin(hasher password.Hasher) *Registry {
	return New().
		MustRegister(Entity[models.User]("User",
			WithScopes(models.ScopeAdmin),
			WithFilters(map[string]query.Kind{
				"email":       query.KindString,
				"first_name":  query.KindString,
				"last_name":   query.KindString,
				"is_disabled": query.KindBool,
				"last_login":  query.KindTime,
			}),
			WithSort("email", "last_name", "last_login"),
			WithWritable("email", "first_name", "last_name", "is_disabled", "scopes", "password"),
			WithBeforeWrite(userPassword(hasher)),
		)).
		MustRegister(Entity[models.Note]("Note",
			WithFilters(map[string]query.Kind{
				"title":  query.KindString,
				"body":   query.KindString,
				"pinned": query.KindBool,
			}),
			WithSort("title"),
			WithWritable("title", "body", "pinned"),
		)).
		MustRegister(Entity[models.Task]("Task",
			WithFilters(map[string]query.Kind{
				"title":       query.KindString,
				"description": query.KindString,
				"done":        query.KindBool,
				"due_at":      query.KindTime,
				"priority":    query.KindInt,
			}),
			WithSort("title", "due_at", "priority"),
			WithWritable("title", "description", "done", "due_at", "priority"),
		)).
		Freeze()
}

// userPassword hashes a plaintext "password" key from the body into the
// user's password hash.
func userPassword(hasher password.Hasher) WriteHook {
	return func(record models.Auditable, body map[string]any) error {
		raw, ok := body["password"]
		if !ok {
			return nil
		}
		user, ok := record.(*models.User)
		if !ok {
			return nil
		}
		plain, ok := raw.(string)
		if !ok {
			return errors.InvalidInput("password", "must be a string")
		}
		hash, err := hasher.Hash(plain)
		switch {
		case stderrors.Is(err, password.ErrTooShort), stderrors.Is(err, password.ErrTooLong):
			return errors.InvalidInput("password", err.Error())
		case err != nil:
			return errors.Internal(err)
		}
		user.PasswordHash = &hash
		return nil
	}
}
