// Package resource implements list, get, create, update and soft delete
// over any registered entity.
//
// Every operation resolves the entity descriptor by name, checks the
// descriptor's extra scopes, and then works through the access policy:
// reads are narrowed to the caller's rows and live records, writes are
// stamped with the caller's id. Update and delete load, authorize, mutate
// and save inside one transaction.
package resource

import (
	"context"
	"net/url"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kbukum/recordkit/database"
	"github.com/kbukum/recordkit/database/query"
	"github.com/kbukum/recordkit/errors"
	"github.com/kbukum/recordkit/internal/access"
	"github.com/kbukum/recordkit/internal/audit"
	"github.com/kbukum/recordkit/internal/identity"
	"github.com/kbukum/recordkit/internal/models"
	"github.com/kbukum/recordkit/internal/registry"
	"github.com/kbukum/recordkit/logger"
	"github.com/kbukum/recordkit/observability"
)

// Page is one page of records of a single entity type.
type Page = query.Result[models.Auditable]

// Controller serves the generic record operations.
type Controller struct {
	db       *database.DB
	registry *registry.Registry
	log      *logger.Logger
}

// NewController creates a controller over db for the registered entities.
func NewController(db *database.DB, reg *registry.Registry, log *logger.Logger) *Controller {
	return &Controller{db: db, registry: reg, log: log.WithComponent("resource")}
}

// List returns one page of the records of resource that user may read.
// values carries page, limit, sort, sortDir and q.
func (c *Controller) List(ctx context.Context, user *models.User, resource string, values url.Values) (page *Page, err error) {
	ctx, op := c.start(ctx, "list", resource)
	defer func() { op.End(err) }()

	d, err := c.resolve(resource, user)
	if err != nil {
		return nil, err
	}
	params, err := query.Parse(values, d.Query)
	if err != nil {
		return nil, err
	}

	page, err = d.List(access.ScopeQuery(c.db.WithContext(ctx), user), params)
	if err != nil {
		return nil, database.FromDatabase(err, d.Name)
	}
	op.SetAttributes(attribute.Int64("result.total", page.Total))
	return page, nil
}

// Get returns the record of resource with externalID. A record that does
// not exist, is deleted, or belongs to someone else is NOT_FOUND.
func (c *Controller) Get(ctx context.Context, user *models.User, resource, externalID string) (record models.Auditable, err error) {
	ctx, op := c.start(ctx, "get", resource)
	defer func() { op.End(err) }()

	d, err := c.resolve(resource, user)
	if err != nil {
		return nil, err
	}
	return c.load(c.db.WithContext(ctx), d, user, externalID)
}

// Create decodes body into a new record of resource, validates it, stamps
// user as creator and modifier and stores it. The stored row is returned.
func (c *Controller) Create(ctx context.Context, user *models.User, resource string, body map[string]any) (record models.Auditable, err error) {
	ctx, op := c.start(ctx, "create", resource)
	defer func() { op.End(err) }()

	d, err := c.resolve(resource, user)
	if err != nil {
		return nil, err
	}

	record = d.New()
	if err := d.Decode(record, body); err != nil {
		return nil, err
	}
	if err := d.Validate(record); err != nil {
		return nil, err
	}
	audit.StampCreate(record, user.ID)

	err = c.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		record, err = reload(tx, d, record)
		return err
	})
	if err != nil {
		return nil, database.FromDatabase(err, d.Name)
	}

	c.log.WithContext(ctx).Info("Record created", logger.Fields(
		"resource", d.Name,
		"external_id", record.Audit().ExternalID.String(),
	))
	return record, nil
}

// Update applies the supplied fields to the record of resource with
// externalID and stamps user as modifier. Unknown or read-only fields are
// rejected before anything is written.
func (c *Controller) Update(ctx context.Context, user *models.User, resource, externalID string, fields map[string]any) (record models.Auditable, err error) {
	ctx, op := c.start(ctx, "update", resource)
	defer func() { op.End(err) }()

	d, err := c.resolve(resource, user)
	if err != nil {
		return nil, err
	}

	err = c.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		existing, err := c.load(tx, d, user, externalID)
		if err != nil {
			return err
		}
		if err := d.Decode(existing, fields); err != nil {
			return err
		}
		if err := d.Validate(existing); err != nil {
			return err
		}
		audit.StampUpdate(existing, user.ID)

		if err := tx.Save(existing).Error; err != nil {
			return err
		}
		record, err = reload(tx, d, existing)
		return err
	})
	if err != nil {
		return nil, database.FromDatabase(err, d.Name)
	}

	c.log.WithContext(ctx).Info("Record updated", logger.Fields(
		"resource", d.Name,
		"external_id", externalID,
		"fields", len(fields),
	))
	return record, nil
}

// Delete soft-deletes the record of resource with externalID. The row stays
// in the table and disappears from every later read.
func (c *Controller) Delete(ctx context.Context, user *models.User, resource, externalID string) (err error) {
	ctx, op := c.start(ctx, "delete", resource)
	defer func() { op.End(err) }()

	d, err := c.resolve(resource, user)
	if err != nil {
		return err
	}

	err = c.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		record, err := c.load(tx, d, user, externalID)
		if err != nil {
			return err
		}
		record.Audit().IsDeleted = true
		audit.StampUpdate(record, user.ID)
		return tx.Save(record).Error
	})
	if err != nil {
		return database.FromDatabase(err, d.Name)
	}

	c.log.WithContext(ctx).Info("Record deleted", logger.Fields(
		"resource", d.Name,
		"external_id", externalID,
	))
	return nil
}

func (c *Controller) start(ctx context.Context, name, resource string) (context.Context, *observability.Operation) {
	return observability.Start(ctx, "resource", name, attribute.String(observability.AttrResource, resource))
}

// resolve finds the descriptor and checks the scopes it requires beyond
// the baseline user scope.
func (c *Controller) resolve(resource string, user *models.User) (*registry.Descriptor, error) {
	d, err := c.registry.Resolve(resource)
	if err != nil {
		return nil, err
	}
	if err := identity.RequireScopes(user, d.Scopes...); err != nil {
		return nil, err
	}
	return d, nil
}

// load fetches the live record with externalID that user may act on.
func (c *Controller) load(db *gorm.DB, d *registry.Descriptor, user *models.User, externalID string) (models.Auditable, error) {
	id, err := uuid.Parse(externalID)
	if err != nil {
		return nil, errors.NotFound(d.Name)
	}

	record := d.New()
	err = access.ScopeQuery(db, user).
		Where(clause.Eq{Column: clause.Column{Name: models.ColumnExternalID}, Value: id}).
		Take(record).Error
	if err != nil {
		return nil, database.FromDatabase(err, d.Name)
	}
	if !access.AuthorizeRecord(record, user) {
		return nil, errors.NotFound(d.Name)
	}
	return record, nil
}

// reload reads record back by primary key so server-computed columns are current.
func reload(tx *gorm.DB, d *registry.Descriptor, record models.Auditable) (models.Auditable, error) {
	fresh := d.New()
	err := tx.Where(clause.Eq{Column: clause.Column{Name: models.ColumnID}, Value: record.Audit().ID}).Take(fresh).Error
	return fresh, err
}
