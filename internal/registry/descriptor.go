package registry

import (
	"encoding/json"
	stderrors "errors"
	"maps"
	"slices"

	"gorm.io/gorm"

	"github.com/kbukum/recordkit/database/query"
	"github.com/kbukum/recordkit/errors"
	"github.com/kbukum/recordkit/internal/models"
	"github.com/kbukum/recordkit/validation"
)

// WriteHook runs after a request body has been decoded into a record and
// before the record is validated and stored. body is the raw request body.
type WriteHook func(record models.Auditable, body map[string]any) error

// Descriptor describes how the generic controller handles one entity type.
type Descriptor struct {
	// Name is the title-cased resource name used in routes.
	Name string

	// Scopes lists scopes a caller needs for this resource on top of the
	// baseline user scope.
	Scopes []string

	// Query holds the filter and sort allow-lists.
	Query query.Config

	writable    map[string]struct{}
	beforeWrite WriteHook
	newRecord   func() models.Auditable
	list        func(db *gorm.DB, params query.Params) (*query.Result[models.Auditable], error)
}

// Option configures a Descriptor.
type Option func(*Descriptor)

// WithScopes sets additional scopes required to access the resource.
func WithScopes(scopes ...string) Option {
	return func(d *Descriptor) { d.Scopes = append(d.Scopes, scopes...) }
}

// WithFilters adds filterable columns and their value kinds.
func WithFilters(fields map[string]query.Kind) Option {
	return func(d *Descriptor) { maps.Copy(d.Query.Fields, fields) }
}

// WithSort adds sortable columns.
func WithSort(columns ...string) Option {
	return func(d *Descriptor) { d.Query.SortFields = append(d.Query.SortFields, columns...) }
}

// WithWritable sets the body keys accepted on create and update.
func WithWritable(keys ...string) Option {
	return func(d *Descriptor) {
		for _, k := range keys {
			d.writable[k] = struct{}{}
		}
	}
}

// WithBeforeWrite installs a hook that runs on every create and update.
func WithBeforeWrite(hook WriteHook) Option {
	return func(d *Descriptor) { d.beforeWrite = hook }
}

// Entity builds the descriptor for entity type T. The audit columns id,
// created, modified and created_by_id are always filterable and id,
// created and modified are always sortable.
func Entity[T any, PT interface {
	*T
	models.Auditable
}](name string, opts ...Option) *Descriptor {
	d := &Descriptor{
		Name: canonical(name),
		Query: query.Config{
			Fields: map[string]query.Kind{
				models.ColumnID:          query.KindInt,
				"created":                query.KindTime,
				"modified":               query.KindTime,
				models.ColumnCreatedByID: query.KindInt,
			},
			SortFields:  []string{models.ColumnID, "created", "modified"},
			DefaultSort: models.ColumnID,
		},
		writable: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.newRecord = func() models.Auditable { return PT(new(T)) }
	d.list = func(db *gorm.DB, params query.Params) (*query.Result[models.Auditable], error) {
		res, err := query.ApplyToGorm[T](db, params, d.Query)
		if err != nil {
			return nil, err
		}
		items := make([]models.Auditable, len(res.Items))
		for i := range res.Items {
			items[i] = PT(&res.Items[i])
		}
		return &query.Result[models.Auditable]{Items: items, Total: res.Total, Page: res.Page, Limit: res.Limit}, nil
	}
	return d
}

// New returns a fresh zero record of the entity type.
func (d *Descriptor) New() models.Auditable {
	return d.newRecord()
}

// List runs params against db, which already carries the caller's scope.
func (d *Descriptor) List(db *gorm.DB, params query.Params) (*query.Result[models.Auditable], error) {
	return d.list(db, params)
}

// Writable returns the accepted body keys, sorted.
func (d *Descriptor) Writable() []string {
	return slices.Sorted(maps.Keys(d.writable))
}

// Decode checks that every key of body is writable and applies body onto
// record. Keys absent from body leave the record untouched.
func (d *Descriptor) Decode(record models.Auditable, body map[string]any) error {
	for _, key := range slices.Sorted(maps.Keys(body)) {
		if _, ok := d.writable[key]; !ok {
			return errors.InvalidInput(key, "is not a writable field")
		}
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return errors.InvalidInput("body", "is not valid JSON")
	}
	if err := json.Unmarshal(raw, record); err != nil {
		var typeErr *json.UnmarshalTypeError
		if stderrors.As(err, &typeErr) && typeErr.Field != "" {
			return errors.InvalidInput(typeErr.Field, "has the wrong type")
		}
		return errors.InvalidInput("body", err.Error())
	}

	if d.beforeWrite != nil {
		return d.beforeWrite(record, body)
	}
	return nil
}

// Validate checks record against its validate tags.
func (d *Descriptor) Validate(record models.Auditable) error {
	return validation.Validate(record)
}
