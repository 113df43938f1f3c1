// Package access restricts queries and records to what a caller may see.
//
// Administrators see every live row. Everyone else sees only rows they
// created. Soft-deleted rows are hidden from all callers.
package access

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kbukum/recordkit/internal/models"
)

// ScopeQuery narrows db to the rows user may read.
func ScopeQuery(db *gorm.DB, user *models.User) *gorm.DB {
	db = db.Where(clause.Eq{Column: clause.Column{Name: models.ColumnIsDeleted}, Value: false})
	if user.IsAdmin() {
		return db
	}
	return db.Where(clause.Eq{Column: clause.Column{Name: models.ColumnCreatedByID}, Value: user.ID})
}

// AuthorizeRecord reports whether user may act on record.
func AuthorizeRecord(record models.Auditable, user *models.User) bool {
	if user.IsAdmin() {
		return true
	}
	return record.Audit().CreatedByUser(user.ID)
}
