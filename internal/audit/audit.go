// Package audit stamps creator and modifier identity on records.
package audit

import "github.com/kbukum/recordkit/internal/models"

// StampCreate records actorID as creator, unless a creator is already set,
// and always as modifier.
func StampCreate(record models.Auditable, actorID uint) {
	a := record.Audit()
	if a.CreatedByID == nil {
		a.CreatedByID = &actorID
	}
	a.ModifiedByID = &actorID
}

// StampUpdate records actorID as modifier. The creator is left untouched.
func StampUpdate(record models.Auditable, actorID uint) {
	record.Audit().ModifiedByID = &actorID
}
