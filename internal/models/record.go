// Package models defines the persisted entities served by the API.
//
// Every entity embeds AuditableRecord, which carries the numeric id, the
// public external id, timestamps, the soft-delete flag and the creator and
// modifier references. Code that operates on any entity goes through the
// Auditable interface rather than the concrete type.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Column names shared by every entity table.
const (
	ColumnID           = "id"
	ColumnExternalID   = "external_id"
	ColumnIsDeleted    = "is_deleted"
	ColumnCreatedByID  = "created_by_id"
	ColumnModifiedByID = "modified_by_id"
)

// AuditableRecord contains the fields common to all entities.
type AuditableRecord struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ExternalID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"external_id"`
	Created      time.Time `gorm:"autoCreateTime;not null" json:"created"`
	Modified     time.Time `gorm:"autoUpdateTime;not null" json:"modified"`
	IsDeleted    bool      `gorm:"not null;default:false;index" json:"is_deleted"`
	CreatedByID  *uint     `gorm:"index" json:"created_by_id"`
	CreatedBy    *User     `gorm:"foreignKey:CreatedByID" json:"-"`
	ModifiedByID *uint     `json:"modified_by_id"`
	ModifiedBy   *User     `gorm:"foreignKey:ModifiedByID" json:"-"`
}

// Auditable is implemented by every entity through its embedded AuditableRecord.
type Auditable interface {
	Audit() *AuditableRecord
}

// Audit returns the embedded audit fields.
func (r *AuditableRecord) Audit() *AuditableRecord { return r }

// BeforeCreate assigns an external id if none is set.
func (r *AuditableRecord) BeforeCreate(_ *gorm.DB) error {
	if r.ExternalID == uuid.Nil {
		r.ExternalID = uuid.New()
	}
	return nil
}

// CreatedByUser reports whether the record was created by the given user id.
func (r *AuditableRecord) CreatedByUser(id uint) bool {
	return r.CreatedByID != nil && *r.CreatedByID == id
}
