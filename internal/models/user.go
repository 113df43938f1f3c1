package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User is an account that can authenticate against the API. The password
// hash and reset token never leave the service: both are excluded from the
// JSON encoding, which is the public projection of a user.
type User struct {
	AuditableRecord
	Email               string     `gorm:"size:255;uniqueIndex;not null" json:"email" validate:"required,email,max=255"`
	FirstName           *string    `gorm:"size:255" json:"first_name" validate:"omitempty,max=255"`
	LastName            *string    `gorm:"size:255" json:"last_name" validate:"omitempty,max=255"`
	PasswordHash        *string    `gorm:"column:password;size:255" json:"-"`
	IsDisabled          bool       `gorm:"not null;default:false" json:"is_disabled"`
	ResetToken          *string    `gorm:"size:255;index" json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`
	Scopes              Scopes     `gorm:"size:255" json:"scopes" validate:"dive,oneof=admin user"`
	LastLogin           *time.Time `json:"last_login"`
}

// HasScope reports whether the user was granted scope.
func (u *User) HasScope(scope string) bool {
	return u.Scopes.Has(scope)
}

// IsAdmin reports whether the user has the admin scope.
func (u *User) IsAdmin() bool {
	return u.HasScope(ScopeAdmin)
}

// ResetTokenValid reports whether the stored reset token may be redeemed at
// now. A nil expiry never expires.
func (u *User) ResetTokenValid(now time.Time) bool {
	if u.ResetToken == nil || *u.ResetToken == "" {
		return false
	}
	return u.ResetTokenExpiresAt == nil || now.Before(*u.ResetTokenExpiresAt)
}

// BeforeSave normalizes the email so lookups can match exactly.
func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	return nil
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
