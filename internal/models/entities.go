package models

import "time"

// Note is a short titled text owned by its creator.
type Note struct {
	AuditableRecord
	Title  string `gorm:"size:255;not null" json:"title" validate:"required,max=255"`
	Body   string `gorm:"type:text" json:"body"`
	Pinned bool   `gorm:"not null;default:false" json:"pinned"`
}

// Task is a unit of work with an optional due date.
type Task struct {
	AuditableRecord
	Title       string     `gorm:"size:255;not null" json:"title" validate:"required,max=255"`
	Description string     `gorm:"type:text" json:"description"`
	Done        bool       `gorm:"not null;default:false" json:"done"`
	DueAt       *time.Time `json:"due_at"`
	Priority    int        `gorm:"not null;default:0" json:"priority" validate:"min=0,max=5"`
}

// All returns a zero value of every entity in migration order.
func All() []any {
	return []any{&User{}, &Note{}, &Task{}}
}
