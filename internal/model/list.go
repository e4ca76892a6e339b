package model

import (
	"time"
)

// UserList represents a named task list/category
type UserList struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	Icon      string    `json:"icon,omitempty"`
	Deleted   bool      `json:"deleted,omitempty"` // Soft-delete flag
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsInbox returns true if this is the default inbox list
func (l *UserList) IsInbox() bool {
	return l.ID == "inbox"
}
