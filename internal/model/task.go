package model

import (
	"time"
)

// Priority represents task priority level
type Priority string

const (
	PriorityNone      Priority = "none"
	PriorityImportant Priority = "important"
	PriorityUrgent    Priority = "urgent"
)

// Valid reports whether p is one of the known priority values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityNone, PriorityImportant, PriorityUrgent:
		return true
	}
	return false
}

// Task represents a todo item
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Note        string     `json:"note,omitempty"`
	IsCompleted bool       `json:"isCompleted"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Priority    Priority   `json:"priority"`
	ListID      string     `json:"listId"`
	TemplateID  *string    `json:"templateId,omitempty"` // Recurring-task template linkage
	Deleted     bool       `json:"deleted,omitempty"`    // Soft-delete flag, record stays in place
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsOverdue returns true if the task is past its due date
func (t *Task) IsOverdue() bool {
	if t.DueDate == nil || t.IsCompleted {
		return false
	}
	return time.Now().After(*t.DueDate)
}

// IsDueToday returns true if the task is due today
func (t *Task) IsDueToday() bool {
	if t.DueDate == nil {
		return false
	}
	now := time.Now()
	return t.DueDate.Year() == now.Year() &&
		t.DueDate.YearDay() == now.YearDay()
}

// DueWithin returns true if the task is incomplete and due inside the window
func (t *Task) DueWithin(window time.Duration) bool {
	if t.DueDate == nil || t.IsCompleted || t.Deleted {
		return false
	}
	until := time.Until(*t.DueDate)
	return until >= 0 && until <= window
}

// PriorityWeight returns a numeric weight for sorting by priority
func (t *Task) PriorityWeight() int {
	switch t.Priority {
	case PriorityUrgent:
		return 2
	case PriorityImportant:
		return 1
	default:
		return 0
	}
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	c := t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.TemplateID != nil {
		id := *t.TemplateID
		c.TemplateID = &id
	}
	return c
}
