package model

import (
	"time"
)

// DeletedItemType tags what kind of record a trash entry wraps
type DeletedItemType string

const (
	DeletedTypeTask DeletedItemType = "task"
	DeletedTypeList DeletedItemType = "list"
)

// RecentlyDeletedItem holds a copy of a deleted task or list so it can be
// restored within the retention window. Exactly one of Task/List is set,
// matching Type. An entry never coexists with a live record of the same id;
// restore removes it here and reinserts the copy into the live collection.
type RecentlyDeletedItem struct {
	ID         string          `json:"id"`
	Type       DeletedItemType `json:"type"`
	Task       *Task           `json:"task,omitempty"`
	List       *UserList       `json:"list,omitempty"`
	FromListID string          `json:"fromListId,omitempty"` // Owning list at deletion time, tasks only
	DeletedAt  time.Time       `json:"deletedAt"`
}

// Clone returns a deep copy of the trash entry.
func (r RecentlyDeletedItem) Clone() RecentlyDeletedItem {
	c := r
	if r.Task != nil {
		t := r.Task.Clone()
		c.Task = &t
	}
	if r.List != nil {
		l := *r.List
		c.List = &l
	}
	return c
}
