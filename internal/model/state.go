package model

import (
	"time"
)

// View identifies which screen/filter the client is showing
type View string

const (
	ViewTasks     View = "tasks"
	ViewMyDay     View = "myday"
	ViewImportant View = "important"
	ViewCompleted View = "completed"
	ViewTrash     View = "trash"
	ViewSettings  View = "settings"
)

// User is the authenticated account. A nil user means guest mode.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationSettings controls which reminders are delivered
type NotificationSettings struct {
	Enabled       bool `json:"enabled"`
	TaskReminders bool `json:"taskReminders"`
	DailyDigest   bool `json:"dailyDigest"`
	StreakAlerts  bool `json:"streakAlerts"`
}

// DefaultNotificationSettings returns the out-of-the-box settings
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		Enabled:       true,
		TaskReminders: true,
		DailyDigest:   false,
		StreakAlerts:  true,
	}
}

// AppState is the aggregate application state. It is owned by the store and
// mutated only through dispatched actions; everything else sees copies.
type AppState struct {
	User            *User                 `json:"user,omitempty"`
	Tasks           []Task                `json:"tasks"`
	Lists           []UserList            `json:"lists"`
	RecentlyDeleted []RecentlyDeletedItem `json:"recentlyDeleted,omitempty"`
	Gamification    GamificationStats     `json:"gamification"`

	Streak           int        `json:"streak"`
	BestStreak       int        `json:"bestStreak"`
	LastBrokenStreak int        `json:"lastBrokenStreak,omitempty"` // Value of the streak when it last broke, for paid repair
	LastActivityDate *time.Time `json:"lastActivityDate,omitempty"`

	ProductivityPoints    int        `json:"productivityPoints"`
	DailyProductivityGoal int        `json:"dailyProductivityGoal"`
	LastProductivityDate  *time.Time `json:"lastProductivityDate,omitempty"`

	View           View   `json:"view,omitempty"`
	SelectedListID string `json:"selectedListId,omitempty"`
	ShowTaskEditor bool   `json:"-"`
	ShowAddList    bool   `json:"-"`

	Notifications NotificationSettings `json:"notifications"`
	ThemeColor    string               `json:"themeColor,omitempty"`
}

// NewState returns an initialized empty guest state.
func NewState() AppState {
	return AppState{
		Tasks: []Task{},
		Lists: []UserList{},
		Gamification: GamificationStats{
			Level:         1,
			XPToNextLevel: XPPerLevel,
		},
		DailyProductivityGoal: 100,
		View:                  ViewTasks,
		Notifications:         DefaultNotificationSettings(),
	}
}

// TaskByID returns the live task with the given id, or nil.
func (s *AppState) TaskByID(id string) *Task {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return &s.Tasks[i]
		}
	}
	return nil
}

// ListByID returns the live list with the given id, or nil.
func (s *AppState) ListByID(id string) *UserList {
	for i := range s.Lists {
		if s.Lists[i].ID == id {
			return &s.Lists[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the state.
func (s AppState) Clone() AppState {
	c := s
	if s.User != nil {
		u := *s.User
		c.User = &u
	}
	c.Tasks = make([]Task, len(s.Tasks))
	for i, t := range s.Tasks {
		c.Tasks[i] = t.Clone()
	}
	c.Lists = make([]UserList, len(s.Lists))
	copy(c.Lists, s.Lists)
	if s.RecentlyDeleted != nil {
		c.RecentlyDeleted = make([]RecentlyDeletedItem, len(s.RecentlyDeleted))
		for i, r := range s.RecentlyDeleted {
			c.RecentlyDeleted[i] = r.Clone()
		}
	}
	c.Gamification = s.Gamification.Clone()
	if s.LastActivityDate != nil {
		d := *s.LastActivityDate
		c.LastActivityDate = &d
	}
	if s.LastProductivityDate != nil {
		d := *s.LastProductivityDate
		c.LastProductivityDate = &d
	}
	return c
}
