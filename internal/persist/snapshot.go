package persist

import (
	"time"

	"github.com/dori/mindlist/internal/model"
)

// SnapshotVersion is bumped when snapshot document shapes change.
const SnapshotVersion = 1

// AppSettings is the settings subset carried inside the app-data document.
type AppSettings struct {
	Notifications         model.NotificationSettings `json:"notifications"`
	ThemeColor            string                     `json:"themeColor,omitempty"`
	DailyProductivityGoal int                        `json:"dailyProductivityGoal,omitempty"`
}

// AppData is the main persisted document, and the blob shape uploaded to the
// cloud drive. Timestamps serialize as RFC3339 strings; decoding restores
// them to time values at this boundary.
type AppData struct {
	User         *model.User      `json:"user,omitempty"`
	Tasks        []model.Task     `json:"tasks"`
	Lists        []model.UserList `json:"lists"`
	Settings     AppSettings      `json:"settings"`
	LastSyncTime *time.Time       `json:"lastSyncTime,omitempty"`
	Version      int              `json:"version"`
}

// GuestData is the guest-mode snapshot, written on every relevant change
// while no user is signed in.
type GuestData struct {
	Tasks                 []model.Task                `json:"tasks"`
	UserLists             []model.UserList            `json:"userLists"`
	RecentlyDeleted       []model.RecentlyDeletedItem `json:"recentlyDeleted,omitempty"`
	Gamification          model.GamificationStats     `json:"gamification"`
	Streak                int                         `json:"streak"`
	BestStreak            int                         `json:"bestStreak"`
	LastBrokenStreak      int                         `json:"lastBrokenStreak,omitempty"`
	LastActivityDate      *time.Time                  `json:"lastActivityDate,omitempty"`
	ProductivityPoints    int                         `json:"productivityPoints"`
	DailyProductivityGoal int                         `json:"dailyProductivityGoal"`
	LastProductivityDate  *time.Time                  `json:"lastProductivityDate,omitempty"`
	Notifications         model.NotificationSettings  `json:"notificationSettings"`
	ThemeColor            string                      `json:"themeColor,omitempty"`
	LastSaved             time.Time                   `json:"lastSaved"`
	Version               int                         `json:"version"`
}

// NewAppData builds the app-data document from a state snapshot.
func NewAppData(s model.AppState, lastSync *time.Time) AppData {
	return AppData{
		User:  s.User,
		Tasks: s.Tasks,
		Lists: s.Lists,
		Settings: AppSettings{
			Notifications:         s.Notifications,
			ThemeColor:            s.ThemeColor,
			DailyProductivityGoal: s.DailyProductivityGoal,
		},
		LastSyncTime: lastSync,
		Version:      SnapshotVersion,
	}
}

// NewGuestData builds the guest snapshot from a state snapshot.
func NewGuestData(s model.AppState, now time.Time) GuestData {
	return GuestData{
		Tasks:                 s.Tasks,
		UserLists:             s.Lists,
		RecentlyDeleted:       s.RecentlyDeleted,
		Gamification:          s.Gamification,
		Streak:                s.Streak,
		BestStreak:            s.BestStreak,
		LastBrokenStreak:      s.LastBrokenStreak,
		LastActivityDate:      s.LastActivityDate,
		ProductivityPoints:    s.ProductivityPoints,
		DailyProductivityGoal: s.DailyProductivityGoal,
		LastProductivityDate:  s.LastProductivityDate,
		Notifications:         s.Notifications,
		ThemeColor:            s.ThemeColor,
		LastSaved:             now,
		Version:               SnapshotVersion,
	}
}

// State rebuilds an application state from the guest snapshot.
func (g GuestData) State() model.AppState {
	s := model.NewState()
	if g.Tasks != nil {
		s.Tasks = g.Tasks
	}
	if g.UserLists != nil {
		s.Lists = g.UserLists
	}
	s.RecentlyDeleted = g.RecentlyDeleted
	s.Gamification = g.Gamification
	s.Streak = g.Streak
	s.BestStreak = g.BestStreak
	s.LastBrokenStreak = g.LastBrokenStreak
	s.LastActivityDate = g.LastActivityDate
	s.ProductivityPoints = g.ProductivityPoints
	if g.DailyProductivityGoal > 0 {
		s.DailyProductivityGoal = g.DailyProductivityGoal
	}
	s.LastProductivityDate = g.LastProductivityDate
	s.Notifications = g.Notifications
	s.ThemeColor = g.ThemeColor
	return s
}

// State rebuilds an application state from the app-data document.
func (d AppData) State() model.AppState {
	s := model.NewState()
	s.User = d.User
	if d.Tasks != nil {
		s.Tasks = d.Tasks
	}
	if d.Lists != nil {
		s.Lists = d.Lists
	}
	s.Notifications = d.Settings.Notifications
	s.ThemeColor = d.Settings.ThemeColor
	if d.Settings.DailyProductivityGoal > 0 {
		s.DailyProductivityGoal = d.Settings.DailyProductivityGoal
	}
	return s
}
