package store

import (
	"time"

	"github.com/dori/mindlist/internal/model"
)

// Action is the closed set of state transitions the store understands.
// Each variant is its own struct; Reduce switches exhaustively over them and
// ignores anything it does not recognize.
type Action interface {
	isAction()
}

// Task actions

// AddTask inserts a new task. Missing ID/ListID/Priority are defaulted.
type AddTask struct {
	Task model.Task
}

// TaskUpdates is a patch applied by UpdateTask; nil fields are left alone.
type TaskUpdates struct {
	Title        *string
	Note         *string
	IsCompleted  *bool
	DueDate      *time.Time
	ClearDueDate bool
	Priority     *model.Priority
	ListID       *string
}

// UpdateTask patches an existing task and stamps UpdatedAt.
type UpdateTask struct {
	ID      string
	Updates TaskUpdates
}

// DeleteTask removes a task from the live collection.
type DeleteTask struct {
	ID string
}

// SoftDeleteTask flags a task deleted without removing it.
type SoftDeleteTask struct {
	ID string
}

// ToggleTask flips a task's completion state.
type ToggleTask struct {
	ID string
}

// SetTasks replaces the whole task collection (hydration).
type SetTasks struct {
	Tasks []model.Task
}

// List actions

// AddUserList inserts a new list.
type AddUserList struct {
	List model.UserList
}

// ListUpdates is a patch applied by UpdateUserList.
type ListUpdates struct {
	Name  *string
	Color *string
	Icon  *string
}

// UpdateUserList patches an existing list and stamps UpdatedAt.
type UpdateUserList struct {
	ID      string
	Updates ListUpdates
}

// DeleteUserList removes a list from the live collection.
type DeleteUserList struct {
	ID string
}

// SoftDeleteUserList flags a list deleted without removing it.
type SoftDeleteUserList struct {
	ID string
}

// SetUserLists replaces the whole list collection (hydration).
type SetUserLists struct {
	Lists []model.UserList
}

// Navigation / UI actions

// SetView changes the active view.
type SetView struct {
	View model.View
}

// SelectList changes the selected list.
type SelectList struct {
	ID string
}

// ShowTaskEditor and friends toggle transient UI flags.
type ShowTaskEditor struct{}
type HideTaskEditor struct{}
type ShowAddList struct{}
type HideAddList struct{}

// Recently-deleted actions

// TrashTask atomically moves a task from the live collection into the
// recently-deleted collection.
type TrashTask struct {
	ID string
}

// TrashList atomically moves a list into the recently-deleted collection.
type TrashList struct {
	ID string
}

// AddToRecentlyDeleted wraps an item copy into the trash without touching
// the live collection. Exactly one of Task/List should be set.
type AddToRecentlyDeleted struct {
	Task       *model.Task
	List       *model.UserList
	FromListID string
}

// RestoreFromRecentlyDeleted moves a trash entry back into the live
// collection it came from. No-op when the entry id is unknown.
type RestoreFromRecentlyDeleted struct {
	EntryID string
}

// RemoveFromRecentlyDeleted drops a single trash entry without restoring it.
type RemoveFromRecentlyDeleted struct {
	EntryID string
}

// PermanentlyDelete drops a single trash entry for good.
type PermanentlyDelete struct {
	EntryID string
}

// EmptyRecentlyDeleted clears the whole trash. Idempotent.
type EmptyRecentlyDeleted struct{}

// CleanupOldDeletedItems drops trash entries older than the retention
// window. A zero Now means the current wall clock.
type CleanupOldDeletedItems struct {
	Now time.Time
}

// Gamification actions

// AddXP grants experience and rederives level and remaining XP together.
type AddXP struct {
	Amount int
}

// AddGems grants mind gems.
type AddGems struct {
	Amount int
}

// SpendGems deducts gems; no-op when the balance is insufficient.
type SpendGems struct {
	Amount int
}

// PurchaseStreakFreeze buys one streak freeze; no-op on insufficient gems.
type PurchaseStreakFreeze struct{}

// UseStreakFreeze consumes one streak freeze; no-op when none are held.
type UseStreakFreeze struct{}

// RepairStreak buys back the most recently broken streak; no-op on
// insufficient gems or when no broken streak is recorded.
type RepairStreak struct{}

// SetStreak overwrites the streak counters (hydration/admin).
type SetStreak struct {
	Current int
	Best    int
}

// RecordActivity registers qualifying activity for streak and productivity
// accounting. A zero Now means the current wall clock.
type RecordActivity struct {
	Now    time.Time
	Points int
}

// UnlockAchievement records an achievement id once.
type UnlockAchievement struct {
	ID string
}

// AddWeeklyXP bumps the weekly leaderboard counter only.
type AddWeeklyXP struct {
	Amount int
}

// SetLeague sets the league placement name.
type SetLeague struct {
	Name string
}

// Account / settings actions

// SetUser sets the authenticated user; nil returns to guest mode.
type SetUser struct {
	User *model.User
}

// SignOut clears the authenticated user.
type SignOut struct{}

// SetNotificationSettings replaces the notification settings.
type SetNotificationSettings struct {
	Settings model.NotificationSettings
}

// SetThemeColor sets the theme accent color.
type SetThemeColor struct {
	Color string
}

// SetDailyProductivityGoal sets the daily points target.
type SetDailyProductivityGoal struct {
	Goal int
}

// HydrateGuestState replaces the persisted subset of state from a decoded
// guest snapshot, leaving transient UI fields alone.
type HydrateGuestState struct {
	State model.AppState
}

// ApplyRemoteData merges a downloaded cloud snapshot. The cloud document
// carries only user, tasks, lists, and settings; gamification, streak, and
// the recently-deleted list are local-only and stay untouched.
type ApplyRemoteData struct {
	State model.AppState
}

func (AddTask) isAction()                    {}
func (UpdateTask) isAction()                 {}
func (DeleteTask) isAction()                 {}
func (SoftDeleteTask) isAction()             {}
func (ToggleTask) isAction()                 {}
func (SetTasks) isAction()                   {}
func (AddUserList) isAction()                {}
func (UpdateUserList) isAction()             {}
func (DeleteUserList) isAction()             {}
func (SoftDeleteUserList) isAction()         {}
func (SetUserLists) isAction()               {}
func (SetView) isAction()                    {}
func (SelectList) isAction()                 {}
func (ShowTaskEditor) isAction()             {}
func (HideTaskEditor) isAction()             {}
func (ShowAddList) isAction()                {}
func (HideAddList) isAction()                {}
func (TrashTask) isAction()                  {}
func (TrashList) isAction()                  {}
func (AddToRecentlyDeleted) isAction()       {}
func (RestoreFromRecentlyDeleted) isAction() {}
func (RemoveFromRecentlyDeleted) isAction()  {}
func (PermanentlyDelete) isAction()          {}
func (EmptyRecentlyDeleted) isAction()       {}
func (CleanupOldDeletedItems) isAction()     {}
func (AddXP) isAction()                      {}
func (AddGems) isAction()                    {}
func (SpendGems) isAction()                  {}
func (PurchaseStreakFreeze) isAction()       {}
func (UseStreakFreeze) isAction()            {}
func (RepairStreak) isAction()               {}
func (SetStreak) isAction()                  {}
func (RecordActivity) isAction()             {}
func (UnlockAchievement) isAction()          {}
func (AddWeeklyXP) isAction()                {}
func (SetLeague) isAction()                  {}
func (SetUser) isAction()                    {}
func (SignOut) isAction()                    {}
func (SetNotificationSettings) isAction()    {}
func (SetThemeColor) isAction()              {}
func (SetDailyProductivityGoal) isAction()   {}
func (HydrateGuestState) isAction()          {}
func (ApplyRemoteData) isAction()            {}
