package store

import (
	"time"

	"github.com/dori/mindlist/internal/gamify"
	"github.com/dori/mindlist/internal/model"
	"github.com/google/uuid"
)

const (
	// RetentionWindow is how long trash entries stay restorable. Entries
	// exactly at the boundary are retained; only strictly older ones expire.
	RetentionWindow = 30 * 24 * time.Hour

	// GemCostStreakFreeze is the mind-gem price of one streak freeze.
	GemCostStreakFreeze = 100

	// GemCostStreakRepair is the mind-gem price of restoring a broken streak.
	GemCostStreakRepair = 200
)

// Reduce applies an action to a state and returns the resulting state. It is
// a pure function over its inputs apart from reading the wall clock for
// timestamp stamping. Unknown or inapplicable actions return the input state
// unchanged; Reduce never panics on any action in the closed set.
func Reduce(state model.AppState, action Action) model.AppState {
	next := state.Clone()

	switch a := action.(type) {
	case AddTask:
		t := a.Task.Clone()
		now := time.Now()
		if t.ID == "" {
			t.ID = uuid.New().String()
		}
		if t.ListID == "" {
			t.ListID = "inbox"
		}
		if t.Priority == "" {
			t.Priority = model.PriorityNone
		}
		t.CreatedAt = now
		t.UpdatedAt = now
		next.Tasks = append(next.Tasks, t)

	case UpdateTask:
		t := next.TaskByID(a.ID)
		if t == nil {
			return next
		}
		u := a.Updates
		if u.Title != nil {
			t.Title = *u.Title
		}
		if u.Note != nil {
			t.Note = *u.Note
		}
		if u.IsCompleted != nil {
			t.IsCompleted = *u.IsCompleted
		}
		if u.ClearDueDate {
			t.DueDate = nil
		} else if u.DueDate != nil {
			d := *u.DueDate
			t.DueDate = &d
		}
		if u.Priority != nil && u.Priority.Valid() {
			t.Priority = *u.Priority
		}
		if u.ListID != nil {
			t.ListID = *u.ListID
		}
		t.UpdatedAt = time.Now()

	case DeleteTask:
		next.Tasks = removeTask(next.Tasks, a.ID)

	case SoftDeleteTask:
		if t := next.TaskByID(a.ID); t != nil {
			t.Deleted = true
			t.UpdatedAt = time.Now()
		}

	case ToggleTask:
		if t := next.TaskByID(a.ID); t != nil {
			t.IsCompleted = !t.IsCompleted
			t.UpdatedAt = time.Now()
		}

	case SetTasks:
		next.Tasks = make([]model.Task, len(a.Tasks))
		for i, t := range a.Tasks {
			next.Tasks[i] = t.Clone()
		}

	case AddUserList:
		l := a.List
		now := time.Now()
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.CreatedAt = now
		l.UpdatedAt = now
		next.Lists = append(next.Lists, l)

	case UpdateUserList:
		l := next.ListByID(a.ID)
		if l == nil {
			return next
		}
		u := a.Updates
		if u.Name != nil {
			l.Name = *u.Name
		}
		if u.Color != nil {
			l.Color = *u.Color
		}
		if u.Icon != nil {
			l.Icon = *u.Icon
		}
		l.UpdatedAt = time.Now()

	case DeleteUserList:
		next.Lists = removeList(next.Lists, a.ID)

	case SoftDeleteUserList:
		if l := next.ListByID(a.ID); l != nil {
			l.Deleted = true
			l.UpdatedAt = time.Now()
		}

	case SetUserLists:
		next.Lists = make([]model.UserList, len(a.Lists))
		copy(next.Lists, a.Lists)

	case SetView:
		next.View = a.View

	case SelectList:
		next.SelectedListID = a.ID

	case ShowTaskEditor:
		next.ShowTaskEditor = true
	case HideTaskEditor:
		next.ShowTaskEditor = false
	case ShowAddList:
		next.ShowAddList = true
	case HideAddList:
		next.ShowAddList = false

	case TrashTask:
		t := next.TaskByID(a.ID)
		if t == nil {
			return next
		}
		copyT := t.Clone()
		next.Tasks = removeTask(next.Tasks, a.ID)
		next.RecentlyDeleted = append(next.RecentlyDeleted, model.RecentlyDeletedItem{
			ID:         uuid.New().String(),
			Type:       model.DeletedTypeTask,
			Task:       &copyT,
			FromListID: copyT.ListID,
			DeletedAt:  time.Now(),
		})

	case TrashList:
		l := next.ListByID(a.ID)
		if l == nil {
			return next
		}
		copyL := *l
		next.Lists = removeList(next.Lists, a.ID)
		next.RecentlyDeleted = append(next.RecentlyDeleted, model.RecentlyDeletedItem{
			ID:        uuid.New().String(),
			Type:      model.DeletedTypeList,
			List:      &copyL,
			DeletedAt: time.Now(),
		})

	case AddToRecentlyDeleted:
		entry := model.RecentlyDeletedItem{
			ID:         uuid.New().String(),
			FromListID: a.FromListID,
			DeletedAt:  time.Now(),
		}
		switch {
		case a.Task != nil:
			t := a.Task.Clone()
			entry.Type = model.DeletedTypeTask
			entry.Task = &t
			if entry.FromListID == "" {
				entry.FromListID = t.ListID
			}
		case a.List != nil:
			l := *a.List
			entry.Type = model.DeletedTypeList
			entry.List = &l
		default:
			return next
		}
		next.RecentlyDeleted = append(next.RecentlyDeleted, entry)

	case RestoreFromRecentlyDeleted:
		idx := findEntry(next.RecentlyDeleted, a.EntryID)
		if idx < 0 {
			return next
		}
		entry := next.RecentlyDeleted[idx]
		next.RecentlyDeleted = append(next.RecentlyDeleted[:idx], next.RecentlyDeleted[idx+1:]...)
		switch entry.Type {
		case model.DeletedTypeTask:
			if entry.Task != nil {
				t := entry.Task.Clone()
				t.Deleted = false
				next.Tasks = removeTask(next.Tasks, t.ID) // duplicate-free reinsert
				next.Tasks = append(next.Tasks, t)
			}
		case model.DeletedTypeList:
			if entry.List != nil {
				l := *entry.List
				l.Deleted = false
				next.Lists = removeList(next.Lists, l.ID)
				next.Lists = append(next.Lists, l)
			}
		}

	case RemoveFromRecentlyDeleted:
		if idx := findEntry(next.RecentlyDeleted, a.EntryID); idx >= 0 {
			next.RecentlyDeleted = append(next.RecentlyDeleted[:idx], next.RecentlyDeleted[idx+1:]...)
		}

	case PermanentlyDelete:
		if idx := findEntry(next.RecentlyDeleted, a.EntryID); idx >= 0 {
			next.RecentlyDeleted = append(next.RecentlyDeleted[:idx], next.RecentlyDeleted[idx+1:]...)
		}

	case EmptyRecentlyDeleted:
		next.RecentlyDeleted = nil

	case CleanupOldDeletedItems:
		now := a.Now
		if now.IsZero() {
			now = time.Now()
		}
		kept := next.RecentlyDeleted[:0]
		for _, e := range next.RecentlyDeleted {
			if now.Sub(e.DeletedAt) <= RetentionWindow {
				kept = append(kept, e)
			}
		}
		next.RecentlyDeleted = kept

	case AddXP:
		next.Gamification.XP += a.Amount
		if next.Gamification.XP < 0 {
			next.Gamification.XP = 0
		}
		if a.Amount > 0 {
			next.Gamification.WeeklyXP += a.Amount
		}
		next.Gamification = gamify.Recompute(next.Gamification)

	case AddGems:
		next.Gamification.MindGems += a.Amount
		if next.Gamification.MindGems < 0 {
			next.Gamification.MindGems = 0
		}

	case SpendGems:
		if a.Amount < 0 || next.Gamification.MindGems < a.Amount {
			return next
		}
		next.Gamification.MindGems -= a.Amount

	case PurchaseStreakFreeze:
		if next.Gamification.MindGems < GemCostStreakFreeze {
			return next
		}
		next.Gamification.MindGems -= GemCostStreakFreeze
		next.Gamification.StreakFreezes++

	case UseStreakFreeze:
		if next.Gamification.StreakFreezes == 0 {
			return next
		}
		next.Gamification.StreakFreezes--

	case RepairStreak:
		if next.Gamification.MindGems < GemCostStreakRepair || next.LastBrokenStreak == 0 {
			return next
		}
		next.Gamification.MindGems -= GemCostStreakRepair
		next.Streak = next.LastBrokenStreak
		next.LastBrokenStreak = 0
		if next.Streak > next.BestStreak {
			next.BestStreak = next.Streak
		}

	case SetStreak:
		next.Streak = a.Current
		next.BestStreak = a.Best

	case RecordActivity:
		next = recordActivity(next, a)

	case UnlockAchievement:
		if a.ID != "" && !next.Gamification.HasAchievement(a.ID) {
			next.Gamification.Achievements = append(next.Gamification.Achievements, a.ID)
		}

	case AddWeeklyXP:
		next.Gamification.WeeklyXP += a.Amount
		if next.Gamification.WeeklyXP < 0 {
			next.Gamification.WeeklyXP = 0
		}

	case SetLeague:
		next.Gamification.League = a.Name

	case SetUser:
		if a.User == nil {
			next.User = nil
		} else {
			u := *a.User
			next.User = &u
		}

	case SignOut:
		next.User = nil

	case SetNotificationSettings:
		next.Notifications = a.Settings

	case SetThemeColor:
		next.ThemeColor = a.Color

	case SetDailyProductivityGoal:
		if a.Goal > 0 {
			next.DailyProductivityGoal = a.Goal
		}

	case HydrateGuestState:
		h := a.State.Clone()
		next.Tasks = h.Tasks
		next.Lists = h.Lists
		next.RecentlyDeleted = h.RecentlyDeleted
		next.Gamification = gamify.Recompute(h.Gamification)
		next.Streak = h.Streak
		next.BestStreak = h.BestStreak
		next.LastBrokenStreak = h.LastBrokenStreak
		next.LastActivityDate = h.LastActivityDate
		next.ProductivityPoints = h.ProductivityPoints
		if h.DailyProductivityGoal > 0 {
			next.DailyProductivityGoal = h.DailyProductivityGoal
		}
		next.LastProductivityDate = h.LastProductivityDate
		next.Notifications = h.Notifications
		if h.ThemeColor != "" {
			next.ThemeColor = h.ThemeColor
		}

	case ApplyRemoteData:
		h := a.State.Clone()
		if h.User != nil {
			next.User = h.User
		}
		next.Tasks = h.Tasks
		next.Lists = h.Lists
		next.Notifications = h.Notifications
		if h.ThemeColor != "" {
			next.ThemeColor = h.ThemeColor
		}
		if h.DailyProductivityGoal > 0 {
			next.DailyProductivityGoal = h.DailyProductivityGoal
		}

	default:
		// Unknown action: state passes through untouched.
	}

	return next
}

// recordActivity advances the streak across calendar days and accumulates
// daily productivity points. A single missed day is covered by consuming a
// streak freeze when one is held; longer gaps break the streak and remember
// its value for paid repair.
func recordActivity(next model.AppState, a RecordActivity) model.AppState {
	now := a.Now
	if now.IsZero() {
		now = time.Now()
	}

	switch {
	case next.LastActivityDate == nil:
		next.Streak = 1
	default:
		gap := calendarDaysBetween(*next.LastActivityDate, now)
		switch {
		case gap <= 0:
			// Same day, streak unchanged.
		case gap == 1:
			next.Streak++
		case gap == 2 && next.Gamification.StreakFreezes > 0:
			next.Gamification.StreakFreezes--
			next.Streak++
		default:
			next.LastBrokenStreak = next.Streak
			next.Streak = 1
		}
	}
	if next.Streak > next.BestStreak {
		next.BestStreak = next.Streak
	}
	next.LastActivityDate = &now

	if a.Points > 0 {
		if next.LastProductivityDate == nil || calendarDaysBetween(*next.LastProductivityDate, now) != 0 {
			next.ProductivityPoints = 0
		}
		next.ProductivityPoints += a.Points
		next.LastProductivityDate = &now
	}
	return next
}

func calendarDaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

func removeTask(tasks []model.Task, id string) []model.Task {
	for i := range tasks {
		if tasks[i].ID == id {
			return append(tasks[:i], tasks[i+1:]...)
		}
	}
	return tasks
}

func removeList(lists []model.UserList, id string) []model.UserList {
	for i := range lists {
		if lists[i].ID == id {
			return append(lists[:i], lists[i+1:]...)
		}
	}
	return lists
}

func findEntry(entries []model.RecentlyDeletedItem, id string) int {
	for i := range entries {
		if entries[i].ID == id {
			return i
		}
	}
	return -1
}
