// Package persist mirrors store state into the durable local document store
// and, when cloud sync is on, schedules debounced uploads to a drive
// provider. Persistence failures are logged and swallowed; they never reach
// the dispatching caller.
package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/dori/mindlist/internal/cloud"
	"github.com/dori/mindlist/internal/localstore"
	"github.com/dori/mindlist/internal/model"
	"github.com/dori/mindlist/internal/store"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is the quiet window before a pending cloud upload fires.
const DefaultDebounce = 5 * time.Second

// Options configures a Bridge.
type Options struct {
	Drive       cloud.Provider
	SyncEnabled bool
	Debounce    time.Duration
	Logger      *logrus.Logger
}

// Bridge keeps the local document store in sync with the store state and
// drives the optional cloud upload schedule.
type Bridge struct {
	db    *localstore.DB
	drive cloud.Provider

	syncEnabled bool
	debounce    time.Duration
	log         *logrus.Entry

	mu           sync.Mutex
	timer        *time.Timer
	pending      *model.AppState
	lastSyncTime *time.Time
	lastFP       string
}

// NewBridge creates a bridge over the given document store.
func NewBridge(db *localstore.DB, opts Options) *Bridge {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	return &Bridge{
		db:          db,
		drive:       opts.Drive,
		syncEnabled: opts.SyncEnabled && opts.Drive != nil,
		debounce:    opts.Debounce,
		log:         logger.WithField("component", "persist"),
	}
}

// Attach subscribes the bridge to store changes.
func (b *Bridge) Attach(st *store.Store) {
	st.Subscribe(b.OnChange)
}

// OnChange is invoked synchronously after every dispatch. It writes the
// snapshot documents when the watched subset changed, and re-arms the cloud
// upload debounce timer.
func (b *Bridge) OnChange(s model.AppState) {
	fp, err := fingerprint(s)
	if err != nil {
		b.log.WithError(err).Warn("failed to fingerprint state")
		return
	}

	b.mu.Lock()
	if fp == b.lastFP {
		b.mu.Unlock()
		return
	}
	b.lastFP = fp
	lastSync := b.lastSyncTime
	b.mu.Unlock()

	now := time.Now()

	// All snapshot documents land in one transaction so a crash mid-write
	// cannot leave the guest snapshot and the app document out of step.
	err = b.db.Transaction(func(tx *sql.Tx) error {
		// Guest snapshot is unconditional on every relevant change while
		// no user is signed in, independent of the cloud-sync debounce.
		if s.User == nil {
			if err := localstore.PutJSONTx(tx, localstore.KeyGuestData, NewGuestData(s, now)); err != nil {
				return err
			}
		}

		if err := localstore.PutJSONTx(tx, localstore.KeyAppData, NewAppData(s, lastSync)); err != nil {
			return err
		}

		// Auxiliary preference documents, kept separately from the main
		// snapshot so other tooling can read them without decoding it.
		if err := localstore.PutJSONTx(tx, localstore.KeyNotifications, s.Notifications); err != nil {
			return err
		}
		if s.ThemeColor == "" {
			if err := localstore.DeleteTx(tx, localstore.KeyUserThemeColor); err != nil {
				return err
			}
		} else if err := localstore.PutJSONTx(tx, localstore.KeyUserThemeColor, s.ThemeColor); err != nil {
			return err
		}
		if s.User != nil {
			if err := localstore.PutJSONTx(tx, localstore.KeyUserProfile, s.User); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		b.log.WithError(err).Warn("failed to write snapshot documents")
		// Clear the fingerprint so the next change retries the write.
		b.mu.Lock()
		b.lastFP = ""
		b.mu.Unlock()
	}

	if b.syncEnabled {
		b.scheduleUpload(s)
	}
}

// scheduleUpload arms the trailing-edge debounce: each new change replaces
// the pending snapshot and restarts the timer, so only the last change in a
// quiet window is uploaded.
func (b *Bridge) scheduleUpload(s model.AppState) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending = &s
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.debounce, b.fireUpload)
}

func (b *Bridge) fireUpload() {
	b.mu.Lock()
	snapshot := b.pending
	b.pending = nil
	b.timer = nil
	b.mu.Unlock()

	if snapshot == nil {
		return
	}
	b.upload(context.Background(), *snapshot)
}

// upload pushes one snapshot to the drive, best effort.
func (b *Bridge) upload(ctx context.Context, s model.AppState) {
	now := time.Now()
	doc := NewAppData(s, &now)
	raw, err := json.Marshal(doc)
	if err != nil {
		b.log.WithError(err).Warn("failed to encode upload snapshot")
		return
	}

	res := b.drive.UploadUserData(ctx, raw)
	if !res.Success {
		b.log.WithField("reason", res.Message).Warn("cloud upload failed")
		return
	}

	b.mu.Lock()
	b.lastSyncTime = &now
	b.mu.Unlock()

	// Record the new sync time in the stored document as well.
	if err := b.db.PutJSON(localstore.KeyAppData, doc); err != nil {
		b.log.WithError(err).Warn("failed to record sync time")
	}
	b.log.WithField("bytes", len(raw)).Debug("cloud upload complete")
}

// Flush cancels any pending debounce and uploads the latest snapshot now.
// Works even when background sync is off, for explicit pushes.
func (b *Bridge) Flush(ctx context.Context, s model.AppState) {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.pending = nil
	b.mu.Unlock()

	if b.drive != nil {
		b.upload(ctx, s)
	}
}

// Pull downloads the remote snapshot and returns its state when the remote
// copy is newer than the local one (last-writer-wins by lastSyncTime). The
// second return is false when there is nothing newer to apply.
func (b *Bridge) Pull(ctx context.Context) (model.AppState, bool) {
	if b.drive == nil {
		return model.AppState{}, false
	}
	res := b.drive.DownloadUserData(ctx)
	if !res.Success {
		b.log.WithField("reason", res.Message).Info("cloud download unavailable")
		return model.AppState{}, false
	}

	var remote AppData
	if err := json.Unmarshal(res.Data, &remote); err != nil {
		b.log.WithError(err).Warn("remote snapshot is corrupt")
		return model.AppState{}, false
	}

	var local AppData
	if ok, err := b.db.GetJSON(localstore.KeyAppData, &local); err == nil && ok {
		if !newerThan(remote.LastSyncTime, local.LastSyncTime) {
			return model.AppState{}, false
		}
	}

	b.mu.Lock()
	b.lastSyncTime = remote.LastSyncTime
	b.mu.Unlock()
	return remote.State(), true
}

// Rehydrate builds the startup state. A readable guest snapshot wins;
// corruption or absence degrades silently to a fresh empty state.
func (b *Bridge) Rehydrate() model.AppState {
	var guest GuestData
	ok, err := b.db.GetJSON(localstore.KeyGuestData, &guest)
	if err != nil {
		b.log.WithError(err).Warn("guest snapshot unreadable, starting fresh")
		return model.NewState()
	}
	if !ok {
		return model.NewState()
	}

	var app AppData
	if found, err := b.db.GetJSON(localstore.KeyAppData, &app); err == nil && found {
		b.mu.Lock()
		b.lastSyncTime = app.LastSyncTime
		b.mu.Unlock()
	}
	return guest.State()
}

// Close stops any pending upload timer. In-flight uploads are not waited on.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.pending = nil
}

// fingerprint hashes the watched subset of state so unrelated changes (view
// switches, UI flags) do not trigger writes.
func fingerprint(s model.AppState) (string, error) {
	subset := struct {
		Tasks           []model.Task
		Lists           []model.UserList
		RecentlyDeleted []model.RecentlyDeletedItem
		Gamification    model.GamificationStats
		Streak          int
		BestStreak      int
		Productivity    int
		Notifications   model.NotificationSettings
		ThemeColor      string
	}{
		Tasks:           s.Tasks,
		Lists:           s.Lists,
		RecentlyDeleted: s.RecentlyDeleted,
		Gamification:    s.Gamification,
		Streak:          s.Streak,
		BestStreak:      s.BestStreak,
		Productivity:    s.ProductivityPoints,
		Notifications:   s.Notifications,
		ThemeColor:      s.ThemeColor,
	}
	raw, err := json.Marshal(subset)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func newerThan(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.After(*b)
}
