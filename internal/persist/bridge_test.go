package persist

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dori/mindlist/internal/cloud"
	"github.com/dori/mindlist/internal/localstore"
	"github.com/dori/mindlist/internal/model"
	"github.com/dori/mindlist/internal/store"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func openTestDB(t *testing.T) *localstore.DB {
	t.Helper()
	db, err := localstore.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open document store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// fakeDrive records uploads and serves a canned download.
type fakeDrive struct {
	mu       sync.Mutex
	uploads  [][]byte
	download []byte
}

func (d *fakeDrive) Authenticate(ctx context.Context) cloud.Result {
	return cloud.Result{Success: true}
}

func (d *fakeDrive) SignOut(ctx context.Context) cloud.Result {
	return cloud.Result{Success: true}
}

func (d *fakeDrive) UploadUserData(ctx context.Context, data []byte) cloud.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.uploads = append(d.uploads, data)
	return cloud.Result{Success: true, Message: "uploaded"}
}

func (d *fakeDrive) DownloadUserData(ctx context.Context) cloud.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.download == nil {
		return cloud.Result{Success: false, Message: "no backup found"}
	}
	return cloud.Result{Success: true, Data: d.download}
}

func (d *fakeDrive) SyncStatus(ctx context.Context) cloud.Result {
	return cloud.Result{Success: true}
}

func (d *fakeDrive) uploadCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.uploads)
}

func sampleState() model.AppState {
	s := model.NewState()
	s.Tasks = []model.Task{{ID: "T1", Title: "Draft report", ListID: "L1", Priority: model.PriorityImportant}}
	s.Lists = []model.UserList{{ID: "L1", Name: "Work"}}
	s.Gamification.XP = 2500
	s.Gamification.Level = 3
	s.Gamification.XPToNextLevel = 500
	s.Streak = 4
	s.BestStreak = 9
	return s
}

func TestGuestSnapshotRoundTrip(t *testing.T) {
	db := openTestDB(t)
	b := NewBridge(db, Options{Logger: quietLogger()})

	b.OnChange(sampleState())

	got := b.Rehydrate()
	if len(got.Tasks) != 1 || got.Tasks[0].ID != "T1" {
		t.Fatalf("rehydrated tasks = %+v", got.Tasks)
	}
	if len(got.Lists) != 1 || got.Lists[0].Name != "Work" {
		t.Fatalf("rehydrated lists = %+v", got.Lists)
	}
	if got.Gamification.XP != 2500 || got.Streak != 4 || got.BestStreak != 9 {
		t.Errorf("rehydrated progression = %+v streak=%d best=%d", got.Gamification, got.Streak, got.BestStreak)
	}
}

func TestRehydrateWithoutSnapshotIsFresh(t *testing.T) {
	db := openTestDB(t)
	b := NewBridge(db, Options{Logger: quietLogger()})

	got := b.Rehydrate()
	if len(got.Tasks) != 0 || len(got.Lists) != 0 {
		t.Fatalf("expected empty state, got %d tasks %d lists", len(got.Tasks), len(got.Lists))
	}
	if got.Gamification.Level != 1 {
		t.Errorf("level = %d, want 1", got.Gamification.Level)
	}
}

func TestCorruptSnapshotDegradesToFresh(t *testing.T) {
	db := openTestDB(t)
	if err := db.Put(localstore.KeyGuestData, "{not json"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	b := NewBridge(db, Options{Logger: quietLogger()})
	got := b.Rehydrate()
	if len(got.Tasks) != 0 {
		t.Fatalf("corrupt snapshot should yield a fresh state, got %d tasks", len(got.Tasks))
	}
}

func TestNoGuestSnapshotWhileSignedIn(t *testing.T) {
	db := openTestDB(t)
	b := NewBridge(db, Options{Logger: quietLogger()})

	s := sampleState()
	s.User = &model.User{ID: "u1", Email: "u@example.com"}
	b.OnChange(s)

	if _, ok, _ := db.Get(localstore.KeyGuestData); ok {
		t.Error("guest snapshot written while a user is signed in")
	}
	if _, ok, _ := db.Get(localstore.KeyAppData); !ok {
		t.Error("app snapshot missing")
	}
}

func TestUnchangedWatchedSubsetSkipsWrite(t *testing.T) {
	db := openTestDB(t)
	b := NewBridge(db, Options{Logger: quietLogger()})

	s := sampleState()
	b.OnChange(s)

	// Drop the document; an identical watched subset must not rewrite it.
	if err := db.Delete(localstore.KeyGuestData); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	s.View = model.ViewSettings // outside the watched subset
	b.OnChange(s)

	if _, ok, _ := db.Get(localstore.KeyGuestData); ok {
		t.Error("bridge rewrote snapshot for a non-watched change")
	}
}

func TestDebounceCoalescesUploads(t *testing.T) {
	db := openTestDB(t)
	drive := &fakeDrive{}
	b := NewBridge(db, Options{
		Drive:       drive,
		SyncEnabled: true,
		Debounce:    200 * time.Millisecond,
		Logger:      quietLogger(),
	})
	defer b.Close()

	s := sampleState()
	for i := 0; i < 5; i++ {
		s.Tasks = append(s.Tasks, model.Task{ID: string(rune('A' + i)), Title: "t"})
		b.OnChange(s)
	}

	if got := drive.uploadCount(); got != 0 {
		t.Fatalf("upload fired before the quiet window: %d", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for drive.uploadCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	// Allow any stray timer to fire before counting.
	time.Sleep(150 * time.Millisecond)
	if got := drive.uploadCount(); got != 1 {
		t.Fatalf("uploads = %d, want exactly 1 (trailing-edge debounce)", got)
	}
}

func TestPullAppliesOnlyNewerRemote(t *testing.T) {
	db := openTestDB(t)
	drive := &fakeDrive{}
	b := NewBridge(db, Options{Drive: drive, Logger: quietLogger()})

	older := time.Now().Add(-time.Hour)
	newer := time.Now()

	local := NewAppData(sampleState(), &newer)
	if err := db.PutJSON(localstore.KeyAppData, local); err != nil {
		t.Fatalf("PutJSON failed: %v", err)
	}

	remoteState := model.NewState()
	remoteState.Tasks = []model.Task{{ID: "R1", Title: "remote"}}
	remoteDoc := NewAppData(remoteState, &older)
	raw, _ := json.Marshal(remoteDoc)
	drive.download = raw

	if _, ok := b.Pull(context.Background()); ok {
		t.Fatal("stale remote snapshot was applied")
	}

	// Now the remote is newer than local.
	evenNewer := newer.Add(time.Hour)
	remoteDoc.LastSyncTime = &evenNewer
	raw, _ = json.Marshal(remoteDoc)
	drive.download = raw

	got, ok := b.Pull(context.Background())
	if !ok {
		t.Fatal("newer remote snapshot was not applied")
	}
	if len(got.Tasks) != 1 || got.Tasks[0].ID != "R1" {
		t.Errorf("pulled state tasks = %+v", got.Tasks)
	}
}

func TestPullKeepsLocalProgressionAndTrash(t *testing.T) {
	db := openTestDB(t)
	drive := &fakeDrive{}
	b := NewBridge(db, Options{Drive: drive, Logger: quietLogger()})

	local := sampleState()
	local.Gamification.MindGems = 300
	local.RecentlyDeleted = []model.RecentlyDeletedItem{{
		ID:        "D1",
		Type:      model.DeletedTypeTask,
		Task:      &model.Task{ID: "T9", Title: "old"},
		DeletedAt: time.Now(),
	}}
	st := store.New(local)
	b.Attach(st)

	newer := time.Now()
	remoteState := model.NewState()
	remoteState.Tasks = []model.Task{{ID: "R1", Title: "remote"}}
	raw, _ := json.Marshal(NewAppData(remoteState, &newer))
	drive.download = raw

	remote, ok := b.Pull(context.Background())
	if !ok {
		t.Fatal("remote snapshot was not applied")
	}
	got := st.Dispatch(store.ApplyRemoteData{State: remote})

	if len(got.Tasks) != 1 || got.Tasks[0].ID != "R1" {
		t.Fatalf("tasks = %+v, want the downloaded task", got.Tasks)
	}
	if got.Gamification.XP != 2500 || got.Gamification.MindGems != 300 {
		t.Errorf("progression wiped: xp=%d gems=%d", got.Gamification.XP, got.Gamification.MindGems)
	}
	if got.Streak != 4 || got.BestStreak != 9 {
		t.Errorf("streak wiped: streak=%d best=%d", got.Streak, got.BestStreak)
	}
	if len(got.RecentlyDeleted) != 1 {
		t.Errorf("recently deleted wiped: %d entries", len(got.RecentlyDeleted))
	}
}

func TestClearingThemeColorRemovesDocument(t *testing.T) {
	db := openTestDB(t)
	b := NewBridge(db, Options{Logger: quietLogger()})

	s := sampleState()
	s.ThemeColor = "teal"
	b.OnChange(s)
	if _, ok, _ := db.Get(localstore.KeyUserThemeColor); !ok {
		t.Fatal("theme color document missing after set")
	}

	s.ThemeColor = ""
	b.OnChange(s)
	if _, ok, _ := db.Get(localstore.KeyUserThemeColor); ok {
		t.Error("theme color document survived a clear")
	}
}

func TestFlushUploadsImmediately(t *testing.T) {
	db := openTestDB(t)
	drive := &fakeDrive{}
	b := NewBridge(db, Options{
		Drive:       drive,
		SyncEnabled: true,
		Debounce:    time.Hour, // would never fire on its own
		Logger:      quietLogger(),
	})
	defer b.Close()

	s := sampleState()
	b.OnChange(s)
	b.Flush(context.Background(), s)

	if got := drive.uploadCount(); got != 1 {
		t.Fatalf("uploads after flush = %d, want 1", got)
	}
}
