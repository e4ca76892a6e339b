package app

import (
	"path/filepath"
	"testing"

	"github.com/dori/mindlist/internal/config"
	"github.com/dori/mindlist/internal/model"
	"github.com/dori/mindlist/internal/store"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.DataDir = dir
	cfg.DBPath = filepath.Join(dir, "mindlist.db")
	cfg.Sync.DriveDir = filepath.Join(dir, "drive")
	cfg.LogLevel = "error"
	return cfg
}

func TestStateSurvivesRestart(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	a.Store.Dispatch(store.AddUserList{List: model.UserList{ID: "L1", Name: "Work"}})
	a.Store.Dispatch(store.AddTask{Task: model.Task{ID: "T1", ListID: "L1", Title: "Draft report"}})
	a.Store.Dispatch(store.AddXP{Amount: 2500})
	if err := a.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	a, err = New(cfg)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer a.Close()

	s := a.Store.State()
	if len(s.Tasks) != 1 || s.Tasks[0].ID != "T1" {
		t.Fatalf("tasks after restart: %+v", s.Tasks)
	}
	if len(s.Lists) != 1 || s.Lists[0].Name != "Work" {
		t.Fatalf("lists after restart: %+v", s.Lists)
	}
	if g := s.Gamification; g.XP != 2500 || g.Level != 3 || g.XPToNextLevel != 500 {
		t.Errorf("progression after restart: %+v", g)
	}
}

func TestSecondInstanceIsRejected(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer a.Close()

	if _, err := New(cfg); err == nil {
		t.Fatal("second instance acquired the lock")
	}
}
