package trash

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/dori/mindlist/internal/model"
	"github.com/dori/mindlist/internal/store"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestSweepOnceDropsOnlyExpiredEntries(t *testing.T) {
	state := model.NewState()
	state.RecentlyDeleted = []model.RecentlyDeletedItem{
		{ID: "old", Type: model.DeletedTypeTask, DeletedAt: time.Now().Add(-31 * 24 * time.Hour)},
		{ID: "new", Type: model.DeletedTypeTask, DeletedAt: time.Now().Add(-time.Hour)},
	}
	st := store.New(state)

	NewSweeper(st, time.Hour, quietLogger()).SweepOnce()

	got := st.State().RecentlyDeleted
	if len(got) != 1 || got[0].ID != "new" {
		t.Fatalf("after sweep: %+v, want only the fresh entry", got)
	}
}

func TestRunSweepsImmediatelyAndStopsOnCancel(t *testing.T) {
	state := model.NewState()
	state.RecentlyDeleted = []model.RecentlyDeletedItem{
		{ID: "old", Type: model.DeletedTypeList, DeletedAt: time.Now().Add(-60 * 24 * time.Hour)},
	}
	st := store.New(state)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewSweeper(st, time.Hour, quietLogger()).Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for len(st.State().RecentlyDeleted) > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := st.State().RecentlyDeleted; len(got) != 0 {
		t.Fatalf("initial sweep did not run: %+v", got)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
