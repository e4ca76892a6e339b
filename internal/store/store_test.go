package store

import (
	"sync"
	"testing"

	"github.com/dori/mindlist/internal/model"
)

func TestDispatchNotifiesSubscribers(t *testing.T) {
	st := New(model.NewState())

	var got []model.AppState
	st.Subscribe(func(s model.AppState) {
		got = append(got, s)
	})

	st.Dispatch(AddTask{Task: model.Task{ID: "T1", Title: "a"}})
	st.Dispatch(AddTask{Task: model.Task{ID: "T2", Title: "b"}})

	if len(got) != 2 {
		t.Fatalf("subscriber saw %d snapshots, want 2", len(got))
	}
	if len(got[0].Tasks) != 1 || len(got[1].Tasks) != 2 {
		t.Errorf("snapshots out of order: %d then %d tasks", len(got[0].Tasks), len(got[1].Tasks))
	}
}

func TestStateReturnsIsolatedCopy(t *testing.T) {
	st := New(model.NewState())
	st.Dispatch(AddTask{Task: model.Task{ID: "T1", Title: "original"}})

	snapshot := st.State()
	snapshot.Tasks[0].Title = "mutated"

	if st.State().Tasks[0].Title != "original" {
		t.Fatal("external mutation leaked into store state")
	}
}

func TestConcurrentDispatchesAreAtomic(t *testing.T) {
	st := New(model.NewState())

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.Dispatch(AddXP{Amount: 10})
		}()
	}
	wg.Wait()

	g := st.State().Gamification
	if g.XP != n*10 {
		t.Errorf("xp = %d, want %d (lost updates)", g.XP, n*10)
	}
	if g.XPToNextLevel != g.Level*model.XPPerLevel-g.XP {
		t.Errorf("invariant broken: level=%d xp=%d toNext=%d", g.Level, g.XP, g.XPToNextLevel)
	}
}
