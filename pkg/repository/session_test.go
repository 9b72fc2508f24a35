package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/chatlaw/pkg/model"
	"github.com/m-mizutani/chatlaw/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"go.uber.org/goleak"
)

func newSession() *model.Session {
	memory := model.NewCaseMemory()
	_ = memory.SetContext(model.ContextCaseType, string(model.CaseTypeGeneral))
	return &model.Session{
		Memory:   memory,
		MaxTurns: model.DefaultMaxTurns,
		State:    model.SessionStateQuestioning,
	}
}

func TestSessionStoreCreate(t *testing.T) {
	ctx := context.Background()
	store := repository.NewSessionStore()

	s := newSession()
	id, err := store.Create(ctx, s)
	gt.NoError(t, err)
	gt.NotEqual(t, id, model.SessionID(""))
	gt.Equal(t, s.ID, id)
	gt.Equal(t, store.Len(), 1)

	got, err := store.Get(ctx, id)
	gt.NoError(t, err)
	gt.Equal(t, got.ID, id)
	gt.Equal(t, got.CaseType(), model.CaseTypeGeneral)
}

func TestSessionStoreCreateConflict(t *testing.T) {
	ctx := context.Background()
	store := repository.NewSessionStore(repository.WithIDGenerator(func() model.SessionID {
		return "fixed-id"
	}))

	_, err := store.Create(ctx, newSession())
	gt.NoError(t, err)

	_, err = store.Create(ctx, newSession())
	gt.Error(t, err)
	gt.True(t, model.IsConflict(err))
	gt.Equal(t, store.Len(), 1)
}

func TestSessionStoreUnknownID(t *testing.T) {
	ctx := context.Background()
	store := repository.NewSessionStore()

	called := false
	err := store.WithLock(ctx, "unknown-id", func(*model.Session) error {
		called = true
		return nil
	})
	gt.Error(t, err)
	gt.True(t, model.IsNotFound(err))
	gt.False(t, called)

	_, err = store.Get(ctx, "unknown-id")
	gt.True(t, model.IsNotFound(err))
	gt.Equal(t, store.Len(), 0)
}

func TestSessionStoreReturnsFnError(t *testing.T) {
	ctx := context.Background()
	store := repository.NewSessionStore()
	id, err := store.Create(ctx, newSession())
	gt.NoError(t, err)

	errBoom := goerr.New("boom")
	err = store.WithLock(ctx, id, func(*model.Session) error { return errBoom })
	gt.Error(t, err)
	gt.Equal(t, err, error(errBoom))

	// lock must have been released
	gt.NoError(t, store.WithLock(ctx, id, func(*model.Session) error { return nil }))
}

func TestSessionStoreReleasesLockOnPanic(t *testing.T) {
	ctx := context.Background()
	store := repository.NewSessionStore()
	id, err := store.Create(ctx, newSession())
	gt.NoError(t, err)

	func() {
		defer func() { _ = recover() }()
		_ = store.WithLock(ctx, id, func(*model.Session) error { panic("unexpected") })
	}()

	done := make(chan error, 1)
	go func() {
		done <- store.WithLock(ctx, id, func(*model.Session) error { return nil })
	}()

	select {
	case err := <-done:
		gt.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("lock was not released after panic")
	}
}

func TestSessionStoreSerializesSameSession(t *testing.T) {
	ctx := context.Background()
	store := repository.NewSessionStore()
	id, err := store.Create(ctx, newSession())
	gt.NoError(t, err)

	const workers = 50
	var (
		wg     sync.WaitGroup
		active int
		maxAct int
		mu     sync.Mutex
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gt.NoError(t, store.WithLock(ctx, id, func(s *model.Session) error {
				mu.Lock()
				active++
				if active > maxAct {
					maxAct = active
				}
				mu.Unlock()

				s.TurnsDone++
				time.Sleep(time.Millisecond)

				mu.Lock()
				active--
				mu.Unlock()
				return nil
			}))
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, id)
	gt.NoError(t, err)
	gt.Equal(t, got.TurnsDone, workers)
	gt.Equal(t, maxAct, 1)
}

func TestSessionStoreIsolatesSessions(t *testing.T) {
	ctx := context.Background()
	store := repository.NewSessionStore()
	idA, err := store.Create(ctx, newSession())
	gt.NoError(t, err)
	idB, err := store.Create(ctx, newSession())
	gt.NoError(t, err)

	holding := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = store.WithLock(ctx, idA, func(*model.Session) error {
			close(holding)
			<-release
			return nil
		})
	}()
	<-holding
	defer close(release)

	done := make(chan error, 1)
	go func() {
		done <- store.WithLock(ctx, idB, func(s *model.Session) error {
			s.TurnsDone++
			return nil
		})
	}()

	select {
	case err := <-done:
		gt.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("session B was blocked by session A")
	}
}

func TestSessionStoreSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	store := repository.NewSessionStore(repository.WithStoreClock(func() time.Time { return now }))

	oldID, err := store.Create(ctx, newSession())
	gt.NoError(t, err)

	now = now.Add(20 * time.Minute)
	freshID, err := store.Create(ctx, newSession())
	gt.NoError(t, err)

	now = now.Add(5 * time.Minute)
	gt.Equal(t, store.Sweep(ctx, 15*time.Minute), 1)

	_, err = store.Get(ctx, oldID)
	gt.True(t, model.IsNotFound(err))
	_, err = store.Get(ctx, freshID)
	gt.NoError(t, err)
}

func TestSessionStoreSweepSkipsLockedSession(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	store := repository.NewSessionStore(repository.WithStoreClock(func() time.Time { return now }))

	id, err := store.Create(ctx, newSession())
	gt.NoError(t, err)
	now = now.Add(time.Hour)

	gt.NoError(t, store.WithLock(ctx, id, func(*model.Session) error {
		gt.Equal(t, store.Sweep(ctx, time.Minute), 0)
		return nil
	}))
	gt.Equal(t, store.Len(), 1)
}

func TestSessionStoreJanitor(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	store := repository.NewSessionStore()
	_, err := store.Create(ctx, newSession())
	gt.NoError(t, err)

	done := make(chan struct{})
	go func() {
		store.RunJanitor(ctx, time.Millisecond, -time.Hour)
		close(done)
	}()

	deadline := time.After(time.Second)
	for store.Len() > 0 {
		select {
		case <-deadline:
			t.Fatal("janitor did not sweep")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	<-done
}
