package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "finops-arcade/internal/errors"
)

type counter struct {
	ID string
	N  int
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestStore(ttl time.Duration) (*Store[counter], *clock) {
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := New[counter]("session", ttl)
	s.now = c.now
	return s, c
}

func TestCreateAndGet(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	v := s.Create(func(id string) counter { return counter{ID: id} })
	if v.ID == "" {
		t.Fatal("Create did not assign an id")
	}
	got, err := s.Get(v.ID)
	if err != nil || got.ID != v.ID {
		t.Fatalf("Get = %+v, %v", got, err)
	}
	if _, err := s.Get("missing"); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestUpdateKeepsValueOnError(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	s.Put("a", counter{ID: "a", N: 1})

	boom := errors.New("boom")
	_, err := s.Update("a", func(c counter) (counter, error) {
		c.N = 99
		return c, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update err = %v", err)
	}
	got, _ := s.Get("a")
	if got.N != 1 {
		t.Fatalf("value changed on failed update: %+v", got)
	}

	got, err = s.Update("a", func(c counter) (counter, error) {
		c.N++
		return c, nil
	})
	if err != nil || got.N != 2 {
		t.Fatalf("Update = %+v, %v", got, err)
	}
}

func TestExpiryAndSweep(t *testing.T) {
	s, clk := newTestStore(time.Minute)
	s.Put("old", counter{ID: "old"})
	clk.t = clk.t.Add(30 * time.Second)
	s.Put("new", counter{ID: "new"})

	clk.t = clk.t.Add(45 * time.Second)
	if _, err := s.Get("old"); err == nil {
		t.Fatal("expired entry still readable")
	}
	if _, err := s.Update("old", func(c counter) (counter, error) { return c, nil }); err == nil {
		t.Fatal("expired entry still updatable")
	}
	if _, err := s.Get("new"); err != nil {
		t.Fatalf("live entry missing: %v", err)
	}
	if n := s.Sweep(); n != 1 {
		t.Fatalf("Sweep removed %d, want 1", n)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
}

func TestUpdateRefreshesExpiry(t *testing.T) {
	s, clk := newTestStore(time.Minute)
	s.Put("a", counter{ID: "a"})
	clk.t = clk.t.Add(50 * time.Second)
	if _, err := s.Update("a", func(c counter) (counter, error) { return c, nil }); err != nil {
		t.Fatal(err)
	}
	clk.t = clk.t.Add(50 * time.Second)
	if _, err := s.Get("a"); err != nil {
		t.Fatalf("entry expired despite update: %v", err)
	}
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(0)
	s.Put("a", counter{})
	if !s.Delete("a") || s.Delete("a") {
		t.Fatal("Delete should report presence once")
	}
}

func TestConcurrentUpdatesSerialize(t *testing.T) {
	s := New[counter]("session", time.Hour)
	s.Put("a", counter{ID: "a"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Update("a", func(c counter) (counter, error) {
				c.N++
				return c, nil
			})
		}()
	}
	wg.Wait()
	got, _ := s.Get("a")
	if got.N != 50 {
		t.Fatalf("N = %d, want 50", got.N)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s := New[counter]("session", time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
