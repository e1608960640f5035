// internal/api/job/store_test.go
package job

import (
	"errors"
	"testing"
	"time"

	"github.com/quantlab/quiver/internal/core"
)

func TestStore_CreateAndGet(t *testing.T) {
	s := NewStore(10, time.Hour)

	j := s.Create("sweep")
	if j.ID == "" {
		t.Fatal("expected non-empty job ID")
	}
	if j.Status != StatusPending {
		t.Errorf("status = %s, want pending", j.Status)
	}

	got, err := s.Get(j.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != j.ID || got.Type != "sweep" {
		t.Errorf("got %+v", got)
	}
}

func TestStore_GetMissing(t *testing.T) {
	s := NewStore(10, time.Hour)

	_, err := s.Get("nope")
	if !errors.Is(err, core.ErrNoData) {
		t.Errorf("err = %v, want NO_DATA", err)
	}
}

func TestStore_Update(t *testing.T) {
	s := NewStore(10, time.Hour)
	j := s.Create("sweep")

	err := s.Update(j.ID, func(j *Job) {
		j.Status = StatusComplete
		j.Progress = 100
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _ := s.Get(j.ID)
	if got.Status != StatusComplete || got.Progress != 100 {
		t.Errorf("got %+v", got)
	}
	if !got.UpdatedAt.After(got.CreatedAt) && !got.UpdatedAt.Equal(got.CreatedAt) {
		t.Error("UpdatedAt should advance")
	}
}

func TestStore_EvictsOldestAtCapacity(t *testing.T) {
	s := NewStore(2, time.Hour)

	first := s.Create("sweep")
	s.Create("sweep")
	s.Create("sweep")

	if _, err := s.Get(first.ID); !errors.Is(err, core.ErrNoData) {
		t.Errorf("oldest job should be evicted, got err = %v", err)
	}
	if len(s.List()) != 2 {
		t.Errorf("expected 2 jobs, got %d", len(s.List()))
	}
}

func TestStore_EvictsExpired(t *testing.T) {
	s := NewStore(10, time.Millisecond)

	old := s.Create("sweep")
	time.Sleep(5 * time.Millisecond)
	s.Create("sweep")

	if _, err := s.Get(old.ID); !errors.Is(err, core.ErrNoData) {
		t.Errorf("expired job should be evicted, got err = %v", err)
	}
}

func TestStore_Active(t *testing.T) {
	s := NewStore(10, time.Hour)

	a := s.Create("sweep")
	s.Create("sweep")
	s.Update(a.ID, func(j *Job) { j.Status = StatusComplete })

	if got := s.Active(); got != 1 {
		t.Errorf("Active() = %d, want 1", got)
	}
}
