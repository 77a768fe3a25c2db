package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemory_PutGetRoundTrip(t *testing.T) {
	m := NewMemory()
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	if err := m.Put(context.Background(), "search:v1:q=ai", ids, time.Minute); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, ok, err := m.Get(context.Background(), "search:v1:q=ai")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a hit")
	}
	if len(got) != 2 || got[0] != ids[0] || got[1] != ids[1] {
		t.Errorf("expected %v, got %v", ids, got)
	}
}

func TestMemory_MissOnUnknownKey(t *testing.T) {
	m := NewMemory()
	_, ok, err := m.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ok {
		t.Error("expected a miss")
	}
}

func TestMemory_EntriesExpire(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	m := NewMemory(WithClock(func() time.Time { return now }))

	if err := m.Put(context.Background(), "k", []uuid.UUID{uuid.New()}, time.Minute); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	if _, ok, _ := m.Get(context.Background(), "k"); !ok {
		t.Fatal("expected hit before expiry")
	}

	now = now.Add(time.Minute + time.Second)
	if _, ok, _ := m.Get(context.Background(), "k"); ok {
		t.Error("expected miss after expiry")
	}
	if m.Len() != 0 {
		t.Errorf("expected 0 live entries, got %d", m.Len())
	}
}

func TestMemory_GetReturnsACopy(t *testing.T) {
	m := NewMemory()
	id := uuid.New()
	if err := m.Put(context.Background(), "k", []uuid.UUID{id}, time.Minute); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, _, _ := m.Get(context.Background(), "k")
	got[0] = uuid.New()

	again, _, _ := m.Get(context.Background(), "k")
	if again[0] != id {
		t.Error("mutating a returned slice must not corrupt the cached entry")
	}
}

func TestMemory_PutCopiesInput(t *testing.T) {
	m := NewMemory()
	id := uuid.New()
	ids := []uuid.UUID{id}
	if err := m.Put(context.Background(), "k", ids, time.Minute); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	ids[0] = uuid.New()

	got, _, _ := m.Get(context.Background(), "k")
	if got[0] != id {
		t.Error("mutating the caller's slice must not corrupt the cached entry")
	}
}

func TestMemory_CapacityEvictsClosestToExpiry(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	m := NewMemory(WithCapacity(2), WithClock(func() time.Time { return now }))

	_ = m.Put(context.Background(), "short", []uuid.UUID{uuid.New()}, time.Minute)
	_ = m.Put(context.Background(), "long", []uuid.UUID{uuid.New()}, time.Hour)
	_ = m.Put(context.Background(), "new", []uuid.UUID{uuid.New()}, time.Hour)

	if _, ok, _ := m.Get(context.Background(), "short"); ok {
		t.Error("expected the entry closest to expiry to be evicted")
	}
	if _, ok, _ := m.Get(context.Background(), "long"); !ok {
		t.Error("expected the long-lived entry to survive")
	}
	if _, ok, _ := m.Get(context.Background(), "new"); !ok {
		t.Error("expected the new entry to be stored")
	}
}

func TestMemory_OverwriteRefreshesTTL(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	m := NewMemory(WithClock(func() time.Time { return now }))

	_ = m.Put(context.Background(), "k", []uuid.UUID{uuid.New()}, time.Minute)
	now = now.Add(50 * time.Second)
	_ = m.Put(context.Background(), "k", []uuid.UUID{uuid.New()}, time.Minute)
	now = now.Add(30 * time.Second)

	if _, ok, _ := m.Get(context.Background(), "k"); !ok {
		t.Error("overwrite should restart the TTL")
	}
}
