package store_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/heysubinoy/jsonkv/internal/store"
	"github.com/heysubinoy/jsonkv/pkg/kv"
)

// newBoltStore opens a BoltStore backed by a throwaway file.
func newBoltStore(t *testing.T) *store.BoltStore {
	t.Helper()

	s, err := store.NewBoltStore(filepath.Join(t.TempDir(), "test.db"), 0600, "entries")
	if err != nil {
		t.Fatalf("failed to open bolt store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMemStore(t *testing.T) {
	testStoreSemantics(t, func(t *testing.T) kv.Store {
		return store.NewMemStore()
	})
}

func TestBoltStore(t *testing.T) {
	testStoreSemantics(t, func(t *testing.T) kv.Store {
		return newBoltStore(t)
	})
}

// testStoreSemantics runs the semantics every kv.Store backend has to
// satisfy. newStore must return a fresh, empty store.
func testStoreSemantics(t *testing.T, newStore func(t *testing.T) kv.Store) {
	value := json.RawMessage(`{"a":"b","data":{"c":"d"}}`)
	value2 := json.RawMessage(`{"e":"f"}`)

	t.Run("CreateThenGet", func(t *testing.T) {
		s := newStore(t)

		if err := s.Create("k1", value); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		got, err := s.Get("k1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, value) {
			t.Errorf("expected value %s, got %s", value, got)
		}
	})

	t.Run("DuplicateCreate", func(t *testing.T) {
		s := newStore(t)

		if err := s.Create("k1", value); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := s.Create("k1", value2); !errors.Is(err, kv.ErrKeyExists) {
			t.Fatalf("expected ErrKeyExists, got %v", err)
		}

		// The stored value must be untouched by the failed create.
		got, err := s.Get("k1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, value) {
			t.Errorf("expected value %s, got %s", value, got)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)

		if _, err := s.Get("nope"); !errors.Is(err, kv.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ReplaceMissing", func(t *testing.T) {
		s := newStore(t)

		if err := s.Replace("nope", value); !errors.Is(err, kv.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		s := newStore(t)

		if err := s.Delete("nope"); !errors.Is(err, kv.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ReplaceOverwritesWholesale", func(t *testing.T) {
		s := newStore(t)

		if err := s.Create("k1", value); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := s.Replace("k1", value2); err != nil {
			t.Fatalf("Replace failed: %v", err)
		}

		got, err := s.Get("k1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		// No merge: the old fields must be gone.
		if !bytes.Equal(got, value2) {
			t.Errorf("expected value %s, got %s", value2, got)
		}
	})

	t.Run("DeleteThenGet", func(t *testing.T) {
		s := newStore(t)

		if err := s.Create("k1", value); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := s.Delete("k1"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := s.Get("k1"); !errors.Is(err, kv.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}

		// A deleted key can be created again.
		if err := s.Create("k1", value2); err != nil {
			t.Fatalf("Create after delete failed: %v", err)
		}
	})

	t.Run("ScalarValues", func(t *testing.T) {
		s := newStore(t)

		for _, raw := range []string{`""`, `null`, `0`, `[1,2,3]`, `"text"`} {
			key := "scalar-" + raw
			if err := s.Create(key, json.RawMessage(raw)); err != nil {
				t.Fatalf("Create(%s) failed: %v", raw, err)
			}
			got, err := s.Get(key)
			if err != nil {
				t.Fatalf("Get(%s) failed: %v", raw, err)
			}
			if !bytes.Equal(got, json.RawMessage(raw)) {
				t.Errorf("expected value %s, got %s", raw, got)
			}
		}
	})

	t.Run("Count", func(t *testing.T) {
		s := newStore(t)

		assertCount := func(want int) {
			t.Helper()
			got, err := s.Count()
			if err != nil {
				t.Fatalf("Count failed: %v", err)
			}
			if got != want {
				t.Errorf("expected count %d, got %d", want, got)
			}
		}

		assertCount(0)
		s.Create("k1", value)
		s.Create("k2", value)
		assertCount(2)
		s.Replace("k1", value2)
		assertCount(2)
		s.Delete("k1")
		assertCount(1)
	})

	t.Run("ConcurrentCreate", func(t *testing.T) {
		s := newStore(t)

		const n = 32
		var wg sync.WaitGroup
		errs := make([]error, n)

		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				v, _ := json.Marshal(map[string]int{"writer": i})
				errs[i] = s.Create("contended", v)
			}(i)
		}
		wg.Wait()

		wins := 0
		for i, err := range errs {
			switch {
			case err == nil:
				wins++
			case errors.Is(err, kv.ErrKeyExists):
			default:
				t.Errorf("writer %d: unexpected error %v", i, err)
			}
		}
		if wins != 1 {
			t.Fatalf("expected exactly 1 winning create, got %d", wins)
		}

		count, err := s.Count()
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 entry after the race, got %d", count)
		}
	})
}

func TestBoltStoreReopen(t *testing.T) {
	file := filepath.Join(t.TempDir(), "reopen.db")

	s, err := store.NewBoltStore(file, 0600, "entries")
	if err != nil {
		t.Fatalf("failed to open bolt store: %v", err)
	}
	if err := s.Create("k1", json.RawMessage(`{"a":"b"}`)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s, err = store.NewBoltStore(file, 0600, "entries")
	if err != nil {
		t.Fatalf("failed to reopen bolt store: %v", err)
	}
	defer s.Close()

	got, err := s.Get("k1")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if !bytes.Equal(got, json.RawMessage(`{"a":"b"}`)) {
		t.Errorf("expected value to survive reopen, got %s", got)
	}
}
