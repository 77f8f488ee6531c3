package kv_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/NU-CEM/singing-materials-online/pkg/kv"
)

var backends = []struct {
	name string
	open func(t *testing.T) kv.Store
}{
	{"memory", func(t *testing.T) kv.Store {
		return kv.NewMemory()
	}},
	{"badger", func(t *testing.T) kv.Store {
		s, err := kv.NewBadger(kv.BadgerOptions{InMemory: true})
		if err != nil {
			t.Fatalf("NewBadger: %v", err)
		}
		return s
	}},
}

func forEachBackend(t *testing.T, fn func(t *testing.T, s kv.Store)) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			t.Cleanup(func() { s.Close() })
			fn(t, s)
		})
	}
}

func TestGetSetDelete(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s kv.Store) {
		ctx := context.Background()
		key := kv.Key{"phonon", "bs", "mp-149"}

		if _, err := s.Get(ctx, key); !errors.Is(err, kv.ErrNotFound) {
			t.Fatalf("Get missing: err = %v, want ErrNotFound", err)
		}

		if err := s.Set(ctx, key, []byte("v1")); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := s.Set(ctx, key, []byte("v2")); err != nil {
			t.Fatalf("Set overwrite: %v", err)
		}
		got, err := s.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(got) != "v2" {
			t.Fatalf("Get = %q, want %q", got, "v2")
		}

		if err := s.Delete(ctx, key); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := s.Get(ctx, key); !errors.Is(err, kv.ErrNotFound) {
			t.Fatalf("Get after delete: err = %v", err)
		}
		if err := s.Delete(ctx, kv.Key{"no", "such", "key"}); err != nil {
			t.Fatalf("Delete missing: %v", err)
		}
	})
}

func TestList(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s kv.Store) {
		ctx := context.Background()
		for _, k := range []kv.Key{
			{"phonon", "bs", "mp-2"},
			{"phonon", "bs", "mp-149"},
			{"phonon", "dos", "mp-149"},
			{"phonon", "bsx", "mp-1"},
			{"summary", "mp-149"},
		} {
			if err := s.Set(ctx, k, []byte(k.String())); err != nil {
				t.Fatal(err)
			}
		}

		keys, err := kv.Keys(ctx, s, kv.Key{"phonon", "bs"})
		if err != nil {
			t.Fatal(err)
		}
		var got []string
		for _, k := range keys {
			got = append(got, k.String())
		}
		want := []string{"phonon:bs:mp-149", "phonon:bs:mp-2"}
		if !slices.Equal(got, want) {
			t.Errorf("Keys(phonon:bs) = %v, want %v", got, want)
		}

		all, err := kv.Keys(ctx, s, nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(all) != 5 {
			t.Errorf("Keys(nil) returned %d keys, want 5", len(all))
		}

		for e, err := range s.List(ctx, kv.Key{"summary"}) {
			if err != nil {
				t.Fatal(err)
			}
			if string(e.Value) != "summary:mp-149" {
				t.Errorf("value = %q", e.Value)
			}
			if !slices.Equal(e.Key, kv.Key{"summary", "mp-149"}) {
				t.Errorf("key = %v", e.Key)
			}
		}
	})
}

func TestPurge(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s kv.Store) {
		ctx := context.Background()
		s.Set(ctx, kv.Key{"phonon", "bs", "mp-1"}, []byte("a"))
		s.Set(ctx, kv.Key{"phonon", "dos", "mp-1"}, []byte("b"))
		s.Set(ctx, kv.Key{"summary", "mp-1"}, []byte("c"))

		n, err := kv.Purge(ctx, s, kv.Key{"phonon"})
		if err != nil {
			t.Fatal(err)
		}
		if n != 2 {
			t.Errorf("Purge removed %d, want 2", n)
		}
		if _, err := s.Get(ctx, kv.Key{"summary", "mp-1"}); err != nil {
			t.Errorf("unrelated key removed: %v", err)
		}
	})
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := kv.NewMemory()
	val := []byte("abc")
	s.Set(ctx, kv.Key{"k"}, val)
	val[0] = 'z'

	got, _ := s.Get(ctx, kv.Key{"k"})
	if string(got) != "abc" {
		t.Fatalf("stored value mutated: %q", got)
	}
	got[1] = 'z'
	again, _ := s.Get(ctx, kv.Key{"k"})
	if string(again) != "abc" {
		t.Fatalf("returned value aliases store: %q", again)
	}
}

func TestNewBadger_RequiresDir(t *testing.T) {
	if _, err := kv.NewBadger(kv.BadgerOptions{}); err == nil {
		t.Fatal("expected error without Dir")
	}
}

func TestBadger_OnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := kv.NewBadger(kv.BadgerOptions{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, kv.Key{"summary", "mp-149"}, []byte("Si")); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = kv.NewBadger(kv.BadgerOptions{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.Get(ctx, kv.Key{"summary", "mp-149"})
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "Si" {
		t.Errorf("Get = %q, want Si", got)
	}
}
