package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	return s
}

func TestCreateReadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	doc := map[string]any{"user": "alice1", "count": float64(3)}
	if err := s.Create("users", "alice1", doc); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	var got map[string]any
	if err := s.Read("users", "alice1", &got); err != nil {
		t.Fatalf("Read() unexpected error: %v", err)
	}
	if got["user"] != "alice1" || got["count"] != float64(3) {
		t.Errorf("Read() = %v, want %v", got, doc)
	}
}

func TestCreateExclusive(t *testing.T) {
	s := newTestStore(t)

	if err := s.Create("users", "alice1", map[string]string{"v": "1"}); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if err := s.Create("users", "alice1", map[string]string{"v": "2"}); !errors.Is(err, ErrExists) {
		t.Fatalf("second Create() error = %v, want ErrExists", err)
	}

	// The losing create must not have clobbered the original.
	var got map[string]string
	if err := s.Read("users", "alice1", &got); err != nil {
		t.Fatalf("Read() unexpected error: %v", err)
	}
	if got["v"] != "1" {
		t.Errorf("record overwritten by failed create: %v", got)
	}
}

func TestReadNotFound(t *testing.T) {
	s := newTestStore(t)

	var got map[string]any
	if err := s.Read("users", "ghost", &got); !errors.Is(err, ErrNotFound) {
		t.Errorf("Read() error = %v, want ErrNotFound", err)
	}
}

func TestReadMalformedTreatedAsAbsent(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	if err := os.MkdirAll(filepath.Join(dir, "users"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "users", "bad.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := s.Read("users", "bad", &got); !errors.Is(err, ErrNotFound) {
		t.Errorf("Read() of malformed record error = %v, want ErrNotFound", err)
	}
}

func TestUpdateReplacesEntirely(t *testing.T) {
	s := newTestStore(t)

	if err := s.Create("users", "alice1", map[string]string{"old": "field"}); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if err := s.Update("users", "alice1", map[string]string{"new": "field"}); err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}

	var got map[string]string
	if err := s.Read("users", "alice1", &got); err != nil {
		t.Fatalf("Read() unexpected error: %v", err)
	}
	if _, ok := got["old"]; ok {
		t.Errorf("Update() merged instead of replaced: %v", got)
	}
	if got["new"] != "field" {
		t.Errorf("Update() lost new contents: %v", got)
	}
}

func TestUpdateNotFound(t *testing.T) {
	s := newTestStore(t)

	if err := s.Update("users", "ghost", map[string]string{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	if err := s.Create("users", "alice1", map[string]string{}); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if err := s.Delete("users", "alice1"); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}

	var got map[string]any
	if err := s.Read("users", "alice1", &got); !errors.Is(err, ErrNotFound) {
		t.Errorf("Read() after delete error = %v, want ErrNotFound", err)
	}
	if err := s.Delete("users", "alice1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestList(t *testing.T) {
	s := newTestStore(t)

	if keys, err := s.List("tokens"); err != nil || len(keys) != 0 {
		t.Fatalf("List() of empty collection = %v, %v", keys, err)
	}

	for _, key := range []string{"aaa", "bbb"} {
		if err := s.Create("tokens", key, map[string]string{}); err != nil {
			t.Fatalf("Create(%q) unexpected error: %v", key, err)
		}
	}
	if err := s.Delete("tokens", "aaa"); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}

	keys, err := s.List("tokens")
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(keys) != 1 || keys[0] != "bbb" {
		t.Errorf("List() = %v, want [bbb]", keys)
	}
}

func TestInvalidKeyRejected(t *testing.T) {
	s := newTestStore(t)

	for _, key := range []string{"", "..", "a/b", `a\b`} {
		if err := s.Create("users", key, map[string]string{}); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Create(%q) error = %v, want ErrInvalidKey", key, err)
		}
		var got map[string]any
		if err := s.Read("users", key, &got); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Read(%q) error = %v, want ErrInvalidKey", key, err)
		}
	}
}
