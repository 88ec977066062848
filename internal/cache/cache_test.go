package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smokyabdulrahman/masjidi/internal/geo"
)

// stores returns one of each Store implementation, rooted in a temp dir.
func stores(t *testing.T) map[string]Store {
	t.Helper()

	f, err := NewFile(filepath.Join(t.TempDir(), "files"))
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return map[string]Store{
		"file":   f,
		"sqlite": db,
		"memory": NewMemory(),
	}
}

// ---------------------------------------------------------------------------
// Store behaviour, shared by every implementation
// ---------------------------------------------------------------------------

func TestStore_GetMissing(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(context.Background(), "nope")
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("Get missing = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStore_SetGetOverwriteDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Set(ctx, "k", []byte("one")); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, err := s.Get(ctx, "k")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(got) != "one" {
				t.Errorf("Get = %q, want %q", got, "one")
			}

			if err := s.Set(ctx, "k", []byte("two")); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}
			got, _ = s.Get(ctx, "k")
			if string(got) != "two" {
				t.Errorf("Get after overwrite = %q, want %q", got, "two")
			}

			if err := s.Delete(ctx, "k"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get after delete = %v, want ErrNotFound", err)
			}

			// Deleting twice is fine.
			if err := s.Delete(ctx, "k"); err != nil {
				t.Errorf("second Delete: %v", err)
			}
		})
	}
}

func TestStore_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			s.Set(ctx, "schedule|a", []byte("a"))
			s.Set(ctx, "schedule|b", []byte("b"))

			a, _ := s.Get(ctx, "schedule|a")
			b, _ := s.Get(ctx, "schedule|b")
			if string(a) != "a" || string(b) != "b" {
				t.Errorf("got a=%q b=%q, want a and b", a, b)
			}
		})
	}
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Set(ctx, "k", []byte("v")); !errors.Is(err, context.Canceled) {
				t.Errorf("Set = %v, want context.Canceled", err)
			}
			if _, err := s.Get(ctx, "k"); !errors.Is(err, context.Canceled) {
				t.Errorf("Get = %v, want context.Canceled", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// File store
// ---------------------------------------------------------------------------

func TestNewFile_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	f, err := NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if f.Dir() != dir {
		t.Errorf("Dir = %q, want %q", f.Dir(), dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("directory not created: %v", err)
	}
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	a, _ := NewFile(dir)
	if err := a.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	b, _ := NewFile(dir)
	got, err := b.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get = %q, want %q", got, "v")
	}
}

func TestOpenSQLite_RequiresPath(t *testing.T) {
	if _, err := OpenSQLite("  "); err == nil {
		t.Fatal("expected error for empty path, got nil")
	}
}

func TestOpenSQLite_AppliesPragmas(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "pragma.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()

	var mode string
	if err := db.sqlDB.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want %q", mode, "wal")
	}

	var timeout int
	if err := db.sqlDB.QueryRow("PRAGMA busy_timeout").Scan(&timeout); err != nil {
		t.Fatalf("busy_timeout: %v", err)
	}
	if timeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", timeout)
	}
}

// ---------------------------------------------------------------------------
// JSON helpers and geolocation
// ---------------------------------------------------------------------------

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	type entry struct {
		Name string `json:"name"`
	}
	if err := SetJSON(ctx, s, "k", entry{Name: "Fajr"}); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	var got entry
	if err := GetJSON(ctx, s, "k", &got); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if got.Name != "Fajr" {
		t.Errorf("Name = %q, want %q", got.Name, "Fajr")
	}

	s.Set(ctx, "bad", []byte("not json"))
	if err := GetJSON(ctx, s, "bad", &got); err == nil {
		t.Error("expected decode error, got nil")
	}
}

func TestGeo_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	if got := LoadGeo(ctx, s, now); got != nil {
		t.Fatalf("LoadGeo on empty store = %+v, want nil", got)
	}

	loc := &geo.Location{Latitude: 21.42, Longitude: 39.83, City: "Mecca", Country: "Saudi Arabia", Timezone: "Asia/Riyadh"}
	if err := SaveGeo(ctx, s, loc, now); err != nil {
		t.Fatalf("SaveGeo: %v", err)
	}

	got := LoadGeo(ctx, s, now.Add(23*time.Hour))
	if got == nil {
		t.Fatal("LoadGeo returned nil within TTL")
	}
	if got.City != "Mecca" || got.Timezone != "Asia/Riyadh" {
		t.Errorf("LoadGeo = %+v, want Mecca/Asia/Riyadh", got)
	}

	if got := LoadGeo(ctx, s, now.Add(25*time.Hour)); got != nil {
		t.Errorf("LoadGeo after TTL = %+v, want nil", got)
	}
}
