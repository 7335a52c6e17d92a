package credential

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestSetGetRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "credential.json")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	if got := store.Get(); got != "" {
		t.Fatalf("fresh store Get() = %q, want empty", got)
	}

	if err := store.Set("sk-first"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got := store.Get(); got != "sk-first" {
		t.Fatalf("Get() = %q, want %q", got, "sk-first")
	}

	// last explicit write wins
	if err := store.Set("  sk-second  "); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got := store.Get(); got != "sk-second" {
		t.Fatalf("Get() = %q, want trimmed %q", got, "sk-second")
	}
}

func TestSetRejectsBlankInput(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "credential.json")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if err := store.Set("sk-keep"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	for _, input := range []string{"", "   ", "\t\n"} {
		if err := store.Set(input); !errors.Is(err, ErrEmptyKey) {
			t.Fatalf("Set(%q) error = %v, want ErrEmptyKey", input, err)
		}
	}

	// the rejected write must not clobber the stored value
	if got := store.Get(); got != "sk-keep" {
		t.Fatalf("Get() = %q after rejected writes, want %q", got, "sk-keep")
	}
}

func TestCredentialPersistsAcrossStores(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "credential.json")
	first, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if err := first.Set("sk-persist"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	second, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if got := second.Get(); got != "sk-persist" {
		t.Fatalf("Get() = %q across instances, want %q", got, "sk-persist")
	}
}

func TestClear(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "credential.json")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	// clearing an empty store is not an error
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() on empty store error = %v", err)
	}

	if err := store.Set("sk-gone"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if got := store.Get(); got != "" {
		t.Fatalf("Get() = %q after Clear(), want empty", got)
	}
}

func TestEnvVarOverridesDefaultPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.json")
	t.Setenv(pathEnvVar, path)

	store, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if store.Path() != path {
		t.Fatalf("Path() = %q, want %q", store.Path(), path)
	}
}
