package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/agenthub/agenthub/internal/domain/entity"
	apperrors "github.com/agenthub/agenthub/pkg/errors"
)

func newProviderStore(t *testing.T, dir string) *FileStore[*entity.Provider] {
	t.Helper()
	s, err := NewFileStore[*entity.Provider](filepath.Join(dir, "providers.json"), "provider", zap.NewNop())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	return s
}

func testProvider(name string) *entity.Provider {
	return &entity.Provider{
		Name:         name,
		Description:  "test provider",
		URL:          "https://example.test",
		ProviderType: entity.ProviderTypeCompany,
	}
}

func TestFileStoreAdd(t *testing.T) {
	dir := t.TempDir()
	store := newProviderStore(t, dir)

	t.Run("assigns id when absent", func(t *testing.T) {
		stored, err := store.Add(testProvider("Acme"))
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if stored.ID == "" {
			t.Fatal("expected assigned id")
		}
	})

	t.Run("keeps caller-supplied id", func(t *testing.T) {
		p := testProvider("Beta")
		p.ID = "beta-1"
		stored, err := store.Add(p)
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if stored.ID != "beta-1" {
			t.Fatalf("expected beta-1, got %s", stored.ID)
		}
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		p := testProvider("Beta2")
		p.ID = "beta-1"
		_, err := store.Add(p)
		if !apperrors.IsDuplicateID(err) {
			t.Fatalf("expected duplicate id error, got %v", err)
		}
	})

	t.Run("invalid record rejected before write", func(t *testing.T) {
		before := store.Count()
		_, err := store.Add(&entity.Provider{Name: "NoURL", Description: "x"})
		if !apperrors.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if store.Count() != before {
			t.Fatal("collection changed on failed add")
		}
	})
}

func TestFileStoreUpdateDelete(t *testing.T) {
	dir := t.TempDir()
	store := newProviderStore(t, dir)
	stored, err := store.Add(testProvider("Acme"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	t.Run("update existing", func(t *testing.T) {
		stored.Description = "updated"
		got, err := store.Update(stored)
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if got.Description != "updated" {
			t.Fatalf("expected updated description, got %q", got.Description)
		}
	})

	t.Run("update unknown id fails", func(t *testing.T) {
		p := testProvider("Ghost")
		p.ID = "ghost"
		if _, err := store.Update(p); !apperrors.IsNotFound(err) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("delete absent id is a no-op", func(t *testing.T) {
		before := store.Count()
		deleted, err := store.Delete("ghost")
		if err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if deleted || store.Count() != before {
			t.Fatal("expected no-op delete")
		}
	})

	t.Run("delete existing", func(t *testing.T) {
		deleted, err := store.Delete(stored.ID)
		if err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if !deleted || store.Count() != 0 {
			t.Fatal("expected record removed")
		}
	})
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := newProviderStore(t, dir)
	for _, name := range []string{"Acme", "Beta", "Gamma"} {
		if _, err := store.Add(testProvider(name)); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	// Reopening reads exactly what was saved, in the same order.
	reloaded := newProviderStore(t, dir)
	if reloaded.Count() != 3 {
		t.Fatalf("expected 3 records, got %d", reloaded.Count())
	}
	orig, again := store.All(), reloaded.All()
	for i := range orig {
		if orig[i].ID != again[i].ID || orig[i].Name != again[i].Name {
			t.Fatalf("record %d mismatch: %v vs %v", i, orig[i], again[i])
		}
		if !orig[i].CreatedAt.Equal(again[i].CreatedAt) {
			t.Fatalf("record %d created_at drifted: %v vs %v", i, orig[i].CreatedAt, again[i].CreatedAt)
		}
	}

	// Saving an unmodified just-loaded collection is byte-idempotent.
	path := filepath.Join(dir, "providers.json")
	before, _ := os.ReadFile(path)
	reloaded.mu.Lock()
	if err := reloaded.save(); err != nil {
		reloaded.mu.Unlock()
		t.Fatalf("save failed: %v", err)
	}
	reloaded.mu.Unlock()
	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Fatal("save(load()) changed file contents")
	}
}

func TestFileStoreLoadErrors(t *testing.T) {
	t.Run("missing file yields empty store", func(t *testing.T) {
		store := newProviderStore(t, t.TempDir())
		if store.Count() != 0 {
			t.Fatalf("expected empty store, got %d records", store.Count())
		}
	})

	t.Run("unparsable file is a corrupt store", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "providers.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := NewFileStore[*entity.Provider](path, "provider", zap.NewNop())
		if !apperrors.IsCorruptStore(err) {
			t.Fatalf("expected corrupt store error, got %v", err)
		}
	})

	t.Run("null record is a corrupt store, not a panic", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "providers.json")
		if err := os.WriteFile(path, []byte(`[null]`), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := NewFileStore[*entity.Provider](path, "provider", zap.NewNop())
		if !apperrors.IsCorruptStore(err) {
			t.Fatalf("expected corrupt store error, got %v", err)
		}
		if msg := err.Error(); !strings.Contains(msg, "record 0") {
			t.Fatalf("error should name the record index: %s", msg)
		}
	})

	t.Run("non-object record names file and index", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "providers.json")
		if err := os.WriteFile(path, []byte(`[{"id":"p1","name":"A","description":"d","url":"https://ok.test"}, "stray"]`), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := NewFileStore[*entity.Provider](path, "provider", zap.NewNop())
		if !apperrors.IsCorruptStore(err) {
			t.Fatalf("expected corrupt store error, got %v", err)
		}
		if msg := err.Error(); !strings.Contains(msg, "record 1") {
			t.Fatalf("error should name the record index: %s", msg)
		}
	})

	t.Run("record failing validation names file and index", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "providers.json")
		records := []map[string]any{
			{"id": "p1", "name": "Good", "description": "d", "url": "https://ok.test", "provider_type": "company"},
			{"id": "p2", "name": "", "description": "d", "url": "https://ok.test", "provider_type": "company"},
		}
		data, _ := json.Marshal(records)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := NewFileStore[*entity.Provider](path, "provider", zap.NewNop())
		if !apperrors.IsCorruptStore(err) {
			t.Fatalf("expected corrupt store error, got %v", err)
		}
		msg := err.Error()
		if !strings.Contains(msg, path) || !strings.Contains(msg, "record 1") {
			t.Fatalf("error should name file and record index: %s", msg)
		}
	})

	t.Run("duplicate ids in file rejected", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "providers.json")
		rec := map[string]any{"id": "p1", "name": "A", "description": "d", "url": "https://ok.test", "provider_type": "company"}
		data, _ := json.Marshal([]map[string]any{rec, rec})
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewFileStore[*entity.Provider](path, "provider", zap.NewNop()); !apperrors.IsCorruptStore(err) {
			t.Fatalf("expected corrupt store error, got %v", err)
		}
	})

	t.Run("missing optional fields load as defaults", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "providers.json")
		records := []map[string]any{
			{"id": "p1", "name": "Old", "description": "written before provider_type existed", "url": "https://ok.test"},
		}
		data, _ := json.Marshal(records)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
		store, err := NewFileStore[*entity.Provider](path, "provider", zap.NewNop())
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		p, ok := store.Get("p1")
		if !ok || p.ProviderType != entity.ProviderTypeCompany {
			t.Fatalf("expected default provider_type, got %+v", p)
		}
	})
}

// blockSaves redirects the store's backing path at a directory so every
// subsequent rename in save fails.
func blockSaves(t *testing.T, store *FileStore[*entity.Provider], dir string) {
	t.Helper()
	blocked := filepath.Join(dir, "blocked")
	if err := os.Mkdir(blocked, 0o755); err != nil {
		t.Fatal(err)
	}
	store.mu.Lock()
	store.path = blocked
	store.mu.Unlock()
}

func TestFileStoreRollbackOnFailedSave(t *testing.T) {
	dir := t.TempDir()
	store := newProviderStore(t, dir)
	stored, err := store.Add(testProvider("Acme"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	blockSaves(t, store, dir)

	t.Run("failed add leaves the collection unchanged", func(t *testing.T) {
		p := testProvider("Beta")
		p.ID = "beta-1"
		if _, err := store.Add(p); err == nil {
			t.Fatal("expected save failure")
		}
		if store.Count() != 1 {
			t.Fatalf("expected 1 record after rollback, got %d", store.Count())
		}
		if _, ok := store.Get("beta-1"); ok {
			t.Fatal("rolled-back record still present")
		}
	})

	t.Run("failed update keeps the previous record", func(t *testing.T) {
		changed := stored.Clone()
		changed.Description = "changed"
		if _, err := store.Update(changed); err == nil {
			t.Fatal("expected save failure")
		}
		got, ok := store.Get(stored.ID)
		if !ok {
			t.Fatal("record missing after rollback")
		}
		if got.Description != "test provider" {
			t.Fatalf("rollback lost the previous record: %q", got.Description)
		}
	})

	t.Run("failed delete restores the record and order", func(t *testing.T) {
		if _, err := store.Delete(stored.ID); err == nil {
			t.Fatal("expected save failure")
		}
		if _, ok := store.Get(stored.ID); !ok {
			t.Fatal("record missing after rollback")
		}
		all := store.All()
		if len(all) != 1 || all[0].ID != stored.ID {
			t.Fatalf("order not restored: %v", all)
		}
	})
}

func TestFileStoreAtomicWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := newProviderStore(t, dir)
	if _, err := store.Add(testProvider("Acme")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}
