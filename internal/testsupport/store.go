package testsupport

import (
	"testing"

	"catalogpress/internal/config"
	"catalogpress/internal/editstore"
)

// MustOpenStore opens an edit store against the test config, closing it when
// the test finishes.
func MustOpenStore(t testing.TB, cfg *config.Config) *editstore.Store {
	t.Helper()

	store, err := editstore.Open(cfg)
	if err != nil {
		t.Fatalf("open edit store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close edit store: %v", err)
		}
	})
	return store
}
