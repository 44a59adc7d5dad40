package memory

import "testing"

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	session := store.GetOrCreate("player-1")
	if session == nil {
		t.Fatalf("expected session")
	}
	if again := store.GetOrCreate("player-1"); again != session {
		t.Fatalf("expected same session on repeat GetOrCreate")
	}
	if _, ok := store.Get("player-1"); !ok {
		t.Fatalf("expected session present")
	}

	store.Delete("player-1")
	if _, ok := store.Get("player-1"); ok {
		t.Fatalf("expected session removed")
	}
}
