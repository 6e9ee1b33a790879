package memory

import (
	"context"
	"errors"
	"testing"

	"flag-quiz-service/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	if _, err := store.Load(ctx, "p1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	if err := store.Save(ctx, "p1", []byte("state-1"), 1); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := store.Load(ctx, "p1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(data) != "state-1" {
		t.Fatalf("unexpected payload %q", data)
	}

	if err := store.Delete(ctx, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Load(ctx, "p1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestSessionStoreRejectsStaleWrites(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	if err := store.Save(ctx, "p1", []byte("newer"), 5); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, "p1", []byte("stale"), 5); !errors.Is(err, domain.ErrStaleWrite) {
		t.Fatalf("expected ErrStaleWrite for equal stamp, got %v", err)
	}
	if err := store.Save(ctx, "p1", []byte("older"), 3); !errors.Is(err, domain.ErrStaleWrite) {
		t.Fatalf("expected ErrStaleWrite for older stamp, got %v", err)
	}

	data, err := store.Load(ctx, "p1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(data) != "newer" {
		t.Fatalf("stale write clobbered state: %q", data)
	}
}
