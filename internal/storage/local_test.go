package storage

import (
	"bytes"
	"context"
	"testing"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	ctx := context.Background()
	payload := []byte("proposal attachment bytes")

	key, err := store.Put(ctx, "notes.pdf", "application/pdf", payload)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if key == "" {
		t.Fatal("empty storage key")
	}

	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("stored bytes differ")
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, key); err != ErrNotFound {
		t.Errorf("got %v after delete, want ErrNotFound", err)
	}
}

func TestLocalStoreUniqueKeys(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	ctx := context.Background()

	k1, err := store.Put(ctx, "same.txt", "text/plain", []byte("one"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	k2, err := store.Put(ctx, "same.txt", "text/plain", []byte("two"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if k1 == k2 {
		t.Error("same file name produced the same key")
	}
}

func TestNewSelectsBackend(t *testing.T) {
	if _, err := New(context.Background(), Config{Backend: "bogus"}, nil); err == nil {
		t.Error("unknown backend should error")
	}
	if _, err := New(context.Background(), Config{Backend: "local", LocalPath: t.TempDir()}, nil); err != nil {
		t.Errorf("local backend: %v", err)
	}
}
