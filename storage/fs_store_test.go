package storage

import (
	"context"
	"strings"
	"testing"
)

func TestFSStoreRoundTrip(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}
	ctx := context.Background()

	uri, err := store.Put(ctx, "triage_v1/model.bin", []byte("weights"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if !strings.HasPrefix(uri, "file://") {
		t.Errorf("uri scheme: got %q", uri)
	}

	data, err := store.Get(ctx, uri)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(data) != "weights" {
		t.Errorf("round trip: got %q", data)
	}

	if err := store.Delete(ctx, uri); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, uri); err == nil {
		t.Error("Get succeeded after Delete")
	}
}

func TestFSStoreRejectsEscapingKey(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}

	if _, err := store.Put(context.Background(), "../../etc/passwd", []byte("x")); err == nil {
		t.Error("Put accepted a key escaping the root")
	}
}

func TestFSStoreRejectsForeignURI(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}

	if _, err := store.Get(context.Background(), "file:///etc/passwd"); err == nil {
		t.Error("Get accepted a URI outside the root")
	}
	if _, err := store.Get(context.Background(), "s3://bucket/key"); err == nil {
		t.Error("Get accepted a non-file URI")
	}
}
