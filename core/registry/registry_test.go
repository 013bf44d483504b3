package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"trainloop/core/models"
)

// memoryBlobs is a BlobStore double backed by a map
type memoryBlobs struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryBlobs() *memoryBlobs {
	return &memoryBlobs{data: make(map[string][]byte)}
}

func (b *memoryBlobs) Put(_ context.Context, key string, data []byte) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	uri := "mem://" + key
	b.data[uri] = append([]byte(nil), data...)
	return uri, nil
}

func (b *memoryBlobs) Get(_ context.Context, uri string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.data[uri]
	if !ok {
		return nil, fmt.Errorf("blob %s not found", uri)
	}
	return append([]byte(nil), data...), nil
}

func (b *memoryBlobs) Delete(_ context.Context, uri string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, uri)
	return nil
}

func newTestRegistry() (*Registry, *memoryBlobs) {
	blobs := newMemoryBlobs()
	return New(NewMemoryStore(), blobs), blobs
}

func TestSaveAndLoadModel(t *testing.T) {
	reg, _ := newTestRegistry()
	ctx := context.Background()

	saved, err := reg.SaveModel(ctx, models.ModelMetadata{
		Name:      "ticket-triage",
		Version:   "1.0.0",
		Framework: "tensorflow",
		TaskType:  "classification",
	}, []byte("model-bytes"))
	if err != nil {
		t.Fatalf("SaveModel failed: %v", err)
	}
	if saved.Checksum == "" || saved.ID == "" {
		t.Errorf("checksum or id not assigned: %+v", saved)
	}
	if saved.SizeBytes != int64(len("model-bytes")) {
		t.Errorf("size: got %d", saved.SizeBytes)
	}

	data, meta, err := reg.LoadModel(ctx, "ticket-triage", "1.0.0")
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}
	if string(data) != "model-bytes" {
		t.Errorf("artifact bytes: got %q", data)
	}
	if meta.Checksum != saved.Checksum {
		t.Errorf("checksum mismatch between save and load metadata")
	}
}

func TestLoadModelDetectsCorruption(t *testing.T) {
	reg, blobs := newTestRegistry()
	ctx := context.Background()

	saved, err := reg.SaveModel(ctx, models.ModelMetadata{Name: "m", Version: "1"}, []byte("original"))
	if err != nil {
		t.Fatalf("SaveModel failed: %v", err)
	}

	blobs.mu.Lock()
	blobs.data[saved.ArtifactURI] = []byte("tampered")
	blobs.mu.Unlock()

	if _, _, err := reg.LoadModel(ctx, "m", "1"); !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("got %v, want ErrChecksumMismatch", err)
	}
}

func TestSaveModelRejectsDuplicates(t *testing.T) {
	reg, _ := newTestRegistry()
	ctx := context.Background()

	if _, err := reg.SaveModel(ctx, models.ModelMetadata{Name: "m", Version: "1"}, []byte("a")); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if _, err := reg.SaveModel(ctx, models.ModelMetadata{Name: "m", Version: "1"}, []byte("b")); err == nil {
		t.Error("duplicate name/version accepted")
	}
}

func TestDeleteModelRemovesArtifact(t *testing.T) {
	reg, blobs := newTestRegistry()
	ctx := context.Background()

	saved, err := reg.SaveModel(ctx, models.ModelMetadata{Name: "m", Version: "1"}, []byte("bytes"))
	if err != nil {
		t.Fatalf("SaveModel failed: %v", err)
	}

	if err := reg.DeleteModel(ctx, "m", "1"); err != nil {
		t.Fatalf("DeleteModel failed: %v", err)
	}
	if _, err := reg.GetModel(ctx, "m", "1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("metadata still present: %v", err)
	}
	if _, err := blobs.Get(ctx, saved.ArtifactURI); err == nil {
		t.Error("artifact still present after delete")
	}
}

func TestListModelsFilterAndPagination(t *testing.T) {
	reg, _ := newTestRegistry()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		framework := "tensorflow"
		if i%2 == 1 {
			framework = "pytorch"
		}
		_, err := reg.SaveModel(ctx, models.ModelMetadata{
			Name:      fmt.Sprintf("model-%d", i),
			Version:   "1",
			Framework: framework,
		}, []byte{byte(i)})
		if err != nil {
			t.Fatalf("SaveModel %d failed: %v", i, err)
		}
	}

	tf, err := reg.ListModels(ctx, models.ModelFilter{Framework: "tensorflow"})
	if err != nil {
		t.Fatalf("ListModels failed: %v", err)
	}
	if len(tf) != 3 {
		t.Errorf("tensorflow filter: got %d, want 3", len(tf))
	}

	page, err := reg.ListModels(ctx, models.ModelFilter{Limit: 2, Offset: 4})
	if err != nil {
		t.Fatalf("ListModels failed: %v", err)
	}
	if len(page) != 1 {
		t.Errorf("pagination: got %d, want 1", len(page))
	}
}

func TestVerifyAllReportsCorruption(t *testing.T) {
	reg, blobs := newTestRegistry()
	ctx := context.Background()

	if _, err := reg.SaveModel(ctx, models.ModelMetadata{Name: "good", Version: "1"}, []byte("fine")); err != nil {
		t.Fatal(err)
	}
	bad, err := reg.SaveModel(ctx, models.ModelMetadata{Name: "bad", Version: "1"}, []byte("fine"))
	if err != nil {
		t.Fatal(err)
	}

	blobs.mu.Lock()
	blobs.data[bad.ArtifactURI] = []byte("bitrot")
	blobs.mu.Unlock()

	corrupted, err := reg.VerifyAll(ctx)
	if err != nil {
		t.Fatalf("VerifyAll failed: %v", err)
	}
	if len(corrupted) != 1 || corrupted[0] != "bad v1" {
		t.Errorf("corrupted: got %v, want [bad v1]", corrupted)
	}
}
