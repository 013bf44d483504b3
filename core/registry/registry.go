package registry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"trainloop/core/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a model name/version pair is not registered
var ErrNotFound = errors.New("model not found")

// ErrChecksumMismatch is returned when stored bytes no longer match the
// checksum recorded at save time
var ErrChecksumMismatch = errors.New("model checksum mismatch")

// Store is the metadata persistence port
type Store interface {
	List(ctx context.Context, filter models.ModelFilter) ([]models.ModelMetadata, error)
	Get(ctx context.Context, name, version string) (*models.ModelMetadata, error)
	Add(ctx context.Context, m *models.ModelMetadata) error
	Remove(ctx context.Context, name, version string) error
}

// BlobStore is the artifact bytes port
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) (uri string, err error)
	Get(ctx context.Context, uri string) ([]byte, error)
	Delete(ctx context.Context, uri string) error
}

// Registry manages model versions: metadata through the Store port, artifact
// bytes through the BlobStore port. Both are injected so tests can swap in
// doubles.
type Registry struct {
	store Store
	blobs BlobStore
}

// New creates a registry over the given ports
func New(store Store, blobs BlobStore) *Registry {
	return &Registry{store: store, blobs: blobs}
}

// SaveModel stores artifact bytes and registers metadata. The checksum is
// computed here, not trusted from the caller.
func (r *Registry) SaveModel(ctx context.Context, m models.ModelMetadata, artifact []byte) (*models.ModelMetadata, error) {
	if m.Name == "" || m.Version == "" {
		return nil, fmt.Errorf("model name and version are required")
	}
	if len(artifact) == 0 {
		return nil, fmt.Errorf("empty model artifact")
	}

	if existing, err := r.store.Get(ctx, m.Name, m.Version); err == nil && existing != nil {
		return nil, fmt.Errorf("model %s version %s already registered", m.Name, m.Version)
	}

	sum := sha256.Sum256(artifact)
	m.ID = uuid.New().String()
	m.Checksum = hex.EncodeToString(sum[:])
	m.SizeBytes = int64(len(artifact))
	m.CreatedAt = time.Now().UTC()

	uri, err := r.blobs.Put(ctx, fmt.Sprintf("%s_v%s/model.bin", m.Name, m.Version), artifact)
	if err != nil {
		return nil, fmt.Errorf("storing model artifact: %w", err)
	}
	m.ArtifactURI = uri

	if err := r.store.Add(ctx, &m); err != nil {
		// Metadata failed; don't leave an orphan artifact behind.
		r.blobs.Delete(ctx, uri)
		return nil, fmt.Errorf("registering model metadata: %w", err)
	}
	return &m, nil
}

// LoadModel returns artifact bytes and metadata, verifying integrity against
// the recorded checksum.
func (r *Registry) LoadModel(ctx context.Context, name, version string) ([]byte, *models.ModelMetadata, error) {
	meta, err := r.store.Get(ctx, name, version)
	if err != nil {
		return nil, nil, err
	}

	data, err := r.blobs.Get(ctx, meta.ArtifactURI)
	if err != nil {
		return nil, nil, fmt.Errorf("loading model artifact: %w", err)
	}

	sum := sha256.Sum256(data)
	if hex.EncodeToString(sum[:]) != meta.Checksum {
		return nil, nil, fmt.Errorf("%w: %s v%s", ErrChecksumMismatch, name, version)
	}
	return data, meta, nil
}

// ListModels lists registered models through the metadata port
func (r *Registry) ListModels(ctx context.Context, filter models.ModelFilter) ([]models.ModelMetadata, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 10
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return r.store.List(ctx, filter)
}

// GetModel returns metadata only
func (r *Registry) GetModel(ctx context.Context, name, version string) (*models.ModelMetadata, error) {
	return r.store.Get(ctx, name, version)
}

// DeleteModel removes metadata and the stored artifact
func (r *Registry) DeleteModel(ctx context.Context, name, version string) error {
	meta, err := r.store.Get(ctx, name, version)
	if err != nil {
		return err
	}
	if err := r.store.Remove(ctx, name, version); err != nil {
		return err
	}
	if err := r.blobs.Delete(ctx, meta.ArtifactURI); err != nil {
		return fmt.Errorf("removing model artifact: %w", err)
	}
	return nil
}

// VerifyAll re-checks every stored artifact against its recorded checksum and
// returns the name/version pairs that failed. Used by the integrity sweep.
func (r *Registry) VerifyAll(ctx context.Context) ([]string, error) {
	metas, err := r.store.List(ctx, models.ModelFilter{Limit: 100})
	if err != nil {
		return nil, err
	}

	var corrupted []string
	for _, meta := range metas {
		data, err := r.blobs.Get(ctx, meta.ArtifactURI)
		if err != nil {
			corrupted = append(corrupted, fmt.Sprintf("%s v%s (unreadable)", meta.Name, meta.Version))
			continue
		}
		sum := sha256.Sum256(data)
		if hex.EncodeToString(sum[:]) != meta.Checksum {
			corrupted = append(corrupted, fmt.Sprintf("%s v%s", meta.Name, meta.Version))
		}
	}
	return corrupted, nil
}
