package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"

	errs "cardfetch/pkg/errors"
)

// Manager is the byte sink for downloaded assets, keyed by file name
type Manager struct {
	bucket   *blob.Bucket
	location string
}

// NewManager stores assets as files under dir, creating it if needed.
// Writes go to a temp file in dir and are renamed over the destination, so a
// reader never observes a partially written asset.
func NewManager(ctx context.Context, dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}

	bucket, err := fileblob.OpenBucket(abs, &fileblob.Options{
		CreateDir: true,
		NoTempDir: true,
		Metadata:  fileblob.MetadataDontWrite,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open output directory: %w", err)
	}

	return &Manager{bucket: bucket, location: dir}, nil
}

// OpenManager stores assets in the bucket at bucketURL (file://, mem://, or
// any scheme whose driver is linked into the binary)
func OpenManager(ctx context.Context, bucketURL string) (*Manager, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket %s: %w", bucketURL, err)
	}
	return &Manager{bucket: bucket, location: bucketURL}, nil
}

// NewManagerWithBucket wraps an already opened bucket
func NewManagerWithBucket(bucket *blob.Bucket, location string) *Manager {
	return &Manager{bucket: bucket, location: location}
}

// Location returns the directory or bucket URL assets are written to
func (m *Manager) Location() string {
	return m.location
}

// Path returns where key is stored, for display
func (m *Manager) Path(key string) string {
	if strings.Contains(m.location, "://") {
		return strings.TrimSuffix(m.location, "/") + "/" + key
	}
	return filepath.Join(m.location, key)
}

// Exists reports whether key is present
func (m *Manager) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := m.bucket.Exists(ctx, key)
	if err != nil {
		return false, errs.Wrap(errs.ErrorTypeStorage, err, "failed to stat "+key)
	}
	return ok, nil
}

// Save writes data under key, replacing any existing object
func (m *Manager) Save(ctx context.Context, key string, data []byte) error {
	if err := m.bucket.WriteAll(ctx, key, data, nil); err != nil {
		return errs.Wrap(errs.ErrorTypeStorage, err, "failed to write "+key)
	}
	return nil
}

// SaveFrom streams r into key
func (m *Manager) SaveFrom(ctx context.Context, key string, r io.Reader) (int64, error) {
	w, err := m.bucket.NewWriter(ctx, key, nil)
	if err != nil {
		return 0, errs.Wrap(errs.ErrorTypeStorage, err, "failed to open "+key)
	}

	n, err := io.Copy(w, r)
	closeErr := w.Close()
	if err != nil {
		return n, errs.Wrap(errs.ErrorTypeStorage, err, "failed to write "+key)
	}
	if closeErr != nil {
		return n, errs.Wrap(errs.ErrorTypeStorage, closeErr, "failed to commit "+key)
	}
	return n, nil
}

// Read returns the bytes stored under key
func (m *Manager) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := m.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, errs.Wrap(errs.ErrorTypeNotFound, err, key)
		}
		return nil, errs.Wrap(errs.ErrorTypeStorage, err, "failed to read "+key)
	}
	return data, nil
}

// Delete removes key. A missing key is not an error.
func (m *Manager) Delete(ctx context.Context, key string) error {
	if err := m.bucket.Delete(ctx, key); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return errs.Wrap(errs.ErrorTypeStorage, err, "failed to delete "+key)
	}
	return nil
}

// Keys lists stored keys with the given suffix in lexical order
func (m *Manager) Keys(ctx context.Context, suffix string) ([]string, error) {
	var keys []string
	iter := m.bucket.List(nil)
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.Wrap(errs.ErrorTypeStorage, err, "failed to list objects")
		}
		if !obj.IsDir && strings.HasSuffix(obj.Key, suffix) {
			keys = append(keys, obj.Key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Close releases the underlying bucket
func (m *Manager) Close() error {
	return m.bucket.Close()
}
