package backup

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"aniport/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Mirror copies backup files to object storage under a key prefix.
type Mirror struct {
	client  storage.Client
	bucket  string
	prefix  string
	logger  *zap.Logger
	ensured bool
}

// NewMirror creates a mirror over client.
func NewMirror(client storage.Client, bucket, prefix string, logger *zap.Logger) *Mirror {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mirror{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: logger,
	}
}

func (m *Mirror) objectName(file string) string {
	name := filepath.Base(file)
	if m.prefix == "" {
		return name
	}
	return path.Join(m.prefix, name)
}

func (m *Mirror) ensureBucket(ctx context.Context) error {
	if m.ensured {
		return nil
	}
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", m.bucket, err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", m.bucket, err)
		}
		m.logger.Info("Created mirror bucket", zap.String("bucket", m.bucket))
	}
	m.ensured = true
	return nil
}

// Push uploads the local file, replacing any object of the same name.
func (m *Mirror) Push(ctx context.Context, file string) error {
	if err := m.ensureBucket(ctx); err != nil {
		return err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	name := m.objectName(file)
	_, err = m.client.PutObject(ctx, m.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", name, err)
	}
	m.logger.Debug("Mirrored backup", zap.String("object", name))
	return nil
}

// Pull downloads a mirrored backup into dir and returns the local path.
func (m *Mirror) Pull(ctx context.Context, name, dir string) (string, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, m.objectName(name), minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("download %s: %w", name, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	local := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(local, data, 0o644); err != nil {
		return "", err
	}
	return local, nil
}

// Remove deletes the mirrored copy of file. Removing a missing object is not an error.
func (m *Mirror) Remove(ctx context.Context, file string) error {
	return m.client.RemoveObject(ctx, m.bucket, m.objectName(file), minio.RemoveObjectOptions{})
}

// List returns the names of mirrored JSON backups, sorted.
func (m *Mirror) List(ctx context.Context) ([]string, error) {
	opts := minio.ListObjectsOptions{Recursive: true}
	if m.prefix != "" {
		opts.Prefix = m.prefix + "/"
	}

	var names []string
	for obj := range m.client.ListObjects(ctx, m.bucket, opts) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if strings.HasSuffix(strings.ToLower(obj.Key), ".json") {
			names = append(names, path.Base(obj.Key))
		}
	}
	sort.Strings(names)
	return names, nil
}
