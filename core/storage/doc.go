// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so backup files can be mirrored to AWS S3 or a
// self-hosted MinIO instance. The mirror is optional and disabled by default.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: lazily provision the mirror bucket.
//   - PutObject / GetObject: push and pull backup files.
//   - ListObjects: enumerate mirrored backups.
//   - RemoveObject: clear a failed-entries artifact once a retry fully succeeds.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
