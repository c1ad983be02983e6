// Package blobstore provides storage abstraction for sieve snapshot blobs.
//
// BlobStore is the interface for reading and writing snapshot containers.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem with mmap reads and atomic writes
//   - MemoryStore: in-memory, for tests
//   - minio.Store: MinIO and other S3-compatible object stores
//   - s3.Store: Amazon S3 with range reads and streaming uploads
//
// # Custom Implementations
//
// Implement the BlobStore interface to support custom storage backends:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)            // Open for reading
//	    Create(ctx, name) (WritableBlob, error)  // Create for streaming writes
//	    Put(ctx, name, data) error               // Atomic write
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
