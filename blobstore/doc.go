// Package blobstore provides storage for immutable segment blobs.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process maps, for tests and tools
//   - LocalStore: local filesystem with mmap reads
//   - CachingStore: block cache in front of another store
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible services
//
// Blobs that implement Mappable are decoded without copying into an
// intermediate buffer; RangeReader lets remote backends stream whole blobs
// in a single request.
package blobstore
