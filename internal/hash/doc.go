// Package hash provides the checksums and hash keys used by geodv.
//
// # CRC32-Castagnoli (CRC32C)
//
// Segment blobs carry a CRC32C of their payload. The implementation comes
// from github.com/klauspost/crc32, a drop-in for hash/crc32 with faster
// hardware paths.
//
//	checksum := hash.CRC32C(payload)
//	if err := hash.VerifyCRC32C(payload, checksum); err != nil { ... }
//
// # Cache keys
//
// Key64 combines values into an xxhash digest; it is used for query hashes
// in the per-segment query cache.
//
//	h := hash.NewKey64().String("shape").Uint64(uint64(rel)).Sum()
package hash
