// Package s3 provides an Amazon S3 implementation of blobstore.BlobStore.
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("segments/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//	seg, err := docvalues.Open(ctx, store, "0b1c.gdv")
//
// Reads use ranged GETs; whole-segment loads stream a single range. Streaming
// writes go through the multipart upload manager, small blobs are written
// with one PUT carrying a CRC32C checksum.
package s3
