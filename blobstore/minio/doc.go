// Package minio stores segment blobs in MinIO or any other S3-compatible
// object store (Ceph, Garage, SeaweedFS) through the MinIO client.
//
//	store, err := minio.New("localhost:9000", "segments",
//	    minio.WithCredentials("minioadmin", "minioadmin"),
//	    minio.WithPrefix("geo/"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	seg, err := docvalues.Open(ctx, store, "seg-0001.gdv")
//
// Blobs are read with ranged GETs. Streaming writes become visible on Close.
package minio
