// Package geodv runs spatial queries over doc-values columns of immutable
// segments.
//
// Shapes are stored per document as tessellated triangles in a binary
// column; points are stored packed into 64-bit values in a sorted numeric
// column. Queries scan those columns directly, which suits filters on
// small candidate sets and distance sorting.
//
// # Quick Start
//
//	b := docvalues.NewBuilder()
//	_ = b.AddShape(0, "area", geo.Geographic, polygon)
//	_ = b.AddPoint(0, "loc", geo.Geographic, 13.40, 52.52) // lon, lat
//	seg, _ := b.Build()
//
//	s := geodv.New()
//	_ = s.Add(seg)
//
//	q, _ := geodv.NewGeomShapeQuery("area", geo.Geographic, geodv.Intersects, box)
//	n, _ := s.Count(ctx, q)
//
//	hits, _ := s.Nearest(ctx, geodv.NearestLatLon("loc", 52.5, 13.4, 10))
//
// # Storage
//
// Segments are written as single blobs and loaded from any BlobStore:
//
//	store := blobstore.NewLocalStore("./segments")
//	_, _ = s.SaveSegment(ctx, store, "seg-1", seg, docvalues.CompressionZSTD)
//	_ = s.OpenSegments(ctx, store, "seg-1")
//
// Cloud mode:
//
//	s3Store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("segments/"))
//	_ = s.OpenSegments(ctx, s3Store, "seg-1")
//
// # Paging
//
// Nearest supports search-after paging: pass the last hit of a page as
// NearestRequest.After to get the next one.
//
// # Relations
//
// Shape queries support Intersects, Within and Disjoint. Contains cannot be
// answered from doc values and is rejected with ErrUnsupported.
package geodv
