// Package docvalues stores per-document values in immutable segments.
//
// A Segment is a set of named columns over documents 0..MaxDoc-1. Two column
// types exist:
//
//   - binary: at most one byte string per document (tessellated shapes)
//   - sorted numeric: any number of int64 values per document, sorted
//     ascending (packed points, plain numbers)
//
// Segments are built in memory with a Builder and persisted as a single
// blob with Write; Read and Open load them back.
//
//	b := docvalues.NewBuilder()
//	_ = b.AddPoint(0, "location", geo.Geographic, 13.4, 52.5)
//	_ = b.AddShape(1, "area", geo.Geographic, polygon)
//	seg, err := b.Build()
//
// Values are accessed through forward-only iterators in the style of the
// docid package:
//
//	dv, _ := seg.SortedNumeric("location")
//	for doc := dv.NextDoc(); doc != docid.NoMoreDocs; doc = dv.NextDoc() {
//		for i := 0; i < dv.DocValueCount(); i++ {
//			v := dv.NextValue()
//			...
//		}
//	}
//
// # Blob format
//
//	magic "GDV1" | version | compression | codec name | crc32c | payload length
//	payload: catalog (codec encoded) | one compressed block per column | live docs
//
// The catalog records field names, types, coordinate kinds and block sizes.
package docvalues
