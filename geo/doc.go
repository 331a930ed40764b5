// Package geo provides the coordinate encodings and 2D relation primitives
// used by geodv's doc-values queries.
//
// # Encodings
//
// Coordinates are stored as sortable 32-bit integers. Two encodings exist
// and are selected once per field:
//
//   - Geographic: latitude/longitude in degrees, quantized onto a 2^32 grid.
//     Packed values carry latitude in the high 32 bits.
//   - Cartesian: float32 x/y, mapped through a sign-flip so integer order
//     equals float order. Packed values carry x in the high 32 bits.
//
// An Encoding is a plain strategy value; there is no type hierarchy:
//
//	enc := geo.Geographic
//	packed := enc.Pack(lon, lat)
//	x, y := enc.Unpack(packed)
//
// # Components
//
// Component2D is the relation primitive consumed by the shape and point
// queries. Components always work in the (x, y) plane; for geographic data x
// is longitude and y is latitude.
//
//	c, _ := geo.NewLatLonBox(-1, 2, -1, 2)
//	c.Contains(0.5, 0.5) // true
//
// # Distances
//
// HaversinSortKey is a monotonic surrogate for great-circle distance that is
// cheaper to compare; HaversinMeters converts it back to meters.
package geo
