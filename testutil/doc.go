// Package testutil provides deterministic random geometry for tests and
// benchmarks.
//
// This package is intended for use in tests and benchmarks only.
//
//	rng := testutil.NewRNG(seed)
//	lat, lon := rng.LatLon()
//	poly := rng.Polygon(lon, lat, 0.5, 12)
//
// # Ground Truth
//
//	want := testutil.BruteForceNearest(docs, distanceFn, k)
package testutil
