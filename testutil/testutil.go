package testutil

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/twpayne/go-geom"

	"github.com/hupe1980/geodv/geo"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Int63 returns a non-negative pseudo-random int64.
func (r *RNG) Int63() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Int63()
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Range returns a pseudo-random number in [lo, hi).
func (r *RNG) Range(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// LatLon returns a uniformly distributed latitude and longitude in degrees.
func (r *RNG) LatLon() (lat, lon float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()*180 - 90, r.rand.Float64()*360 - 180
}

// LatLonNear returns a point within spread degrees of (lat, lon), wrapped
// across the antimeridian and clamped at the poles.
func (r *RNG) LatLonNear(lat, lon, spread float64) (float64, float64) {
	la := lat + r.Range(-spread, spread)
	lo := lon + r.Range(-spread, spread)
	la = math.Max(geo.MinLatitude, math.Min(geo.MaxLatitude, la))
	switch {
	case lo > geo.MaxLongitude:
		lo -= 360
	case lo < geo.MinLongitude:
		lo += 360
	}
	return la, lo
}

// XY returns a point uniformly distributed in [-extent, extent)².
func (r *RNG) XY(extent float64) (x, y float64) {
	return r.Range(-extent, extent), r.Range(-extent, extent)
}

// Points returns n points around (x, y) within spread, as lon/lat for
// geographic data.
func (r *RNG) Points(n int, x, y, spread float64) []geo.Point {
	pts := make([]geo.Point, n)
	for i := range pts {
		la, lo := r.LatLonNear(y, x, spread)
		pts[i] = geo.Point{X: lo, Y: la}
	}
	return pts
}

// Polygon returns a star-shaped polygon with the given number of vertices
// around (x, y). Vertex radii vary between radius/2 and radius, so the ring
// is usually concave but never self-intersecting.
func (r *RNG) Polygon(x, y, radius float64, vertices int) *geom.Polygon {
	if vertices < 3 {
		vertices = 3
	}
	ring := make([]geom.Coord, 0, vertices+1)
	for i := range vertices {
		angle := 2 * math.Pi * float64(i) / float64(vertices)
		d := radius * r.Range(0.5, 1)
		ring = append(ring, geom.Coord{x + d*math.Cos(angle), y + d*math.Sin(angle)})
	}
	ring = append(ring, ring[0])
	return geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{ring})
}

// Square returns the axis-aligned square polygon [x, x+size] x [y, y+size].
func Square(x, y, size float64) *geom.Polygon {
	return geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}, {x, y},
	}})
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n <= 1 {
		return 0
	}
	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}
	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1
		}
	}
	return n - 1
}

// NearestResult is one document of a brute-force ranking.
type NearestResult struct {
	Doc      int
	Distance float64
}

// BruteForceNearest ranks documents by the smallest distance over their
// points and returns the k closest. Documents without points are skipped.
// Ties sort by doc id.
func BruteForceNearest(docs [][]geo.Point, distance func(geo.Point) float64, k int) []NearestResult {
	var all []NearestResult
	for doc, pts := range docs {
		if len(pts) == 0 {
			continue
		}
		best := math.Inf(1)
		for _, p := range pts {
			best = math.Min(best, distance(p))
		}
		all = append(all, NearestResult{Doc: doc, Distance: best})
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Distance != all[j].Distance {
			return all[i].Distance < all[j].Distance
		}
		return all[i].Doc < all[j].Doc
	})
	if len(all) > k {
		all = all[:k]
	}
	return all
}
