package geo

import "math"

// Point is a coordinate in the (x, y) plane. For geographic data X is the
// longitude and Y the latitude.
type Point struct {
	X, Y float64
}

// Box is an axis-aligned rectangle with inclusive bounds.
type Box struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// EmptyBox returns a box that contains nothing and extends to the first
// point added.
func EmptyBox() Box {
	return Box{
		MinX: math.Inf(1), MaxX: math.Inf(-1),
		MinY: math.Inf(1), MaxY: math.Inf(-1),
	}
}

// IsEmpty reports whether no point was ever added to b.
func (b Box) IsEmpty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// Extend returns b grown to include (x, y).
func (b Box) Extend(x, y float64) Box {
	b.MinX = math.Min(b.MinX, x)
	b.MaxX = math.Max(b.MaxX, x)
	b.MinY = math.Min(b.MinY, y)
	b.MaxY = math.Max(b.MaxY, y)
	return b
}

// Union returns the smallest box containing b and o.
func (b Box) Union(o Box) Box {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	return Box{
		MinX: math.Min(b.MinX, o.MinX), MaxX: math.Max(b.MaxX, o.MaxX),
		MinY: math.Min(b.MinY, o.MinY), MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

// Contains reports whether (x, y) lies in b, bounds included.
func (b Box) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// Intersects reports whether b and o share at least one point.
func (b Box) Intersects(o Box) bool {
	return !(o.MaxX < b.MinX || o.MinX > b.MaxX || o.MaxY < b.MinY || o.MinY > b.MaxY)
}

// Within reports whether b lies completely inside o.
func (b Box) Within(o Box) bool {
	return b.MinX >= o.MinX && b.MaxX <= o.MaxX && b.MinY >= o.MinY && b.MaxY <= o.MaxY
}

// Center returns the center of b.
func (b Box) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// LatLonBox is a geographic rectangle in degrees. MinLon > MaxLon denotes a
// box that crosses the antimeridian.
type LatLonBox struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// CrossesDateline reports whether the box wraps across ±180°.
func (b LatLonBox) CrossesDateline() bool {
	return b.MinLon > b.MaxLon
}

// Check validates all four bounds.
func (b LatLonBox) Check() error {
	for _, lat := range []float64{b.MinLat, b.MaxLat} {
		if err := CheckLatitude(lat); err != nil {
			return err
		}
	}
	for _, lon := range []float64{b.MinLon, b.MaxLon} {
		if err := CheckLongitude(lon); err != nil {
			return err
		}
	}
	return nil
}

// Contains reports whether the point lies in the box, honoring dateline wrap.
func (b LatLonBox) Contains(lat, lon float64) bool {
	if lat < b.MinLat || lat > b.MaxLat {
		return false
	}
	if b.CrossesDateline() {
		return lon >= b.MinLon || lon <= b.MaxLon
	}
	return lon >= b.MinLon && lon <= b.MaxLon
}

func bboxOf(pts ...Point) Box {
	b := EmptyBox()
	for _, p := range pts {
		b = b.Extend(p.X, p.Y)
	}
	return b
}
