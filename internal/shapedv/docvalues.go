// Package shapedv exposes the tessellated shape of one document.
package shapedv

import (
	"math"

	"github.com/hupe1980/geodv/geo"
	"github.com/hupe1980/geodv/internal/tessellation"
)

// DocValues holds the decoded records of the current document. It is bound
// to one document at a time; Reset moves it to the next one. Derived values
// (dimension, centroid, bounding box) are computed once per document.
//
// A DocValues is not safe for concurrent use.
type DocValues struct {
	enc  geo.Encoding
	raw  []byte
	tris []tessellation.Triangle

	computed  bool
	dimension tessellation.Kind
	centroid  geo.Point
	bbox      geo.Box
}

// New returns an empty DocValues decoding coordinates with enc.
func New(enc geo.Encoding) *DocValues {
	return &DocValues{enc: enc, bbox: geo.EmptyBox()}
}

// Decode returns a DocValues bound to b.
func Decode(enc geo.Encoding, b []byte) (*DocValues, error) {
	d := New(enc)
	if err := d.Reset(b); err != nil {
		return nil, err
	}
	return d, nil
}

// Reset binds d to the bytes of another document. b is retained until the
// next call to Reset.
func (d *DocValues) Reset(b []byte) error {
	tris, err := tessellation.DecodeInto(d.tris, b)
	if err != nil {
		d.raw, d.tris = nil, d.tris[:0]
		d.computed = false
		return err
	}
	d.raw = b
	d.tris = tris
	d.computed = false
	return nil
}

// Encoding returns the coordinate encoding.
func (d *DocValues) Encoding() geo.Encoding { return d.enc }

// Bytes returns the raw record bytes.
func (d *DocValues) Bytes() []byte { return d.raw }

// Len returns the number of records.
func (d *DocValues) Len() int { return len(d.tris) }

// Triangles returns the decoded records. The slice is reused by Reset.
func (d *DocValues) Triangles() []tessellation.Triangle { return d.tris }

// Dimension returns the highest record kind present. It is KindPoint for an
// empty shape.
func (d *DocValues) Dimension() tessellation.Kind {
	d.compute()
	return d.dimension
}

// Centroid returns the weighted centroid over the records of the highest
// dimension. Triangles are weighted by area and lines by length.
func (d *DocValues) Centroid() geo.Point {
	d.compute()
	return d.centroid
}

// BoundingBox returns the box over all meaningful vertices. It is empty
// when there are no records.
func (d *DocValues) BoundingBox() geo.Box {
	d.compute()
	return d.bbox
}

func (d *DocValues) compute() {
	if d.computed {
		return
	}
	d.computed = true
	d.dimension = tessellation.KindPoint
	d.bbox = geo.EmptyBox()
	d.centroid = geo.Point{}
	if len(d.tris) == 0 {
		return
	}

	for _, t := range d.tris {
		if t.Kind > d.dimension {
			d.dimension = t.Kind
		}
		a, b, c := t.Points(d.enc)
		d.bbox = d.bbox.Extend(a.X, a.Y)
		switch t.Kind {
		case tessellation.KindLine:
			d.bbox = d.bbox.Extend(b.X, b.Y)
		case tessellation.KindTriangle:
			d.bbox = d.bbox.Extend(b.X, b.Y).Extend(c.X, c.Y)
		}
	}

	var sumX, sumY, sumW float64
	var meanX, meanY float64
	n := 0
	for _, t := range d.tris {
		if t.Kind != d.dimension {
			continue
		}
		a, b, c := t.Points(d.enc)
		var center geo.Point
		var w float64
		switch t.Kind {
		case tessellation.KindPoint:
			center, w = a, 1
		case tessellation.KindLine:
			center = geo.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
			w = math.Hypot(b.X-a.X, b.Y-a.Y)
		case tessellation.KindTriangle:
			center = geo.Point{X: (a.X + b.X + c.X) / 3, Y: (a.Y + b.Y + c.Y) / 3}
			w = math.Abs((b.X-a.X)*(c.Y-a.Y)-(c.X-a.X)*(b.Y-a.Y)) / 2
		}
		sumX += center.X * w
		sumY += center.Y * w
		sumW += w
		meanX += center.X
		meanY += center.Y
		n++
	}
	if sumW > 0 {
		d.centroid = geo.Point{X: sumX / sumW, Y: sumY / sumW}
		return
	}
	// degenerate records only
	d.centroid = geo.Point{X: meanX / float64(n), Y: meanY / float64(n)}
}

// Relate returns how the shape relates to c. The shape is inside when every
// record is inside, outside when every record is outside, and crosses
// otherwise. An empty shape is outside.
func (d *DocValues) Relate(c geo.Component2D) geo.Relation {
	if len(d.tris) == 0 {
		return geo.CellOutside
	}
	switch c.Relate(d.BoundingBox()) {
	case geo.CellOutside:
		return geo.CellOutside
	case geo.CellInside:
		return geo.CellInside
	}

	var inside, outside bool
	for _, t := range d.tris {
		switch relateRecord(d.enc, c, t) {
		case geo.CellCrosses:
			return geo.CellCrosses
		case geo.CellInside:
			inside = true
		default:
			outside = true
		}
		if inside && outside {
			return geo.CellCrosses
		}
	}
	if inside {
		return geo.CellInside
	}
	return geo.CellOutside
}

func relateRecord(enc geo.Encoding, c geo.Component2D, t tessellation.Triangle) geo.Relation {
	a, b, p := t.Points(enc)
	switch t.Kind {
	case tessellation.KindPoint:
		if c.Contains(a.X, a.Y) {
			return geo.CellInside
		}
		return geo.CellOutside
	case tessellation.KindLine:
		if c.ContainsLine(a, b) {
			return geo.CellInside
		}
		if c.IntersectsLine(a, b) {
			return geo.CellCrosses
		}
		return geo.CellOutside
	default:
		if c.ContainsTriangle(a, b, p) {
			return geo.CellInside
		}
		if c.IntersectsTriangle(a, b, p) {
			return geo.CellCrosses
		}
		return geo.CellOutside
	}
}

// Within evaluates whether c may lie within the shape. Any record ruling it
// out decides NotWithin; otherwise any candidate record decides Candidate.
func (d *DocValues) Within(c geo.Component2D) geo.WithinRelation {
	rel := geo.WithinDisjoint
	for _, t := range d.tris {
		a, b, p := t.Points(d.enc)
		var r geo.WithinRelation
		switch t.Kind {
		case tessellation.KindPoint:
			r = c.WithinPoint(a)
		case tessellation.KindLine:
			r = c.WithinLine(a, t.AB, b)
		default:
			r = c.WithinTriangle(a, t.AB, b, t.BC, p, t.CA)
		}
		switch r {
		case geo.WithinNotWithin:
			return geo.WithinNotWithin
		case geo.WithinCandidate:
			rel = geo.WithinCandidate
		}
	}
	return rel
}
