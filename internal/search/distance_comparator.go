package search

import (
	"cmp"
	"fmt"
	"math"

	"github.com/hupe1980/geodv/docvalues"
	"github.com/hupe1980/geodv/geo"
)

// Bottom box recomputation schedule: SetBottom rebuilds the competitive box
// on each of the first BoxRecomputeWarmup calls and afterwards only when
// counter&BoxRecomputeMask == BoxRecomputeMask.
const (
	BoxRecomputeWarmup = 1024
	BoxRecomputeMask   = 0x3F
)

// distanceMetric is the coordinate-system specific part of a comparator.
type distanceMetric interface {
	// sortKey orders like the distance from the origin to (x, y).
	sortKey(x, y float64) float64
	// distance converts a sort key into the external distance.
	distance(key float64) float64
	// box returns the encoded bounds of all points with a sort key <= key.
	box(key float64) encodedBox
}

// encodedBox holds one or two x ranges; x2 is active when minX2 <= maxX2.
type encodedBox struct {
	minY, maxY   int32
	minX, maxX   int32
	minX2, maxX2 int32
}

var openBox = encodedBox{
	minY: math.MinInt32, maxY: math.MaxInt32,
	minX: math.MinInt32, maxX: math.MaxInt32,
	minX2: math.MaxInt32, maxX2: math.MinInt32,
}

func (b *encodedBox) contains(x, y int32) bool {
	if y < b.minY || y > b.maxY {
		return false
	}
	return (x >= b.minX && x <= b.maxX) || (x >= b.minX2 && x <= b.maxX2)
}

// DistanceComparator sorts documents by the distance of their closest point
// to an origin. Documents without a value sort last.
type DistanceComparator struct {
	field  string
	enc    geo.Encoding
	metric distanceMetric

	values   []float64
	bottom   float64
	topValue float64

	box              encodedBox
	setBottomCounter int

	dv      docvalues.SortedNumericDocValues
	lastDoc int
}

// NewLatLonDistanceComparator sorts a geographic point field by haversine
// distance to (lat, lon). Values are reported in meters.
func NewLatLonDistanceComparator(field string, lat, lon float64, numHits int) (*DistanceComparator, error) {
	if err := geo.Geographic.Check(lon, lat); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return newDistanceComparator(field, geo.Geographic, &haversineMetric{lat: lat, lon: lon}, numHits)
}

// NewXYDistanceComparator sorts a cartesian point field by euclidean
// distance to (x, y).
func NewXYDistanceComparator(field string, x, y float64, numHits int) (*DistanceComparator, error) {
	if err := geo.Cartesian.Check(x, y); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return newDistanceComparator(field, geo.Cartesian, &euclideanMetric{x: x, y: y}, numHits)
}

func newDistanceComparator(field string, enc geo.Encoding, m distanceMetric, numHits int) (*DistanceComparator, error) {
	if field == "" {
		return nil, fmt.Errorf("%w: empty field", ErrInvalidArgument)
	}
	if numHits <= 0 {
		return nil, fmt.Errorf("%w: numHits must be positive, got %d", ErrInvalidArgument, numHits)
	}
	return &DistanceComparator{
		field:   field,
		enc:     enc,
		metric:  m,
		values:  make([]float64, numHits),
		box:     openBox,
		lastDoc: -1,
	}, nil
}

// Field returns the sorted field.
func (c *DistanceComparator) Field() string { return c.field }

// SetNextSegment switches to the point values of seg.
func (c *DistanceComparator) SetNextSegment(seg *docvalues.Segment) error {
	if err := checkField(seg, c.field, docvalues.FieldSortedNumeric, c.enc.Kind()); err != nil {
		return err
	}
	dv, err := seg.SortedNumeric(c.field)
	if err != nil {
		return err
	}
	c.dv = dv
	c.lastDoc = -1
	return nil
}

// SetBottom records the weakest competitive slot and, on a schedule,
// shrinks the box of competitive points around it.
func (c *DistanceComparator) SetBottom(slot int) {
	c.bottom = c.values[slot]
	if c.setBottomCounter < BoxRecomputeWarmup || c.setBottomCounter&BoxRecomputeMask == BoxRecomputeMask {
		c.box = c.metric.box(c.bottom)
	}
	c.setBottomCounter++
}

// SetBottomCount returns the number of SetBottom calls so far.
func (c *DistanceComparator) SetBottomCount() int { return c.setBottomCounter }

func (c *DistanceComparator) checkOrder(doc int) {
	if invariantsEnabled {
		if doc < c.lastDoc {
			panic(fmt.Sprintf("search: document %d after %d", doc, c.lastDoc))
		}
		if c.dv == nil {
			panic("search: comparator used before SetNextSegment")
		}
	}
	c.lastDoc = doc
}

// CompareBottom compares the bottom slot with the nearest value of doc.
func (c *DistanceComparator) CompareBottom(doc int) (int, error) {
	c.checkOrder(doc)
	ok, err := c.dv.AdvanceExact(doc)
	if err != nil {
		return 0, err
	}
	if !ok {
		return cmp.Compare(c.bottom, math.Inf(1)), nil
	}

	result := -1
	for range c.dv.DocValueCount() {
		x, y := c.enc.UnpackEncoded(c.dv.NextValue())
		if !c.box.contains(x, y) {
			continue
		}
		key := c.metric.sortKey(c.enc.DecodeX(x), c.enc.DecodeY(y))
		result = max(result, cmp.Compare(c.bottom, key))
		if result > 0 {
			return result, nil
		}
	}
	return result, nil
}

// sortKey returns the smallest sort key over all values of doc, +Inf when
// doc has none.
func (c *DistanceComparator) sortKey(doc int) (float64, error) {
	c.checkOrder(doc)
	ok, err := c.dv.AdvanceExact(doc)
	if err != nil {
		return 0, err
	}
	best := math.Inf(1)
	if !ok {
		return best, nil
	}
	for range c.dv.DocValueCount() {
		x, y := c.enc.Unpack(c.dv.NextValue())
		best = min(best, c.metric.sortKey(x, y))
	}
	return best, nil
}

// Copy stores the sort key of doc in slot.
func (c *DistanceComparator) Copy(slot, doc int) error {
	key, err := c.sortKey(doc)
	if err != nil {
		return err
	}
	c.values[slot] = key
	return nil
}

// Compare orders two slots.
func (c *DistanceComparator) Compare(a, b int) int {
	return cmp.Compare(c.values[a], c.values[b])
}

// SetTopValue takes a distance as returned by Value.
func (c *DistanceComparator) SetTopValue(v float64) { c.topValue = v }

// CompareTop compares the top value with the distance of doc.
func (c *DistanceComparator) CompareTop(doc int) (int, error) {
	key, err := c.sortKey(doc)
	if err != nil {
		return 0, err
	}
	return cmp.Compare(c.topValue, c.distance(key)), nil
}

// Value returns the distance held in slot, +Inf for documents without points.
func (c *DistanceComparator) Value(slot int) float64 {
	return c.distance(c.values[slot])
}

func (c *DistanceComparator) distance(key float64) float64 {
	if math.IsInf(key, 1) {
		return key
	}
	return c.metric.distance(key)
}

type haversineMetric struct {
	lat, lon float64
}

func (m *haversineMetric) sortKey(x, y float64) float64 {
	return geo.HaversinSortKey(m.lat, m.lon, y, x)
}

func (m *haversineMetric) distance(key float64) float64 { return geo.HaversinMeters(key) }

func (m *haversineMetric) box(key float64) encodedBox {
	radius := math.Inf(1)
	if !math.IsInf(key, 1) {
		radius = geo.HaversinMeters(key)
	}
	r, err := geo.BoxFromPointDistance(m.lat, m.lon, radius)
	if err != nil {
		return openBox
	}
	b := encodedBox{
		minY:  geo.EncodeLatitude(r.MinLat),
		maxY:  geo.EncodeLatitudeCeil(r.MaxLat),
		minX2: math.MaxInt32,
		maxX2: math.MinInt32,
	}
	if r.CrossesDateline() {
		b.minX = math.MinInt32
		b.maxX = geo.EncodeLongitudeCeil(r.MaxLon)
		b.minX2 = geo.EncodeLongitude(r.MinLon)
		b.maxX2 = math.MaxInt32
	} else {
		b.minX = geo.EncodeLongitude(r.MinLon)
		b.maxX = geo.EncodeLongitudeCeil(r.MaxLon)
	}
	return b
}

type euclideanMetric struct {
	x, y float64
}

// sortKey is the squared distance.
func (m *euclideanMetric) sortKey(x, y float64) float64 {
	dx, dy := x-m.x, y-m.y
	return dx*dx + dy*dy
}

func (m *euclideanMetric) distance(key float64) float64 { return math.Sqrt(key) }

func (m *euclideanMetric) box(key float64) encodedBox {
	if math.IsInf(key, 1) || math.IsNaN(key) {
		return openBox
	}
	r := geo.XYBoxFromPointDistance(m.x, m.y, math.Sqrt(key))
	return encodedBox{
		minX:  geo.EncodeXY(float32Down(r.MinX)),
		maxX:  geo.EncodeXY(float32Up(r.MaxX)),
		minY:  geo.EncodeXY(float32Down(r.MinY)),
		maxY:  geo.EncodeXY(float32Up(r.MaxY)),
		minX2: math.MaxInt32,
		maxX2: math.MinInt32,
	}
}

// float32Down returns the largest float32 <= v.
func float32Down(v float64) float32 {
	f := float32(v)
	if float64(f) > v {
		f = math.Nextafter32(f, float32(math.Inf(-1)))
	}
	return f
}

// float32Up returns the smallest float32 >= v.
func float32Up(v float64) float32 {
	f := float32(v)
	if float64(f) < v {
		f = math.Nextafter32(f, float32(math.Inf(1)))
	}
	return f
}

var _ FieldComparator = (*DistanceComparator)(nil)
