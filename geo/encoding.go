package geo

import (
	"errors"
	"fmt"
	"math"
)

const (
	// MinLatitude is the smallest valid latitude in degrees.
	MinLatitude = -90.0
	// MaxLatitude is the largest valid latitude in degrees.
	MaxLatitude = 90.0
	// MinLongitude is the smallest valid longitude in degrees.
	MinLongitude = -180.0
	// MaxLongitude is the largest valid longitude in degrees.
	MaxLongitude = 180.0
)

const (
	latScale  = float64(uint64(1)<<32) / 180.0
	latDecode = 1 / latScale
	lonScale  = float64(uint64(1)<<32) / 360.0
	lonDecode = 1 / lonScale
)

// ErrInvalidCoordinate is returned when a coordinate is out of range for its encoding.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// CoordinateError describes a rejected coordinate.
//
// It matches ErrInvalidCoordinate via errors.Is.
type CoordinateError struct {
	Axis  string
	Value float64
	Min   float64
	Max   float64
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("invalid %s %v: must be within [%v, %v]", e.Axis, e.Value, e.Min, e.Max)
}

func (e *CoordinateError) Unwrap() error { return ErrInvalidCoordinate }

// CheckLatitude validates a latitude in degrees.
func CheckLatitude(lat float64) error {
	if math.IsNaN(lat) || lat < MinLatitude || lat > MaxLatitude {
		return &CoordinateError{Axis: "latitude", Value: lat, Min: MinLatitude, Max: MaxLatitude}
	}
	return nil
}

// CheckLongitude validates a longitude in degrees.
func CheckLongitude(lon float64) error {
	if math.IsNaN(lon) || lon < MinLongitude || lon > MaxLongitude {
		return &CoordinateError{Axis: "longitude", Value: lon, Min: MinLongitude, Max: MaxLongitude}
	}
	return nil
}

// CheckXY validates a cartesian coordinate. Values must be finite and
// representable as float32.
func CheckXY(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > math.MaxFloat32 {
		return &CoordinateError{Axis: "xy", Value: v, Min: -math.MaxFloat32, Max: math.MaxFloat32}
	}
	return nil
}

// EncodeLatitude quantizes a latitude onto the 32-bit grid, rounding down.
// The latitude must be valid (see CheckLatitude).
func EncodeLatitude(lat float64) int32 {
	if lat == MaxLatitude {
		lat = math.Nextafter(lat, 0)
	}
	return saturate(math.Floor(lat / latDecode))
}

// EncodeLatitudeCeil quantizes a latitude onto the 32-bit grid, rounding up.
func EncodeLatitudeCeil(lat float64) int32 {
	if lat == MaxLatitude {
		lat = math.Nextafter(lat, 0)
	}
	return saturate(math.Ceil(lat / latDecode))
}

// DecodeLatitude converts an encoded latitude back to degrees.
func DecodeLatitude(encoded int32) float64 {
	return float64(encoded) * latDecode
}

// EncodeLongitude quantizes a longitude onto the 32-bit grid, rounding down.
// The longitude must be valid (see CheckLongitude).
func EncodeLongitude(lon float64) int32 {
	if lon == MaxLongitude {
		lon = math.Nextafter(lon, 0)
	}
	return saturate(math.Floor(lon / lonDecode))
}

// EncodeLongitudeCeil quantizes a longitude onto the 32-bit grid, rounding up.
func EncodeLongitudeCeil(lon float64) int32 {
	if lon == MaxLongitude {
		lon = math.Nextafter(lon, 0)
	}
	return saturate(math.Ceil(lon / lonDecode))
}

// DecodeLongitude converts an encoded longitude back to degrees.
func DecodeLongitude(encoded int32) float64 {
	return float64(encoded) * lonDecode
}

// EncodeXY maps a float32 onto a sortable int32.
func EncodeXY(v float32) int32 {
	bits := int32(math.Float32bits(v))
	return bits ^ ((bits >> 31) & 0x7fffffff)
}

// DecodeXY is the inverse of EncodeXY.
func DecodeXY(encoded int32) float32 {
	bits := encoded ^ ((encoded >> 31) & 0x7fffffff)
	return math.Float32frombits(uint32(bits))
}

func saturate(v float64) int32 {
	if v >= math.MaxInt32 {
		return math.MaxInt32
	}
	if v <= math.MinInt32 {
		return math.MinInt32
	}
	return int32(v)
}

// Kind identifies the coordinate system of a field.
type Kind uint8

const (
	// KindUnknown is the zero Kind.
	KindUnknown Kind = iota
	// KindGeographic is latitude/longitude in degrees.
	KindGeographic
	// KindCartesian is float32 x/y.
	KindCartesian
)

// String returns the stable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindGeographic:
		return "geographic"
	case KindCartesian:
		return "cartesian"
	default:
		return "unknown"
	}
}

// ParseKind parses the value returned by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "geographic", "geo", "latlon":
		return KindGeographic, nil
	case "cartesian", "xy":
		return KindCartesian, nil
	default:
		return KindUnknown, fmt.Errorf("unknown coordinate kind %q", s)
	}
}

// Encoding binds the encode/decode functions of one coordinate system.
// Use the Geographic or Cartesian values; the zero Encoding is invalid.
type Encoding struct {
	kind    Kind
	encodeX func(float64) int32
	encodeY func(float64) int32
	decodeX func(int32) float64
	decodeY func(int32) float64
	checkX  func(float64) error
	checkY  func(float64) error
	// xHigh reports whether x occupies the high 32 bits of a packed value.
	xHigh bool
}

// Geographic encodes x as longitude and y as latitude. Packed values store
// latitude in the high bits.
var Geographic = Encoding{
	kind:    KindGeographic,
	encodeX: EncodeLongitude,
	encodeY: EncodeLatitude,
	decodeX: DecodeLongitude,
	decodeY: DecodeLatitude,
	checkX:  CheckLongitude,
	checkY:  CheckLatitude,
	xHigh:   false,
}

// Cartesian encodes x and y as float32. Packed values store x in the high bits.
var Cartesian = Encoding{
	kind:    KindCartesian,
	encodeX: encodeXY64,
	encodeY: encodeXY64,
	decodeX: decodeXY64,
	decodeY: decodeXY64,
	checkX:  CheckXY,
	checkY:  CheckXY,
	xHigh:   true,
}

func encodeXY64(v float64) int32 { return EncodeXY(float32(v)) }

func decodeXY64(v int32) float64 { return float64(DecodeXY(v)) }

// EncodingFor returns the encoding of a kind.
func EncodingFor(k Kind) (Encoding, error) {
	switch k {
	case KindGeographic:
		return Geographic, nil
	case KindCartesian:
		return Cartesian, nil
	default:
		return Encoding{}, fmt.Errorf("no encoding for kind %s", k)
	}
}

// Kind returns the coordinate system of the encoding.
func (e Encoding) Kind() Kind { return e.kind }

// Valid reports whether e is one of the predefined encodings.
func (e Encoding) Valid() bool { return e.kind != KindUnknown && e.encodeX != nil }

// Check validates an (x, y) pair.
func (e Encoding) Check(x, y float64) error {
	if err := e.checkX(x); err != nil {
		return err
	}
	return e.checkY(y)
}

// EncodeX encodes an x coordinate (longitude for geographic data).
func (e Encoding) EncodeX(x float64) int32 { return e.encodeX(x) }

// EncodeY encodes a y coordinate (latitude for geographic data).
func (e Encoding) EncodeY(y float64) int32 { return e.encodeY(y) }

// DecodeX decodes an x coordinate.
func (e Encoding) DecodeX(x int32) float64 { return e.decodeX(x) }

// DecodeY decodes a y coordinate.
func (e Encoding) DecodeY(y int32) float64 { return e.decodeY(y) }

// Quantize returns the coordinates as they read back after encoding.
func (e Encoding) Quantize(x, y float64) (float64, float64) {
	return e.decodeX(e.encodeX(x)), e.decodeY(e.encodeY(y))
}

// Pack encodes (x, y) into a single sortable 64-bit value.
func (e Encoding) Pack(x, y float64) int64 {
	return e.PackEncoded(e.encodeX(x), e.encodeY(y))
}

// PackEncoded packs already encoded coordinates.
func (e Encoding) PackEncoded(x, y int32) int64 {
	if e.xHigh {
		return PackInts(x, y)
	}
	return PackInts(y, x)
}

// UnpackEncoded splits a packed value into encoded x and y.
func (e Encoding) UnpackEncoded(v int64) (x, y int32) {
	hi, lo := UnpackInts(v)
	if e.xHigh {
		return hi, lo
	}
	return lo, hi
}

// Unpack decodes a packed value into (x, y).
func (e Encoding) Unpack(v int64) (x, y float64) {
	ex, ey := e.UnpackEncoded(v)
	return e.decodeX(ex), e.decodeY(ey)
}

// PackInts places hi in the high 32 bits and lo in the low 32 bits.
func PackInts(hi, lo int32) int64 {
	return int64(hi)<<32 | int64(uint32(lo))
}

// UnpackInts is the inverse of PackInts.
func UnpackInts(v int64) (hi, lo int32) {
	return int32(v >> 32), int32(uint32(v))
}
