// Package tessellation defines the binary record format of indexed shapes
// and turns geometries into records.
//
// A shape is stored as a sequence of fixed-size records. Each record is a
// point, a line segment or a triangle in encoded coordinates:
//
//	offset size field
//	0      1    kind (0 point, 1 line, 2 triangle)
//	1      1    flags (bit0 AB, bit1 BC, bit2 CA)
//	2      24   AX AY BX BY CX CY, int32 little endian
//
// Flags mark edges that belong to the original shape boundary.
package tessellation

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hupe1980/geodv/geo"
)

// RecordSize is the encoded size of one Triangle.
const RecordSize = 26

// ErrMalformed is returned when bytes do not decode to records.
var ErrMalformed = errors.New("malformed tessellation")

// Kind is the record discriminant.
type Kind uint8

const (
	// KindPoint records use only A.
	KindPoint Kind = iota
	// KindLine records use A and B.
	KindLine
	// KindTriangle records use A, B and C.
	KindTriangle
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindLine:
		return "line"
	case KindTriangle:
		return "triangle"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Dimension returns 0 for points, 1 for lines and 2 for triangles.
func (k Kind) Dimension() int { return int(k) }

const (
	flagAB = 1 << iota
	flagBC
	flagCA

	flagMask = flagAB | flagBC | flagCA
)

// Triangle is one decoded record. Coordinates are encoded with the field's
// geo.Encoding.
type Triangle struct {
	Kind       Kind
	AX, AY     int32
	BX, BY     int32
	CX, CY     int32
	AB, BC, CA bool
}

// NewPoint returns a point record.
func NewPoint(x, y int32) Triangle {
	return Triangle{Kind: KindPoint, AX: x, AY: y, BX: x, BY: y, CX: x, CY: y}
}

// NewLine returns a line record. The segment is part of the shape boundary.
func NewLine(ax, ay, bx, by int32) Triangle {
	return Triangle{Kind: KindLine, AX: ax, AY: ay, BX: bx, BY: by, CX: ax, CY: ay, AB: true}
}

// Points decodes the three vertices.
func (t Triangle) Points(enc geo.Encoding) (a, b, c geo.Point) {
	a = geo.Point{X: enc.DecodeX(t.AX), Y: enc.DecodeY(t.AY)}
	b = geo.Point{X: enc.DecodeX(t.BX), Y: enc.DecodeY(t.BY)}
	c = geo.Point{X: enc.DecodeX(t.CX), Y: enc.DecodeY(t.CY)}
	return a, b, c
}

func (t Triangle) flags() byte {
	var f byte
	if t.AB {
		f |= flagAB
	}
	if t.BC {
		f |= flagBC
	}
	if t.CA {
		f |= flagCA
	}
	return f
}

// Append encodes records onto dst.
func Append(dst []byte, tris ...Triangle) []byte {
	for _, t := range tris {
		var rec [RecordSize]byte
		rec[0] = byte(t.Kind)
		rec[1] = t.flags()
		binary.LittleEndian.PutUint32(rec[2:], uint32(t.AX))
		binary.LittleEndian.PutUint32(rec[6:], uint32(t.AY))
		binary.LittleEndian.PutUint32(rec[10:], uint32(t.BX))
		binary.LittleEndian.PutUint32(rec[14:], uint32(t.BY))
		binary.LittleEndian.PutUint32(rec[18:], uint32(t.CX))
		binary.LittleEndian.PutUint32(rec[22:], uint32(t.CY))
		dst = append(dst, rec[:]...)
	}
	return dst
}

// Encode returns the binary form of tris.
func Encode(tris []Triangle) []byte {
	return Append(make([]byte, 0, len(tris)*RecordSize), tris...)
}

// Count returns the number of records in b without decoding them.
func Count(b []byte) (int, error) {
	if len(b)%RecordSize != 0 {
		return 0, fmt.Errorf("%w: length %d is not a multiple of %d", ErrMalformed, len(b), RecordSize)
	}
	return len(b) / RecordSize, nil
}

// Decode parses all records in b.
func Decode(b []byte) ([]Triangle, error) {
	return DecodeInto(nil, b)
}

// DecodeInto parses all records in b, reusing dst's backing array.
func DecodeInto(dst []Triangle, b []byte) ([]Triangle, error) {
	n, err := Count(b)
	if err != nil {
		return nil, err
	}
	dst = dst[:0]
	for i := 0; i < n; i++ {
		rec := b[i*RecordSize : (i+1)*RecordSize]
		kind := Kind(rec[0])
		if kind > KindTriangle {
			return nil, fmt.Errorf("%w: record %d has unknown kind %d", ErrMalformed, i, rec[0])
		}
		flags := rec[1]
		if flags&^flagMask != 0 {
			return nil, fmt.Errorf("%w: record %d has unknown flags %#x", ErrMalformed, i, flags)
		}
		dst = append(dst, Triangle{
			Kind: kind,
			AX:   int32(binary.LittleEndian.Uint32(rec[2:])),
			AY:   int32(binary.LittleEndian.Uint32(rec[6:])),
			BX:   int32(binary.LittleEndian.Uint32(rec[10:])),
			BY:   int32(binary.LittleEndian.Uint32(rec[14:])),
			CX:   int32(binary.LittleEndian.Uint32(rec[18:])),
			CY:   int32(binary.LittleEndian.Uint32(rec[22:])),
			AB:   flags&flagAB != 0,
			BC:   flags&flagBC != 0,
			CA:   flags&flagCA != 0,
		})
	}
	return dst, nil
}
