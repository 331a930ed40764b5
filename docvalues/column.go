package docvalues

import (
	"encoding/binary"
	"fmt"
	"math"
)

// binaryColumn holds one value per document for docs in ascending order.
// Value i is data[offsets[i]:offsets[i+1]].
type binaryColumn struct {
	docs    []int32
	offsets []uint32
	data    []byte
}

func (c *binaryColumn) value(i int) []byte {
	return c.data[c.offsets[i]:c.offsets[i+1]:c.offsets[i+1]]
}

// numericColumn holds sorted values per document for docs in ascending order.
// The values of doc i are values[offsets[i]:offsets[i+1]].
type numericColumn struct {
	docs    []int32
	offsets []uint32
	values  []int64
}

func (c *numericColumn) valuesAt(i int) []int64 {
	return c.values[c.offsets[i]:c.offsets[i+1]]
}

// encodeBinary appends the column as: count, then per doc
// (doc delta, length, bytes).
func encodeBinary(dst []byte, c *binaryColumn) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(c.docs)))
	prev := int32(0)
	for i, doc := range c.docs {
		dst = binary.AppendUvarint(dst, uint64(doc-prev))
		prev = doc
		v := c.value(i)
		dst = binary.AppendUvarint(dst, uint64(len(v)))
		dst = append(dst, v...)
	}
	return dst
}

// encodeNumeric appends the column as: count, then per doc
// (doc delta, value count, zigzag first value, unsigned deltas).
func encodeNumeric(dst []byte, c *numericColumn) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(c.docs)))
	prev := int32(0)
	for i, doc := range c.docs {
		dst = binary.AppendUvarint(dst, uint64(doc-prev))
		prev = doc
		vs := c.valuesAt(i)
		dst = binary.AppendUvarint(dst, uint64(len(vs)))
		for j, v := range vs {
			if j == 0 {
				dst = binary.AppendVarint(dst, v)
				continue
			}
			dst = binary.AppendUvarint(dst, uint64(v)-uint64(vs[j-1]))
		}
	}
	return dst
}

type columnReader struct {
	b   []byte
	off int
}

func (r *columnReader) uvarint() (uint64, error) {
	v, n := binary.Uvarint(r.b[r.off:])
	if n <= 0 {
		return 0, fmt.Errorf("%w: bad uvarint at offset %d", ErrCorrupt, r.off)
	}
	r.off += n
	return v, nil
}

func (r *columnReader) varint() (int64, error) {
	v, n := binary.Varint(r.b[r.off:])
	if n <= 0 {
		return 0, fmt.Errorf("%w: bad varint at offset %d", ErrCorrupt, r.off)
	}
	r.off += n
	return v, nil
}

func (r *columnReader) docs(count uint64, maxDoc int, fn func(i int, doc int32) error) error {
	prev := int64(0)
	for i := 0; uint64(i) < count; i++ {
		d, err := r.uvarint()
		if err != nil {
			return err
		}
		if i > 0 && d == 0 {
			return fmt.Errorf("%w: documents not strictly ascending", ErrCorrupt)
		}
		doc := prev + int64(d)
		if d > math.MaxInt32 || doc >= int64(maxDoc) {
			return fmt.Errorf("%w: document %d out of range", ErrCorrupt, doc)
		}
		prev = doc
		if err := fn(i, int32(doc)); err != nil {
			return err
		}
	}
	return nil
}

func decodeBinary(b []byte, maxDoc int) (*binaryColumn, error) {
	r := &columnReader{b: b}
	count, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	if count > uint64(maxDoc) {
		return nil, fmt.Errorf("%w: %d documents exceed max doc %d", ErrCorrupt, count, maxDoc)
	}
	c := &binaryColumn{
		docs:    make([]int32, count),
		offsets: make([]uint32, 1, count+1),
	}
	err = r.docs(count, maxDoc, func(i int, doc int32) error {
		c.docs[i] = doc
		n, err := r.uvarint()
		if err != nil {
			return err
		}
		if n > uint64(len(b)-r.off) {
			return fmt.Errorf("%w: value of document %d truncated", ErrCorrupt, doc)
		}
		c.data = append(c.data, b[r.off:r.off+int(n)]...)
		c.offsets = append(c.offsets, uint32(len(c.data)))
		r.off += int(n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if r.off != len(b) {
		return nil, fmt.Errorf("%w: %d trailing bytes in binary column", ErrCorrupt, len(b)-r.off)
	}
	return c, nil
}

func decodeNumeric(b []byte, maxDoc int) (*numericColumn, error) {
	r := &columnReader{b: b}
	count, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	if count > uint64(maxDoc) {
		return nil, fmt.Errorf("%w: %d documents exceed max doc %d", ErrCorrupt, count, maxDoc)
	}
	c := &numericColumn{
		docs:    make([]int32, count),
		offsets: make([]uint32, 1, count+1),
	}
	err = r.docs(count, maxDoc, func(i int, doc int32) error {
		c.docs[i] = doc
		n, err := r.uvarint()
		if err != nil {
			return err
		}
		if n == 0 || n > uint64(len(b)-r.off) {
			return fmt.Errorf("%w: bad value count %d for document %d", ErrCorrupt, n, doc)
		}
		first, err := r.varint()
		if err != nil {
			return err
		}
		c.values = append(c.values, first)
		prev := first
		for j := uint64(1); j < n; j++ {
			d, err := r.uvarint()
			if err != nil {
				return err
			}
			v := int64(uint64(prev) + d)
			if v < prev {
				return fmt.Errorf("%w: values of document %d not sorted", ErrCorrupt, doc)
			}
			c.values = append(c.values, v)
			prev = v
		}
		c.offsets = append(c.offsets, uint32(len(c.values)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	if r.off != len(b) {
		return nil, fmt.Errorf("%w: %d trailing bytes in numeric column", ErrCorrupt, len(b)-r.off)
	}
	return c, nil
}
