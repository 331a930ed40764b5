package docvalues

import (
	"fmt"
	"maps"
	"slices"

	"github.com/bits-and-blooms/bitset"
	"github.com/google/uuid"
	"github.com/twpayne/go-geom"

	"github.com/hupe1980/geodv/geo"
	"github.com/hupe1980/geodv/internal/tessellation"
)

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithMaxDoc fixes the number of documents. Without it MaxDoc is one past the
// highest document that received a value or a deletion.
func WithMaxDoc(n int) BuilderOption {
	return func(b *Builder) { b.maxDoc = n }
}

// WithSegmentID sets the segment identity instead of a random one.
func WithSegmentID(id uuid.UUID) BuilderOption {
	return func(b *Builder) { b.id = id }
}

type fieldBuilder struct {
	info FieldInfo
	bin  map[int32][]byte
	num  map[int32][]int64
}

// Builder accumulates values for a single segment. It is not safe for
// concurrent use.
type Builder struct {
	id      uuid.UUID
	maxDoc  int
	highDoc int
	fields  map[string]*fieldBuilder
	deleted []int32
}

// NewBuilder returns an empty segment builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		maxDoc:  -1,
		highDoc: -1,
		fields:  make(map[string]*fieldBuilder),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) checkDoc(doc int) error {
	if doc < 0 || doc >= 1<<31-1 || (b.maxDoc >= 0 && doc >= b.maxDoc) {
		return fmt.Errorf("%w: %d", ErrInvalidDoc, doc)
	}
	b.highDoc = max(b.highDoc, doc)
	return nil
}

func (b *Builder) field(name string, typ FieldType, kind geo.Kind) (*fieldBuilder, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty field name", ErrFieldType)
	}
	f, ok := b.fields[name]
	if !ok {
		f = &fieldBuilder{info: FieldInfo{Name: name, Type: typ, Kind: kind}}
		if typ == FieldBinary {
			f.bin = make(map[int32][]byte)
		} else {
			f.num = make(map[int32][]int64)
		}
		b.fields[name] = f
		return f, nil
	}
	if f.info.Type != typ || f.info.Kind != kind {
		return nil, &FieldTypeError{Field: name, Type: f.info.Type, Kind: f.info.Kind, WantType: typ, WantKind: kind}
	}
	return f, nil
}

// AddBinary sets the binary value of doc. A field holds at most one value per
// document.
func (b *Builder) AddBinary(doc int, field string, value []byte) error {
	return b.addBinary(doc, field, geo.KindUnknown, slices.Clone(value))
}

func (b *Builder) addBinary(doc int, field string, kind geo.Kind, value []byte) error {
	if err := b.checkDoc(doc); err != nil {
		return err
	}
	f, err := b.field(field, FieldBinary, kind)
	if err != nil {
		return err
	}
	if _, ok := f.bin[int32(doc)]; ok {
		return fmt.Errorf("%w: field %q document %d", ErrDuplicateValue, field, doc)
	}
	f.bin[int32(doc)] = value
	return nil
}

// AddLong appends a numeric value to doc. Fields are multi-valued.
func (b *Builder) AddLong(doc int, field string, v int64) error {
	return b.addLong(doc, field, geo.KindUnknown, v)
}

func (b *Builder) addLong(doc int, field string, kind geo.Kind, v int64) error {
	if err := b.checkDoc(doc); err != nil {
		return err
	}
	f, err := b.field(field, FieldSortedNumeric, kind)
	if err != nil {
		return err
	}
	f.num[int32(doc)] = append(f.num[int32(doc)], v)
	return nil
}

// AddPoint validates, encodes and appends a point to doc.
func (b *Builder) AddPoint(doc int, field string, enc geo.Encoding, x, y float64) error {
	if err := enc.Check(x, y); err != nil {
		return err
	}
	return b.addLong(doc, field, enc.Kind(), enc.Pack(x, y))
}

// AddShape tessellates g and stores it as the shape of doc.
func (b *Builder) AddShape(doc int, field string, enc geo.Encoding, g geom.T) error {
	tris, err := tessellation.Tessellate(enc, g)
	if err != nil {
		return fmt.Errorf("field %q document %d: %w", field, doc, err)
	}
	return b.AddShapeTriangles(doc, field, enc, tris...)
}

// AddShapeTriangles stores already tessellated records as the shape of doc.
func (b *Builder) AddShapeTriangles(doc int, field string, enc geo.Encoding, tris ...tessellation.Triangle) error {
	if len(tris) == 0 {
		return fmt.Errorf("%w: empty shape", geo.ErrInvalidGeometry)
	}
	return b.addBinary(doc, field, enc.Kind(), tessellation.Encode(tris))
}

// Delete marks doc as deleted.
func (b *Builder) Delete(doc int) error {
	if err := b.checkDoc(doc); err != nil {
		return err
	}
	b.deleted = append(b.deleted, int32(doc))
	return nil
}

// Build freezes the accumulated values into a Segment. The builder can be
// reused afterwards; it keeps its content.
func (b *Builder) Build() (*Segment, error) {
	maxDoc := b.maxDoc
	if maxDoc < 0 {
		maxDoc = b.highDoc + 1
	}
	id := b.id
	if id == uuid.Nil {
		var err error
		if id, err = uuid.NewRandom(); err != nil {
			return nil, err
		}
	}

	seg := newSegment(id, maxDoc)
	for _, name := range slices.Sorted(maps.Keys(b.fields)) {
		f := b.fields[name]
		info := f.info
		switch info.Type {
		case FieldBinary:
			col := buildBinary(f.bin)
			info.Docs, info.Values = len(col.docs), len(col.data)
			seg.addBinary(info, col)
		case FieldSortedNumeric:
			col := buildNumeric(f.num)
			info.Docs, info.Values = len(col.docs), len(col.values)
			seg.addNumeric(info, col)
		}
	}
	if len(b.deleted) > 0 {
		live := bitset.New(uint(maxDoc))
		live.FlipRange(0, uint(maxDoc))
		for _, doc := range b.deleted {
			live.Clear(uint(doc))
		}
		seg.live = live
	}
	return seg, nil
}

func buildBinary(m map[int32][]byte) *binaryColumn {
	docs := slices.Sorted(maps.Keys(m))
	col := &binaryColumn{docs: docs, offsets: make([]uint32, 1, len(docs)+1)}
	for _, d := range docs {
		col.data = append(col.data, m[d]...)
		col.offsets = append(col.offsets, uint32(len(col.data)))
	}
	return col
}

func buildNumeric(m map[int32][]int64) *numericColumn {
	docs := slices.Sorted(maps.Keys(m))
	col := &numericColumn{docs: docs, offsets: make([]uint32, 1, len(docs)+1)}
	for _, d := range docs {
		start := len(col.values)
		col.values = append(col.values, m[d]...)
		slices.Sort(col.values[start:])
		col.offsets = append(col.offsets, uint32(len(col.values)))
	}
	return col
}
