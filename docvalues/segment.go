package docvalues

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/google/uuid"

	"github.com/hupe1980/geodv/internal/docid"
)

// Segment is an immutable set of doc-values columns. It is safe for
// concurrent use; iterators are not.
type Segment struct {
	id      uuid.UUID
	maxDoc  int
	fields  []FieldInfo
	byName  map[string]int
	binary  map[string]*binaryColumn
	numeric map[string]*numericColumn
	live    *bitset.BitSet
	// size is the encoded blob size for segments loaded from storage.
	size int64
}

func newSegment(id uuid.UUID, maxDoc int) *Segment {
	return &Segment{
		id:      id,
		maxDoc:  maxDoc,
		byName:  make(map[string]int),
		binary:  make(map[string]*binaryColumn),
		numeric: make(map[string]*numericColumn),
	}
}

func (s *Segment) addBinary(info FieldInfo, col *binaryColumn) {
	s.byName[info.Name] = len(s.fields)
	s.fields = append(s.fields, info)
	s.binary[info.Name] = col
}

func (s *Segment) addNumeric(info FieldInfo, col *numericColumn) {
	s.byName[info.Name] = len(s.fields)
	s.fields = append(s.fields, info)
	s.numeric[info.Name] = col
}

// ID returns the segment identity as a string.
func (s *Segment) ID() string { return s.id.String() }

// UUID returns the segment identity.
func (s *Segment) UUID() uuid.UUID { return s.id }

// MaxDoc returns one past the largest document id.
func (s *Segment) MaxDoc() int { return s.maxDoc }

// NumDocs returns the number of live documents.
func (s *Segment) NumDocs() int {
	if s.live == nil {
		return s.maxDoc
	}
	return int(s.live.Count())
}

// Field returns the catalog entry for name.
func (s *Segment) Field(name string) (FieldInfo, bool) {
	i, ok := s.byName[name]
	if !ok {
		return FieldInfo{}, false
	}
	return s.fields[i], true
}

// Fields returns all catalog entries ordered by name.
func (s *Segment) Fields() []FieldInfo {
	out := make([]FieldInfo, len(s.fields))
	copy(out, s.fields)
	return out
}

// LiveDocs returns the live-document set, or nil when nothing is deleted.
// The returned set must not be modified.
func (s *Segment) LiveDocs() *bitset.BitSet { return s.live }

// IsLive reports whether doc is not deleted.
func (s *Segment) IsLive(doc int) bool {
	return s.live == nil || s.live.Test(uint(doc))
}

// IsCacheable reports whether per-segment results may be cached under the
// segment identity. Segments built in memory without a persisted blob are
// still immutable, so only the identity matters.
func (s *Segment) IsCacheable() bool { return s.id != uuid.Nil }

// Size returns the encoded size of segments loaded from a blob, 0 otherwise.
func (s *Segment) Size() int64 { return s.size }

// Binary returns an iterator over the binary field name. A field that does
// not exist in the segment yields an empty iterator.
func (s *Segment) Binary(name string) (BinaryDocValues, error) {
	if col, ok := s.binary[name]; ok {
		return newBinaryIterator(col), nil
	}
	if info, ok := s.Field(name); ok {
		return nil, &FieldTypeError{Field: name, Type: info.Type, Kind: info.Kind, WantType: FieldBinary, WantKind: info.Kind}
	}
	return newBinaryIterator(&binaryColumn{offsets: []uint32{0}}), nil
}

// SortedNumeric returns an iterator over the numeric field name. A field that
// does not exist in the segment yields an empty iterator.
func (s *Segment) SortedNumeric(name string) (SortedNumericDocValues, error) {
	if col, ok := s.numeric[name]; ok {
		return newNumericIterator(col), nil
	}
	if info, ok := s.Field(name); ok {
		return nil, &FieldTypeError{Field: name, Type: info.Type, Kind: info.Kind, WantType: FieldSortedNumeric, WantKind: info.Kind}
	}
	return newNumericIterator(&numericColumn{offsets: []uint32{0}}), nil
}

// LiveIterator wraps it so that deleted documents are skipped.
func (s *Segment) LiveIterator(it docid.Iterator) docid.Iterator {
	return docid.FilterLive(it, s.live)
}

func (s *Segment) String() string {
	return fmt.Sprintf("segment(%s, maxDoc=%d, fields=%d)", s.id, s.maxDoc, len(s.fields))
}
