package docvalues

import (
	"errors"
	"fmt"

	"github.com/hupe1980/geodv/geo"
)

var (
	// ErrCorrupt is returned when a segment blob fails validation.
	ErrCorrupt = errors.New("corrupt segment")
	// ErrIncompatibleFormat is returned for blobs written by an unknown format version or codec.
	ErrIncompatibleFormat = errors.New("incompatible segment format")
	// ErrFieldType is returned when a field is used with the wrong type or coordinate kind.
	ErrFieldType = errors.New("field type mismatch")
	// ErrInvalidDoc is returned for negative or out-of-range document ids.
	ErrInvalidDoc = errors.New("invalid document id")
	// ErrDuplicateValue is returned when a binary field receives a second value for a document.
	ErrDuplicateValue = errors.New("duplicate binary value")
)

// FieldType is the storage type of a column.
type FieldType uint8

const (
	// FieldBinary holds one byte string per document.
	FieldBinary FieldType = iota + 1
	// FieldSortedNumeric holds sorted int64 values per document.
	FieldSortedNumeric
)

func (t FieldType) String() string {
	switch t {
	case FieldBinary:
		return "binary"
	case FieldSortedNumeric:
		return "sorted_numeric"
	default:
		return fmt.Sprintf("field_type(%d)", uint8(t))
	}
}

// FieldInfo describes one column of a segment.
type FieldInfo struct {
	Name string    `json:"name"`
	Type FieldType `json:"type"`
	// Kind is the coordinate system for shape and point fields; KindUnknown
	// for plain values.
	Kind geo.Kind `json:"kind,omitempty"`
	// Docs is the number of documents with at least one value.
	Docs int `json:"docs"`
	// Values is the number of values (sorted numeric) or bytes (binary).
	Values int `json:"values"`
}

// IsShape reports whether the field holds tessellated shapes.
func (f FieldInfo) IsShape() bool { return f.Type == FieldBinary && f.Kind != geo.KindUnknown }

// IsPoint reports whether the field holds packed points.
func (f FieldInfo) IsPoint() bool { return f.Type == FieldSortedNumeric && f.Kind != geo.KindUnknown }

// FieldTypeError describes a field used inconsistently.
type FieldTypeError struct {
	Field    string
	Type     FieldType
	Kind     geo.Kind
	WantType FieldType
	WantKind geo.Kind
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("field %q is %s/%s, not %s/%s", e.Field, e.Type, e.Kind, e.WantType, e.WantKind)
}

func (e *FieldTypeError) Unwrap() error { return ErrFieldType }
