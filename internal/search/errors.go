package search

import (
	"errors"
	"fmt"

	"github.com/hupe1980/geodv/docvalues"
	"github.com/hupe1980/geodv/geo"
)

var (
	// ErrUnsupportedRelation is returned for query relations that cannot be
	// evaluated on doc values.
	ErrUnsupportedRelation = errors.New("unsupported query relation")
	// ErrInvalidArgument is returned for malformed query parameters.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrFieldKind is returned when a field was indexed with another type or
	// coordinate encoding than the query expects.
	ErrFieldKind = errors.New("field kind mismatch")
)

// FieldKindError describes a query applied to an incompatible field.
type FieldKindError struct {
	Field    string
	Type     docvalues.FieldType
	Kind     geo.Kind
	WantType docvalues.FieldType
	WantKind geo.Kind
}

func (e *FieldKindError) Error() string {
	return fmt.Sprintf("field %q is %s/%s, query needs %s/%s", e.Field, e.Type, e.Kind, e.WantType, e.WantKind)
}

func (e *FieldKindError) Unwrap() error { return ErrFieldKind }

// checkField verifies that name, if present in seg, has the wanted type and
// kind. A wantKind of KindUnknown accepts any kind.
func checkField(seg *docvalues.Segment, name string, wantType docvalues.FieldType, wantKind geo.Kind) error {
	info, ok := seg.Field(name)
	if !ok {
		return nil
	}
	if info.Type != wantType || (wantKind != geo.KindUnknown && info.Kind != wantKind) {
		return &FieldKindError{Field: name, Type: info.Type, Kind: info.Kind, WantType: wantType, WantKind: wantKind}
	}
	return nil
}
