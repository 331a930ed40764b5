package geodv

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/geodv/blobstore"
	"github.com/hupe1980/geodv/docvalues"
	"github.com/hupe1980/geodv/geo"
	"github.com/hupe1980/geodv/internal/longset"
	"github.com/hupe1980/geodv/internal/search"
	"github.com/hupe1980/geodv/internal/tessellation"
)

func TestTranslateError(t *testing.T) {
	other := errors.New("other")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"unsupported relation", search.ErrUnsupportedRelation, ErrUnsupported},
		{"unsupported geometry", geo.ErrUnsupportedGeometry, ErrUnsupported},
		{"corrupt segment", docvalues.ErrCorrupt, ErrCorrupt},
		{"incompatible format", docvalues.ErrIncompatibleFormat, ErrCorrupt},
		{"malformed shape", fmt.Errorf("doc 3: %w", tessellation.ErrMalformed), ErrCorrupt},
		{"search argument", search.ErrInvalidArgument, ErrInvalidArgument},
		{"coordinate", &geo.CoordinateError{}, ErrInvalidArgument},
		{"geometry", geo.ErrInvalidGeometry, ErrInvalidArgument},
		{"unsorted", longset.ErrUnsorted, ErrInvalidArgument},
		{"not found", fmt.Errorf("open: %w", blobstore.ErrNotFound), ErrNotFound},
		{"field kind", &search.FieldKindError{Field: "f"}, ErrInvalidArgument},
		{"field type", &docvalues.FieldTypeError{Field: "f"}, ErrInvalidArgument},
		{"passthrough", other, other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
			if tt.in != nil {
				assert.ErrorIs(t, got, tt.in)
			}
		})
	}
}

func TestErrFieldKind(t *testing.T) {
	err := translateError(&search.FieldKindError{Field: "loc"})
	var fke *ErrFieldKind
	assert.ErrorAs(t, err, &fke)
	assert.Equal(t, "loc", fke.Field)
	assert.ErrorIs(t, err, search.ErrFieldKind)
	assert.Contains(t, err.Error(), `field "loc"`)
}
