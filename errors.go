package geodv

import (
	"errors"
	"fmt"

	"github.com/hupe1980/geodv/blobstore"
	"github.com/hupe1980/geodv/docvalues"
	"github.com/hupe1980/geodv/geo"
	"github.com/hupe1980/geodv/internal/longset"
	"github.com/hupe1980/geodv/internal/search"
	"github.com/hupe1980/geodv/internal/tessellation"
)

var (
	// ErrInvalidArgument is returned for malformed queries, coordinates and
	// geometries, and for queries applied to fields of another kind.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCorrupt is returned when a segment blob or a stored shape cannot be
	// decoded.
	ErrCorrupt = errors.New("data corruption detected")

	// ErrUnsupported is returned for operations that doc values cannot
	// answer, such as the contains relation.
	ErrUnsupported = errors.New("unsupported operation")

	// ErrNotFound is returned when a segment blob does not exist.
	ErrNotFound = errors.New("not found")

	// ErrClosed is returned by a closed Searcher.
	ErrClosed = errors.New("searcher closed")
)

// ErrFieldKind indicates a query or sort applied to a field indexed with
// another type or coordinate encoding.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrFieldKind struct {
	Field string
	cause error
}

func (e *ErrFieldKind) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, e.cause)
}

func (e *ErrFieldKind) Unwrap() []error { return []error{ErrInvalidArgument, e.cause} }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var fke *search.FieldKindError
	if errors.As(err, &fke) {
		return &ErrFieldKind{Field: fke.Field, cause: err}
	}
	var fte *docvalues.FieldTypeError
	if errors.As(err, &fte) {
		return &ErrFieldKind{Field: fte.Field, cause: err}
	}

	switch {
	case errors.Is(err, search.ErrUnsupportedRelation),
		errors.Is(err, geo.ErrUnsupportedGeometry):
		return fmt.Errorf("%w: %w", ErrUnsupported, err)
	case errors.Is(err, docvalues.ErrCorrupt),
		errors.Is(err, docvalues.ErrIncompatibleFormat),
		errors.Is(err, tessellation.ErrMalformed):
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	case errors.Is(err, search.ErrInvalidArgument),
		errors.Is(err, geo.ErrInvalidCoordinate),
		errors.Is(err, geo.ErrInvalidGeometry),
		errors.Is(err, longset.ErrUnsorted):
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	case errors.Is(err, blobstore.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
