package layout

import (
	"errors"
	"fmt"
)

// ErrDegenerateGeometry is wrapped by every *GeometryError.
var ErrDegenerateGeometry = errors.New("degenerate layout geometry")

// GeometryError reports that the graph cannot be laid out on the requested
// surface without producing non-finite or negative dimensions.
type GeometryError struct {
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDegenerateGeometry, e.Reason)
}

// Unwrap returns ErrDegenerateGeometry.
func (e *GeometryError) Unwrap() error { return ErrDegenerateGeometry }

func geometryErrorf(format string, args ...any) error {
	return &GeometryError{Reason: fmt.Sprintf(format, args...)}
}
