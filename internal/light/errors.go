package light

import "github.com/pkg/errors"

var (
	// ErrConfig marks a configuration defect. The light skips the frame.
	ErrConfig = errors.New("light config defect")

	// ErrDegenerateGeometry marks a hit sequence too short to triangulate.
	// The affected mesh is cleared and the frame continues.
	ErrDegenerateGeometry = errors.New("degenerate light geometry")
)
