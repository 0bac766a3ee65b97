package geo

import "errors"

var (
	// ErrInvalidCoordinateDimension reports a coordinate outside the
	// supported 2 to 4 components (X, Y, optional Z, optional M).
	ErrInvalidCoordinateDimension = errors.New("geo: coordinate must have 2 to 4 components")

	// ErrInconsistentDimensionality reports coordinates within one geometry
	// that disagree on their number of components.
	ErrInconsistentDimensionality = errors.New("geo: coordinates disagree on dimensionality")

	// ErrShortLineString reports a linestring with fewer than 2 coordinates.
	ErrShortLineString = errors.New("geo: linestring requires at least 2 coordinates")

	// ErrUnclosedRing reports a polygon ring whose first and last
	// coordinates differ. Rings are never auto-closed.
	ErrUnclosedRing = errors.New("geo: polygon ring is not closed")

	// ErrShortRing reports a closed ring with fewer than 4 coordinates.
	ErrShortRing = errors.New("geo: polygon ring requires at least 4 coordinates")

	// ErrCRSMismatch reports geometries with differing CRS tags being
	// combined where a single CRS is required.
	ErrCRSMismatch = errors.New("geo: geometries have mismatched CRS")
)
