package geo

import (
	"fmt"

	geom "github.com/twpayne/go-geom"
)

// layoutFor maps a component count to a coordinate layout. Three components
// are interpreted as X, Y, Z.
func layoutFor(dim int) (geom.Layout, error) {
	switch dim {
	case 2:
		return geom.XY, nil
	case 3:
		return geom.XYZ, nil
	case 4:
		return geom.XYZM, nil
	}
	return geom.NoLayout, fmt.Errorf("%w: got %d", ErrInvalidCoordinateDimension, dim)
}

// validateRows checks that rows form a rectangular coordinate array of a
// single valid dimensionality and returns the matching layout. An empty
// array defaults to XY.
func validateRows(rows [][]float64) (geom.Layout, error) {
	if len(rows) == 0 {
		return geom.XY, nil
	}
	layout, err := layoutFor(len(rows[0]))
	if err != nil {
		return geom.NoLayout, err
	}
	for i, row := range rows[1:] {
		if _, err := layoutFor(len(row)); err != nil {
			return geom.NoLayout, err
		}
		if len(row) != len(rows[0]) {
			return geom.NoLayout, fmt.Errorf("%w: coordinate 0 has %d components, coordinate %d has %d",
				ErrInconsistentDimensionality, len(rows[0]), i+1, len(row))
		}
	}
	return layout, nil
}

func toCoords(rows [][]float64) []geom.Coord {
	coords := make([]geom.Coord, len(rows))
	for i, row := range rows {
		c := make(geom.Coord, len(row))
		copy(c, row)
		coords[i] = c
	}
	return coords
}

// NewPoint constructs a Point from a single coordinate of 2 to 4 components.
func NewPoint(coord []float64) (Geometry, error) {
	layout, err := layoutFor(len(coord))
	if err != nil {
		return Geometry{}, err
	}
	c := make(geom.Coord, len(coord))
	copy(c, coord)
	p, err := geom.NewPoint(layout).SetCoords(c)
	if err != nil {
		return Geometry{}, fmt.Errorf("failed to set point coordinates: %w", err)
	}
	return Geometry{t: p}, nil
}

// NewMultiPoint constructs a MultiPoint from a rectangular coordinate array.
// An empty array yields an empty multi-geometry.
func NewMultiPoint(rows [][]float64) (Geometry, error) {
	layout, err := validateRows(rows)
	if err != nil {
		return Geometry{}, err
	}
	mp, err := geom.NewMultiPoint(layout).SetCoords(toCoords(rows))
	if err != nil {
		return Geometry{}, fmt.Errorf("failed to set multipoint coordinates: %w", err)
	}
	return Geometry{t: mp}, nil
}

// NewLineString constructs a LineString from a rectangular coordinate array
// of at least 2 coordinates.
func NewLineString(rows [][]float64) (Geometry, error) {
	if len(rows) < 2 {
		return Geometry{}, fmt.Errorf("%w: got %d", ErrShortLineString, len(rows))
	}
	layout, err := validateRows(rows)
	if err != nil {
		return Geometry{}, err
	}
	ls, err := geom.NewLineString(layout).SetCoords(toCoords(rows))
	if err != nil {
		return Geometry{}, fmt.Errorf("failed to set linestring coordinates: %w", err)
	}
	return Geometry{t: ls}, nil
}

// NewMultiLineString constructs a MultiLineString from a sequence of
// linestring-valid coordinate arrays. An empty sequence is permitted.
// Dimensionality must be consistent across all member lines.
func NewMultiLineString(lines [][][]float64) (Geometry, error) {
	layout := geom.XY
	coords := make([][]geom.Coord, len(lines))
	for i, rows := range lines {
		if len(rows) < 2 {
			return Geometry{}, fmt.Errorf("%w: line %d has %d", ErrShortLineString, i, len(rows))
		}
		l, err := validateRows(rows)
		if err != nil {
			return Geometry{}, err
		}
		if i == 0 {
			layout = l
		} else if l != layout {
			return Geometry{}, fmt.Errorf("%w: line %d", ErrInconsistentDimensionality, i)
		}
		coords[i] = toCoords(rows)
	}
	mls, err := geom.NewMultiLineString(layout).SetCoords(coords)
	if err != nil {
		return Geometry{}, fmt.Errorf("failed to set multilinestring coordinates: %w", err)
	}
	return Geometry{t: mls}, nil
}

// NewPolygon constructs a Polygon from a sequence of closed rings. The
// first ring is the exterior boundary, the rest are holes. Every ring must
// repeat its first coordinate as its last and hold at least 4 coordinates.
func NewPolygon(rings [][][]float64) (Geometry, error) {
	layout := geom.XY
	coords := make([][]geom.Coord, len(rings))
	for i, ring := range rings {
		l, err := validateRows(ring)
		if err != nil {
			return Geometry{}, err
		}
		if i == 0 {
			layout = l
		} else if l != layout {
			return Geometry{}, fmt.Errorf("%w: ring %d", ErrInconsistentDimensionality, i)
		}
		if len(ring) < 4 {
			return Geometry{}, fmt.Errorf("%w: ring %d has %d", ErrShortRing, i, len(ring))
		}
		if !floatsEqual(ring[0], ring[len(ring)-1]) {
			return Geometry{}, fmt.Errorf("%w: ring %d", ErrUnclosedRing, i)
		}
		coords[i] = toCoords(ring)
	}
	p, err := geom.NewPolygon(layout).SetCoords(coords)
	if err != nil {
		return Geometry{}, fmt.Errorf("failed to set polygon coordinates: %w", err)
	}
	return Geometry{t: p}, nil
}
