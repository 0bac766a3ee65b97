package geo

import (
	geom "github.com/twpayne/go-geom"
)

// Kind identifies the simple-features geometry type of a Geometry.
type Kind int

const (
	Unknown Kind = iota
	Point
	MultiPoint
	LineString
	MultiLineString
	Polygon
	MultiPolygon
	GeometryCollection
)

func (k Kind) String() string {
	switch k {
	case Point:
		return "Point"
	case MultiPoint:
		return "MultiPoint"
	case LineString:
		return "LineString"
	case MultiLineString:
		return "MultiLineString"
	case Polygon:
		return "Polygon"
	case MultiPolygon:
		return "MultiPolygon"
	case GeometryCollection:
		return "GeometryCollection"
	}
	return "Unknown"
}

// Geometry is an immutable simple-features geometry value tagged with a
// CRS authority code (SRID). The zero value is an empty, unknown geometry.
type Geometry struct {
	t geom.T
}

// FromGeom wraps an existing go-geom value. The value must not be mutated
// after being wrapped.
func FromGeom(t geom.T) Geometry {
	return Geometry{t: t}
}

// Geom returns the underlying go-geom value for interop with encoders and
// external engines. Callers must not mutate it.
func (g Geometry) Geom() geom.T {
	return g.t
}

// Kind returns the geometry kind.
func (g Geometry) Kind() Kind {
	switch g.t.(type) {
	case *geom.Point:
		return Point
	case *geom.MultiPoint:
		return MultiPoint
	case *geom.LineString:
		return LineString
	case *geom.MultiLineString:
		return MultiLineString
	case *geom.Polygon:
		return Polygon
	case *geom.MultiPolygon:
		return MultiPolygon
	case *geom.GeometryCollection:
		return GeometryCollection
	}
	return Unknown
}

// SRID returns the CRS authority code, 0 if untagged.
func (g Geometry) SRID() int {
	if g.t == nil {
		return 0
	}
	return g.t.SRID()
}

// Dim returns the number of components per coordinate (2 to 4).
func (g Geometry) Dim() int {
	if g.t == nil {
		return 0
	}
	return g.t.Stride()
}

// WithSRID returns a copy of the geometry tagged with the given CRS
// authority code. The receiver is unchanged.
func (g Geometry) WithSRID(srid int) Geometry {
	return Geometry{t: cloneWithSRID(g.t, srid)}
}

// FlatCoords returns a copy of the packed coordinate values. It is not
// defined for geometry collections, which return nil.
func (g Geometry) FlatCoords() []float64 {
	if g.t == nil {
		return nil
	}
	if _, ok := g.t.(*geom.GeometryCollection); ok {
		return nil
	}
	flat := g.t.FlatCoords()
	out := make([]float64, len(flat))
	copy(out, flat)
	return out
}

// Members returns the ordered members of a geometry collection, or nil for
// any other kind.
func (g Geometry) Members() []Geometry {
	gc, ok := g.t.(*geom.GeometryCollection)
	if !ok {
		return nil
	}
	out := make([]Geometry, gc.NumGeoms())
	for i := range out {
		out[i] = Geometry{t: gc.Geom(i)}
	}
	return out
}

func cloneWithSRID(t geom.T, srid int) geom.T {
	switch g := t.(type) {
	case *geom.Point:
		return geom.NewPoint(g.Layout()).MustSetCoords(g.Coords()).SetSRID(srid)
	case *geom.MultiPoint:
		return geom.NewMultiPoint(g.Layout()).MustSetCoords(g.Coords()).SetSRID(srid)
	case *geom.LineString:
		return geom.NewLineString(g.Layout()).MustSetCoords(g.Coords()).SetSRID(srid)
	case *geom.MultiLineString:
		return geom.NewMultiLineString(g.Layout()).MustSetCoords(g.Coords()).SetSRID(srid)
	case *geom.Polygon:
		return geom.NewPolygon(g.Layout()).MustSetCoords(g.Coords()).SetSRID(srid)
	case *geom.MultiPolygon:
		return geom.NewMultiPolygon(g.Layout()).MustSetCoords(g.Coords()).SetSRID(srid)
	case *geom.GeometryCollection:
		out := geom.NewGeometryCollection()
		for i := 0; i < g.NumGeoms(); i++ {
			out.MustPush(cloneWithSRID(g.Geom(i), srid))
		}
		out.SetSRID(srid)
		return out
	}
	return t
}

// Equal reports whether two geometries have the same kind, layout, SRID and
// coordinate values. Floats are compared exactly; callers concerned with
// storage precision should compare coordinates with an epsilon instead.
func Equal(a, b Geometry) bool {
	if a.t == nil || b.t == nil {
		return a.t == nil && b.t == nil
	}
	if a.Kind() != b.Kind() || a.SRID() != b.SRID() {
		return false
	}
	if a.Kind() == GeometryCollection {
		am, bm := a.Members(), b.Members()
		if len(am) != len(bm) {
			return false
		}
		for i := range am {
			if !Equal(am[i], bm[i]) {
				return false
			}
		}
		return true
	}
	if a.t.Layout() != b.t.Layout() {
		return false
	}
	if !floatsEqual(a.t.FlatCoords(), b.t.FlatCoords()) {
		return false
	}
	return intsEqual(a.t.Ends(), b.t.Ends()) && intssEqual(a.t.Endss(), b.t.Endss())
}

func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func intssEqual(a, b [][]int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !intsEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
