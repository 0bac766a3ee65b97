package geo

import (
	"fmt"

	geom "github.com/twpayne/go-geom"
)

// BuildCollection assembles members into a GeometryCollection, preserving
// insertion order exactly. Members may be of any kind, including other
// collections, which are kept nested rather than flattened. CRS consistency
// is not checked here; it is enforced at the persistence boundary.
func BuildCollection(members ...Geometry) Geometry {
	gc := geom.NewGeometryCollection()
	for _, m := range members {
		gc.MustPush(m.t)
	}
	return Geometry{t: gc}
}

// Extract walks a collection depth-first, descending one level of nested
// collections, and returns every member matching the single or multi form
// of the requested kind, with multi forms decomposed into individual values
// in encounter order. Non-matching members are skipped silently; an empty
// result is valid. The requested kind must be Point, LineString or Polygon.
// A non-collection input is treated as a collection of one.
func Extract(collection Geometry, kind Kind) []Geometry {
	var out []Geometry
	if collection.Kind() != GeometryCollection {
		return appendMatching(out, collection, kind)
	}
	for _, m := range collection.Members() {
		if m.Kind() == GeometryCollection {
			for _, nested := range m.Members() {
				out = appendMatching(out, nested, kind)
			}
			continue
		}
		out = appendMatching(out, m, kind)
	}
	return out
}

func appendMatching(out []Geometry, g Geometry, kind Kind) []Geometry {
	switch kind {
	case Point:
		switch t := g.t.(type) {
		case *geom.Point:
			out = append(out, g)
		case *geom.MultiPoint:
			for _, c := range t.Coords() {
				p := geom.NewPoint(t.Layout()).MustSetCoords(c).SetSRID(t.SRID())
				out = append(out, Geometry{t: p})
			}
		}
	case LineString:
		switch t := g.t.(type) {
		case *geom.LineString:
			out = append(out, g)
		case *geom.MultiLineString:
			for _, cs := range t.Coords() {
				ls := geom.NewLineString(t.Layout()).MustSetCoords(cs).SetSRID(t.SRID())
				out = append(out, Geometry{t: ls})
			}
		}
	case Polygon:
		switch t := g.t.(type) {
		case *geom.Polygon:
			out = append(out, g)
		case *geom.MultiPolygon:
			for _, css := range t.Coords() {
				p := geom.NewPolygon(t.Layout()).MustSetCoords(css).SetSRID(t.SRID())
				out = append(out, Geometry{t: p})
			}
		}
	}
	return out
}

// UniformSRID walks a collection one nesting level deep and returns the
// single CRS authority code shared by all members, failing with
// ErrCRSMismatch when members disagree. A non-collection geometry returns
// its own SRID. An empty collection returns the collection's tag.
func UniformSRID(g Geometry) (int, error) {
	if g.Kind() != GeometryCollection {
		return g.SRID(), nil
	}
	members := g.Members()
	if len(members) == 0 {
		return g.SRID(), nil
	}
	srid := members[0].SRID()
	if members[0].Kind() == GeometryCollection {
		nested, err := UniformSRID(members[0])
		if err != nil {
			return 0, err
		}
		srid = nested
	}
	for i, m := range members[1:] {
		s := m.SRID()
		if m.Kind() == GeometryCollection {
			nested, err := UniformSRID(m)
			if err != nil {
				return 0, err
			}
			s = nested
		}
		if s != srid {
			return 0, fmt.Errorf("%w: member 0 has SRID %d, member %d has SRID %d",
				ErrCRSMismatch, srid, i+1, s)
		}
	}
	return srid, nil
}
