package shapefile

import (
	"fmt"

	"sf-store/pkg/geo"

	shp "github.com/jonas-p/go-shp"
)

// Feature is one shapefile record: a geometry plus its attribute row.
type Feature struct {
	Geometry geo.Geometry
	Attrs    map[string]string
}

// ReadFeatures reads every record of a shapefile into geometry values
// tagged with the given CRS authority code. The .prj sidecar is not parsed;
// the caller supplies the code. Records with null or unsupported shape
// types are skipped. Order follows the file.
func ReadFeatures(path string, srid int) ([]Feature, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open shapefile: %w", err)
	}
	defer r.Close()

	fields := r.Fields()

	var out []Feature
	for r.Next() {
		row, shape := r.Shape()

		g, ok, err := convert(shape)
		if err != nil {
			return nil, fmt.Errorf("failed to read record %d: %w", row, err)
		}
		if !ok {
			continue
		}

		attrs := make(map[string]string, len(fields))
		for col, f := range fields {
			attrs[f.String()] = r.ReadAttribute(row, col)
		}

		out = append(out, Feature{
			Geometry: g.WithSRID(srid),
			Attrs:    attrs,
		})
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shapefile: %w", err)
	}
	return out, nil
}

// ReadPolygons reads a polygon layer, keeping only polygon records.
func ReadPolygons(path string, srid int) ([]Feature, error) {
	return readKind(path, srid, geo.Polygon)
}

// ReadPoints reads a point layer, keeping only point records.
func ReadPoints(path string, srid int) ([]Feature, error) {
	return readKind(path, srid, geo.Point)
}

func readKind(path string, srid int, kind geo.Kind) ([]Feature, error) {
	features, err := ReadFeatures(path, srid)
	if err != nil {
		return nil, err
	}
	var out []Feature
	for _, f := range features {
		if f.Geometry.Kind() == kind {
			out = append(out, f)
		}
	}
	return out, nil
}

// convert maps a shapefile shape to a geometry value. The second return is
// false for shape types this reader does not handle.
func convert(shape shp.Shape) (geo.Geometry, bool, error) {
	switch s := shape.(type) {
	case *shp.Point:
		g, err := geo.NewPoint([]float64{s.X, s.Y})
		return g, true, err
	case *shp.PointM:
		// Measure-only points keep XY; the measure has no Z to pair with.
		g, err := geo.NewPoint([]float64{s.X, s.Y})
		return g, true, err
	case *shp.PointZ:
		g, err := geo.NewPoint([]float64{s.X, s.Y, s.Z, s.M})
		return g, true, err
	case *shp.MultiPoint:
		rows := make([][]float64, len(s.Points))
		for i, p := range s.Points {
			rows[i] = []float64{p.X, p.Y}
		}
		g, err := geo.NewMultiPoint(rows)
		return g, true, err
	case *shp.PolyLine:
		parts := partRows(s.NumParts, s.NumPoints, s.Parts, s.Points)
		if len(parts) == 1 {
			g, err := geo.NewLineString(parts[0])
			return g, true, err
		}
		g, err := geo.NewMultiLineString(parts)
		return g, true, err
	case *shp.Polygon:
		// All parts are treated as rings of one polygon: the first as the
		// exterior boundary, the rest as holes.
		parts := partRows(s.NumParts, s.NumPoints, s.Parts, s.Points)
		g, err := geo.NewPolygon(parts)
		return g, true, err
	}
	return geo.Geometry{}, false, nil
}

func partRows(numParts, numPoints int32, parts []int32, points []shp.Point) [][][]float64 {
	out := make([][][]float64, 0, numParts)
	for i := int32(0); i < numParts; i++ {
		start := parts[i]
		end := numPoints
		if i+1 < numParts {
			end = parts[i+1]
		}
		rows := make([][]float64, 0, end-start)
		for _, p := range points[start:end] {
			rows = append(rows, []float64{p.X, p.Y})
		}
		out = append(out, rows)
	}
	return out
}
