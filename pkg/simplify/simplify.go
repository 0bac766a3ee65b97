package simplify

import (
	"context"
	"database/sql"
	"fmt"

	"sf-store/pkg/geo"

	"github.com/duckdb/duckdb-go/v2"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// Simplify reduces the vertex count of a geometry within the given distance
// tolerance using the spatial extension's ST_Simplify, or
// ST_SimplifyPreserveTopology when preserveTopology is set. The algorithm is
// opaque to this module; the result is only required to decode to the same
// kind as the input. A zero tolerance returns the input unchanged without
// touching the engine. The CRS tag is carried through.
func Simplify(ctx context.Context, g geo.Geometry, tolerance float64, preserveTopology bool) (geo.Geometry, error) {
	if tolerance < 0 {
		return geo.Geometry{}, fmt.Errorf("simplify: tolerance must be non-negative, got %v", tolerance)
	}
	if tolerance == 0 {
		return g, nil
	}

	data, err := wkb.Marshal(g.Geom(), wkb.NDR)
	if err != nil {
		return geo.Geometry{}, fmt.Errorf("failed to encode geometry: %w", err)
	}

	c, err := duckdb.NewConnector("", nil)
	if err != nil {
		return geo.Geometry{}, fmt.Errorf("failed to create connector: %w", err)
	}
	defer c.Close()

	db := sql.OpenDB(c)
	defer db.Close()

	if _, err := db.ExecContext(ctx, "install spatial; load spatial;"); err != nil {
		return geo.Geometry{}, fmt.Errorf("failed to load spatial extension: %w", err)
	}

	fn := "ST_Simplify"
	if preserveTopology {
		fn = "ST_SimplifyPreserveTopology"
	}

	var out []byte
	query := fmt.Sprintf("select ST_AsWKB(%s(ST_GeomFromWKB(?), ?))", fn)
	if err := db.QueryRowContext(ctx, query, data, tolerance).Scan(&out); err != nil {
		return geo.Geometry{}, fmt.Errorf("failed to simplify: %w", err)
	}

	t, err := wkb.Unmarshal(out)
	if err != nil {
		return geo.Geometry{}, fmt.Errorf("failed to decode simplified geometry: %w", err)
	}

	result := geo.FromGeom(t).WithSRID(g.SRID())
	if result.Kind() != g.Kind() {
		return geo.Geometry{}, fmt.Errorf("simplify changed geometry kind from %s to %s", g.Kind(), result.Kind())
	}
	return result, nil
}
