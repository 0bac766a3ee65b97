package projection

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"text/template"

	"sf-store/pkg/geo"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/duckdb/duckdb-go/v2"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// ErrUnknownCRS reports a geometry without a CRS tag being reprojected.
var ErrUnknownCRS = errors.New("projection: geometry has no CRS tag")

const transformQuery = `
select
idx,
ST_AsWKB(ST_Transform(ST_GeomFromWKB(wkb), '{{.OriginCRS}}', '{{.TargetCRS}}', always_xy := true)) as wkb
from records
order by idx
`

// Transform reprojects a geometry to the target CRS authority code. The
// source CRS is taken from the geometry's own tag.
func Transform(ctx context.Context, g geo.Geometry, targetSRID int) (geo.Geometry, error) {
	out, err := TransformAll(ctx, []geo.Geometry{g}, targetSRID)
	if err != nil {
		return geo.Geometry{}, err
	}
	return out[0], nil
}

// TransformAll reprojects a batch of geometries sharing one CRS to the
// target CRS in a single engine pass. The geometries are serialized to WKB,
// registered as an Arrow record view on a DuckDB connection, and transformed
// with the spatial extension's ST_Transform. Order is preserved and every
// output carries the target SRID.
func TransformAll(ctx context.Context, gs []geo.Geometry, targetSRID int) ([]geo.Geometry, error) {
	if len(gs) == 0 {
		return nil, nil
	}

	srcSRID := gs[0].SRID()
	if srcSRID == 0 {
		return nil, ErrUnknownCRS
	}
	for i, g := range gs[1:] {
		if g.SRID() != srcSRID {
			return nil, fmt.Errorf("%w: geometry 0 has SRID %d, geometry %d has SRID %d",
				geo.ErrCRSMismatch, srcSRID, i+1, g.SRID())
		}
	}

	c, err := duckdb.NewConnector("", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}
	defer c.Close()

	conn, err := c.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	ar, err := duckdb.NewArrowFromConn(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow interface: %w", err)
	}

	rec, err := wkbRecord(gs)
	if err != nil {
		return nil, err
	}
	defer rec.Release()

	rr, err := array.NewRecordReader(rec.Schema(), []arrow.RecordBatch{rec})
	if err != nil {
		return nil, fmt.Errorf("failed to create record reader: %w", err)
	}

	release, err := ar.RegisterView(rr, "records")
	if err != nil {
		return nil, fmt.Errorf("failed to register record view: %w", err)
	}
	defer release()

	// Open database connection
	db := sql.OpenDB(c)
	defer db.Close()
	if _, err := db.ExecContext(ctx, "install spatial; load spatial;"); err != nil {
		return nil, fmt.Errorf("failed to load spatial extension: %w", err)
	}

	data := map[string]string{
		"OriginCRS": fmt.Sprintf("EPSG:%d", srcSRID),
		"TargetCRS": fmt.Sprintf("EPSG:%d", targetSRID),
	}

	tmpl, err := template.New("queryTemplate").Parse(transformQuery)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}

	outReader, err := ar.QueryContext(ctx, buf.String())
	if err != nil {
		return nil, fmt.Errorf("failed to transform: %w", err)
	}
	defer outReader.Release()

	out := make([]geo.Geometry, 0, len(gs))
	for outReader.Next() {
		batch := outReader.RecordBatch()
		col := batch.Column(1).(*array.Binary)

		for i := 0; i < int(batch.NumRows()); i++ {
			t, err := wkb.Unmarshal(col.Value(i))
			if err != nil {
				return nil, fmt.Errorf("failed to decode transformed geometry: %w", err)
			}
			g := geo.FromGeom(t).WithSRID(targetSRID)
			if g.Kind() != gs[len(out)].Kind() {
				return nil, fmt.Errorf("transform changed geometry %d kind from %s to %s",
					len(out), gs[len(out)].Kind(), g.Kind())
			}
			out = append(out, g)
		}
	}

	if len(out) != len(gs) {
		return nil, fmt.Errorf("transform returned %d geometries, expected %d", len(out), len(gs))
	}
	return out, nil
}

// wkbRecord packs geometries into a (idx, wkb) Arrow record batch.
func wkbRecord(gs []geo.Geometry) (arrow.RecordBatch, error) {
	pool := memory.NewGoAllocator()

	schema := arrow.NewSchema(
		[]arrow.Field{
			{Name: "idx", Type: arrow.PrimitiveTypes.Int64},
			{Name: "wkb", Type: arrow.BinaryTypes.Binary},
		},
		nil,
	)

	idxBuilder := array.NewInt64Builder(pool)
	wkbBuilder := array.NewBinaryBuilder(pool, arrow.BinaryTypes.Binary)

	defer idxBuilder.Release()
	defer wkbBuilder.Release()

	for i, g := range gs {
		data, err := wkb.Marshal(g.Geom(), wkb.NDR)
		if err != nil {
			return nil, fmt.Errorf("failed to encode geometry %d: %w", i, err)
		}
		idxBuilder.Append(int64(i))
		wkbBuilder.Append(data)
	}

	idxArr := idxBuilder.NewArray()
	wkbArr := wkbBuilder.NewArray()

	return array.NewRecordBatch(
		schema,
		[]arrow.Array{idxArr, wkbArr},
		int64(len(gs)),
	), nil
}
