package store

import (
	"context"
	"errors"
	"fmt"

	"sf-store/pkg/geo"

	"github.com/jackc/pgx/v5"
	"github.com/twpayne/go-geom/encoding/ewkb"
)

var (
	// ErrConnectionUnavailable reports that the database could not be
	// reached. Callers skip dependent steps rather than retry.
	ErrConnectionUnavailable = errors.New("store: database connection unavailable")

	// ErrQueryFailure reports a failed statement. In-memory state is
	// unaffected; there are no partial-result semantics.
	ErrQueryFailure = errors.New("store: query failed")

	// ErrNotFound reports an empty read result.
	ErrNotFound = errors.New("store: no collection found")
)

// CollectionStore persists geometry collections to a PostGIS geometry
// column. The table name is caller-supplied.
type CollectionStore struct {
	db *DB
}

// NewCollectionStore creates a new CollectionStore.
func NewCollectionStore(db *DB) *CollectionStore {
	return &CollectionStore{db: db}
}

// EnsureTable creates the collection table if it does not exist.
func (s *CollectionStore) EnsureTable(ctx context.Context, table string) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			geom GEOMETRY NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, pgx.Identifier{table}.Sanitize())

	if _, err := s.db.Pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("%w: failed to create table %s: %w", ErrQueryFailure, table, err)
	}
	return nil
}

// Save writes a collection and its CRS as one row, returning the row id.
// Every member must share a single CRS; a mismatch fails with
// geo.ErrCRSMismatch before anything is written. The CRS tag is embedded in
// the stored EWKB value.
func (s *CollectionStore) Save(ctx context.Context, table string, collection geo.Geometry) (int64, error) {
	srid, err := geo.UniformSRID(collection)
	if err != nil {
		return 0, err
	}
	if collection.SRID() != 0 && srid != 0 && collection.SRID() != srid {
		return 0, fmt.Errorf("%w: collection tagged SRID %d, members have SRID %d",
			geo.ErrCRSMismatch, collection.SRID(), srid)
	}
	if srid == 0 {
		srid = collection.SRID()
	}

	data, err := ewkb.Marshal(collection.WithSRID(srid).Geom(), ewkb.NDR)
	if err != nil {
		return 0, fmt.Errorf("failed to encode collection: %w", err)
	}

	query := fmt.Sprintf("INSERT INTO %s (geom) VALUES (ST_GeomFromEWKB($1)) RETURNING id",
		pgx.Identifier{table}.Sanitize())

	var id int64
	if err := s.db.Pool.QueryRow(ctx, query, data).Scan(&id); err != nil {
		return 0, fmt.Errorf("%w: failed to insert collection: %w", ErrQueryFailure, err)
	}
	return id, nil
}

// Load reads back the collection stored under the given row id. The
// returned value carries the stored CRS on the collection and every member.
func (s *CollectionStore) Load(ctx context.Context, table string, id int64) (geo.Geometry, error) {
	query := fmt.Sprintf("SELECT ST_AsEWKB(geom) FROM %s WHERE id = $1",
		pgx.Identifier{table}.Sanitize())
	return loadRow(s.db.Pool.QueryRow(ctx, query, id))
}

// LoadLatest reads back the most recently saved collection.
func (s *CollectionStore) LoadLatest(ctx context.Context, table string) (geo.Geometry, error) {
	query := fmt.Sprintf("SELECT ST_AsEWKB(geom) FROM %s ORDER BY id DESC LIMIT 1",
		pgx.Identifier{table}.Sanitize())
	return loadRow(s.db.Pool.QueryRow(ctx, query))
}

func loadRow(row pgx.Row) (geo.Geometry, error) {
	var data []byte
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return geo.Geometry{}, ErrNotFound
		}
		return geo.Geometry{}, fmt.Errorf("%w: failed to read collection: %w", ErrQueryFailure, err)
	}

	t, err := ewkb.Unmarshal(data)
	if err != nil {
		return geo.Geometry{}, fmt.Errorf("failed to decode collection: %w", err)
	}

	// EWKB carries the SRID on the outer value only; re-tag members so the
	// round trip restores per-member CRS.
	return geo.FromGeom(t).WithSRID(t.SRID()), nil
}
