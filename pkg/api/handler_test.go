package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sf-store/pkg/geo"
	"sf-store/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	tables map[string]geo.Geometry
	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{tables: make(map[string]geo.Geometry)}
}

func (f *fakeStore) EnsureTable(ctx context.Context, table string) error {
	return nil
}

func (f *fakeStore) Save(ctx context.Context, table string, collection geo.Geometry) (int64, error) {
	if _, err := geo.UniformSRID(collection); err != nil {
		return 0, err
	}
	f.nextID++
	f.tables[table] = collection
	return f.nextID, nil
}

func (f *fakeStore) LoadLatest(ctx context.Context, table string) (geo.Geometry, error) {
	g, ok := f.tables[table]
	if !ok {
		return geo.Geometry{}, store.ErrNotFound
	}
	return g, nil
}

const collectionGeoJSON = `{
	"type": "GeometryCollection",
	"geometries": [
		{"type": "Point", "coordinates": [1, 2]},
		{"type": "Polygon", "coordinates": [[[0, 1], [0, 4], [4, 6], [6, 1], [0, 1]]]}
	]
}`

func TestCollectionsHandler(t *testing.T) {
	fake := newFakeStore()
	handler := NewAPIHandler(fake)

	t.Run(
		"save collection", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost,
				"/api/v1/collections?table=demo&srid=4326", strings.NewReader(collectionGeoJSON))
			w := httptest.NewRecorder()

			handler.CollectionsHandler(w, req)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp SaveResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, int64(1), resp.ID)
			assert.Equal(t, 2, resp.Members)
		},
	)

	t.Run(
		"load latest collection", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/collections?table=demo", nil)
			w := httptest.NewRecorder()

			handler.CollectionsHandler(w, req)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp GeometryResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, 4326, resp.SRID)

			var g struct {
				Type       string `json:"type"`
				Geometries []struct {
					Type string `json:"type"`
				} `json:"geometries"`
			}
			require.NoError(t, json.Unmarshal(resp.Geometry, &g))
			assert.Equal(t, "GeometryCollection", g.Type)
			require.Len(t, g.Geometries, 2)
			assert.Equal(t, "Point", g.Geometries[0].Type)
			assert.Equal(t, "Polygon", g.Geometries[1].Type)
		},
	)

	t.Run(
		"single geometry is wrapped into a collection", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost,
				"/api/v1/collections?table=single", strings.NewReader(`{"type":"Point","coordinates":[1,2]}`))
			w := httptest.NewRecorder()

			handler.CollectionsHandler(w, req)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp SaveResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, 1, resp.Members)
		},
	)

	t.Run(
		"missing table parameter", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/collections", strings.NewReader(collectionGeoJSON))
			w := httptest.NewRecorder()

			handler.CollectionsHandler(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		},
	)

	t.Run(
		"invalid GeoJSON", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost,
				"/api/v1/collections?table=demo", strings.NewReader(`{"type":"Nope"}`))
			w := httptest.NewRecorder()

			handler.CollectionsHandler(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		},
	)

	t.Run(
		"unknown table on read", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/collections?table=missing", nil)
			w := httptest.NewRecorder()

			handler.CollectionsHandler(w, req)
			assert.Equal(t, http.StatusNotFound, w.Code)
		},
	)

	t.Run(
		"method not allowed", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/api/v1/collections?table=demo", nil)
			w := httptest.NewRecorder()

			handler.CollectionsHandler(w, req)
			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		},
	)
}

func TestCollectionsHandlerWithoutStore(t *testing.T) {
	handler := NewAPIHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/collections?table=demo", nil)
	w := httptest.NewRecorder()

	handler.CollectionsHandler(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSimplifyHandler(t *testing.T) {
	handler := NewAPIHandler(nil)

	t.Run(
		"zero tolerance round trips the geometry", func(t *testing.T) {
			body := `{"type":"LineString","coordinates":[[0,0],[1,0.5],[2,0]]}`
			req := httptest.NewRequest(http.MethodPost, "/api/v1/simplify?tolerance=0", strings.NewReader(body))
			w := httptest.NewRecorder()

			handler.SimplifyHandler(w, req)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp GeometryResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

			var g struct {
				Type        string      `json:"type"`
				Coordinates [][]float64 `json:"coordinates"`
			}
			require.NoError(t, json.Unmarshal(resp.Geometry, &g))
			assert.Equal(t, "LineString", g.Type)
			assert.Equal(t, [][]float64{{0, 0}, {1, 0.5}, {2, 0}}, g.Coordinates)
		},
	)

	t.Run(
		"invalid tolerance", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/simplify?tolerance=abc", strings.NewReader("{}"))
			w := httptest.NewRecorder()

			handler.SimplifyHandler(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		},
	)

	t.Run(
		"method not allowed", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/simplify", nil)
			w := httptest.NewRecorder()

			handler.SimplifyHandler(w, req)
			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		},
	)
}

func TestTransformHandler(t *testing.T) {
	handler := NewAPIHandler(nil)

	t.Run(
		"missing target", func(t *testing.T) {
			body := `{"type":"Point","coordinates":[1,2]}`
			req := httptest.NewRequest(http.MethodPost, "/api/v1/transform", strings.NewReader(body))
			w := httptest.NewRecorder()

			handler.TransformHandler(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		},
	)

	t.Run(
		"method not allowed", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/transform?target=3857", nil)
			w := httptest.NewRecorder()

			handler.TransformHandler(w, req)
			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		},
	)
}
