package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"sf-store/pkg/geo"
	"sf-store/pkg/projection"
	"sf-store/pkg/simplify"
	"sf-store/pkg/store"

	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Store is the persistence surface the handlers need.
type Store interface {
	EnsureTable(ctx context.Context, table string) error
	Save(ctx context.Context, table string, collection geo.Geometry) (int64, error)
	LoadLatest(ctx context.Context, table string) (geo.Geometry, error)
}

// APIHandler handles REST API requests for geometry operations. A nil store
// disables the persistence endpoints without taking the rest of the API
// down.
type APIHandler struct {
	store Store
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(store Store) *APIHandler {
	return &APIHandler{
		store: store,
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SaveResponse is returned after persisting a collection.
type SaveResponse struct {
	ID      int64 `json:"id"`
	Members int   `json:"members"`
}

// GeometryResponse wraps a GeoJSON geometry with its CRS authority code,
// which plain GeoJSON cannot carry.
type GeometryResponse struct {
	SRID     int             `json:"srid"`
	Geometry json.RawMessage `json:"geometry"`
}

// CollectionsHandler persists a GeoJSON geometry collection (POST) or reads
// the latest one back (GET).
func (h *APIHandler) CollectionsHandler(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.sendError(w, http.StatusServiceUnavailable, "persistence is unavailable")
		return
	}

	switch r.Method {
	case http.MethodPost:
		h.saveCollection(w, r)
	case http.MethodGet:
		h.loadCollection(w, r)
	default:
		h.sendError(w, http.StatusMethodNotAllowed, "only GET and POST methods are allowed")
	}
}

func (h *APIHandler) saveCollection(w http.ResponseWriter, r *http.Request) {
	table := r.URL.Query().Get("table")
	if table == "" {
		h.sendError(w, http.StatusBadRequest, "missing required table parameter")
		return
	}

	srid, err := intParam(r, "srid", 4326)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, fmt.Sprintf("failed to read request body: %v", err))
		return
	}
	defer r.Body.Close()

	g, err := decodeGeoJSON(body)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, fmt.Sprintf("invalid GeoJSON: %v", err))
		return
	}

	collection := g.WithSRID(srid)
	if collection.Kind() != geo.GeometryCollection {
		collection = geo.BuildCollection(collection).WithSRID(srid)
	}

	if err := h.store.EnsureTable(r.Context(), table); err != nil {
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to prepare table: %v", err))
		return
	}

	id, err := h.store.Save(r.Context(), table, collection)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, geo.ErrCRSMismatch) {
			status = http.StatusBadRequest
		}
		h.sendError(w, status, fmt.Sprintf("failed to save collection: %v", err))
		return
	}

	h.sendJSON(w, http.StatusOK, SaveResponse{
		ID:      id,
		Members: len(collection.Members()),
	})
}

func (h *APIHandler) loadCollection(w http.ResponseWriter, r *http.Request) {
	table := r.URL.Query().Get("table")
	if table == "" {
		h.sendError(w, http.StatusBadRequest, "missing required table parameter")
		return
	}

	g, err := h.store.LoadLatest(r.Context(), table)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.sendError(w, http.StatusNotFound, err.Error())
			return
		}
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load collection: %v", err))
		return
	}

	h.sendGeometry(w, g)
}

// SimplifyHandler reduces the vertex count of a GeoJSON geometry within the
// given tolerance.
func (h *APIHandler) SimplifyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.sendError(w, http.StatusMethodNotAllowed, "only POST method is allowed")
		return
	}

	tolerance, err := floatParam(r, "tolerance", 0)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	preserve, err := boolParam(r, "preserve", true)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, fmt.Sprintf("failed to read request body: %v", err))
		return
	}
	defer r.Body.Close()

	g, err := decodeGeoJSON(body)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, fmt.Sprintf("invalid GeoJSON: %v", err))
		return
	}

	simplified, err := simplify.Simplify(r.Context(), g, tolerance, preserve)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to simplify: %v", err))
		return
	}

	h.sendGeometry(w, simplified)
}

// TransformHandler reprojects a GeoJSON geometry from the srid parameter's
// CRS to the target parameter's CRS.
func (h *APIHandler) TransformHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.sendError(w, http.StatusMethodNotAllowed, "only POST method is allowed")
		return
	}

	if r.URL.Query().Get("target") == "" {
		h.sendError(w, http.StatusBadRequest, "missing required target parameter")
		return
	}
	target, err := intParam(r, "target", 0)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	srid, err := intParam(r, "srid", 4326)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, fmt.Sprintf("failed to read request body: %v", err))
		return
	}
	defer r.Body.Close()

	g, err := decodeGeoJSON(body)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, fmt.Sprintf("invalid GeoJSON: %v", err))
		return
	}

	transformed, err := projection.Transform(r.Context(), g.WithSRID(srid), target)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to transform projection: %v", err))
		return
	}

	h.sendGeometry(w, transformed)
}

func decodeGeoJSON(body []byte) (geo.Geometry, error) {
	var t geom.T
	if err := geojson.Unmarshal(body, &t); err != nil {
		return geo.Geometry{}, err
	}
	return geo.FromGeom(t), nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s parameter: %v", name, err)
	}
	return v, nil
}

func floatParam(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s parameter: %v", name, err)
	}
	return v, nil
}

func boolParam(r *http.Request, name string, def bool) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s parameter: %v", name, err)
	}
	return v, nil
}

func (h *APIHandler) sendGeometry(w http.ResponseWriter, g geo.Geometry) {
	data, err := geojson.Marshal(g.Geom())
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to serialize result to GeoJSON: %v", err))
		return
	}
	h.sendJSON(w, http.StatusOK, GeometryResponse{
		SRID:     g.SRID(),
		Geometry: data,
	})
}

func (h *APIHandler) sendJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// sendError sends an error response as JSON
func (h *APIHandler) sendError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
