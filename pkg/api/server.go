package api

import (
	"fmt"
	"log"
	"net/http"
)

// APIServer represents the REST API server
type APIServer struct {
	store  Store
	port   int
	server *http.Server
}

// NewAPIServer creates a new API server instance
func NewAPIServer(store Store, port int) *APIServer {
	return &APIServer{
		store: store,
		port:  port,
	}
}

// Start starts the REST API server
func (s *APIServer) Start() error {
	handler := NewAPIHandler(s.store)

	mux := http.NewServeMux()

	// Register routes
	mux.HandleFunc("/api/v1/collections", handler.CollectionsHandler)
	mux.HandleFunc("/api/v1/simplify", handler.SimplifyHandler)
	mux.HandleFunc("/api/v1/transform", handler.TransformHandler)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: mux,
	}

	log.Printf("Starting REST API server on port %d", s.port)
	return s.server.ListenAndServe()
}

// Stop stops the REST API server
func (s *APIServer) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}
