package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"sf-store/pkg/api"
	"sf-store/pkg/store"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	// Database setup (Postgres/PostGIS)
	pgConnStr := fmt.Sprintf("dbname=%s user=%s password=%s host=%s",
		os.Getenv("DB_NAME"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
	)

	// A missing database disables the persistence endpoints only; the
	// simplify and transform endpoints keep working.
	var st api.Store
	db, err := store.NewDB(context.Background(), pgConnStr)
	if err != nil {
		log.Printf("Warning: database unavailable, persistence endpoints disabled: %v", err)
	} else {
		defer db.Close()
		st = store.NewCollectionStore(db)
	}

	restPort := 8080
	apiServer := api.NewAPIServer(st, restPort)
	if err := apiServer.Start(); err != nil {
		log.Fatal("REST API server failed:", err)
	}
}
