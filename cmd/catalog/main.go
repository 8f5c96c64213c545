package main

import (
	"log"
	"net/http"
	"os"

	"github.com/Swift-Studio-Web/pokemon-card-catalog/internal/api"
	"github.com/Swift-Studio-Web/pokemon-card-catalog/internal/auth"
	"github.com/Swift-Studio-Web/pokemon-card-catalog/internal/draft"
	"github.com/Swift-Studio-Web/pokemon-card-catalog/internal/inventory"
	"github.com/Swift-Studio-Web/pokemon-card-catalog/internal/kv"
	"github.com/Swift-Studio-Web/pokemon-card-catalog/internal/storage"
	"github.com/Swift-Studio-Web/pokemon-card-catalog/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	// ADMIN_SECRET gates every inventory mutation.
	secret := os.Getenv("ADMIN_SECRET")
	if secret == "" {
		log.Fatal("ADMIN_SECRET must be set")
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Session, lockout, and draft records live in the file-backed
	// key-value store under the data dir.
	kvStore, err := kv.NewFileStore(dataDir)
	if err != nil {
		log.Fatalf("Failed to open key-value store: %v", err)
	}

	gate, err := auth.New(secret, kvStore)
	if err != nil {
		log.Fatalf("Failed to initialize auth gate: %v", err)
	}
	if gate.CheckSession() {
		log.Println("Existing admin session is still valid")
	}

	// Card collection: SQLite or Turso, selected from the environment.
	s, err := store.New(store.ConfigFromEnv())
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer s.Close()

	// Blob storage is optional; without it inline images are stored
	// as-is in the card record.
	var uploader inventory.Uploader
	blobs, err := storage.New()
	if err != nil {
		log.Printf("Blob storage disabled: %v", err)
		blobs = nil
	} else {
		uploader = blobs
	}

	inv := inventory.NewController(s, uploader, storage.IsDataURI)
	inv.LoadAll()

	drafts := draft.NewManager(kvStore)

	a := api.New(gate, inv, drafts, blobs)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*", "https://*.fly.dev"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Mount("/api", a.Routes())

	// Serve the front end from PUBLIC_DIR when present.
	if publicDir := os.Getenv("PUBLIC_DIR"); publicDir != "" {
		fileServer := http.FileServer(http.Dir(publicDir))
		r.Handle("/*", fileServer)
	}

	log.Printf("Card catalog starting on http://localhost:%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
