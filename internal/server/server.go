// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"DocVault-backend/internal/auth"
	"DocVault-backend/internal/database"
	"DocVault-backend/internal/storage"
)

// Upload limits used when the environment does not override them.
const (
	defaultMaxUploadBytes = 16 << 20 // 16 MiB
	defaultUploadDir      = "./uploads"
)

// Server holds every dependency the route handlers need.
type Server struct {
	DB         *database.DBinstanceStruct
	Storage    storage.Backend
	Revocation auth.RevocationStore

	MaxUploadBytes    int64
	AllowedExtensions []string
}

// NewServer constructs the dependency set from the environment and wraps it
// in a configured http.Server.
func NewServer() (*http.Server, error) {
	port, _ := strconv.Atoi(os.Getenv("PORT"))

	db, err := database.GetMainDB()
	if err != nil {
		return nil, fmt.Errorf("database failed to initialize: %w", err)
	}

	store, err := newStorageBackend()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:                db,
		Storage:           store,
		Revocation:        auth.NewInMemoryRevocationStore(),
		MaxUploadBytes:    envMaxUploadBytes(),
		AllowedExtensions: envAllowedExtensions(),
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server, nil
}

// newStorageBackend picks GCS when STORAGE_BUCKET is set, local disk otherwise.
func newStorageBackend() (storage.Backend, error) {
	if bucket := os.Getenv("STORAGE_BUCKET"); bucket != "" {
		log.Printf("Using cloud storage bucket %q", bucket)
		return storage.NewCloudBackend(bucket)
	}

	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = defaultUploadDir
	}
	log.Printf("Using local storage directory %q", dir)
	return storage.NewLocalBackend(dir)
}

func envMaxUploadBytes() int64 {
	raw := os.Getenv("MAX_UPLOAD_BYTES")
	if raw == "" {
		return defaultMaxUploadBytes
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed <= 0 {
		log.Printf("Invalid MAX_UPLOAD_BYTES %q, using default", raw)
		return defaultMaxUploadBytes
	}
	return parsed
}

func envAllowedExtensions() []string {
	raw := os.Getenv("ALLOWED_EXTENSIONS")
	if raw == "" {
		return []string{"pdf"}
	}

	var exts []string
	for _, e := range strings.Split(raw, ",") {
		e = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(e, ".")))
		if e != "" {
			exts = append(exts, e)
		}
	}
	if len(exts) == 0 {
		return []string{"pdf"}
	}
	return exts
}
