package main

import (
	"errors"
	"log"
	"net/http"

	"DocVault-backend/internal/server"
)

// @title DocVault API
// @version 1.0
// @description Authenticated storage and retrieval service for PDF documents

// @BasePath /api/v1
func main() {
	srv, err := server.NewServer()
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Printf("Listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}
}
