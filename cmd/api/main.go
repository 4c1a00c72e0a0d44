package main

import (
	"context"
	"log"

	_ "github.com/dhima/bookshelf-api/docs" // Import generated docs
	"github.com/dhima/bookshelf-api/internal/api"
)

// @title Bookshelf API
// @version 1.0
// @description Minimal CRUD service for a single books table.
// @description
// @description ## Storage
// @description Books live in SQLite by default or MySQL when DATABASE_DRIVER=mysql.
// @description Every request acquires its own connection and releases it before responding.
// @description
// @description ## Change events
// @description When KAFKA_BROKERS is set, committed creates, updates and deletes are published to KAFKA_TOPIC.

// @contact.name API Support
// @contact.url https://github.com/dhima/bookshelf-api

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

func main() {
	srv, err := api.NewServer(context.Background())
	if err != nil {
		log.Fatalf("api server failed to start: %v", err)
	}
	if err := srv.Serve(); err != nil {
		log.Fatalf("api server stopped: %v", err)
	}
}
