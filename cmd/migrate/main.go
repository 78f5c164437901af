package main

import (
	"token_dashboard/internal/config" // Custom import path (Config)
	"token_dashboard/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Database Source Name (DSN) for MySQL connection
	db.Migrate(cfg.DSN())
}
