// Command migrate creates the schema and optionally applies a SQL file.
//
//	migrate [file.sql]
package main

import (
	"os"

	"arena/internal/config"
	"arena/internal/database"
	"arena/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	if len(os.Args) < 2 {
		return
	}
	file := os.Args[1]
	sqlBytes, err := os.ReadFile(file)
	if err != nil {
		logger.Fatalf("Failed to read migration file: %v", err)
	}
	logger.Infof("Applying migration: %s", file)
	if err := db.Exec(string(sqlBytes)).Error; err != nil {
		logger.Fatalf("Failed to apply migration: %v", err)
	}
	logger.Infof("Migration applied successfully")
}
