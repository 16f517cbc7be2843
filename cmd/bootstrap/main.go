package main

import (
	"log"

	"github.com/skillconnect/marketplace/internal/config"
	"github.com/skillconnect/marketplace/internal/database"
)

// one-shot schema creation and sample data seeding, safe to re-run
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config: %+v", err)
	}
	conn, err := database.GetDbConn(
		cfg.DatabaseUser,
		cfg.DatabasePassword,
		cfg.DatabaseHost,
		cfg.DatabasePort,
		cfg.DatabaseName,
		cfg.DatabaseSSLMode,
	)
	if err != nil {
		log.Fatalf("unable to connect to postgres: %v", err)
	}
	defer database.CloseDbConn(conn)

	if err := database.CreateSchema(conn); err != nil {
		log.Fatalf("unable to create schema: %v", err)
	}
	log.Println("schema up to date")
	if err := database.SeedSampleData(conn); err != nil {
		log.Fatalf("unable to seed sample data: %v", err)
	}
	log.Println("bootstrap complete")
}
