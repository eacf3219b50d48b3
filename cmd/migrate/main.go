package main

import (
	"flag"
	"log"
	"os"

	"interview-rag-be/internal/migrations"
	"interview-rag-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	down := flag.Int("down", 0, "roll back N migrations instead of applying pending ones")
	flag.Parse()

	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	if *down > 0 {
		log.Printf("Rolling back %d migration(s)...", *down)
		if err := database.RollbackMigrations(dsn, migrations.FS, *down); err != nil {
			log.Fatalf("Error: rollback failed: %v", err)
		}
		log.Println("✅ Rollback completed.")
		return
	}

	log.Println("Applying migrations...")
	if err := database.RunMigrations(dsn, migrations.FS); err != nil {
		log.Fatalf("Error: migration failed: %v", err)
	}
	log.Println("✅ Success: Database schema is up to date.")
}
