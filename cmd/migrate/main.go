package main

import (
	"log"
	"os"

	"voice-notes-be/internal/model"
	"voice-notes-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// 2. Extensions (gen_random_uuid is built in from Postgres 13, pgcrypto covers older servers)
	log.Println("Step 1: Setting up extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
	}

	// 3. Tables
	log.Println("Step 2: Running AutoMigrate...")
	models := []interface{}{
		&model.User{},
		&model.Note{},
		&model.NoteActivity{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 4. Full-text index (GORM cannot express generated columns)
	log.Println("Step 3: Creating search index...")
	searchSQL := []string{
		`ALTER TABLE notes ADD COLUMN IF NOT EXISTS search_vector tsvector GENERATED ALWAYS AS (
			setweight(to_tsvector('english', coalesce(title, '')), 'A') ||
			setweight(to_tsvector('english', coalesce(content, '')), 'B') ||
			setweight(to_tsvector('english', coalesce(summary, '')), 'C')
		) STORED;`,
		`CREATE INDEX IF NOT EXISTS idx_notes_search_vector ON notes USING GIN (search_vector);`,
		`CREATE INDEX IF NOT EXISTS idx_notes_user_created ON notes (user_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_note_activities_user_note ON note_activities (user_id, note_id, occurred_at DESC);`,
	}
	for _, sql := range searchSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Fatalf("Error: Failed to execute index SQL: %v", err)
		}
	}

	log.Println("Migration completed successfully")
}
