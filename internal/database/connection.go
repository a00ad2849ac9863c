package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. When DATABASE_URL is set
// a PostgreSQL connection is used, otherwise a local SQLite file under data/.
func Connect() error {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		db, err := sqlx.Connect("postgres", url)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		DB = db
		return initializeSchema()
	}

	dataDir := "data"
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "linguabot.db")
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	DB = db
	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if DB.DriverName() == "postgres" {
		serial = "BIGSERIAL PRIMARY KEY"
	}

	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS modules (
				id %s,
				title TEXT NOT NULL UNIQUE,
				description TEXT DEFAULT '',
				level TEXT DEFAULT '',
				theme TEXT DEFAULT '',
				sort_order INTEGER DEFAULT 0,
				completed BOOLEAN DEFAULT FALSE,
				progress INTEGER DEFAULT 0,
				word_count INTEGER DEFAULT 0,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`, serial),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS vocabulary_items (
				id %s,
				source_text TEXT NOT NULL,
				target_text TEXT NOT NULL,
				module_id INTEGER NOT NULL,
				learned BOOLEAN DEFAULT FALSE,
				last_reviewed_at TIMESTAMP,
				next_review TIMESTAMP,
				review_count INTEGER DEFAULT 0,
				difficulty INTEGER DEFAULT 1,
				examples TEXT DEFAULT '',
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (module_id) REFERENCES modules(id),
				UNIQUE(source_text, module_id)
			)
		`, serial),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS user_progress (
				id %s,
				total_learned INTEGER DEFAULT 0,
				total_reviewed INTEGER DEFAULT 0,
				last_study_date TIMESTAMP,
				total_study_time INTEGER DEFAULT 0,
				streak_days INTEGER DEFAULT 0,
				current_module INTEGER,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`, serial),
		`
			CREATE TABLE IF NOT EXISTS quiz_questions (
				id TEXT PRIMARY KEY,
				module_id INTEGER NOT NULL,
				type TEXT NOT NULL,
				prompt TEXT NOT NULL,
				options TEXT DEFAULT '',
				correct_answer TEXT NOT NULL,
				completed BOOLEAN DEFAULT FALSE,
				correct BOOLEAN DEFAULT FALSE,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (module_id) REFERENCES modules(id)
			)
		`,
	}

	for _, stmt := range statements {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	return nil
}
