package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // Import the SQLite3 driver
)

// Store wraps the bot's SQLite database. It is created once at startup,
// handed to the components that need persistence, and closed once at
// shutdown.
type Store struct {
	db *sql.DB
}

// Open opens the SQLite database at dbPath, creating the file and its
// directory if necessary, and runs the schema migrations.
func Open(dbPath string) (*Store, error) {
	// Ensure the directory for the database file exists.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// WAL for durability, foreign keys for the rule -> ignore/cooldown cascades.
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports a single writer; one connection also keeps in-memory
	// databases on the same handle.
	db.SetMaxOpenConns(1)

	// Ping the database to verify the connection.
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Successfully connected to the database at", dbPath)
	return s, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// migrate creates the tables and indexes if they don't exist.
func (s *Store) migrate() error {
	schema := `
    CREATE TABLE IF NOT EXISTS repost_rules (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        guild_id TEXT NOT NULL,
        trigger_role_id TEXT NOT NULL,
        destination_channel_id TEXT NOT NULL,
        confirm_reaction TEXT DEFAULT '✅',
        embed_color TEXT DEFAULT '#5865F2',
        include_jump_link INTEGER DEFAULT 1,
        strip_role_mention INTEGER DEFAULT 1,
        cooldown_seconds INTEGER DEFAULT 0,
        created_at INTEGER NOT NULL DEFAULT (strftime('%s','now')),
        UNIQUE(guild_id, trigger_role_id)
    );

    CREATE TABLE IF NOT EXISTS ignored_channels (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        rule_id INTEGER NOT NULL REFERENCES repost_rules(id) ON DELETE CASCADE,
        channel_id TEXT NOT NULL,
        UNIQUE(rule_id, channel_id)
    );

    CREATE TABLE IF NOT EXISTS cooldowns (
        user_id TEXT NOT NULL,
        rule_id INTEGER NOT NULL REFERENCES repost_rules(id) ON DELETE CASCADE,
        expires_at INTEGER NOT NULL,
        PRIMARY KEY (user_id, rule_id)
    );

    CREATE INDEX IF NOT EXISTS idx_repost_rules_guild ON repost_rules(guild_id);
    CREATE INDEX IF NOT EXISTS idx_ignored_channels_rule ON ignored_channels(rule_id);
    CREATE INDEX IF NOT EXISTS idx_cooldowns_expires ON cooldowns(expires_at);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}
