package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// DB wraps the database connection
type DB struct {
	conn   *sql.DB
	logger *zap.Logger
}

// Open creates a new database connection
func Open(dbPath string, logger *zap.Logger) (*DB, error) {
	// Check if DB exists
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("database not found at %s\nRun 'taskflow init' to create it", dbPath)
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	db := &DB{conn: conn, logger: logger.Named("db")}

	// Run any pending migrations
	if err := db.RunMigrations(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// OpenOrInitialize opens the database, creating it first if it does not exist
func OpenOrInitialize(dbPath string, logger *zap.Logger) (*DB, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		if err := Initialize(dbPath); err != nil {
			return nil, err
		}
		if logger != nil {
			logger.Info("created database", zap.String("path", dbPath))
		}
	}
	return Open(dbPath, logger)
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// GetItem returns the value stored in a slot
func (db *DB) GetItem(name string) (string, bool, error) {
	var value string
	err := db.conn.QueryRow(`SELECT value FROM slots WHERE name = ?`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading slot: %w", err)
	}
	return value, true, nil
}

// SetItem creates or replaces the value stored in a slot
func (db *DB) SetItem(name, value string) error {
	query := `
		INSERT INTO slots (name, value, created_at, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value
	`
	if _, err := db.conn.Exec(query, name, value); err != nil {
		return fmt.Errorf("writing slot: %w", err)
	}
	return nil
}

// RemoveItem deletes a slot. Removing a missing slot is not an error.
func (db *DB) RemoveItem(name string) error {
	if _, err := db.conn.Exec(`DELETE FROM slots WHERE name = ?`, name); err != nil {
		return fmt.Errorf("deleting slot: %w", err)
	}
	return nil
}

// ListSlots returns every slot ordered by name, values omitted
func (db *DB) ListSlots() ([]Slot, error) {
	query := `
		SELECT name, length(CAST(value AS BLOB)), created_at, updated_at
		FROM slots
		ORDER BY name
	`

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying slots: %w", err)
	}
	defer rows.Close()

	var slots []Slot
	for rows.Next() {
		var s Slot
		if err := rows.Scan(&s.Name, &s.Size, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning slot: %w", err)
		}
		slots = append(slots, s)
	}

	return slots, rows.Err()
}
