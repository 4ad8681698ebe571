package db

import (
	"fmt"
)

// RunMigrations applies any pending database migrations
func (db *DB) RunMigrations() error {
	// Slots table from builds that stored everything in one row
	if err := db.runSlotsTableMigration(); err != nil {
		return err
	}

	// Timestamp columns
	if err := db.runTimestampMigration(); err != nil {
		return err
	}

	return nil
}

func (db *DB) runSlotsTableMigration() error {
	var count int
	err := db.conn.QueryRow(`
		SELECT COUNT(*)
		FROM sqlite_master
		WHERE type = 'table' AND name = 'slots'
	`).Scan(&count)

	if err != nil {
		return fmt.Errorf("checking for slots table: %w", err)
	}

	if count == 0 {
		db.logger.Info("running migration: creating slots table")

		_, err := db.conn.Exec(`
			CREATE TABLE slots (
			    name TEXT PRIMARY KEY,
			    value TEXT NOT NULL
			)
		`)
		if err != nil {
			return fmt.Errorf("creating slots table: %w", err)
		}
	}

	return nil
}

func (db *DB) runTimestampMigration() error {
	// Check if timestamp columns exist
	var count int
	err := db.conn.QueryRow(`
		SELECT COUNT(*)
		FROM pragma_table_info('slots')
		WHERE name IN ('created_at', 'updated_at')
	`).Scan(&count)

	if err != nil {
		return fmt.Errorf("checking for timestamp columns: %w", err)
	}

	// If columns don't exist, add them
	if count < 2 {
		db.logger.Info("running migration: adding slot timestamp columns")

		tx, err := db.conn.Begin()
		if err != nil {
			return fmt.Errorf("starting transaction: %w", err)
		}
		defer tx.Rollback()

		// SQLite rejects non-constant defaults on ALTER TABLE, so backfill instead
		_, err = tx.Exec(`ALTER TABLE slots ADD COLUMN created_at DATETIME`)
		if err != nil && err.Error() != "duplicate column name: created_at" {
			return fmt.Errorf("adding created_at column: %w", err)
		}

		_, err = tx.Exec(`ALTER TABLE slots ADD COLUMN updated_at DATETIME`)
		if err != nil && err.Error() != "duplicate column name: updated_at" {
			return fmt.Errorf("adding updated_at column: %w", err)
		}

		_, err = tx.Exec(`UPDATE slots SET created_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP WHERE created_at IS NULL`)
		if err != nil {
			return fmt.Errorf("backfilling timestamps: %w", err)
		}

		_, err = tx.Exec(`
			CREATE TRIGGER IF NOT EXISTS update_slot_timestamp
			AFTER UPDATE OF value ON slots
			BEGIN
			    UPDATE slots SET updated_at = CURRENT_TIMESTAMP WHERE name = NEW.name;
			END
		`)
		if err != nil {
			return fmt.Errorf("creating timestamp trigger: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing timestamp migration: %w", err)
		}

		db.logger.Info("timestamp migration completed successfully")
	}

	return nil
}
