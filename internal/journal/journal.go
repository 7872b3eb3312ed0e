// Package journal keeps an append-only local audit trail of mutation
// attempts. It never gates a mutation: a journal write failure is logged
// and swallowed by the caller.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"londonpark/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

type Journal struct {
	db *sql.DB
}

func Open(path string) (*Journal, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %v", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %v", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to journal: %v", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create journal tables: %v", err)
	}

	return &Journal{db: db}, nil
}

func createTables(db *sql.DB) error {
	query := `CREATE TABLE IF NOT EXISTS mutation_journal (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            actor TEXT NOT NULL,
            kind TEXT NOT NULL,
            op TEXT NOT NULL,
            entity_id INTEGER NOT NULL DEFAULT 0,
            outcome TEXT NOT NULL,
            message TEXT,
            created_at TIMESTAMP NOT NULL
        )`
	if _, err := db.Exec(query); err != nil {
		return err
	}

	_, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_journal_created_at ON mutation_journal(created_at)`)
	return err
}

// Record appends one entry. The entry's ID and CreatedAt are filled in.
func (j *Journal) Record(ctx context.Context, entry *models.JournalEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query := `INSERT INTO mutation_journal (actor, kind, op, entity_id, outcome, message, created_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := j.db.ExecContext(ctx, query,
		entry.Actor,
		entry.Kind,
		entry.Op,
		entry.EntityID,
		entry.Outcome,
		entry.Message,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record journal entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	entry.ID = id

	return nil
}

// Recent returns the newest entries, most recent first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]models.JournalEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, actor, kind, op, entity_id, outcome, message, created_at
              FROM mutation_journal ORDER BY id DESC LIMIT ?`
	rows, err := j.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []models.JournalEntry
	for rows.Next() {
		var entry models.JournalEntry
		var message sql.NullString
		if err := rows.Scan(&entry.ID, &entry.Actor, &entry.Kind, &entry.Op, &entry.EntityID, &entry.Outcome, &message, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entry.Message = message.String
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (j *Journal) Close() error {
	return j.db.Close()
}
