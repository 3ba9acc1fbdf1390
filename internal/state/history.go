package state

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Conversion is one successful URL-to-file run.
type Conversion struct {
	ID           string
	SourceURL    string
	OutputPath   string
	Mode         string
	Created      bool
	PayloadBytes int64
	FileBytes    int64
	CreatedAt    time.Time
}

// RecordConversion stores c, filling in ID and CreatedAt when empty.
func RecordConversion(c *Conversion) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	return withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO conversions (id, source_url, output_path, mode, created, payload_bytes, file_bytes, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.SourceURL, c.OutputPath, c.Mode, c.Created, c.PayloadBytes, c.FileBytes, c.CreatedAt.UnixNano())
		if err != nil {
			return fmt.Errorf("failed to insert conversion: %w", err)
		}
		return nil
	})
}

// ListConversions returns up to limit conversions, newest first.
// A non-positive limit returns all of them.
func ListConversions(limit int) ([]Conversion, error) {
	d, err := GetDB()
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, source_url, output_path, mode, created, payload_bytes, file_bytes, created_at
		FROM conversions
		ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversions: %w", err)
	}
	defer rows.Close()

	var out []Conversion
	for rows.Next() {
		var (
			c         Conversion
			createdAt int64
		)
		if err := rows.Scan(&c.ID, &c.SourceURL, &c.OutputPath, &c.Mode, &c.Created, &c.PayloadBytes, &c.FileBytes, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversion: %w", err)
		}
		c.CreatedAt = time.Unix(0, createdAt)
		out = append(out, c)
	}
	return out, rows.Err()
}

// ClearHistory deletes every stored conversion.
func ClearHistory() (int64, error) {
	var n int64
	err := withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`DELETE FROM conversions`)
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		n, err = res.RowsAffected()
		return err
	})
	return n, err
}
