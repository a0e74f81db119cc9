package db

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Operation outcomes
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Operation is one journaled installer phase.
type Operation struct {
	ID         string // ULID, assigned on save when empty
	Phase      string
	Channel    string
	InstallDir string
	Target     string
	Outcome    string
	Message    string
	CreatedAt  time.Time
}

// RecordOperation appends op to the journal. ULIDs sort by creation time, so
// the id doubles as the ordering key.
func (d *DB) RecordOperation(op *Operation) error {
	if op.ID == "" {
		op.ID = ulid.Make().String()
	}
	if op.CreatedAt.IsZero() {
		op.CreatedAt = time.Now().UTC()
	}
	_, err := d.Exec(`
		INSERT INTO operations (id, phase, channel, install_dir, target, outcome, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, op.ID, op.Phase, op.Channel, op.InstallDir, op.Target, op.Outcome, op.Message, op.CreatedAt)
	if err != nil {
		return fmt.Errorf("recording operation: %w", err)
	}
	return nil
}

// ListOperations returns the newest operations first. An empty installDir
// lists every directory; limit <= 0 means no limit.
func (d *DB) ListOperations(installDir string, limit int) ([]Operation, error) {
	query := `SELECT id, phase, channel, install_dir, target, outcome, COALESCE(message, ''), created_at FROM operations`
	var args []interface{}
	if installDir != "" {
		query += ` WHERE install_dir = ?`
		args = append(args, installDir)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying operations: %w", err)
	}
	defer rows.Close()

	var ops []Operation
	for rows.Next() {
		var op Operation
		if err := rows.Scan(&op.ID, &op.Phase, &op.Channel, &op.InstallDir, &op.Target, &op.Outcome, &op.Message, &op.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

// LastOperation returns the newest operation for installDir, or nil.
func (d *DB) LastOperation(installDir string) (*Operation, error) {
	ops, err := d.ListOperations(installDir, 1)
	if err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return nil, nil
	}
	return &ops[0], nil
}
