package db

import (
	"fmt"
	"time"
)

// PlacedFile is a file the installer wrote outside its own data directory.
type PlacedFile struct {
	InstallDir string
	Path       string
	Role       string // "module", "support", "backup", ...
	SHA256     string
	PlacedAt   time.Time
}

// SavePlacedFile records a written file, replacing an earlier record for the
// same path.
func (d *DB) SavePlacedFile(f PlacedFile) error {
	_, err := d.Exec(`
		INSERT INTO placed_files (install_dir, path, role, sha256)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(install_dir, path) DO UPDATE SET
			role = excluded.role,
			sha256 = excluded.sha256,
			placed_at = CURRENT_TIMESTAMP
	`, f.InstallDir, f.Path, f.Role, f.SHA256)
	if err != nil {
		return fmt.Errorf("saving placed file: %w", err)
	}
	return nil
}

// GetPlacedFiles returns the recorded files for installDir ordered by path.
func (d *DB) GetPlacedFiles(installDir string) ([]PlacedFile, error) {
	rows, err := d.Query(`
		SELECT install_dir, path, role, sha256, placed_at FROM placed_files
		WHERE install_dir = ?
		ORDER BY path
	`, installDir)
	if err != nil {
		return nil, fmt.Errorf("querying placed files: %w", err)
	}
	defer rows.Close()

	var files []PlacedFile
	for rows.Next() {
		var f PlacedFile
		if err := rows.Scan(&f.InstallDir, &f.Path, &f.Role, &f.SHA256, &f.PlacedAt); err != nil {
			return nil, fmt.Errorf("scanning placed file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// DeletePlacedFile forgets a single file.
func (d *DB) DeletePlacedFile(installDir, path string) error {
	_, err := d.Exec(`DELETE FROM placed_files WHERE install_dir = ? AND path = ?`, installDir, path)
	if err != nil {
		return fmt.Errorf("deleting placed file: %w", err)
	}
	return nil
}
