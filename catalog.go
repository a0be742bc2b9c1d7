package acep

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Record is one framebuffer written to an output directory.
type Record struct {
	Directory string
	Index     int
	Basename  string
	Source    string
	SHA1      string
	Time      time.Time
}

// Catalog keeps a history of every framebuffer written. It is never
// consulted when choosing indices; the output directory is the only source
// of truth for that.
type Catalog struct {
	db *sql.DB
}

// NewCatalog opens, creating if necessary, the catalog database in file.
func NewCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS conversion (id INTEGER PRIMARY KEY NOT NULL, directory TEXT NOT NULL, idx INTEGER NOT NULL, basename TEXT NOT NULL, source TEXT NOT NULL, sha1 TEXT NOT NULL, converted_at TEXT NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE INDEX IF NOT EXISTS conversion_directory ON conversion (directory, idx)"); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Record adds r to the catalog.
func (c *Catalog) Record(r Record) error {
	if _, err := c.db.Exec("INSERT INTO conversion (directory, idx, basename, source, sha1, converted_at) VALUES (?, ?, ?, ?, ?, ?)", r.Directory, r.Index, r.Basename, r.Source, r.SHA1, r.Time.UTC().Format(time.RFC3339Nano)); err != nil {
		return err
	}
	return nil
}

// History returns the records for directory, or for every directory if it
// is empty, oldest first.
func (c *Catalog) History(directory string) ([]Record, error) {
	query := "SELECT directory, idx, basename, source, sha1, converted_at FROM conversion"
	var args []interface{}
	if directory != "" {
		query += " WHERE directory = ?"
		args = append(args, directory)
	}
	query += " ORDER BY id"

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var at string
		if err := rows.Scan(&r.Directory, &r.Index, &r.Basename, &r.Source, &r.SHA1, &at); err != nil {
			return nil, err
		}
		if r.Time, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	return records, rows.Err()
}
