package crystal

import (
	"bytes"
	"crypto/sha1"
	"database/sql"
	"fmt"
	"image"

	"github.com/bodgit/crystal/lattice"
	"github.com/bodgit/crystal/voxel"
	_ "github.com/mattn/go-sqlite3"
)

// Archive is a SQLite database of encoded lattices, keyed by the SHA-1 of the
// payload and the amount of ECC padding.
type Archive struct {
	db *sql.DB
}

// Entry is a single lattice held in an Archive.
type Entry struct {
	ID       int64
	SHA1     string
	ECCBytes int
	Report   lattice.Report
	// Image is the lattice in voxel format
	Image []byte
}

// Decode returns the archived lattice as an image.
func (e *Entry) Decode() (image.Image, error) {
	return voxel.Decode(bytes.NewReader(e.Image))
}

// NewArchive opens the archive in file, creating it if necessary.
func NewArchive(file string) (*Archive, error) {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	// Only one writer at a time
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS lattice (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL, ecc_bytes INTEGER NOT NULL, side INTEGER NOT NULL, bit_count INTEGER NOT NULL, symbol_count INTEGER NOT NULL, image BLOB NOT NULL, UNIQUE(sha1, ecc_bytes))"); err != nil {
		db.Close()
		return nil, err
	}

	return &Archive{
		db: db,
	}, nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

func payloadSHA1(text string) string {
	h := sha1.Sum([]byte(text))
	return fmt.Sprintf("%X", h[:])
}

// Store adds the lattice encoded from text to the archive unless it's already
// present and returns its ID. It is safe to call from multiple goroutines.
func (a *Archive) Store(text string, eccBytes int, l *lattice.Lattice, r lattice.Report) (int64, error) {
	b := new(bytes.Buffer)
	if err := voxel.Encode(b, l); err != nil {
		return 0, err
	}

	sha := payloadSHA1(text)

	if _, err := a.db.Exec("INSERT OR IGNORE INTO lattice (sha1, ecc_bytes, side, bit_count, symbol_count, image) VALUES (?, ?, ?, ?, ?, ?)", sha, eccBytes, r.Side, r.BitCount, r.SymbolCount, b.Bytes()); err != nil {
		return 0, err
	}

	var id int64
	if err := a.db.QueryRow("SELECT id FROM lattice WHERE sha1 = ? AND ecc_bytes = ?", sha, eccBytes).Scan(&id); err != nil {
		return 0, err
	}

	return id, nil
}

type scanner interface {
	Scan(...interface{}) error
}

func scanEntry(s scanner) (*Entry, error) {
	e := new(Entry)
	if err := s.Scan(&e.ID, &e.SHA1, &e.ECCBytes, &e.Report.Side, &e.Report.BitCount, &e.Report.SymbolCount, &e.Image); err != nil {
		return nil, err
	}
	return e, nil
}

// Find returns the entry for text encoded with eccBytes of padding, or nil
// if there isn't one.
func (a *Archive) Find(text string, eccBytes int) (*Entry, error) {
	e, err := scanEntry(a.db.QueryRow("SELECT id, sha1, ecc_bytes, side, bit_count, symbol_count, image FROM lattice WHERE sha1 = ? AND ecc_bytes = ?", payloadSHA1(text), eccBytes))
	switch err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return e, nil
	default:
		return nil, err
	}
}

// List returns every entry in the archive in the order they were stored.
func (a *Archive) List() ([]Entry, error) {
	rows, err := a.db.Query("SELECT id, sha1, ecc_bytes, side, bit_count, symbol_count, image FROM lattice ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}

	return entries, rows.Err()
}
