package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"

	"github.com/soaringjerry/Scorecard/internal/services"
)

// Records are stored as JSON blobs keyed by subject, one row per
// record with a sequence column preserving list order. The schema is
// deliberately a key-value layout: the engine owns record semantics,
// the database only stores and orders opaque blobs.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS assessments (
	subject TEXT NOT NULL,
	seq     INTEGER NOT NULL,
	record  TEXT NOT NULL,
	PRIMARY KEY (subject, seq)
);
CREATE TABLE IF NOT EXISTS people (
	id     TEXT PRIMARY KEY,
	person TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS audit_log (
	at     TEXT NOT NULL,
	actor  TEXT NOT NULL,
	action TEXT NOT NULL,
	target TEXT NOT NULL,
	note   TEXT
);
`

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an open database, applying pragmas and the
// schema.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// OpenSQLite opens (creating if necessary) a SQLite store at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	store, err := NewSQLiteStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) LoadRecords(subject string) ([]*services.AssessmentRecord, error) {
	rows, err := s.db.Query("SELECT record FROM assessments WHERE subject = ? ORDER BY seq", subject)
	if err != nil {
		return nil, fmt.Errorf("load records for %s: %w", subject, err)
	}
	defer rows.Close()
	var out []*services.AssessmentRecord
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		var rec services.AssessmentRecord
		if err := json.Unmarshal([]byte(blob), &rec); err != nil {
			log.Printf("sqlite store: skip undecodable record for %s: %v", subject, err)
			continue
		}
		rec.Subject = subject
		services.NormalizeRecord(&rec)
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// SaveRecords replaces the subject's list in one transaction, which is
// what makes supersession atomic from any other reader's perspective.
func (s *SQLiteStore) SaveRecords(subject string, records []*services.AssessmentRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM assessments WHERE subject = ?", subject); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("save records for %s: %w", subject, err)
	}
	for i, rec := range records {
		blob, err := json.Marshal(rec)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("encode record %s: %w", rec.ID, err)
		}
		if _, err := tx.Exec("INSERT INTO assessments (subject, seq, record) VALUES (?, ?, ?)", subject, i, string(blob)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("save records for %s: %w", subject, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ListSubjects() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT subject FROM assessments ORDER BY subject")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var subject string
		if err := rows.Scan(&subject); err != nil {
			return nil, err
		}
		out = append(out, subject)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetPerson(id string) (*services.Person, error) {
	var blob string
	err := s.db.QueryRow("SELECT person FROM people WHERE id = ?", id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p services.Person
	if err := json.Unmarshal([]byte(blob), &p); err != nil {
		return nil, fmt.Errorf("decode person %s: %w", id, err)
	}
	return &p, nil
}

func (s *SQLiteStore) PutPerson(p *services.Person) error {
	blob, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode person %s: %w", p.ID, err)
	}
	_, err = s.db.Exec(
		"INSERT INTO people (id, person) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET person = excluded.person",
		p.ID, string(blob))
	return err
}

func (s *SQLiteStore) LoadPeople() (map[string]*services.Person, error) {
	rows, err := s.db.Query("SELECT id, person FROM people")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]*services.Person{}
	for rows.Next() {
		var id, blob string
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, err
		}
		var p services.Person
		if err := json.Unmarshal([]byte(blob), &p); err != nil {
			log.Printf("sqlite store: skip undecodable person %s: %v", id, err)
			continue
		}
		out[id] = &p
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SavePeople(people map[string]*services.Person) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM people"); err != nil {
		_ = tx.Rollback()
		return err
	}
	for id, p := range people {
		blob, err := json.Marshal(p)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("encode person %s: %w", id, err)
		}
		if _, err := tx.Exec("INSERT INTO people (id, person) VALUES (?, ?)", id, string(blob)); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) AddAudit(entry services.AuditEntry) {
	_, err := s.db.Exec(
		"INSERT INTO audit_log (at, actor, action, target, note) VALUES (?, ?, ?, ?, ?)",
		entry.Time.UTC().Format("2006-01-02T15:04:05Z07:00"), entry.Actor, entry.Action, entry.Target, entry.Note)
	if err != nil {
		log.Printf("sqlite store: add audit: %v", err)
	}
}

var _ Store = (*SQLiteStore)(nil)
