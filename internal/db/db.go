package db

import (
	"compress/gzip"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/tailscale/tailsql/server/tailsql"
	_ "modernc.org/sqlite"
	"tailscale.com/tsweb"

	"github.com/banshee-data/wifi-heatmap/internal/heatmap"
)

// ErrSessionNotFound is returned when a session ID is unknown.
var ErrSessionNotFound = errors.New("session not found")

type DB struct {
	*sql.DB
	path string
}

// pragmas are applied to every pooled connection through the DSN.
var pragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"synchronous(NORMAL)",
	"temp_store(MEMORY)",
	"foreign_keys(ON)",
}

func dsn(path string) string {
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	return "file:" + path + "?" + q.Encode()
}

// NewDB opens the database at path and brings its schema up to date.
func NewDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, err
	}
	db := &DB{DB: sqlDB, path: path}
	if err := db.MigrateUp(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Session is a saved snapshot of a survey's samples.
type Session struct {
	ID          string           `json:"session_id"`
	Name        string           `json:"name,omitempty"`
	FloorPlan   string           `json:"floor_plan,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	SampleCount int              `json:"sample_count"`
	Samples     []heatmap.Sample `json:"samples,omitempty"`
}

// SaveSession stores samples under a new session ID and returns the summary.
func (db *DB) SaveSession(name, floorPlan string, samples []heatmap.Sample) (*Session, error) {
	s := &Session{
		ID:          uuid.NewString(),
		Name:        name,
		FloorPlan:   floorPlan,
		CreatedAt:   time.Now().UTC(),
		SampleCount: len(samples),
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO sessions (session_id, name, floor_plan, created_unix_nanos) VALUES (?, ?, ?, ?)`,
		s.ID, s.Name, s.FloorPlan, s.CreatedAt.UnixNano(),
	); err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO session_samples (session_id, position, sample_id, x, y, value) VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for i, sm := range samples {
		if _, err := stmt.Exec(s.ID, i, sm.ID, sm.X, sm.Y, sm.Value); err != nil {
			return nil, fmt.Errorf("failed to insert sample %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit session: %w", err)
	}
	return s, nil
}

// LoadSession returns a session with its samples in their original order.
func (db *DB) LoadSession(id string) (*Session, error) {
	s := &Session{ID: id}
	var created int64
	err := db.QueryRow(
		`SELECT name, floor_plan, created_unix_nanos FROM sessions WHERE session_id = ?`, id,
	).Scan(&s.Name, &s.FloorPlan, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	s.CreatedAt = time.Unix(0, created).UTC()

	rows, err := db.Query(
		`SELECT sample_id, x, y, value FROM session_samples WHERE session_id = ? ORDER BY position`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	s.Samples = []heatmap.Sample{}
	for rows.Next() {
		var sm heatmap.Sample
		if err := rows.Scan(&sm.ID, &sm.X, &sm.Y, &sm.Value); err != nil {
			return nil, err
		}
		s.Samples = append(s.Samples, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	s.SampleCount = len(s.Samples)
	return s, nil
}

// ListSessions returns session summaries, newest first.
func (db *DB) ListSessions() ([]Session, error) {
	rows, err := db.Query(`
		SELECT s.session_id, s.name, s.floor_plan, s.created_unix_nanos, COUNT(ss.sample_id)
		FROM sessions s
		LEFT JOIN session_samples ss ON ss.session_id = s.session_id
		GROUP BY s.session_id
		ORDER BY s.created_unix_nanos DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var s Session
		var created int64
		if err := rows.Scan(&s.ID, &s.Name, &s.FloorPlan, &created, &s.SampleCount); err != nil {
			return nil, err
		}
		s.CreatedAt = time.Unix(0, created).UTC()
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// DeleteSession removes a session and its samples.
func (db *DB) DeleteSession(id string) error {
	res, err := db.Exec(`DELETE FROM sessions WHERE session_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (db *DB) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)
	// create a tailSQL instance and point it to our DB
	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		log.Fatalf("failed to create tailsql server: %v", err)
	}
	tsql.SetDB("sqlite://"+filepath.Base(db.path), db.DB, &tailsql.DBOptions{
		Label: "Survey DB",
	})

	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())
	debug.Handle("backup", "Create and download a backup of the database now", http.HandlerFunc(db.handleBackup))
}

func (db *DB) handleBackup(w http.ResponseWriter, r *http.Request) {
	backupPath := filepath.Join(os.TempDir(), fmt.Sprintf("heatmap-backup-%d.db", time.Now().UnixNano()))
	if _, err := db.Exec("VACUUM INTO ?", backupPath); err != nil {
		http.Error(w, fmt.Sprintf("Failed to create backup: %v", err), http.StatusInternalServerError)
		return
	}
	defer func() {
		if err := os.Remove(backupPath); err != nil {
			log.Printf("Failed to remove backup file: %v", err)
		}
	}()

	backupFile, err := os.Open(backupPath)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to open backup file: %v", err), http.StatusInternalServerError)
		return
	}
	defer backupFile.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filepath.Base(backupPath)))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Encoding", "gzip")

	gzipWriter := gzip.NewWriter(w)
	defer gzipWriter.Close()
	if _, err := io.Copy(gzipWriter, backupFile); err != nil {
		log.Printf("Failed to write backup: %v", err)
	}
}
