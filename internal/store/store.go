package store

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"timeclock/internal/security"
)

// Store wraps the SQLite database holding every table.
type Store struct {
	db   *sql.DB
	path string
}

// New opens (creating if needed) the database file and runs migrations.
// _txlock=immediate makes write transactions take the reserved lock up
// front so compound clock transitions serialize per database.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate&_fk=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	s := &Store{db: db, path: dbPath}
	if err := s.seed(); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return s, nil
}

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS staff (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		staff_code   TEXT UNIQUE NOT NULL,
		name         TEXT NOT NULL,
		hourly_rate  REAL NOT NULL DEFAULT 0.0,
		shift_id     INTEGER REFERENCES shifts(id)
	);

	CREATE TABLE IF NOT EXISTS shifts (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL,
		start_time  TEXT NOT NULL,
		end_time    TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS attendance (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		staff_code    TEXT NOT NULL REFERENCES staff(staff_code),
		clock_in      DATETIME NOT NULL,
		clock_out     DATETIME,
		notes         TEXT,
		session_type  TEXT NOT NULL DEFAULT 'work'
	);

	CREATE INDEX IF NOT EXISTS idx_attendance_staff ON attendance(staff_code, clock_in DESC);
	CREATE INDEX IF NOT EXISTS idx_attendance_clock_in ON attendance(clock_in);

	CREATE TABLE IF NOT EXISTS holidays (
		id    INTEGER PRIMARY KEY AUTOINCREMENT,
		date  TEXT NOT NULL,
		name  TEXT NOT NULL,
		paid  BOOLEAN NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		staff_code     TEXT NOT NULL REFERENCES staff(staff_code),
		start_date     TEXT NOT NULL,
		end_date       TEXT NOT NULL,
		reason         TEXT NOT NULL DEFAULT '',
		status         TEXT NOT NULL DEFAULT 'pending',
		approved_by    TEXT,
		approval_date  TEXT
	);

	CREATE TABLE IF NOT EXISTS admin_settings (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		setting_key    TEXT UNIQUE NOT NULL,
		setting_value  TEXT
	);

	CREATE TABLE IF NOT EXISTS audit_log (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		admin_credential  TEXT NOT NULL,
		action_timestamp  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		action_details    TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS crm_leads (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		name         TEXT NOT NULL,
		phone        TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL DEFAULT 'New',
		target       TEXT NOT NULL DEFAULT '',
		assigned_to  TEXT NOT NULL DEFAULT '',
		notes        TEXT NOT NULL DEFAULT '',
		created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS crm_targets (
		id    INTEGER PRIMARY KEY AUTOINCREMENT,
		name  TEXT UNIQUE NOT NULL
	);

	CREATE TABLE IF NOT EXISTS crm_credentials (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		url       TEXT NOT NULL DEFAULT '',
		db        TEXT NOT NULL DEFAULT '',
		username  TEXT NOT NULL DEFAULT '',
		password  TEXT NOT NULL DEFAULT ''
	);
	`
	_, err := db.Exec(schema)
	return err
}

// seed installs the default admin credential, shift and CRM targets on first run.
func (s *Store) seed() error {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM admin_settings WHERE setting_key = 'admin_password'`).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		hash, err := security.HashPassword("admin123")
		if err != nil {
			return err
		}
		if _, err := s.db.Exec(`INSERT INTO admin_settings (setting_key, setting_value) VALUES ('admin_password', ?)`, hash); err != nil {
			return err
		}
	}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM shifts`).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		if _, err := s.db.Exec(`INSERT INTO shifts (name, start_time, end_time) VALUES ('Default Shift', '09:00', '17:00')`); err != nil {
			return err
		}
	}

	_, err := s.db.Exec(`INSERT OR IGNORE INTO crm_targets (name) VALUES ('Sales'), ('Marketing'), ('Support'), ('Technical'), ('VIP')`)
	return err
}

// DB exposes the underlying handle for packages that own their own queries.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

// Backup copies the database file into dir, keeping only the newest keep copies.
func (s *Store) Backup(dir string, keep int) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	// Flush WAL pages into the main file before copying.
	if _, err := s.db.Exec(`PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return "", err
	}

	name := fmt.Sprintf("attendance_backup_%s.db", time.Now().Format("20060102_150405"))
	dst := filepath.Join(dir, name)
	if err := copyFile(s.path, dst); err != nil {
		return "", err
	}

	if keep > 0 {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return dst, err
		}
		var backups []string
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), "attendance_backup_") {
				backups = append(backups, e.Name())
			}
		}
		sort.Strings(backups)
		for len(backups) > keep {
			os.Remove(filepath.Join(dir, backups[0]))
			backups = backups[1:]
		}
	}
	return dst, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
