package hotel

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	_ "github.com/mattn/go-sqlite3"
)

// Fixed keys for the persisted session, one row each.
const (
	sessionKeyToken = "token"
	sessionKeyUser  = "user"
	sessionKeyRole  = "role"
)

// SessionStore is the sole source of truth for "is authenticated" and
// "is admin". It persists the token/user/role triple to SQLite so a new
// process rehydrates the previous session, and it is the single place the
// 401-triggered clear lands.
type SessionStore struct {
	db *sql.DB

	token string
	role  string
	user  *User
}

// OpenSessionStore opens (or creates) the session database at dbPath,
// applies schema migrations, and rehydrates any persisted session.
// Malformed persisted data is discarded, never fatal.
func OpenSessionStore(dbPath string) (*SessionStore, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create session dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applySessionMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	store := &SessionStore{db: db}
	if err := store.rehydrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *SessionStore) Close() error { return s.db.Close() }

const sessionSchemaVersion = 1

func applySessionMigrations(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= sessionSchemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS session (
            key TEXT PRIMARY KEY,
            value TEXT NOT NULL
        );`,
		`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt, sessionSchemaVersion); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	return tx.Commit()
}

// rehydrate loads the persisted triple into memory. A user row that fails
// to parse is deleted and treated as absent.
func (s *SessionStore) rehydrate() error {
	rows, err := s.db.Query(`SELECT key, value FROM session`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var userJSON string
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return err
		}
		switch key {
		case sessionKeyToken:
			s.token = value
		case sessionKeyRole:
			s.role = value
		case sessionKeyUser:
			userJSON = value
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if userJSON != "" && userJSON != "null" {
		var u User
		if err := json.Unmarshal([]byte(userJSON), &u); err != nil {
			slog.Warn("discarding malformed persisted user", "err", err)
			_, _ = s.db.Exec(`DELETE FROM session WHERE key=?`, sessionKeyUser)
		} else {
			s.user = &u
		}
	}
	return nil
}

// Login stores the token/role/user triple and marks the session active.
func (s *SessionStore) Login(token, role string, user *User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	upsert := `INSERT INTO session(key,value) VALUES(?,?)
        ON CONFLICT(key) DO UPDATE SET value=excluded.value;`
	for _, kv := range [][2]string{
		{sessionKeyToken, token},
		{sessionKeyRole, role},
		{sessionKeyUser, string(userJSON)},
	} {
		if _, err := tx.Exec(upsert, kv[0], kv[1]); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.token = token
	s.role = role
	s.user = user
	return nil
}

// Logout clears the persisted session entirely.
func (s *SessionStore) Logout() error {
	if _, err := s.db.Exec(`DELETE FROM session`); err != nil {
		return err
	}
	s.token = ""
	s.role = ""
	s.user = nil
	return nil
}

// Clear is the 401-triggered variant of Logout, called by the API client
// when the backend rejects the credential.
func (s *SessionStore) Clear() error { return s.Logout() }

// Token returns the stored bearer token, empty when logged out.
func (s *SessionStore) Token() string { return s.token }

// Role returns the stored role string.
func (s *SessionStore) Role() string { return s.role }

// CurrentUser returns the stored user, nil when logged out.
func (s *SessionStore) CurrentUser() *User { return s.user }

// UserID returns the stored user's id, 0 when no user is known.
func (s *SessionStore) UserID() int64 {
	if s.user == nil {
		return 0
	}
	return s.user.ID
}

// IsAuthenticated reports whether a live token is present. A JWT whose exp
// claim has passed counts as logged out; tokens the client cannot inspect
// are assumed live and left for the backend to reject.
func (s *SessionStore) IsAuthenticated() bool {
	return s.token != "" && !tokenExpired(s.token, time.Now())
}

// IsAdmin reports whether the session belongs to an administrator.
func (s *SessionStore) IsAdmin() bool {
	return s.IsAuthenticated() && s.role == RoleAdmin
}

// tokenExpired inspects the exp claim without verifying the signature;
// verification is the backend's job.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
