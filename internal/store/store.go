// Package store provides the SQLite-backed subscriber database for
// listdeck.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/rotisserie/eris"
)

//go:embed schema.sql
var schemaFS embed.FS

// defaultSQLiteParams matches the settings we want for an interactive
// tool sharing the database with background imports.
const defaultSQLiteParams = "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON"

// Store provides database operations over the subscriber list.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Subscriber is one mailing-list member.
type Subscriber struct {
	ID       int64
	Email    string
	Name     string
	Domain   string
	Status   string
	JoinedAt string
	LastSeen string
	Sends    int
	Opens    int
	Clicks   int
	Bounces  int
	Score    int
}

// Stats summarizes the list for the CLI and the browser footer.
type Stats struct {
	SubscriberCount int64
	DomainCount     int64
	ActiveCount     int64
	AvgScore        float64
}

// isSQLiteError checks if err is a sqlite3.Error whose message contains
// substr. Type-asserting the driver error is more robust than matching
// on err.Error() of arbitrary wrappers.
func isSQLiteError(err error, substr string) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return strings.Contains(sqliteErr.Error(), substr)
	}
	return false
}

// IsDuplicateEmail reports whether err is the unique-constraint failure
// raised when importing an email address that already exists.
func IsDuplicateEmail(err error) bool {
	return isSQLiteError(err, "UNIQUE constraint failed: subscribers.email")
}

// Open opens or creates the database at the given path and applies the
// schema.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "create db directory %s", dir)
	}

	db, err := sql.Open("sqlite3", dbPath+defaultSQLiteParams)
	if err != nil {
		return nil, eris.Wrap(err, "open database")
	}

	s := &Store{db: db, dbPath: dbPath}
	if err := s.applySchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) applySchema() error {
	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return eris.Wrap(err, "read embedded schema")
	}
	if _, err := s.db.Exec(string(schema)); err != nil {
		return eris.Wrap(err, "apply schema")
	}
	return nil
}

// Insert adds one subscriber. The domain is derived from the email when
// empty.
func (s *Store) Insert(ctx context.Context, sub *Subscriber) error {
	if sub.Domain == "" {
		sub.Domain = EmailDomain(sub.Email)
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO subscribers
			(email, name, domain, status, joined_at, last_seen, sends, opens, clicks, bounces, score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.Email, sub.Name, sub.Domain, sub.Status, sub.JoinedAt, sub.LastSeen,
		sub.Sends, sub.Opens, sub.Clicks, sub.Bounces, sub.Score,
	)
	if err != nil {
		return eris.Wrapf(err, "insert subscriber %s", sub.Email)
	}
	sub.ID, _ = res.LastInsertId()
	return nil
}

// List returns all subscribers ordered by insertion. The grid engine
// does its own filtering and sorting in memory; the store just hands
// over the full set.
func (s *Store) List(ctx context.Context) ([]Subscriber, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, name, domain, status, joined_at, last_seen,
		       sends, opens, clicks, bounces, score
		FROM subscribers ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "list subscribers")
	}
	defer rows.Close()

	var subs []Subscriber
	for rows.Next() {
		var sub Subscriber
		if err := rows.Scan(
			&sub.ID, &sub.Email, &sub.Name, &sub.Domain, &sub.Status,
			&sub.JoinedAt, &sub.LastSeen,
			&sub.Sends, &sub.Opens, &sub.Clicks, &sub.Bounces, &sub.Score,
		); err != nil {
			return nil, eris.Wrap(err, "scan subscriber")
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "iterate subscribers")
	}
	return subs, nil
}

// Delete removes subscribers by id. Used for bulk operations driven by
// the browser's selection.
func (s *Store) Delete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM subscribers WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return 0, eris.Wrap(err, "delete subscribers")
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// UpdateScore sets the engagement score for one subscriber.
func (s *Store) UpdateScore(ctx context.Context, id int64, scoreValue int) error {
	if _, err := s.db.ExecContext(ctx,
		"UPDATE subscribers SET score = ? WHERE id = ?", scoreValue, id); err != nil {
		return eris.Wrapf(err, "update score for subscriber %d", id)
	}
	return nil
}

// GetStats computes summary statistics for the whole list.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(DISTINCT domain),
		       COALESCE(SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END), 0),
		       COALESCE(AVG(score), 0)
		FROM subscribers`).Scan(
		&st.SubscriberCount, &st.DomainCount, &st.ActiveCount, &st.AvgScore)
	if err != nil {
		return nil, eris.Wrap(err, "compute stats")
	}
	return &st, nil
}

// EmailDomain extracts the domain part of an address, lowercased.
// Malformed addresses yield an empty domain rather than an error.
func EmailDomain(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}
