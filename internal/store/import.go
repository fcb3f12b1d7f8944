package store

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/listdeck/listdeck/internal/score"
)

// ImportResult summarizes one CSV import run.
type ImportResult struct {
	Imported int64
	Skipped  int64 // duplicate emails
	Failed   int64 // rows missing an email address
}

// ImportCSV streams a subscriber CSV into the store. Parsing and
// writing run concurrently: one goroutine reads records off the CSV and
// a writer commits them in batches of batchSize inside transactions.
// Engagement scores are computed from the activity counters as rows
// arrive. Duplicate email addresses are skipped, not errors.
func (s *Store) ImportCSV(ctx context.Context, r io.Reader, batchSize int, logger *slog.Logger) (*ImportResult, error) {
	if batchSize <= 0 {
		batchSize = 500
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "read csv header")
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	records := make(chan Subscriber, batchSize)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(records)
		now := time.Now()
		for {
			rec, err := reader.Read()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return eris.Wrap(err, "read csv record")
			}
			sub, ok := cols.subscriber(rec, now)
			if !ok {
				result.Failed++
				continue
			}
			select {
			case records <- sub:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	g.Go(func() error {
		batch := make([]Subscriber, 0, batchSize)
		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			imported, skipped, err := s.insertBatch(ctx, batch)
			if err != nil {
				return err
			}
			result.Imported += imported
			result.Skipped += skipped
			if logger != nil {
				logger.Debug("committed batch",
					"imported", imported, "skipped", skipped)
			}
			batch = batch[:0]
			return nil
		}
		for sub := range records {
			batch = append(batch, sub)
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		return flush()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// insertBatch writes one batch inside a transaction. Duplicates abort
// only their own row.
func (s *Store) insertBatch(ctx context.Context, batch []Subscriber) (imported, skipped int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, eris.Wrap(err, "begin import transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO subscribers
			(email, name, domain, status, joined_at, last_seen, sends, opens, clicks, bounces, score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, 0, eris.Wrap(err, "prepare insert")
	}
	defer stmt.Close()

	for _, sub := range batch {
		_, err := stmt.ExecContext(ctx,
			sub.Email, sub.Name, sub.Domain, sub.Status, sub.JoinedAt, sub.LastSeen,
			sub.Sends, sub.Opens, sub.Clicks, sub.Bounces, sub.Score)
		if err != nil {
			if IsDuplicateEmail(err) {
				skipped++
				continue
			}
			return 0, 0, eris.Wrapf(err, "insert subscriber %s", sub.Email)
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, eris.Wrap(err, "commit import transaction")
	}
	return imported, skipped, nil
}

// columnMap holds header positions; -1 means the column is absent.
type columnMap struct {
	email, name, status           int
	joinedAt, lastSeen            int
	sends, opens, clicks, bounces int
}

func mapColumns(header []string) (*columnMap, error) {
	m := &columnMap{
		email: -1, name: -1, status: -1,
		joinedAt: -1, lastSeen: -1,
		sends: -1, opens: -1, clicks: -1, bounces: -1,
	}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "email", "email_address", "address":
			m.email = i
		case "name", "full_name":
			m.name = i
		case "status":
			m.status = i
		case "joined_at", "joined", "subscribed_at":
			m.joinedAt = i
		case "last_seen", "last_activity", "last_open":
			m.lastSeen = i
		case "sends", "deliveries":
			m.sends = i
		case "opens":
			m.opens = i
		case "clicks":
			m.clicks = i
		case "bounces":
			m.bounces = i
		}
	}
	if m.email == -1 {
		return nil, eris.New("csv has no email column")
	}
	return m, nil
}

// subscriber builds one Subscriber from a CSV record. Records without
// an email address are rejected.
func (m *columnMap) subscriber(rec []string, now time.Time) (Subscriber, bool) {
	email := strings.TrimSpace(m.field(rec, m.email))
	if email == "" {
		return Subscriber{}, false
	}

	sub := Subscriber{
		Email:    email,
		Name:     strings.TrimSpace(m.field(rec, m.name)),
		Domain:   EmailDomain(email),
		Status:   strings.TrimSpace(m.field(rec, m.status)),
		JoinedAt: strings.TrimSpace(m.field(rec, m.joinedAt)),
		LastSeen: strings.TrimSpace(m.field(rec, m.lastSeen)),
		Sends:    m.count(rec, m.sends),
		Opens:    m.count(rec, m.opens),
		Clicks:   m.count(rec, m.clicks),
		Bounces:  m.count(rec, m.bounces),
	}
	if sub.Status == "" {
		sub.Status = "active"
	}
	sub.Score = score.Engagement(score.Activity{
		Sends:        sub.Sends,
		Opens:        sub.Opens,
		Clicks:       sub.Clicks,
		Bounces:      sub.Bounces,
		DaysInactive: DaysSince(sub.LastSeen, now),
	})
	return sub, true
}

func (m *columnMap) field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func (m *columnMap) count(rec []string, i int) int {
	n, err := strconv.Atoi(strings.TrimSpace(m.field(rec, i)))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// DaysSince parses a YYYY-MM-DD or RFC 3339 timestamp and returns whole
// days elapsed. Unparseable or empty values return -1 (unknown), which
// the scorer treats as no decay.
func DaysSince(value string, now time.Time) int {
	if value == "" {
		return -1
	}
	var ts time.Time
	var err error
	if ts, err = time.Parse(time.RFC3339, value); err != nil {
		if ts, err = time.Parse("2006-01-02", value); err != nil {
			return -1
		}
	}
	days := int(now.Sub(ts).Hours() / 24)
	if days < 0 {
		return -1
	}
	return days
}
