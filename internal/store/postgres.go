package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const notifyChannel = "record_changes"

const schema = `
CREATE TABLE IF NOT EXISTS records (
	seq        BIGSERIAL,
	path       TEXT        NOT NULL,
	key        TEXT        NOT NULL,
	fields     JSONB       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (path, key)
)`

// PostgresStore persists records in a single jsonb-backed table and delivers
// observation through LISTEN/NOTIFY, so observers on other instances of the
// service see writes too.
type PostgresStore struct {
	db       *sql.DB
	listener *pq.Listener

	mu   sync.Mutex
	subs map[string]map[*Subscription]struct{}
	done chan struct{}
}

// NewPostgres connects, ensures the schema, and starts the notification
// dispatcher.
func NewPostgres(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	listener := pq.NewListener(databaseURL, time.Second, time.Minute, nil)
	if err := listener.Listen(notifyChannel); err != nil {
		listener.Close()
		db.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", notifyChannel, err)
	}

	s := &PostgresStore{
		db:       db,
		listener: listener,
		subs:     make(map[string]map[*Subscription]struct{}),
		done:     make(chan struct{}),
	}
	go s.dispatch()
	return s, nil
}

// ReadOnce returns all records under path in ingestion order.
func (s *PostgresStore) ReadOnce(ctx context.Context, path string) ([]Snapshot, error) {
	query := `
		SELECT key, fields
		FROM records
		WHERE path = $1
		ORDER BY seq
	`

	rows, err := s.db.QueryContext(ctx, query, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer rows.Close()

	snaps := []Snapshot{}
	for rows.Next() {
		var key string
		var raw []byte
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		var fields Fields
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("failed to decode record %s/%s: %w", path, key, err)
		}
		snaps = append(snaps, Snapshot{Key: key, Fields: fields})
	}
	return snaps, rows.Err()
}

// ReadChild returns a single record's fields, or ErrNotFound.
func (s *PostgresStore) ReadChild(ctx context.Context, path, key string) (Fields, error) {
	query := `SELECT fields FROM records WHERE path = $1 AND key = $2`

	var raw []byte
	err := s.db.QueryRowContext(ctx, query, path, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", path, key, err)
	}

	var fields Fields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode record %s/%s: %w", path, key, err)
	}
	return fields, nil
}

// Write upserts a record and notifies observers of path on commit.
func (s *PostgresStore) Write(ctx context.Context, path, key string, fields Fields) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode record %s/%s: %w", path, key, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin write: %w", err)
	}
	defer tx.Rollback()

	upsert := `
		INSERT INTO records (path, key, fields)
		VALUES ($1, $2, $3)
		ON CONFLICT (path, key) DO UPDATE
		SET fields = EXCLUDED.fields, updated_at = now()
	`
	if _, err := tx.ExecContext(ctx, upsert, path, key, raw); err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", path, key, err)
	}
	if _, err := tx.ExecContext(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, path); err != nil {
		return fmt.Errorf("failed to notify %s: %w", path, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s/%s: %w", path, key, err)
	}
	return nil
}

// GenerateID returns a new unique record key.
func (s *PostgresStore) GenerateID(path string) string {
	return uuid.NewString()
}

// Observe registers an observer of path and delivers the current snapshot
// immediately.
func (s *PostgresStore) Observe(path string) *Subscription {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	snaps, err := s.ReadOnce(ctx, path)
	if err != nil {
		slog.Warn("initial snapshot read failed", "path", path, "error", err)
		snaps = []Snapshot{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sub := newSubscription(path, s.unregister)
	set, ok := s.subs[path]
	if !ok {
		set = make(map[*Subscription]struct{})
		s.subs[path] = set
	}
	set[sub] = struct{}{}
	sub.publish(snaps)
	return sub
}

// Close stops the dispatcher and cancels all subscriptions.
func (s *PostgresStore) Close() error {
	close(s.done)
	s.listener.Close()

	s.mu.Lock()
	var all []*Subscription
	for _, set := range s.subs {
		for sub := range set {
			all = append(all, sub)
		}
	}
	s.subs = make(map[string]map[*Subscription]struct{})
	s.mu.Unlock()

	for _, sub := range all {
		sub.Close()
	}
	return s.db.Close()
}

func (s *PostgresStore) unregister(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if set, ok := s.subs[sub.path]; ok {
		delete(set, sub)
	}
}

// dispatch fans notifications out to subscriptions. Notifications carry only
// the path; the fresh snapshot is re-read here so observers always see full
// state, never a diff.
func (s *PostgresStore) dispatch() {
	for {
		select {
		case <-s.done:
			return
		case n := <-s.listener.Notify:
			if n == nil {
				// Connection was re-established; observed paths may have
				// changed while we were away.
				s.refreshAll()
				continue
			}
			s.refreshPath(n.Extra)
		case <-time.After(90 * time.Second):
			go s.listener.Ping()
		}
	}
}

func (s *PostgresStore) refreshPath(path string) {
	s.mu.Lock()
	watched := len(s.subs[path]) > 0
	s.mu.Unlock()
	if !watched {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	snaps, err := s.ReadOnce(ctx, path)
	if err != nil {
		slog.Warn("snapshot refresh failed", "path", path, "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for sub := range s.subs[path] {
		sub.publish(snaps)
	}
}

func (s *PostgresStore) refreshAll() {
	s.mu.Lock()
	paths := make([]string, 0, len(s.subs))
	for path := range s.subs {
		paths = append(paths, path)
	}
	s.mu.Unlock()

	for _, path := range paths {
		s.refreshPath(path)
	}
}
