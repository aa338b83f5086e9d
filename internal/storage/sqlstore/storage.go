// Package sqlstore implements storage on database/sql, for Postgres and
// SQLite. Sessions are stored as JSON documents alongside the columns needed
// for conditional updates and listing.
package sqlstore

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/mcoot/spellgame/internal/model"
	"github.com/mcoot/spellgame/internal/storage"
)

//go:embed schema.sql
var schema string

// Storage is a SQL-backed implementation of the storage interface
type Storage struct {
	db     *sql.DB
	driver string
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Open connects to the database and applies the schema
func Open(cfg Config) (*Storage, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	db, err := sql.Open(cfg.Driver, cfg.dataSource())
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", cfg.Driver, err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s db: %w", cfg.Driver, err)
	}

	s := &Storage{db: db, driver: cfg.Driver}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return s, nil
}

// Close closes the database handle
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Storage) migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// rebind rewrites ? placeholders into $n for Postgres
func (s *Storage) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

// Session operations

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT data, version FROM sessions WHERE id = ?`), string(id))
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrGameNotFound
	}
	return session, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*model.Session, error) {
	var (
		data    string
		version int64
	)
	if err := row.Scan(&data, &version); err != nil {
		return nil, err
	}
	var session model.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	session.Version = version
	return &session, nil
}

func (s *Storage) SaveSession(ctx context.Context, prev, next *model.Session) error {
	if err := storage.CheckSave(prev, next); err != nil {
		return err
	}

	version := storage.NextVersion(prev)
	stored := next.Clone()
	stored.Version = version
	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	var res sql.Result
	if prev == nil {
		res, err = s.db.ExecContext(ctx, s.rebind(`
			INSERT INTO sessions (id, state, version, data, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO NOTHING`),
			string(next.ID), string(next.State), version, string(data),
			toMillis(next.CreatedAt), toMillis(next.UpdatedAt),
		)
	} else {
		res, err = s.db.ExecContext(ctx, s.rebind(`
			UPDATE sessions SET state = ?, version = ?, data = ?, updated_at = ?
			WHERE id = ? AND version = ?`),
			string(next.State), version, string(data), toMillis(next.UpdatedAt),
			string(next.ID), prev.Version,
		)
	}
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if prev == nil {
			return model.ErrConflict
		}
		return s.missingOrConflict(ctx, next.ID)
	}

	next.Version = version
	return nil
}

// missingOrConflict explains why a conditional update matched no rows
func (s *Storage) missingOrConflict(ctx context.Context, id model.SessionID) error {
	var one int
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT 1 FROM sessions WHERE id = ?`), string(id)).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return model.ErrGameNotFound
	case err != nil:
		return err
	}
	return model.ErrConflict
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM sessions WHERE id = ?`), string(id))
	return err
}

func (s *Storage) ListSessions(ctx context.Context, state model.SessionState) ([]*model.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT data, version FROM sessions WHERE state = ? ORDER BY created_at, id`),
		string(state),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*model.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// Player stats operations

func (s *Storage) RecordResult(ctx context.Context, result model.PlayerResult) error {
	won := 0
	if result.Won {
		won = 1
	}
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO player_stats (player_id, username, games_played, games_won, total_score, rating, updated_at)
		VALUES (?, ?, 1, ?, ?, ?, ?)
		ON CONFLICT (player_id) DO UPDATE SET
			username = excluded.username,
			games_played = player_stats.games_played + 1,
			games_won = player_stats.games_won + excluded.games_won,
			total_score = player_stats.total_score + excluded.total_score,
			rating = excluded.rating,
			updated_at = excluded.updated_at`),
		string(result.PlayerID), result.Username, won, result.Score, result.Rating, toMillis(result.At),
	)
	return err
}

func (s *Storage) GetPlayerStats(ctx context.Context, id model.PlayerID) (*model.PlayerStats, error) {
	stats := &model.PlayerStats{PlayerID: id}
	var updatedAt int64
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT username, games_played, games_won, total_score, rating, updated_at
		FROM player_stats WHERE player_id = ?`), string(id),
	).Scan(&stats.Username, &stats.GamesPlayed, &stats.GamesWon, &stats.TotalScore, &stats.Rating, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrStatsNotFound
	}
	if err != nil {
		return nil, err
	}
	stats.UpdatedAt = fromMillis(updatedAt)
	return stats, nil
}
