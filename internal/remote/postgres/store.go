// Package postgres implements remote.Store directly on a PostgreSQL table.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Tiliavir/worktimer/internal/model"
	"github.com/Tiliavir/worktimer/internal/remote"
)

// Querier is the subset of *pgxpool.Pool the store needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var columns = []string{"id", "user_id", "type", "start_at", "end_at", "duration_sec"}

// upsertTargets whitelists the conflict keys and the columns each one
// overwrites on conflict.
var upsertTargets = map[string]struct {
	target string
	update []string
}{
	remote.ConflictID:        {"(id)", []string{"user_id", "type", "start_at", "end_at", "duration_sec"}},
	remote.ConflictUserStart: {"(user_id, start_at)", []string{"type", "end_at", "duration_sec"}},
}

// Store keeps sessions in one table.
type Store struct {
	q     Querier
	table string
	sb    squirrel.StatementBuilderType
}

var _ remote.Store = (*Store)(nil)

// New returns a store on table using q.
func New(q Querier, table string) *Store {
	return &Store{
		q:     q,
		table: pgx.Identifier{table}.Sanitize(),
		sb:    squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (s *Store) Insert(ctx context.Context, session model.Session) (model.Session, error) {
	id, err := sessionID(session.ID)
	if err != nil {
		return model.Session{}, err
	}
	query := s.sb.Insert(s.table).
		Columns(columns...).
		Values(id, session.UserID, string(session.Type), session.StartAt, session.EndAt, session.DurationSec).
		Suffix("RETURNING " + returning())

	out, err := s.queryOne(ctx, query)
	return out, mapError(err, "insert", id.String())
}

func (s *Store) Update(ctx context.Context, id string, patch model.SessionPatch) (model.Session, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return model.Session{}, fmt.Errorf("update session %s: %w", id, remote.ErrNotFound)
	}
	if patch.Empty() {
		return model.Session{}, fmt.Errorf("update session %s: nothing to update", id)
	}

	query := s.sb.Update(s.table).Where("id = ?", uid)
	if patch.Type != nil {
		query = query.Set("type", string(*patch.Type))
	}
	if patch.StartAt != nil {
		query = query.Set("start_at", *patch.StartAt)
	}
	if patch.EndAt != nil {
		query = query.Set("end_at", *patch.EndAt)
	}
	if patch.DurationSec != nil {
		query = query.Set("duration_sec", *patch.DurationSec)
	}
	query = query.Suffix("RETURNING " + returning())

	out, err := s.queryOne(ctx, query)
	return out, mapError(err, "update", id)
}

func (s *Store) Upsert(ctx context.Context, session model.Session, conflictKey string) (model.Session, error) {
	if conflictKey == "" {
		conflictKey = remote.ConflictID
	}
	t, ok := upsertTargets[conflictKey]
	if !ok {
		return model.Session{}, fmt.Errorf("upsert session: unsupported conflict key %q", conflictKey)
	}
	id, err := sessionID(session.ID)
	if err != nil {
		return model.Session{}, err
	}

	set := make([]string, len(t.update))
	for i, c := range t.update {
		set[i] = c + " = EXCLUDED." + c
	}
	query := s.sb.Insert(s.table).
		Columns(columns...).
		Values(id, session.UserID, string(session.Type), session.StartAt, session.EndAt, session.DurationSec).
		Suffix("ON CONFLICT " + t.target + " DO UPDATE SET " + strings.Join(set, ", ") + " RETURNING " + returning())

	out, err := s.queryOne(ctx, query)
	return out, mapError(err, "upsert", id.String())
}

func (s *Store) FetchLatest(ctx context.Context, limit int) ([]model.Session, error) {
	if limit <= 0 {
		limit = remote.DefaultFetchLimit
	}
	query := s.sb.Select(columns...).
		From(s.table).
		OrderBy("start_at DESC").
		Limit(uint64(limit))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "fetch latest", "")
	}
	defer rows.Close()

	var out []model.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, mapError(err, "fetch latest", "")
		}
		out = append(out, session)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "fetch latest", "")
	}
	return out, nil
}

func (s *Store) queryOne(ctx context.Context, query squirrel.Sqlizer) (model.Session, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return model.Session{}, fmt.Errorf("build query: %w", err)
	}
	return scanSession(s.q.QueryRow(ctx, sql, args...))
}

func returning() string {
	return strings.Join(columns, ", ")
}

func sessionID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.New(), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid session id %q: %w", raw, err)
	}
	return id, nil
}

func scanSession(row pgx.Row) (model.Session, error) {
	var (
		id      uuid.UUID
		typ     string
		session model.Session
	)
	if err := row.Scan(&id, &session.UserID, &typ, &session.StartAt, &session.EndAt, &session.DurationSec); err != nil {
		return model.Session{}, err
	}
	session.ID = id.String()
	session.Type = model.Activity(typ)
	session.StartAt = session.StartAt.UTC()
	session.EndAt = session.EndAt.UTC()
	return session, nil
}

// mapError converts pgx/pgconn errors into remote errors.
func mapError(err error, op, id string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s session %s: %w", op, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s session %s: %w", op, id, remote.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s session %s: %w", op, id, remote.ErrConflict)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s session %s: %w", op, id, remote.ErrNotFound)
		}
	}

	return fmt.Errorf("%s session %s: %w", op, id, err)
}
