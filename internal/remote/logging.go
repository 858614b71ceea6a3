package remote

import (
	"context"
	"log/slog"
	"time"

	"github.com/Tiliavir/worktimer/internal/model"
)

// WithLogging wraps store so that every call is logged at debug level with
// its duration, and failures with their error.
func WithLogging(store Store, logger *slog.Logger) Store {
	return &loggingStore{next: store, log: logger}
}

type loggingStore struct {
	next Store
	log  *slog.Logger
}

func (l *loggingStore) done(ctx context.Context, op string, start time.Time, err error, attrs ...slog.Attr) {
	attrs = append(attrs,
		slog.String("op", op),
		slog.Int64("elapsed_ms", time.Since(start).Milliseconds()))
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
		l.log.LogAttrs(ctx, slog.LevelDebug, "remote access failed", attrs...)
		return
	}
	l.log.LogAttrs(ctx, slog.LevelDebug, "remote access", attrs...)
}

func (l *loggingStore) Insert(ctx context.Context, s model.Session) (model.Session, error) {
	start := time.Now()
	out, err := l.next.Insert(ctx, s)
	l.done(ctx, "insert", start, err)
	return out, err
}

func (l *loggingStore) Update(ctx context.Context, id string, patch model.SessionPatch) (model.Session, error) {
	start := time.Now()
	out, err := l.next.Update(ctx, id, patch)
	l.done(ctx, "update", start, err, slog.String("id", id))
	return out, err
}

func (l *loggingStore) Upsert(ctx context.Context, s model.Session, conflictKey string) (model.Session, error) {
	start := time.Now()
	out, err := l.next.Upsert(ctx, s, conflictKey)
	l.done(ctx, "upsert", start, err, slog.String("on_conflict", conflictKey))
	return out, err
}

func (l *loggingStore) FetchLatest(ctx context.Context, limit int) ([]model.Session, error) {
	start := time.Now()
	out, err := l.next.FetchLatest(ctx, limit)
	l.done(ctx, "fetch_latest", start, err, slog.Int("limit", limit), slog.Int("rows", len(out)))
	return out, err
}
