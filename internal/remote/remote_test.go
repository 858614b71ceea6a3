package remote_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/worktimer/internal/model"
	"github.com/Tiliavir/worktimer/internal/remote"
)

type upsertCall struct {
	session     model.Session
	conflictKey string
}

type fakeStore struct {
	upserts   []upsertCall
	fetched   []int
	upsertErr func(model.Session) error
	rows      []model.Session
}

func (f *fakeStore) Insert(_ context.Context, s model.Session) (model.Session, error) {
	s.ID = "new"
	return s, nil
}

func (f *fakeStore) Update(_ context.Context, id string, _ model.SessionPatch) (model.Session, error) {
	if id != "known" {
		return model.Session{}, remote.ErrNotFound
	}
	return model.Session{ID: id}, nil
}

func (f *fakeStore) Upsert(_ context.Context, s model.Session, key string) (model.Session, error) {
	if f.upsertErr != nil {
		if err := f.upsertErr(s); err != nil {
			return model.Session{}, err
		}
	}
	f.upserts = append(f.upserts, upsertCall{s, key})
	return s, nil
}

func (f *fakeStore) FetchLatest(_ context.Context, limit int) ([]model.Session, error) {
	f.fetched = append(f.fetched, limit)
	return f.rows, nil
}

func signedIn(id string) remote.Identity {
	return remote.IdentityFunc(func() (string, error) { return id, nil })
}

var logs = []model.Record{
	{StartDate: "2026/02/27", EndDate: "2026/02/27", Type: model.Work, Start: "09:00:00", End: "10:30:00", CategoryKey: "dev", CategoryLabel: "Development"},
	{StartDate: "2026/02/27", Type: model.Sleep, Start: "23:30:00", End: "06:30:00"},
	{StartDate: "2026/02/28", EndDate: "2026/02/28", Type: model.Work, Start: "", End: "07:00:00"},
	{StartDate: "2026/02/28", Type: model.Break, Start: "07:00:00"},
}

func TestMapRecordToSession(t *testing.T) {
	loc := time.FixedZone("JST", 9*3600)
	ref := time.Date(2026, 3, 1, 12, 0, 0, 0, loc)

	s := remote.MapRecordToSession(logs[1], "user-1", ref)
	assert.Equal(t, "user-1", s.UserID)
	assert.Equal(t, model.Sleep, s.Type)
	assert.Equal(t, time.Date(2026, 2, 27, 14, 30, 0, 0, time.UTC), s.StartAt)
	assert.Equal(t, time.Date(2026, 2, 27, 21, 30, 0, 0, time.UTC), s.EndAt)
	assert.Equal(t, int64(7*3600), s.DurationSec)
	assert.Equal(t, time.UTC, s.StartAt.Location())
}

func TestPush(t *testing.T) {
	store := &fakeStore{}
	svc := remote.NewService(store, signedIn("user-1"))

	var out bytes.Buffer
	res, err := svc.Push(context.Background(), logs, remote.PushOptions{Out: &out, Location: time.UTC})
	require.NoError(t, err)
	assert.Equal(t, remote.PushResult{Pushed: 2, Skipped: 2}, res)

	require.Len(t, store.upserts, 2)
	for _, c := range store.upserts {
		assert.Equal(t, remote.ConflictUserStart, c.conflictKey)
		assert.Equal(t, "user-1", c.session.UserID)
	}
	assert.Equal(t, int64(5400), store.upserts[0].session.DurationSec)
	assert.Contains(t, out.String(), "Development")
}

func TestPushDryRun(t *testing.T) {
	store := &fakeStore{}
	svc := remote.NewService(store, signedIn("user-1"))

	res, err := svc.Push(context.Background(), logs, remote.PushOptions{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Pushed)
	assert.Empty(t, store.upserts)
}

func TestPushCountsErrors(t *testing.T) {
	store := &fakeStore{upsertErr: func(s model.Session) error {
		if s.Type == model.Sleep {
			return errors.New("row violates policy")
		}
		return nil
	}}
	svc := remote.NewService(store, signedIn("user-1"))

	var out bytes.Buffer
	res, err := svc.Push(context.Background(), logs, remote.PushOptions{Out: &out})
	require.NoError(t, err)
	assert.Equal(t, remote.PushResult{Pushed: 1, Skipped: 2, Errors: 1}, res)
	assert.Contains(t, out.String(), "row violates policy")
}

func TestNotSignedIn(t *testing.T) {
	store := &fakeStore{}
	svc := remote.NewService(store, signedIn(""))

	_, err := svc.Push(context.Background(), logs, remote.PushOptions{})
	assert.ErrorIs(t, err, remote.ErrNotSignedIn)
	_, err = svc.Latest(context.Background(), 10)
	assert.ErrorIs(t, err, remote.ErrNotSignedIn)
	assert.Empty(t, store.upserts)
	assert.Empty(t, store.fetched)

	boom := errors.New("token file unreadable")
	svc = remote.NewService(store, remote.IdentityFunc(func() (string, error) { return "", boom }))
	_, err = svc.Latest(context.Background(), 10)
	assert.ErrorIs(t, err, boom)
}

func TestLatestDefaultLimit(t *testing.T) {
	store := &fakeStore{rows: []model.Session{{ID: "a"}}}
	svc := remote.NewService(store, signedIn("user-1"))

	rows, err := svc.Latest(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	_, err = svc.Latest(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []int{remote.DefaultFetchLimit, 5}, store.fetched)
}

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	store := remote.WithLogging(&fakeStore{}, logger)
	ctx := context.Background()

	_, err := store.Insert(ctx, model.Session{})
	require.NoError(t, err)
	_, err = store.Update(ctx, "missing", model.SessionPatch{})
	assert.ErrorIs(t, err, remote.ErrNotFound)
	_, err = store.FetchLatest(ctx, 3)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "op=insert")
	assert.Contains(t, lines[0], "elapsed_ms=")
	assert.Contains(t, lines[1], "remote access failed")
	assert.Contains(t, lines[1], "id=missing")
	assert.Contains(t, lines[2], "limit=3")
}
