package rest_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/worktimer/internal/model"
	"github.com/Tiliavir/worktimer/internal/remote"
	"github.com/Tiliavir/worktimer/internal/remote/rest"
)

type captured struct {
	method string
	path   string
	query  map[string]string
	prefer string
	apikey string
	body   string
}

func newServer(t *testing.T, status int, reply string) (*httptest.Server, *captured) {
	t.Helper()
	c := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		c.method = r.Method
		c.path = r.URL.Path
		c.query = map[string]string{}
		for k, v := range r.URL.Query() {
			c.query[k] = v[0]
		}
		c.prefer = r.Header.Get("Prefer")
		c.apikey = r.Header.Get("apikey")
		c.body = string(body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

var session = model.Session{
	UserID:      "user-1",
	Type:        model.Work,
	StartAt:     time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC),
	EndAt:       time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC),
	DurationSec: 3600,
}

const row = `[{"id":"42","user_id":"user-1","type":"work","start_at":"2026-02-27T09:00:00Z","end_at":"2026-02-27T10:00:00Z","duration_sec":3600}]`

func TestInsert(t *testing.T) {
	srv, c := newServer(t, http.StatusCreated, row)
	store := rest.New(srv.URL+"/rest/v1/", "M_Timer", "anon-key", nil)

	got, err := store.Insert(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, "42", got.ID)
	assert.Equal(t, int64(3600), got.DurationSec)

	assert.Equal(t, http.MethodPost, c.method)
	assert.Equal(t, "/rest/v1/M_Timer", c.path)
	assert.Equal(t, "return=representation", c.prefer)
	assert.Equal(t, "anon-key", c.apikey)

	var sent []map[string]any
	require.NoError(t, json.Unmarshal([]byte(c.body), &sent))
	require.Len(t, sent, 1)
	assert.NotContains(t, sent[0], "id")
	assert.Equal(t, "2026-02-27T09:00:00Z", sent[0]["start_at"])
}

func TestUpdate(t *testing.T) {
	srv, c := newServer(t, http.StatusOK, row)
	store := rest.New(srv.URL, "M_Timer", "", nil)

	dur := int64(1800)
	_, err := store.Update(context.Background(), "42", model.SessionPatch{DurationSec: &dur})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, c.method)
	assert.Equal(t, "eq.42", c.query["id"])
	assert.JSONEq(t, `{"duration_sec":1800}`, c.body)
	assert.Empty(t, c.apikey)
}

func TestUpdateMissingRow(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `[]`)
	store := rest.New(srv.URL, "M_Timer", "", nil)

	_, err := store.Update(context.Background(), "nope", model.SessionPatch{})
	assert.ErrorIs(t, err, remote.ErrNotFound)
}

func TestUpsert(t *testing.T) {
	srv, c := newServer(t, http.StatusCreated, row)
	store := rest.New(srv.URL, "M_Timer", "", nil)

	_, err := store.Upsert(context.Background(), session, remote.ConflictUserStart)
	require.NoError(t, err)
	assert.Equal(t, "user_id,start_at", c.query["on_conflict"])
	assert.Equal(t, "resolution=merge-duplicates,return=representation", c.prefer)

	_, err = store.Upsert(context.Background(), session, "")
	require.NoError(t, err)
	assert.Equal(t, "id", c.query["on_conflict"])
}

func TestFetchLatest(t *testing.T) {
	srv, c := newServer(t, http.StatusOK, row)
	store := rest.New(srv.URL, "M_Timer", "", nil)

	rows, err := store.FetchLatest(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].StartAt.Equal(session.StartAt))
	assert.Equal(t, http.MethodGet, c.method)
	assert.Equal(t, "start_at.desc", c.query["order"])
	assert.Equal(t, "50", c.query["limit"])
	assert.Equal(t, "*", c.query["select"])
}

func TestErrors(t *testing.T) {
	srv, _ := newServer(t, http.StatusConflict, `{"message":"duplicate key"}`)
	_, err := rest.New(srv.URL, "M_Timer", "", nil).Insert(context.Background(), session)
	assert.ErrorIs(t, err, remote.ErrConflict)

	srv, _ = newServer(t, http.StatusUnauthorized, `{"message":"JWT expired"}`)
	_, err = rest.New(srv.URL, "M_Timer", "", nil).FetchLatest(context.Background(), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "JWT expired")
}
