// Package rest implements remote.Store over a PostgREST-style HTTP API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Tiliavir/worktimer/internal/model"
	"github.com/Tiliavir/worktimer/internal/remote"
)

// Store is a session table exposed at <baseURL>/<table>.
type Store struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

var _ remote.Store = (*Store)(nil)

// New returns a store for table under baseURL. httpClient should carry the
// user's credentials, e.g. one built by auth.Client.HTTPClient.
func New(baseURL, table, apiKey string, httpClient *http.Client) *Store {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Store{
		endpoint:   strings.TrimRight(baseURL, "/") + "/" + url.PathEscape(table),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (s *Store) Insert(ctx context.Context, session model.Session) (model.Session, error) {
	rows, err := s.do(ctx, http.MethodPost, nil, []model.Session{session}, "return=representation")
	if err != nil {
		return model.Session{}, fmt.Errorf("insert session: %w", err)
	}
	return first(rows)
}

func (s *Store) Update(ctx context.Context, id string, patch model.SessionPatch) (model.Session, error) {
	q := url.Values{"id": {"eq." + id}}
	rows, err := s.do(ctx, http.MethodPatch, q, patch, "return=representation")
	if err != nil {
		return model.Session{}, fmt.Errorf("update session %s: %w", id, err)
	}
	return first(rows)
}

func (s *Store) Upsert(ctx context.Context, session model.Session, conflictKey string) (model.Session, error) {
	if conflictKey == "" {
		conflictKey = remote.ConflictID
	}
	q := url.Values{"on_conflict": {conflictKey}}
	rows, err := s.do(ctx, http.MethodPost, q, []model.Session{session}, "resolution=merge-duplicates,return=representation")
	if err != nil {
		return model.Session{}, fmt.Errorf("upsert session: %w", err)
	}
	return first(rows)
}

func (s *Store) FetchLatest(ctx context.Context, limit int) ([]model.Session, error) {
	if limit <= 0 {
		limit = remote.DefaultFetchLimit
	}
	q := url.Values{
		"select": {"*"},
		"order":  {"start_at.desc"},
		"limit":  {strconv.Itoa(limit)},
	}
	rows, err := s.do(ctx, http.MethodGet, q, nil, "")
	if err != nil {
		return nil, fmt.Errorf("fetch latest sessions: %w", err)
	}
	return rows, nil
}

func first(rows []model.Session) (model.Session, error) {
	if len(rows) == 0 {
		return model.Session{}, remote.ErrNotFound
	}
	return rows[0], nil
}

func (s *Store) do(ctx context.Context, method string, query url.Values, body any, prefer string) ([]model.Session, error) {
	endpoint := s.endpoint
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, r)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}
	if s.apiKey != "" {
		req.Header.Set("apikey", s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("REST API request failed: %w", err)
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusConflict:
		return nil, fmt.Errorf("%w: %s", remote.ErrConflict, strings.TrimSpace(string(data)))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("REST API error %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var rows []model.Session
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decoding REST response: %w", err)
	}
	return rows, nil
}
