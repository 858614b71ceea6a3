package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/worktimer/internal/storage"
)

// tokenFile persists the session token under the data directory.
type tokenFile struct {
	path string
}

// TokenPath returns where the token for dataDir is kept.
func TokenPath(dataDir string) string {
	return filepath.Join(dataDir, "auth", "token.json")
}

// load returns the saved token, or nil when there is none.
func (f tokenFile) load() (*oauth2.Token, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token file (delete %s to sign in again): %w", f.path, err)
	}
	return &tok, nil
}

func (f tokenFile) save(tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	return storage.WriteFileAtomic(f.path, data, 0o600)
}

func (f tokenFile) remove() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}

// savingTokenSource persists refreshed tokens and reports each refresh.
type savingTokenSource struct {
	ts        oauth2.TokenSource
	onRefresh func(*oauth2.Token)

	mu   sync.Mutex
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.ts.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	changed := tok.AccessToken != s.last
	s.last = tok.AccessToken
	s.mu.Unlock()
	if changed {
		s.onRefresh(tok)
	}
	return tok, nil
}
