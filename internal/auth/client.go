// Package auth signs the user in against an email/password auth API and
// keeps the resulting session token on disk.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

var (
	ErrNotSignedIn  = errors.New("not signed in")
	ErrInvalidInput = errors.New("invalid input")
)

// Event is an auth state change.
type Event int

const (
	SignedIn Event = iota + 1
	SignedOut
	TokenRefreshed
)

func (e Event) String() string {
	switch e {
	case SignedIn:
		return "SIGNED_IN"
	case SignedOut:
		return "SIGNED_OUT"
	case TokenRefreshed:
		return "TOKEN_REFRESHED"
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// User is the signed-in identity.
type User struct {
	ID    string
	Email string
}

type userClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Client talks to the auth API rooted at baseURL.
type Client struct {
	baseURL    string
	oauth      *oauth2.Config
	httpClient *http.Client
	tokens     tokenFile
	log        *slog.Logger

	mu      sync.Mutex
	subs    map[int]func(Event, *User)
	nextSub int
}

// Options tweaks a Client. A nil HTTPClient means http.DefaultClient.
type Options struct {
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// New returns a client for the auth API at baseURL that keeps its token in
// dataDir.
func New(baseURL, clientID, dataDir string, opts Options) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		oauth: &oauth2.Config{
			ClientID: clientID,
			Endpoint: oauth2.Endpoint{
				TokenURL:  baseURL + "/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: opts.HTTPClient,
		tokens:     tokenFile{path: TokenPath(dataDir)},
		log:        opts.Logger,
		subs:       map[int]func(Event, *User){},
	}
}

func (c *Client) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

// OnAuthStateChange registers fn for sign-in, sign-out and token refresh
// events. The returned function removes it.
func (c *Client) OnAuthStateChange(fn func(Event, *User)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Client) emit(ev Event, u *User) {
	c.mu.Lock()
	fns := make([]func(Event, *User), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn(ev, u)
	}
}

func credentials(email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if password == "" {
		return "", fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	return email, nil
}

// SignIn exchanges email and password for a session token and stores it.
func (c *Client) SignIn(ctx context.Context, email, password string) (*User, error) {
	email, err := credentials(email, password)
	if err != nil {
		return nil, err
	}

	tok, err := c.oauth.PasswordCredentialsToken(c.oauthContext(ctx), email, password)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	user, err := userFromToken(tok)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if err := c.tokens.save(tok); err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	c.log.Info("signed in", slog.String("user_id", user.ID))
	c.emit(SignedIn, user)
	return user, nil
}

// SignUp registers a new account. Depending on the server the account may
// need to be confirmed by mail before SignIn succeeds.
func (c *Client) SignUp(ctx context.Context, email, password string) error {
	email, err := credentials(email, password)
	if err != nil {
		return err
	}
	if err := c.post(ctx, "/signup", "", map[string]string{"email": email, "password": password}); err != nil {
		return fmt.Errorf("sign up: %w", err)
	}
	return nil
}

// ResetPassword asks the server to mail a password reset link.
func (c *Client) ResetPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if err := c.post(ctx, "/recover", "", map[string]string{"email": email}); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

// SignOut revokes the session on the server and forgets the local token.
// A failed revocation is logged; the local token is removed regardless.
func (c *Client) SignOut(ctx context.Context) error {
	tok, err := c.tokens.load()
	if err != nil {
		return err
	}
	if tok == nil {
		return ErrNotSignedIn
	}

	if err := c.post(ctx, "/logout", tok.AccessToken, nil); err != nil {
		c.log.Warn("server sign out failed", slog.Any("error", err))
	}
	if err := c.tokens.remove(); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}

	c.log.Info("signed out")
	c.emit(SignedOut, nil)
	return nil
}

// CurrentUser returns the identity of the stored session.
func (c *Client) CurrentUser() (*User, error) {
	tok, err := c.tokens.load()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, ErrNotSignedIn
	}
	return userFromToken(tok)
}

// TokenSource returns a source of valid access tokens for the stored
// session, refreshing and re-saving them as they expire.
func (c *Client) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	tok, err := c.tokens.load()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, ErrNotSignedIn
	}
	return &savingTokenSource{
		ts:   c.oauth.TokenSource(c.oauthContext(ctx), tok),
		last: tok.AccessToken,
		onRefresh: func(t *oauth2.Token) {
			if err := c.tokens.save(t); err != nil {
				c.log.Warn("could not save refreshed token", slog.Any("error", err))
			}
			u, _ := userFromToken(t)
			c.emit(TokenRefreshed, u)
		},
	}, nil
}

// HTTPClient returns a client that authenticates every request with the
// stored session.
func (c *Client) HTTPClient(ctx context.Context) (*http.Client, error) {
	ts, err := c.TokenSource(ctx)
	if err != nil {
		return nil, err
	}
	return oauth2.NewClient(c.oauthContext(ctx), ts), nil
}

// userFromToken reads the identity claims of the access token. The
// signature is not checked here; the API does that on every request.
func userFromToken(tok *oauth2.Token) (*User, error) {
	var claims userClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tok.AccessToken, &claims); err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("access token has no subject")
	}
	return &User{ID: claims.Subject, Email: claims.Email}, nil
}

func (c *Client) post(ctx context.Context, path, bearer string, body any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth API request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("auth API error %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
