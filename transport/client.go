package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/darasalabs/darasa/core"
)

// TokenStore is the transport's view of the persisted session: the tokens it
// attaches outbound and rotates or clears on authentication failures.
type TokenStore interface {
	AccessToken() string
	RefreshToken() string
	SetAccessToken(token string) error
	Clear() error
}

type (
	Options struct {
		BaseURL string
		Store   TokenStore
		Logger  core.Logger

		// HTTPClient overrides the default client (mainly for tests).
		HTTPClient *http.Client
	}

	// Client is the single shared HTTP client all API calls go through.
	// Every request gets the bearer token attached when one is stored; a 401
	// response triggers exactly one token refresh followed by one retry of the
	// original request. A failed refresh invalidates the whole session.
	Client struct {
		baseURL string
		http    *http.Client
		store   TokenStore
		log     core.Logger

		refreshMu sync.Mutex

		invalidMu        sync.Mutex
		onSessionInvalid func(reason error)
	}
)

func NewClient(conf *core.Config, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: conf.API.RequestTimeout}
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = conf.API.BaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		store:   opts.Store,
		log:     opts.Logger,
	}
}

// OnSessionInvalid registers the callback invoked when the session is forcibly
// terminated (refresh failure or missing refresh token on a 401). The hosting
// application turns this into whatever "go log in again" flow it has.
func (c *Client) OnSessionInvalid(fn func(reason error)) {
	c.invalidMu.Lock()
	c.onSessionInvalid = fn
	c.invalidMu.Unlock()
}

func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out, false)
}

func (c *Client) Post(ctx context.Context, path string, in, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, in, out, false)
}

func (c *Client) Put(ctx context.Context, path string, in, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, in, out, false)
}

func (c *Client) Patch(ctx context.Context, path string, in, out interface{}) error {
	return c.do(ctx, http.MethodPatch, path, in, out, false)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, false)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}, retried bool) error {
	req, err := c.newRequest(ctx, method, path, in)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	body, err := ioutil.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return errors.Wrapf(err, "reading %s %s response", method, path)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(body) == 0 {
			return nil
		}
		return errors.Wrapf(json.Unmarshal(body, out), "decoding %s %s response", method, path)
	}

	apiErr := newAPIError(resp.StatusCode, body)
	if resp.StatusCode != http.StatusUnauthorized || retried {
		return apiErr
	}

	// 401 on a fresh request: attempt recovery via token refresh, once.
	if c.store.RefreshToken() == "" {
		c.invalidateSession(apiErr)
		return apiErr
	}
	if err := c.Refresh(ctx); err != nil {
		c.invalidateSession(err)
		return err
	}
	return c.do(ctx, method, path, in, out, true)
}

func (c *Client) newRequest(ctx context.Context, method, path string, in interface{}) (*http.Request, error) {
	var body *bytes.Buffer
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding %s %s request", method, path)
		}
		body = bytes.NewBuffer(data)
	} else {
		body = new(bytes.Buffer)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if token := c.store.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// Refresh exchanges the stored refresh token for a new access token and
// persists it. It bypasses the 401 recovery path on purpose: a rejected
// refresh must surface, not recurse. Concurrent callers are serialized.
func (c *Client) Refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	refreshToken := c.store.RefreshToken()
	if refreshToken == "" {
		return ErrNoRefreshToken
	}

	data, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return errors.Wrap(err, "encoding refresh request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/refresh", bytes.NewBuffer(data))
	if err != nil {
		return errors.Wrap(err, "building refresh request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "calling refresh endpoint")
	}
	body, err := ioutil.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return errors.Wrap(err, "reading refresh response")
	}
	if resp.StatusCode != http.StatusOK {
		return newAPIError(resp.StatusCode, body)
	}

	var payload refreshResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return errors.Wrap(err, "decoding refresh response")
	}
	if err := c.store.SetAccessToken(payload.AccessToken); err != nil {
		return errors.Wrap(err, "storing refreshed access token")
	}
	return nil
}

// invalidateSession clears the persisted session and notifies the host
// application. A no-op when the session is already empty, so repeated 401s
// do not re-trigger the logout flow.
func (c *Client) invalidateSession(reason error) {
	if c.store.AccessToken() == "" && c.store.RefreshToken() == "" {
		return
	}
	if err := c.store.Clear(); err != nil && c.log != nil {
		c.log.Error("clearing session store", err)
	}
	if c.log != nil {
		c.log.Warn("session invalidated", reason)
	}

	c.invalidMu.Lock()
	fn := c.onSessionInvalid
	c.invalidMu.Unlock()
	if fn != nil {
		fn(reason)
	}
}
