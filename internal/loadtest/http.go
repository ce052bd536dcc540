package loadtest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/mcr/internal/domain/params"
)

// client wraps http.Client with the service base URL.
type client struct {
	http *http.Client
	base string
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		http: &http.Client{Timeout: timeout},
		base: baseURL,
	}
}

// do sends a request and decodes a JSON response into out when the status
// matches want.
func (c *client) do(ctx context.Context, method, path string, body, out any, want int) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	if resp.StatusCode != want {
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrUnexpected, method, path, resp.StatusCode, bytes.TrimSpace(data))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrUnexpected, method, path, err)
	}
	return nil
}

func (c *client) health(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, nil, http.StatusOK); err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	return nil
}

func (c *client) parameters(ctx context.Context) ([]params.Parameter, error) {
	var ps []params.Parameter
	err := c.do(ctx, http.MethodGet, "/parameters", nil, &ps, http.StatusOK)
	return ps, err
}

func (c *client) encode(ctx context.Context, ups []params.UserParameter) (string, error) {
	var resp struct {
		Params string `json:"params"`
	}
	err := c.do(ctx, http.MethodPost, "/configurations/encode", ups, &resp, http.StatusOK)
	return resp.Params, err
}

func (c *client) decode(ctx context.Context, hash string) ([]params.UserParameter, error) {
	var ups []params.UserParameter
	err := c.do(ctx, http.MethodGet, "/configurations/decode?params="+url.QueryEscape(hash), nil, &ups, http.StatusOK)
	return ups, err
}

func (c *client) rank(ctx context.Context, hash string, limit int) ([]Entry, error) {
	var resp struct {
		Entries []Entry `json:"entries"`
	}
	q := url.Values{"params": {hash}, "limit": {strconv.Itoa(limit)}}
	err := c.do(ctx, http.MethodGet, "/rank?"+q.Encode(), nil, &resp, http.StatusOK)
	return resp.Entries, err
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

func (c *client) createShare(ctx context.Context, name, hash string) (Share, error) {
	var resp envelope[Share]
	body := map[string]string{"name": name, "params": hash}
	if err := c.do(ctx, http.MethodPost, "/shares", body, &resp, http.StatusOK); err != nil {
		return Share{}, err
	}
	if !resp.Success {
		return Share{}, fmt.Errorf("%w: create share: %s", ErrUnexpected, resp.Error)
	}
	return resp.Data, nil
}

func (c *client) listShares(ctx context.Context, limit int) ([]Share, error) {
	var resp envelope[[]Share]
	err := c.do(ctx, http.MethodGet, "/shares?limit="+strconv.Itoa(limit), nil, &resp, http.StatusOK)
	return resp.Data, err
}

func (c *client) deleteShare(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/shares/"+url.PathEscape(id), nil, nil, http.StatusOK)
}
