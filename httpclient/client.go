package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client calls one upstream. Retries, breakers and timeouts beyond
// Config.Timeout belong to the caller's provider stage.
type Client struct {
	cfg Config
	hc  *http.Client
}

// New validates cfg and builds a client on a cloned default transport.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		cfg: cfg,
		hc: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Timeout:   cfg.Timeout,
		},
	}, nil
}

// Name is the configured upstream name.
func (c *Client) Name() string { return c.cfg.Name }

// Do sends req and reads the whole reply. A non-2xx status returns the
// Response alongside an *Error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	hreq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, c.fail(KindRejected, 0, nil, err)
	}

	hresp, err := c.hc.Do(hreq)
	if err != nil {
		return nil, c.transportError(ctx, err)
	}
	defer func() { _ = hresp.Body.Close() }()

	var r io.Reader = hresp.Body
	if c.cfg.MaxBodyBytes > 0 {
		r = io.LimitReader(r, c.cfg.MaxBodyBytes)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, c.transportError(ctx, fmt.Errorf("reading body: %w", err))
	}

	resp := &Response{StatusCode: hresp.StatusCode, Header: hresp.Header, Body: body}
	if kind := kindForStatus(resp.StatusCode); kind != "" {
		return resp, c.fail(kind, resp.StatusCode, body, nil)
	}
	return resp, nil
}

// DoJSON calls Do and unmarshals a 2xx body into T.
func DoJSON[T any](ctx context.Context, c *Client, req Request) (T, error) {
	var out T
	resp, err := c.Do(ctx, req)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, c.fail(KindDecode, resp.StatusCode, resp.Body, err)
	}
	return out, nil
}

func (c *Client) fail(kind Kind, status int, body []byte, err error) *Error {
	return &Error{Kind: kind, Upstream: c.cfg.Name, Status: status, Body: body, Err: err}
}

func (c *Client) transportError(ctx context.Context, err error) *Error {
	if ctx.Err() != nil {
		return c.fail(KindTimeout, 0, nil, ctx.Err())
	}
	return c.fail(KindConnection, 0, nil, err)
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	target, err := c.resolve(req.Path, req.Query)
	if err != nil {
		return nil, err
	}
	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, fmt.Errorf("encoding body: %w", err)
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	hreq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}

	h := hreq.Header
	if c.cfg.UserAgent != "" {
		h.Set("User-Agent", c.cfg.UserAgent)
	}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	for _, set := range []map[string]string{c.cfg.Headers, req.Headers} {
		for k, v := range set {
			h.Set(k, v)
		}
	}
	auth := c.cfg.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	if auth != nil {
		auth(h)
	}
	return hreq, nil
}

func (c *Client) resolve(path string, query map[string]string) (string, error) {
	raw := path
	if c.cfg.BaseURL != "" && !strings.Contains(path, "://") {
		raw = strings.TrimSuffix(c.cfg.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if len(query) > 0 {
		q := u.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case *MultipartBody:
		return b.encode()
	case io.Reader:
		return b, "", nil
	case []byte:
		return bytes.NewReader(b), "", nil
	case string:
		return strings.NewReader(b), "text/plain", nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(data), "application/json", nil
}
