package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/bookexpert/internal/client/models"
)

// maxResponseBytes bounds how much of a response body is decoded.
const maxResponseBytes = 10 << 20

// HTTPClient implements ObjectClient over REST/JSON.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	tokens  TokenSource
}

// Option customizes an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.http = c }
}

// WithTimeout sets a per-request timeout. Zero keeps the transport default.
// The timeout is applied to a copy of the underlying *http.Client.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) { h.timeout = d }
}

// WithTokenSource attaches a bearer token to every request.
func WithTokenSource(ts TokenSource) Option {
	return func(h *HTTPClient) { h.tokens = ts }
}

// NewHTTPClient returns a client for the collection at baseURL
// (e.g. https://api.restful-api.dev/objects). The URL is validated lazily so
// that a misconfigured endpoint surfaces as ErrInvalidURL on each call.
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

type objectRequest struct {
	Name string         `json:"name"`
	Data map[string]any `json:"data"`
}

// wireObject tolerates missing or null fields; callers decide what to skip.
type wireObject struct {
	ID   *string        `json:"id"`
	Name *string        `json:"name"`
	Data map[string]any `json:"data"`
}

func (w wireObject) toModel() models.RemoteObject {
	o := models.RemoteObject{Data: w.Data}
	if w.ID != nil {
		o.ID = *w.ID
	}
	if w.Name != nil {
		o.Name = *w.Name
	}
	if o.Data == nil {
		o.Data = map[string]any{}
	}
	return o
}

func (c *HTTPClient) endpoint(id string) (string, error) {
	if c.baseURL == "" {
		return "", ErrInvalidURL
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, c.baseURL)
	}
	if id == "" {
		return u.String(), nil
	}
	if strings.TrimSpace(id) == "" || id == "." || id == ".." {
		return "", fmt.Errorf("%w: bad id %q", ErrInvalidURL, id)
	}
	return u.JoinPath(url.PathEscape(id)).String(), nil
}

func (c *HTTPClient) do(ctx context.Context, method, target string, body any) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", ErrUnknown, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnknown, err)
	}
	return resp, nil
}

func decodeBody(resp *http.Response, v any) error {
	dec := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrDecoding, err)
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	_ = resp.Body.Close()
}

// List fetches every object. The body must be a JSON array of objects.
func (c *HTTPClient) List(ctx context.Context) ([]models.RemoteObject, error) {
	target, err := c.endpoint("")
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode)
	}

	var items []wireObject
	if err := decodeBody(resp, &items); err != nil {
		return nil, err
	}
	if items == nil {
		return nil, fmt.Errorf("%w: expected array", ErrDecoding)
	}

	result := make([]models.RemoteObject, 0, len(items))
	for _, item := range items {
		result = append(result, item.toModel())
	}
	return result, nil
}

// Create posts a new object and returns it with the server-assigned ID.
func (c *HTTPClient) Create(ctx context.Context, name string, data map[string]any) (*models.RemoteObject, error) {
	target, err := c.endpoint("")
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, target, objectRequest{Name: name, Data: data})
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, classifyStatus(resp.StatusCode)
	}
	return decodeObject(resp)
}

// Update replaces name and data of the object with the given id.
func (c *HTTPClient) Update(ctx context.Context, id string, name string, data map[string]any) (*models.RemoteObject, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrInvalidURL)
	}
	target, err := c.endpoint(id)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPut, target, objectRequest{Name: name, Data: data})
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode)
	}
	return decodeObject(resp)
}

// Delete removes the object with the given id. Any 2xx up to 204 is success.
func (c *HTTPClient) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidURL)
	}
	target, err := c.endpoint(id)
	if err != nil {
		return err
	}

	resp, err := c.do(ctx, http.MethodDelete, target, nil)
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode < http.StatusOK || resp.StatusCode > http.StatusNoContent {
		return classifyStatus(resp.StatusCode)
	}
	return nil
}

func decodeObject(resp *http.Response) (*models.RemoteObject, error) {
	var w wireObject
	if err := decodeBody(resp, &w); err != nil {
		return nil, err
	}
	o := w.toModel()
	return &o, nil
}
