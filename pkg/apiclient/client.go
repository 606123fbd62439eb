// Package apiclient is the HTTP client of the wedding API. It attaches the stored bearer token,
// unwraps the {ok,data} envelope and turns every failure into an *Error.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
	Session SessionStore
	Logger  *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.HTTP = h } }
func WithLogger(l *zap.Logger) Option      { return func(c *Client) { c.Logger = l } }

func New(baseURL string, store SessionStore, opts ...Option) *Client {
	if store == nil {
		store = &MemorySession{}
	}
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		Session: store,
		Logger:  zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// File is one multipart file part.
type File struct {
	Field string
	Name  string
	Data  []byte
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

// Do sends a JSON request and decodes the unwrapped payload into out (nil discards it).
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return Validation(fmt.Sprintf("encode request: %v", err))
		}
		rd = bytes.NewReader(data)
	}
	req, err := c.newRequest(ctx, method, path, query, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

// PostMultipart posts form fields and files as multipart/form-data.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, files []File, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return Validation(err.Error())
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			return Validation(err.Error())
		}
		if _, err := part.Write(f.Data); err != nil {
			return Validation(err.Error())
		}
	}
	if err := w.Close(); err != nil {
		return Validation(err.Error())
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, Validation(fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	sess, err := c.Session.Load()
	if err != nil {
		c.Logger.Warn("load session failed", zap.Error(err))
	} else if sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}
	return req, nil
}

type envelope struct {
	OK      *bool           `json:"ok"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func (c *Client) send(req *http.Request, out any) error {
	res, err := c.HTTP.Do(req)
	if err != nil {
		c.Logger.Warn("request failed", zap.String("method", req.Method), zap.String("url", req.URL.String()), zap.Error(err))
		return NewError(KindNetwork, 0, "network error: "+err.Error())
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return NewError(KindNetwork, res.StatusCode, "read response: "+err.Error())
	}
	payload, apiErr := unwrap(res.StatusCode, raw)
	if apiErr != nil {
		c.Logger.Debug("request rejected",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", apiErr.Status),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}
	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return NewError(KindServer, res.StatusCode, "decode response: "+err.Error())
	}
	return nil
}

// unwrap returns the payload of a successful response: its data field when the body is an
// envelope, the whole body otherwise.
func unwrap(status int, raw []byte) (json.RawMessage, *Error) {
	trimmed := bytes.TrimSpace(raw)
	var env envelope
	isObject := len(trimmed) > 0 && trimmed[0] == '{' && json.Unmarshal(trimmed, &env) == nil

	failed := status >= http.StatusBadRequest
	if isObject && (env.Code == ErrorCode || (env.OK != nil && !*env.OK)) {
		failed = true
	}
	if failed {
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		if msg == "" {
			msg = http.StatusText(status)
		}
		kind := KindServer
		if status >= http.StatusBadRequest {
			kind = kindForStatus(status)
		}
		return nil, NewError(kind, status, msg)
	}

	if isObject && env.Data != nil {
		return env.Data, nil
	}
	return trimmed, nil
}
