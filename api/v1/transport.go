package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// TokenSource yields the bearer token for each outbound request.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource for a fixed token string.
type StaticToken string

func (t StaticToken) Token() string {
	return string(t)
}

type Response struct {
	StatusCode int
	Data       []byte
}

// Transport handles low-level HTTP and authentication
type Transport struct {
	BaseURL    string
	Tokens     TokenSource
	HTTPClient *http.Client
}

// NewTransport creates a transport with base URL and auth
func NewTransport(baseURL string, tokens TokenSource, httpClient *http.Client) *Transport {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if tokens == nil {
		tokens = StaticToken("")
	}
	return &Transport{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Tokens:     tokens,
		HTTPClient: httpClient,
	}
}

// helper: build full URL with query params
func (t *Transport) buildURL(path string, query map[string]string) (string, error) {
	u, err := url.Parse(t.BaseURL + path)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, v := range query {
		if v == "" {
			continue
		}
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (t *Transport) do(ctx context.Context, method, path string, data any, query map[string]string) (*Response, error) {
	fullURL, err := t.buildURL(path, query)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, err
	}

	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	// the token is read on every call so a cleared session stops sending it
	if token := t.Tokens.Token(); token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Token %s", token))
	}

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	resdata, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode >= 300 {
		return nil, &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       resdata,
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Data:       resdata,
	}, nil
}

// Get sends a GET request
func (t *Transport) Get(ctx context.Context, path string, query map[string]string) (*Response, error) {
	return t.do(ctx, http.MethodGet, path, nil, query)
}

// Post sends a POST request with JSON body
func (t *Transport) Post(ctx context.Context, path string, data any) (*Response, error) {
	return t.do(ctx, http.MethodPost, path, data, nil)
}

// Patch sends a PATCH request with JSON body
func (t *Transport) Patch(ctx context.Context, path string, data any) (*Response, error) {
	return t.do(ctx, http.MethodPatch, path, data, nil)
}

func (t *Transport) Delete(ctx context.Context, path string) (*Response, error) {
	return t.do(ctx, http.MethodDelete, path, nil, nil)
}
