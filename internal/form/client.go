package form

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Registration is the JSON body posted to /register.
type Registration map[string]any

// Response is the decoded body of a successful registration.
type Response struct {
	Message string          `json:"message"`
	User    json.RawMessage `json:"user"`
}

// StatusError is returned for any non-2xx reply.
type StatusError struct {
	Code    int
	Message string
	Errors  map[string]string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server responded %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("server responded %d %s", e.Code, e.Message)
}

// Submitter sends a registration to the service.
type Submitter interface {
	Register(ctx context.Context, reg Registration) (*Response, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Submitter = (*Client)(nil)

// NewClient returns a client for the service at baseURL. A nil httpClient
// uses a client without a timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) Register(ctx context.Context, reg Registration) (*Response, error) {
	body, err := json.Marshal(reg)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/register", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		statusErr := &StatusError{Code: res.StatusCode}
		var payload struct {
			Message string            `json:"message"`
			Errors  map[string]string `json:"errors"`
		}
		if json.NewDecoder(res.Body).Decode(&payload) == nil {
			statusErr.Message = payload.Message
			statusErr.Errors = payload.Errors
		}
		return nil, statusErr
	}

	out := new(Response)
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("decode registration response: %w", err)
	}
	return out, nil
}
