// Package upstream implements the persistence gateway to the profile API
// that owns durable storage. Every operation returns errors for the caller
// to log and degrade on; nothing here retries or panics.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"go-profile-builder/internal/domain"
)

const defaultTimeout = 10 * time.Second

// ErrorKind classifies upstream failures.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindUnauthorized ErrorKind = "unauthorized"
	KindRateLimited  ErrorKind = "rate_limited"
	KindUpstream     ErrorKind = "upstream"
)

// Error carries upstream response metadata for error mapping.
type Error struct {
	Kind   ErrorKind
	Status int
	cause  error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("upstream error (kind=%s status=%d)", e.Kind, e.Status)
	}
	return fmt.Sprintf("upstream error (kind=%s status=%d): %v", e.Kind, e.Status, e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

func kindFromStatus(status int) ErrorKind {
	switch {
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindUnauthorized
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindUpstream
	}
}

// Client calls the upstream profile API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the upstream base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithToken sets the Bearer token for upstream requests.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout bounds each upstream call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates an upstream API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the upstream's standard JSON response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*envelope, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindUpstream, cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &Error{Kind: kindFromStatus(resp.StatusCode), Status: resp.StatusCode}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &Error{Kind: KindUpstream, Status: resp.StatusCode, cause: err}
	}
	if !env.Success {
		return nil, &Error{
			Kind:   KindUpstream,
			Status: resp.StatusCode,
			cause:  fmt.Errorf("upstream rejected request: %s", env.Message),
		}
	}
	return &env, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	env, err := c.do(ctx, http.MethodGet, path, nil, nil, "")
	if err != nil {
		return err
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	env, err := c.do(ctx, http.MethodPost, path, nil, bytes.NewReader(raw), "application/json")
	if err != nil {
		return err
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

// ============================================================================
// ProfileGateway implementation
// ============================================================================

// LoadProfile fetches the stored profile; (nil, nil) when the upstream has
// none yet.
func (c *Client) LoadProfile(ctx context.Context, userID string) (*domain.ProfileData, error) {
	var profile domain.ProfileData
	err := c.getJSON(ctx, "/api/v1/resume/load-profile/"+url.PathEscape(userID), &profile)
	if err != nil {
		var upErr *Error
		if errors.As(err, &upErr) && upErr.Kind == KindNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

type saveSectionRequest struct {
	UserID  string      `json:"user_id"`
	Section string      `json:"section"`
	Data    interface{} `json:"data"`
}

// SaveSection persists exactly one section of the aggregate.
func (c *Client) SaveSection(ctx context.Context, userID string, section domain.SectionName, data interface{}) error {
	return c.postJSON(ctx, "/api/v1/profile/save-section", saveSectionRequest{
		UserID:  userID,
		Section: string(section),
		Data:    data,
	}, nil)
}

// GetCompletionScore fetches the profile completion score summary.
func (c *Client) GetCompletionScore(ctx context.Context, userID string) (*domain.ScoreSummary, error) {
	var score domain.ScoreSummary
	if err := c.getJSON(ctx, "/api/v1/profile/score/"+url.PathEscape(userID), &score); err != nil {
		return nil, err
	}
	return &score, nil
}

// ParseResume uploads a resume file for extraction.
func (c *Client) ParseResume(ctx context.Context, userID, filename string, data []byte) (*domain.ResumeData, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	query := url.Values{"user_id": {userID}}
	env, err := c.do(ctx, http.MethodPost, "/api/v1/resume/parse", query, &buf, writer.FormDataContentType())
	if err != nil {
		return nil, err
	}

	var resume domain.ResumeData
	if err := json.Unmarshal(env.Data, &resume); err != nil {
		return nil, &Error{Kind: KindUpstream, cause: err}
	}
	return &resume, nil
}

type coordinatesResponse struct {
	Success         bool    `json:"success"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// ResolveCoordinates asks the upstream geocoder for a validated address's
// position. This endpoint answers flat JSON, not the standard envelope.
func (c *Client) ResolveCoordinates(ctx context.Context, req domain.CoordinatesRequest) (*domain.CoordinatesResult, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/address/coordinates", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &Error{Kind: KindUpstream, cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &Error{Kind: kindFromStatus(resp.StatusCode), Status: resp.StatusCode}
	}

	var out coordinatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &Error{Kind: KindUpstream, Status: resp.StatusCode, cause: err}
	}
	if !out.Success {
		return nil, &Error{Kind: KindUpstream, Status: resp.StatusCode, cause: fmt.Errorf("coordinate lookup failed")}
	}
	return &domain.CoordinatesResult{
		Latitude:        out.Latitude,
		Longitude:       out.Longitude,
		ConfidenceScore: out.ConfidenceScore,
	}, nil
}
