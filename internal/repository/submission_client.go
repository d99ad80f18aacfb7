package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hkwon327/timesheet-dashboard/internal/models"
	"github.com/hkwon327/timesheet-dashboard/pkg/config"
	appErrors "github.com/hkwon327/timesheet-dashboard/pkg/errors"
)

const maxBackendBody = 1 << 20

// BackendError is a non-2xx answer from the submissions backend.
type BackendError struct {
	Method     string
	Path       string
	StatusCode int
	// ServerMessage is the "error" (or "detail") field of the response body, if any.
	ServerMessage string
}

func (e *BackendError) Error() string {
	if e.ServerMessage != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.ServerMessage)
	}
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
}

// SubmissionClient talks to the external submissions backend.
type SubmissionClient struct {
	baseURL   string
	http      *http.Client
	sentToken string
}

// NewSubmissionClient builds a client; a nil httpClient gets one with the configured timeout.
func NewSubmissionClient(cfg config.BackendConfig, httpClient *http.Client) *SubmissionClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	token := cfg.SentStatusToken
	if token == "" {
		token = string(models.StatusSent)
	}
	return &SubmissionClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		http:      httpClient,
		sentToken: token,
	}
}

// List fetches every submission summary.
func (c *SubmissionClient) List(ctx context.Context) ([]models.Submission, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/submission", nil, &raw); err != nil {
		return nil, upstream(err, "list submissions")
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []models.Submission
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, upstream(err, "decode submissions")
		}
		return items, nil
	}

	var envelope struct {
		Items []models.Submission `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, upstream(err, "decode submissions")
	}
	if envelope.Items == nil {
		return []models.Submission{}, nil
	}
	return envelope.Items, nil
}

// Detail fetches a submission with its schedule. includeURL asks the backend for a preview link.
func (c *SubmissionClient) Detail(ctx context.Context, id int64, includeURL bool) (*models.SubmissionDetail, error) {
	path := "/submission/" + strconv.FormatInt(id, 10)
	if includeURL {
		path += "?includeUrl=1"
	}

	var detail models.SubmissionDetail
	if err := c.do(ctx, http.MethodGet, path, nil, &detail); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status,
				fmt.Sprintf("submission %d not found", id))
		}
		return nil, upstream(err, fmt.Sprintf("fetch submission %d", id))
	}
	if detail.Schedule == nil {
		detail.Schedule = []models.ScheduleEntry{}
	}
	return &detail, nil
}

// UpdateStatus asks the backend to move a submission to status. The raw
// *BackendError is returned so callers can surface the server's message.
func (c *SubmissionClient) UpdateStatus(ctx context.Context, id int64, status models.Status) error {
	body := map[string]string{"status": c.WireStatus(status)}
	return c.do(ctx, http.MethodPatch, "/submission/"+strconv.FormatInt(id, 10)+"/status", body, nil)
}

// WireStatus maps a status onto the token the backend stores.
func (c *SubmissionClient) WireStatus(status models.Status) string {
	if status == models.StatusSent {
		return c.sentToken
	}
	return string(status)
}

// Lookup resolves a stored document name to a retrievable URL through the backend.
func (c *SubmissionClient) Lookup(ctx context.Context, name string) (string, error) {
	var payload struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodGet, "/form-pdf-url/"+url.PathEscape(name), nil, &payload); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return "", appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "document not found")
		}
		return "", err
	}
	if payload.URL == "" {
		return "", appErrors.Clone(appErrors.ErrNotFound, "document not found")
	}
	return payload.URL, nil
}

func (c *SubmissionClient) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBackendBody))
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &BackendError{
			Method:        method,
			Path:          path,
			StatusCode:    resp.StatusCode,
			ServerMessage: serverMessage(data),
		}
	}

	if dest == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// serverMessage extracts {"error": "..."} or a string {"detail": "..."} from an error body.
func serverMessage(body []byte) string {
	var payload struct {
		Error  json.RawMessage `json:"error"`
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, raw := range []json.RawMessage{payload.Error, payload.Detail} {
		var msg string
		if len(raw) > 0 && json.Unmarshal(raw, &msg) == nil && strings.TrimSpace(msg) != "" {
			return strings.TrimSpace(msg)
		}
	}
	return ""
}

func isStatus(err error, status int) bool {
	var be *BackendError
	return errors.As(err, &be) && be.StatusCode == status
}

func upstream(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, message)
}
