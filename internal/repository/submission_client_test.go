package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hkwon327/timesheet-dashboard/internal/models"
	"github.com/hkwon327/timesheet-dashboard/pkg/config"
	appErrors "github.com/hkwon327/timesheet-dashboard/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *SubmissionClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewSubmissionClient(config.BackendConfig{BaseURL: srv.URL + "/", Timeout: time.Second, SentStatusToken: "confirmed"}, nil)
}

func TestSubmissionClientListEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/submission", r.URL.Path)
		_, _ = io.WriteString(w, `{"items":[{"id":1,"employee_name":"A","status":"approved"},{"id":2,"status":"weird"}]}`)
	})

	items, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, models.StatusApproved, items[0].Status)
	assert.Equal(t, models.StatusPending, items[1].Status)
}

func TestSubmissionClientListBareArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":7,"total_hours":40}]`)
	})

	items, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].TotalHours.Valid)
}

func TestSubmissionClientListUpstreamFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.List(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUpstream))
}

func TestSubmissionClientDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/submission/5", r.URL.Path)
		require.Equal(t, "1", r.URL.Query().Get("includeUrl"))
		_, _ = io.WriteString(w, `{"form":{"id":5,"service_week_start":"2025-01-06"},"schedule":[{"day":"Mon","time":"8:00 AM - 5:00 PM","location":"KY SK Trailer"}],"previewUrl":"https://cdn/x.pdf"}`)
	})

	detail, err := client.Detail(context.Background(), 5, true)
	require.NoError(t, err)
	assert.Equal(t, int64(5), detail.Submission.ID)
	require.Len(t, detail.Schedule, 1)
	assert.Equal(t, "KY SK Trailer", detail.Schedule[0].Location)
	assert.Equal(t, "https://cdn/x.pdf", detail.PreviewURL)
}

func TestSubmissionClientDetailNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.Detail(context.Background(), 9, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestSubmissionClientUpdateStatusSendsWireToken(t *testing.T) {
	var got map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/submission/3/status", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.UpdateStatus(context.Background(), 3, models.StatusSent))
	assert.Equal(t, "confirmed", got["status"])
}

func TestSubmissionClientUpdateStatusServerMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"error":"already sent"}`)
	})

	err := client.UpdateStatus(context.Background(), 3, models.StatusDeleted)
	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, http.StatusConflict, be.StatusCode)
	assert.Equal(t, "already sent", be.ServerMessage)
}

func TestSubmissionClientLookup(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/form-pdf-url/Foo Bar.pdf" {
			_, _ = io.WriteString(w, `{"url":"https://s3/foo"}`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Not Found"}`)
	})

	u, err := client.Lookup(context.Background(), "Foo Bar.pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://s3/foo", u)

	_, err = client.Lookup(context.Background(), "Foo_Bar.pdf")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestServerMessage(t *testing.T) {
	assert.Equal(t, "boom", serverMessage([]byte(`{"error":"boom"}`)))
	assert.Equal(t, "nope", serverMessage([]byte(`{"detail":"nope"}`)))
	assert.Equal(t, "", serverMessage([]byte(`{"detail":[{"msg":"x"}]}`)))
	assert.Equal(t, "", serverMessage([]byte(`<html>`)))
}
