package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferencesHandlerLifecycle(t *testing.T) {
	f := newReviewFixture(t)

	_, _ = f.do(t, http.MethodGet, "/api/v1/dashboard/tennessee/all", "")
	rec, envelope := f.do(t, http.MethodGet, "/api/v1/preferences", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := dataOf(t, envelope)
	assert.Equal(t, "tennessee", data["region"])
	assert.Equal(t, "all", data["status"])

	rec, envelope = f.do(t, http.MethodGet, "/api/v1/preferences/view?status=bogus", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data = dataOf(t, envelope)
	assert.Equal(t, "tennessee", data["region"])
	assert.Equal(t, "all", data["status"])
	assert.Equal(t, true, data["redirect"])

	dashboard := f.registry.Dashboard("alice")
	rec, _ = f.do(t, http.MethodDelete, "/api/v1/preferences", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotSame(t, dashboard, f.registry.Dashboard("alice"))

	rec, envelope = f.do(t, http.MethodGet, "/api/v1/preferences", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, dataOf(t, envelope))
}
