package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	host := strings.TrimPrefix(srv.URL, "http://")
	return NewClient(host, "test-secret", time.Second)
}

func TestGetSnapshotHeaders(t *testing.T) {
	var gotSecret, gotContentType, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotSecret = r.Header.Get("SECRET")
		gotContentType = r.Header.Get("Content-Type")
		gotPath = r.URL.Path
		w.Write([]byte(`{"System":{"ActiveSystemVersion":"3.11.0"}}`))
	})

	snap, err := c.GetSnapshot(context.Background(), SnapshotDomain)
	require.NoError(t, err)
	assert.Equal(t, "test-secret", gotSecret)
	assert.Equal(t, "application/json;charset=UTF-8", gotContentType)
	assert.Equal(t, "/data/v2/domain/", gotPath)
	assert.Contains(t, snap, "System")
}

func TestStatusTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{"unauthorized", http.StatusUnauthorized, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrAuthentication)
		}},
		{"not_found", http.StatusNotFound, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrNotFound)
		}},
		{"server_error", http.StatusInternalServerError, func(t *testing.T, err error) {
			var be *BackendError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, http.StatusInternalServerError, be.StatusCode)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			_, err := c.GetSnapshot(context.Background(), SnapshotDomain)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestConnectivityFailure(t *testing.T) {
	// Nothing listens on this port.
	c := NewClient("127.0.0.1:1", "secret", 200*time.Millisecond)
	_, err := c.GetSnapshot(context.Background(), SnapshotDomain)
	assert.ErrorIs(t, err, ErrConnectivity)
}

func TestSendCommandPatch(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{}`))
	})

	err := c.SendCommand(context.Background(), "Room/3", map[string]interface{}{
		"RequestOverride": map[string]interface{}{"Type": "Boost", "DurationMinutes": 30},
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/data/v2/domain/Room/3", gotPath)
	override := gotBody["RequestOverride"].(map[string]interface{})
	assert.Equal(t, "Boost", override["Type"])
	// Sparse body: nothing beyond the requested override.
	assert.Len(t, gotBody, 1)
}

func TestSendSchedulePath(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	})

	err := c.SendSchedule(context.Background(), "Heating", 7, map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, "/data/v2/schedules/Heating/7", gotPath)
}
