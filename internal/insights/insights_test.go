package insights

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Get(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/pattern-insights", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(Insight{
			CulturalSignificance: "Adwinasa signifies excellence.",
			Story:                "The weaver had exhausted all motifs.",
		})
	}))
	defer srv.Close()

	svc := NewService(srv.URL, "key", time.Second, nil, time.Hour)
	insight, err := svc.Get(context.Background(), "Adwinasa")
	require.NoError(t, err)
	assert.Equal(t, "Adwinasa", gotBody["pattern_name"])
	assert.Equal(t, "Adwinasa signifies excellence.", insight.CulturalSignificance)
	assert.NotEmpty(t, insight.Story)
}

func TestService_GetUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	svc := NewService(srv.URL, "key", time.Second, nil, time.Hour)
	_, err := svc.Get(context.Background(), "Adwinasa")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestService_NotConfigured(t *testing.T) {
	svc := NewService("", "", time.Second, nil, time.Hour)
	_, err := svc.Get(context.Background(), "Adwinasa")
	assert.ErrorIs(t, err, ErrUnavailable)
}
