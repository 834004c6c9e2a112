package enrich

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"business-scraper/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.BrightDataURL = srv.URL
	cfg.BrightDataKey = "test-token"
	cfg.BrightDataSet = "ds_test"
	return NewClient(cfg)
}

func TestTriggerSubmitsCleanURLs(t *testing.T) {
	var (
		gotAuth    string
		gotDataset string
		gotItems   []triggerItem
	)

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotDataset = r.URL.Query().Get("dataset_id")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotItems))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"snapshot_id":"s_abc123"}`))
	})

	id, err := client.Trigger(context.Background(), []string{
		"https://www.linkedin.com/in/jane-doe?miniProfileUrn=urn",
		"  https://www.linkedin.com/in/john-smith  ",
		"",
	})
	require.NoError(t, err)
	assert.Equal(t, "s_abc123", id)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "ds_test", gotDataset)
	require.Len(t, gotItems, 2)
	assert.Equal(t, "https://www.linkedin.com/in/jane-doe", gotItems[0].URL)
	assert.Equal(t, "https://www.linkedin.com/in/john-smith", gotItems[1].URL)
}

func TestTriggerServerError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad dataset"}`, http.StatusUnprocessableEntity)
	})
	client.http.SetRetryCount(0)

	_, err := client.Trigger(context.Background(), []string{"https://www.linkedin.com/in/jane-doe"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestTriggerMissingSnapshotID(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := client.Trigger(context.Background(), []string{"https://www.linkedin.com/in/jane-doe"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot_id")
}

func TestTriggerNoURLs(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.Trigger(context.Background(), []string{"", "   "})
	require.Error(t, err)
}

func TestEnabled(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.False(t, NewClient(cfg).Enabled())

	cfg.BrightDataKey = "tok"
	assert.True(t, NewClient(cfg).Enabled())
}
