package search

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"elitestay/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSearchQuery(t *testing.T) {
	q := buildSearchQuery("  ")
	_, ok := q["match_all"]
	assert.True(t, ok)

	q = buildSearchQuery("sea view")
	mm, ok := q["multi_match"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "sea view", mm["query"])

	assert.Len(t, buildSortQuery("sea"), 2)
	assert.Len(t, buildSortQuery(""), 1)
}

// fakeES answers just enough of the REST API for the client.
func fakeES(t *testing.T, indexed map[string]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodHead:
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPut && strings.Contains(r.URL.Path, "/_doc/"):
			body, _ := io.ReadAll(r.Body)
			indexed[r.URL.Path] = string(body)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"result":"created"}`))
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/_search"):
			_, _ = w.Write([]byte(`{"hits":{"total":{"value":1},"hits":[{"_source":{"id":7,"name":"Deluxe","description":"sea view","price_per_night":"150.00","capacity":2}}]}}`))
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"result":"not_found"}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
}

func TestRoomTypeRoundTrip(t *testing.T) {
	indexed := map[string]string{}
	srv := fakeES(t, indexed)
	defer srv.Close()

	client, err := NewElasticsearchClient(Config{URL: srv.URL, Index: "room_types", Timeout: 5 * time.Second})
	require.NoError(t, err)

	ctx := t.Context()
	err = client.IndexRoomType(ctx, &models.RoomType{
		ID:            7,
		Name:          "Deluxe",
		Description:   "sea view",
		PricePerNight: decimal.RequireFromString("150"),
		Capacity:      2,
	})
	require.NoError(t, err)

	var doc roomTypeDocument
	require.NoError(t, json.Unmarshal([]byte(indexed["/room_types/_doc/7"]), &doc))
	assert.Equal(t, "150.00", doc.PricePerNight)

	items, total, err := client.SearchRoomTypes(ctx, "sea", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, int64(7), items[0].ID)
	assert.True(t, items[0].PricePerNight.Equal(decimal.RequireFromString("150")))

	assert.NoError(t, client.DeleteRoomType(ctx, 99))
}
