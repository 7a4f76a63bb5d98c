package qdrant_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyber-doctor/pkg/qdrant"
)

type recorded struct {
	method string
	path   string
	query  string
	body   map[string]any
}

// newQdrantServer mimics the handful of Qdrant routes the knowledge store calls.
// A collection named "broken" fails every request with a Qdrant error envelope.
func newQdrantServer(t *testing.T, calls *[]recorded) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	record := func(r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		*calls = append(*calls, recorded{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, body: body})
	}
	fail := func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"status":{"error":"Service internal error: storage is read only"}}`))
	}

	mux.HandleFunc("GET /collections/{name}", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if r.PathValue("name") != "knowledge" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"status":{"error":"Not found: Collection doesn't exist!"}}`))
			return
		}
		w.Write([]byte(`{"result":{"status":"green"},"status":"ok"}`))
	})
	mux.HandleFunc("PUT /collections/{name}", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if r.PathValue("name") == "broken" {
			fail(w)
			return
		}
		w.Write([]byte(`{"result":true,"status":"ok"}`))
	})
	mux.HandleFunc("PUT /collections/{name}/points", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if r.PathValue("name") == "broken" {
			fail(w)
			return
		}
		w.Write([]byte(`{"result":{"status":"completed"},"status":"ok"}`))
	})
	mux.HandleFunc("POST /collections/{name}/points/search", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if r.PathValue("name") == "broken" {
			fail(w)
			return
		}
		w.Write([]byte(`{"result":[{"id":"5c56c793-69f3-4fbf-87e6-c4bf54c28c26","version":1,"score":0.91,
			"payload":{"source":"diabetes.md","text":"糖尿病患者应控制碳水摄入"}}],"status":"ok","time":0.002}`))
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestClient_Collections(t *testing.T) {
	var calls []recorded
	client := qdrant.NewClient(newQdrantServer(t, &calls).URL + "/")
	ctx := context.Background()

	ok, err := client.CollectionExists(ctx, "knowledge")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.CollectionExists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	err = client.CreateCollection(ctx, qdrant.CreateCollectionRequest{
		Name:    "knowledge",
		Vectors: qdrant.VectorConfig{Size: 1024, Distance: "Cosine"},
	})
	require.NoError(t, err)

	last := calls[len(calls)-1]
	assert.Equal(t, "/collections/knowledge", last.path)
	assert.Equal(t, map[string]any{"size": float64(1024), "distance": "Cosine"}, last.body["vectors"])
	assert.NotContains(t, last.body, "Name")

	err = client.CreateCollection(ctx, qdrant.CreateCollectionRequest{Name: "broken"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage is read only")
}

func TestClient_UpsertPoints(t *testing.T) {
	var calls []recorded
	client := qdrant.NewClient(newQdrantServer(t, &calls).URL)

	err := client.UpsertPoints(context.Background(), "knowledge", qdrant.UpsertPointsRequest{
		Points: []qdrant.Point{{
			ID:      "5c56c793-69f3-4fbf-87e6-c4bf54c28c26",
			Vector:  []float32{0.1, 0.2},
			Payload: map[string]any{"source": "diabetes.md", "text": "糖尿病的饮食"},
		}},
	})
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "wait=true", calls[0].query)
	assert.Len(t, calls[0].body["points"], 1)

	err = client.UpsertPoints(context.Background(), "broken", qdrant.UpsertPointsRequest{})
	assert.Error(t, err)
}

func TestClient_SearchPoints(t *testing.T) {
	var calls []recorded
	client := qdrant.NewClient(newQdrantServer(t, &calls).URL)

	resp, err := client.SearchPoints(context.Background(), "knowledge", qdrant.SearchRequest{
		Vector:      []float32{0.3, 0.4},
		Limit:       6,
		WithPayload: true,
	})
	require.NoError(t, err)
	require.Len(t, resp.Result, 1)
	assert.Equal(t, "5c56c793-69f3-4fbf-87e6-c4bf54c28c26", resp.Result[0].ID)
	assert.Equal(t, "糖尿病患者应控制碳水摄入", resp.Result[0].Payload["text"])
	assert.Equal(t, float64(6), calls[0].body["limit"])

	_, err = client.SearchPoints(context.Background(), "broken", qdrant.SearchRequest{Limit: 6})
	assert.Error(t, err)
}

func TestClient_CanceledContext(t *testing.T) {
	var calls []recorded
	client := qdrant.NewClient(newQdrantServer(t, &calls).URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, client.CreateCollection(ctx, qdrant.CreateCollectionRequest{Name: "knowledge"}))
	_, err := client.SearchPoints(ctx, "knowledge", qdrant.SearchRequest{})
	assert.Error(t, err)
	assert.Empty(t, calls)
}
