package komodo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komodo-tools/komodo-mcp/pkg/redact"
)

type capturedRequest struct {
	path   string
	key    string
	secret string
	body   map[string]any
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *redact.Redactor, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	red := redact.New()
	return New(srv.URL, "test-key", "test-secret", red), red, srv
}

func TestNewRegistersCredentials(t *testing.T) {
	red := redact.New()
	New("https://komodo.example.com", "api-key-abc", "api-secret-def", red)

	out := red.Sanitize("leak api-key-abc and api-secret-def")
	assert.NotContains(t, out, "api-key-abc")
	assert.NotContains(t, out, "api-secret-def")
	assert.Contains(t, out, redact.Token)
}

func TestReadSendsEnvelopeAndHeaders(t *testing.T) {
	var captured capturedRequest
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.key = r.Header.Get("X-Api-Key")
		captured.secret = r.Header.Get("X-Api-Secret")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.body))
		_ = json.NewEncoder(w).Encode(Stack{ID: "651", Name: "web"})
	})

	stack, err := client.GetStack(context.Background(), "web")
	require.NoError(t, err)

	assert.Equal(t, "/read", captured.path)
	assert.Equal(t, "test-key", captured.key)
	assert.Equal(t, "test-secret", captured.secret)
	assert.Equal(t, "GetStack", captured.body["type"])
	assert.Equal(t, map[string]any{"stack": "web"}, captured.body["params"])
	assert.Equal(t, "web", stack.Name)
}

func TestReadWithoutParamsSendsEmptyObject(t *testing.T) {
	var captured capturedRequest
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.body))
		_ = json.NewEncoder(w).Encode(Version{Version: "1.16.5"})
	})

	version, err := client.GetVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.16.5", version.Version)
	assert.Equal(t, map[string]any{}, captured.body["params"])
}

func TestExecuteRoutesToExecuteEndpoint(t *testing.T) {
	var captured capturedRequest
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.body))
		_ = json.NewEncoder(w).Encode(Update{ID: "u1", Operation: "DeployStack", Status: "InProgress"})
	})

	update, err := client.DeployStack(context.Background(), "web")
	require.NoError(t, err)

	assert.Equal(t, "/execute", captured.path)
	assert.Equal(t, "DeployStack", captured.body["type"])
	assert.Equal(t, "u1", update.ID)
	assert.Equal(t, "InProgress", update.Status)
}

func TestErrorResponseDecoded(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "stack not found"}`))
	})

	_, err := client.GetStack(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GetStack failed")
	assert.Contains(t, err.Error(), "stack not found")
	assert.Contains(t, err.Error(), "500")
}

func TestErrorResponseNonJSONBody(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("unauthorized\n"))
	})

	_, err := client.GetVersion(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")
	assert.Contains(t, err.Error(), "401")
}

func TestInspectContainerReturnsRawDocument(t *testing.T) {
	doc := `{"Id":"abc","State":{"Running":true},"Config":{"Image":"nginx"}}`
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(doc))
	})

	raw, err := client.InspectContainer(context.Background(), "prod-1", "nginx")
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(raw))
}

func TestWriteRoutesToWriteEndpoint(t *testing.T) {
	var captured capturedRequest
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.body))
		_, _ = w.Write([]byte(`{"id":"new-id","name":"db"}`))
	})

	var out map[string]any
	err := client.Write(context.Background(), "CreateServer", map[string]any{"name": "db"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "/write", captured.path)
	assert.Equal(t, "CreateServer", captured.body["type"])
	assert.Equal(t, "new-id", out["id"])
}
