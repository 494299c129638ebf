package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komodo-tools/komodo-mcp/pkg/komodo"
	"github.com/komodo-tools/komodo-mcp/pkg/redact"
)

const testSecret = "sk-handlers-test-secret"

// fakeAPI serves canned responses keyed by request type, in the
// envelope shape the platform speaks.
func fakeAPI(t *testing.T, responses map[string]func(w http.ResponseWriter)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Type   string          `json:"type"`
			Params json.RawMessage `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		respond, ok := responses[body.Type]
		require.True(t, ok, "unexpected request type %q", body.Type)
		respond(w)
	}))
}

func jsonResponse(v any) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}
}

func errorResponse(status int, message string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"error": message})
	}
}

func depsForServer(api *httptest.Server) ToolDependencies {
	red := redact.New()
	return ToolDependencies{
		Client:   komodo.New(api.URL, "test-key", testSecret, red),
		Redactor: red,
	}
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func TestGetStackJoinsDetailAndState(t *testing.T) {
	api := fakeAPI(t, map[string]func(w http.ResponseWriter){
		"GetStack": jsonResponse(komodo.Stack{
			ID:   "s1",
			Name: "web",
			Config: komodo.StackConfig{
				ServerID: "srv-1",
				Repo:     "acme/web",
				Branch:   "main",
			},
		}),
		"GetStackActionState": jsonResponse(komodo.StackActionState{Deploying: true}),
	})
	defer api.Close()

	deps := depsForServer(api)
	result, err := getStackHandler(deps)(context.Background(), callRequest("get_stack", map[string]any{"stack": "web"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Stack: web (id s1)")
	assert.Contains(t, text, "Server: srv-1")
	assert.Contains(t, text, "Repo: acme/web")
	assert.Contains(t, text, "In progress: deploying")
}

// A failing leg of the join must surface as a sanitized error result,
// even when the platform echoes credentials back in its message.
func TestGetStackFailureIsSanitized(t *testing.T) {
	api := fakeAPI(t, map[string]func(w http.ResponseWriter){
		"GetStack": jsonResponse(komodo.Stack{ID: "s1", Name: "web"}),
		"GetStackActionState": errorResponse(http.StatusUnauthorized,
			"invalid secret "+testSecret+" for this request"),
	})
	defer api.Close()

	deps := depsForServer(api)
	result, err := getStackHandler(deps)(context.Background(), callRequest("get_stack", map[string]any{"stack": "web"}))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.True(t, result.IsError)
	assert.Contains(t, text, "Error getting stack")
	assert.Contains(t, text, redact.Token)
	assert.NotContains(t, text, testSecret)
}

func TestGetStackMissingParam(t *testing.T) {
	deps := ToolDependencies{Redactor: redact.New()}
	result, err := getStackHandler(deps)(context.Background(), callRequest("get_stack", nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestListStacksEmpty(t *testing.T) {
	api := fakeAPI(t, map[string]func(w http.ResponseWriter){
		"ListStacks": jsonResponse([]komodo.StackListItem{}),
	})
	defer api.Close()

	deps := depsForServer(api)
	result, err := listStacksHandler(deps)(context.Background(), callRequest("list_stacks", nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "No stacks found.", resultText(t, result))
}

func TestExecuteHandlerFormatsUpdate(t *testing.T) {
	api := fakeAPI(t, map[string]func(w http.ResponseWriter){
		"DeployStack": jsonResponse(komodo.Update{
			ID:        "u7",
			Operation: "DeployStack",
			Status:    "Complete",
			Success:   true,
		}),
	})
	defer api.Close()

	deps := depsForServer(api)
	handler := executeHandler("deploying stack", "stack", (*komodo.Client).DeployStack)(deps)
	result, err := handler(context.Background(), callRequest("deploy_stack", map[string]any{"stack": "web"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "DeployStack update u7")
	assert.Contains(t, text, "Status: Complete")
	assert.Contains(t, text, "Success: true")
}

func TestExecuteHandlerErrorSanitized(t *testing.T) {
	api := fakeAPI(t, map[string]func(w http.ResponseWriter){
		"DeployStack": errorResponse(http.StatusForbidden, "denied for key with secret "+testSecret),
	})
	defer api.Close()

	deps := depsForServer(api)
	handler := executeHandler("deploying stack", "stack", (*komodo.Client).DeployStack)(deps)
	result, err := handler(context.Background(), callRequest("deploy_stack", map[string]any{"stack": "web"}))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.True(t, result.IsError)
	assert.Contains(t, text, "Error deploying stack")
	assert.NotContains(t, text, testSecret)
}
