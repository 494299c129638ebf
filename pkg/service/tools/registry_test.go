package tools

import (
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komodo-tools/komodo-mcp/pkg/config"
	"github.com/komodo-tools/komodo-mcp/pkg/redact"
)

func newTestDeps(access config.AccessLevel, categories []string) ToolDependencies {
	return ToolDependencies{
		// Handlers are never invoked during registration, so no
		// client is needed.
		Redactor: redact.New(),
		Config: &config.Config{
			Access:     access,
			Categories: categories,
		},
		Logger: slog.Default(),
	}
}

func registeredNames(t *testing.T, access config.AccessLevel, categories []string) map[string]bool {
	t.Helper()
	mcpServer := server.NewMCPServer("test", "0.0.0")
	deps := newTestDeps(access, categories)
	names := make(map[string]bool)
	for _, cfg := range AllToolConfigs() {
		if RegisterTool(mcpServer, cfg, deps) {
			names[cfg.Name] = true
		}
	}
	return names
}

func TestToolNamesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, cfg := range AllToolConfigs() {
		assert.False(t, seen[cfg.Name], "duplicate tool name %s", cfg.Name)
		seen[cfg.Name] = true
	}
}

func TestEveryToolFullyDeclared(t *testing.T) {
	for _, cfg := range AllToolConfigs() {
		assert.NotEmpty(t, cfg.Name)
		assert.NotEmpty(t, cfg.Description, "tool %s has no description", cfg.Name)
		assert.NotEmpty(t, cfg.Category, "tool %s has no category", cfg.Name)
		assert.NotNil(t, cfg.Handler, "tool %s has no handler", cfg.Name)
	}
}

func TestAccessLevelMonotonicity(t *testing.T) {
	levels := []config.AccessLevel{config.AccessReadOnly, config.AccessReadExecute, config.AccessFull}

	var previous map[string]bool
	for _, level := range levels {
		current := registeredNames(t, level, nil)
		for name := range previous {
			assert.True(t, current[name],
				"tool %s registered under %s but not under %s", name, level-1, level)
		}
		previous = current
	}
}

func TestFullOnlyToolRegistration(t *testing.T) {
	assert.False(t, registeredNames(t, config.AccessReadOnly, nil)["write_resource"])
	assert.False(t, registeredNames(t, config.AccessReadExecute, nil)["write_resource"])
	assert.True(t, registeredNames(t, config.AccessFull, nil)["write_resource"])
}

func TestWriteResourceIsTheOnlyFullTool(t *testing.T) {
	var fullTools []string
	for _, cfg := range AllToolConfigs() {
		if cfg.Access == config.AccessFull {
			fullTools = append(fullTools, cfg.Name)
		}
	}
	assert.Equal(t, []string{"write_resource"}, fullTools)
}

func TestRegisteredCountsPerLevel(t *testing.T) {
	all := AllToolConfigs()

	countAtMost := func(level config.AccessLevel) int {
		n := 0
		for _, cfg := range all {
			if cfg.Access <= level {
				n++
			}
		}
		return n
	}

	for _, level := range []config.AccessLevel{config.AccessReadOnly, config.AccessReadExecute, config.AccessFull} {
		mcpServer := server.NewMCPServer("test", "0.0.0")
		registered := RegisterAll(mcpServer, newTestDeps(level, nil))
		assert.Equal(t, countAtMost(level), registered, "level %s", level)
	}

	// Full registers the complete surface.
	mcpServer := server.NewMCPServer("test", "0.0.0")
	assert.Equal(t, len(all), RegisterAll(mcpServer, newTestDeps(config.AccessFull, nil)))
}

func TestCategoryAllowlistFiltersIndependentlyOfAccess(t *testing.T) {
	names := registeredNames(t, config.AccessFull, []string{CategoryServers})
	require.NotEmpty(t, names)

	byName := make(map[string]ToolConfig)
	for _, cfg := range AllToolConfigs() {
		byName[cfg.Name] = cfg
	}
	for name := range names {
		assert.Equal(t, CategoryServers, byName[name].Category,
			"tool %s registered outside the allowlisted category", name)
	}

	// Every servers tool passes the access filter too, so all of them
	// must be present.
	for _, cfg := range AllToolConfigs() {
		if cfg.Category == CategoryServers {
			assert.True(t, names[cfg.Name], "missing servers tool %s", cfg.Name)
		}
	}
}

func TestBothFiltersApply(t *testing.T) {
	// read-only access plus a category holding execute tools: only the
	// read-only members of the category survive.
	names := registeredNames(t, config.AccessReadOnly, []string{CategoryStacks})
	assert.True(t, names["list_stacks"])
	assert.True(t, names["get_stack"])
	assert.False(t, names["deploy_stack"])
	assert.False(t, names["list_servers"])
}

func TestAnnotationDefaults(t *testing.T) {
	readTool := ToolConfig{Name: "r", Access: config.AccessReadOnly}
	ann := buildAnnotations(readTool)
	require.NotNil(t, ann.ReadOnlyHint)
	require.NotNil(t, ann.DestructiveHint)
	assert.True(t, *ann.ReadOnlyHint)
	assert.False(t, *ann.DestructiveHint)

	execTool := ToolConfig{Name: "x", Access: config.AccessReadExecute}
	ann = buildAnnotations(execTool)
	assert.False(t, *ann.ReadOnlyHint)
	assert.False(t, *ann.DestructiveHint)
}

func TestAnnotationOverridesWin(t *testing.T) {
	cfg := ToolConfig{
		Name:        "d",
		Access:      config.AccessReadExecute,
		Annotations: &mcp.ToolAnnotation{DestructiveHint: boolPtr(true), IdempotentHint: boolPtr(true)},
	}
	ann := buildAnnotations(cfg)
	assert.True(t, *ann.DestructiveHint)
	require.NotNil(t, ann.IdempotentHint)
	assert.True(t, *ann.IdempotentHint)
	// Derived default survives for fields the override leaves unset.
	assert.False(t, *ann.ReadOnlyHint)
}

func TestBuildToolSchema(t *testing.T) {
	cfg := ToolConfig{
		Name:           "s",
		RequiredParams: []string{"server"},
		OptionalParams: map[string]any{"tail": "integer", "verbose": "boolean"},
	}
	schema := BuildToolSchema(cfg)

	assert.Equal(t, "object", schema.Type)
	assert.Equal(t, []string{"server"}, schema.Required)

	serverProp, ok := schema.Properties["server"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", serverProp["type"])
	assert.NotEmpty(t, serverProp["description"])

	tailProp, ok := schema.Properties["tail"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "integer", tailProp["type"])

	verboseProp, ok := schema.Properties["verbose"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "boolean", verboseProp["type"])
}
