// Package tools declares every tool the server exposes and the single
// registration gate that decides, per tool, whether it becomes
// callable under the loaded configuration.
package tools

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/komodo-tools/komodo-mcp/pkg/config"
	"github.com/komodo-tools/komodo-mcp/pkg/komodo"
	"github.com/komodo-tools/komodo-mcp/pkg/redact"
)

// Tool categories, one per domain module. The category string doubles
// as the allowlist key for KOMODO_MCP_CATEGORIES.
const (
	CategoryServers     = "servers"
	CategoryStacks      = "stacks"
	CategoryDeployments = "deployments"
	CategoryBuilds      = "builds"
	CategoryRepos       = "repos"
	CategoryProcedures  = "procedures"
	CategoryActions     = "actions"
	CategorySyncs       = "syncs"
	CategoryContainers  = "containers"
	CategoryUpdates     = "updates"
	CategoryCore        = "core"
	CategoryWrite       = "write"
)

// ToolConfig declares a single tool. Instances are created once in the
// per-module tables and never mutated.
type ToolConfig struct {
	Name        string
	Description string
	Category    string

	// Access is the minimum level a configuration needs for this tool
	// to be registered.
	Access config.AccessLevel

	// RequiredParams become required string properties of the input
	// schema. OptionalParams map a property name to its JSON schema
	// type name ("string", "integer", "boolean", "object", "array").
	RequiredParams []string
	OptionalParams map[string]any

	// ParamDescriptions overrides the shared parameter descriptions
	// for this tool only.
	ParamDescriptions map[string]string

	// Annotations overrides the derived annotation defaults per field.
	Annotations *mcp.ToolAnnotation

	Handler func(deps ToolDependencies) server.ToolHandlerFunc
}

// ToolDependencies holds everything a handler might need.
type ToolDependencies struct {
	Client   *komodo.Client
	Redactor *redact.Redactor
	Config   *config.Config
	Logger   *slog.Logger
}

// AllToolConfigs returns every tool declared by the domain modules, in
// a stable order.
func AllToolConfigs() []ToolConfig {
	var configs []ToolConfig
	for _, group := range [][]ToolConfig{
		serverToolConfigs,
		stackToolConfigs,
		deploymentToolConfigs,
		buildToolConfigs,
		repoToolConfigs,
		procedureToolConfigs,
		actionToolConfigs,
		syncToolConfigs,
		containerToolConfigs,
		updateToolConfigs,
		coreToolConfigs,
		writeToolConfigs,
	} {
		configs = append(configs, group...)
	}
	return configs
}

// RegisterAll runs every declared tool through the gate and returns
// how many were registered.
func RegisterAll(mcpServer *server.MCPServer, deps ToolDependencies) int {
	registered := 0
	for _, cfg := range AllToolConfigs() {
		if RegisterTool(mcpServer, cfg, deps) {
			registered++
		}
	}
	return registered
}

// RegisterTool is the single choke point deciding whether a declared
// tool becomes callable. A tool is registered iff the configured
// access level reaches the tool's level and its category passes the
// allowlist. Returns true iff registration occurred; skipping is
// silent apart from a debug log. Never returns an error: a schema
// problem here is a startup defect, not a runtime condition.
func RegisterTool(mcpServer *server.MCPServer, cfg ToolConfig, deps ToolDependencies) bool {
	if deps.Config.Access < cfg.Access {
		if deps.Logger != nil {
			deps.Logger.Debug("tool above configured access level, skipping",
				slog.String("name", cfg.Name),
				slog.String("required", cfg.Access.String()),
				slog.String("configured", deps.Config.Access.String()))
		}
		return false
	}
	if !deps.Config.CategoryAllowed(cfg.Category) {
		if deps.Logger != nil {
			deps.Logger.Debug("tool category not in allowlist, skipping",
				slog.String("name", cfg.Name),
				slog.String("category", cfg.Category))
		}
		return false
	}

	tool := mcp.Tool{
		Name:        cfg.Name,
		Description: cfg.Description,
		InputSchema: BuildToolSchema(cfg),
		Annotations: buildAnnotations(cfg),
	}
	mcpServer.AddTool(tool, cfg.Handler(deps))

	if deps.Logger != nil {
		deps.Logger.Debug("registered tool",
			slog.String("name", cfg.Name),
			slog.String("category", cfg.Category))
	}
	return true
}

// buildAnnotations derives annotation defaults from the tool's access
// level and merges any per-tool overrides, with overrides winning per
// field.
func buildAnnotations(cfg ToolConfig) mcp.ToolAnnotation {
	ann := mcp.ToolAnnotation{
		ReadOnlyHint:    boolPtr(cfg.Access == config.AccessReadOnly),
		DestructiveHint: boolPtr(false),
	}
	if o := cfg.Annotations; o != nil {
		if o.Title != "" {
			ann.Title = o.Title
		}
		if o.ReadOnlyHint != nil {
			ann.ReadOnlyHint = o.ReadOnlyHint
		}
		if o.DestructiveHint != nil {
			ann.DestructiveHint = o.DestructiveHint
		}
		if o.IdempotentHint != nil {
			ann.IdempotentHint = o.IdempotentHint
		}
		if o.OpenWorldHint != nil {
			ann.OpenWorldHint = o.OpenWorldHint
		}
	}
	return ann
}

// BuildToolSchema creates the MCP input schema from the param tables.
func BuildToolSchema(cfg ToolConfig) mcp.ToolInputSchema {
	properties := make(map[string]any)

	for _, param := range cfg.RequiredParams {
		properties[param] = map[string]any{
			"type":        "string",
			"description": paramDescription(cfg, param),
		}
	}

	for param, paramType := range cfg.OptionalParams {
		schema := map[string]any{
			"description": paramDescription(cfg, param),
		}
		switch paramType {
		case "array":
			schema["type"] = "array"
			schema["items"] = map[string]any{"type": "string"}
		case "boolean":
			schema["type"] = "boolean"
		case "object":
			schema["type"] = "object"
		case "number":
			schema["type"] = "number"
		case "integer":
			schema["type"] = "integer"
		default:
			schema["type"] = "string"
		}
		properties[param] = schema
	}

	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: properties,
		Required:   cfg.RequiredParams,
	}
}

var paramDescriptions = map[string]string{
	"server":        "Server name or id",
	"stack":         "Stack name or id",
	"deployment":    "Deployment name or id",
	"build":         "Build name or id",
	"repo":          "Repo name or id",
	"procedure":     "Procedure name or id",
	"action":        "Action name or id",
	"sync":          "Resource sync name or id",
	"container":     "Container name",
	"tail":          "Number of log lines to return from the end (default 100)",
	"id":            "Resource id",
	"name":          "Resource name",
	"config":        "Partial resource config to apply",
	"resource_type": "Resource kind to write",
}

func paramDescription(cfg ToolConfig, param string) string {
	if desc, ok := cfg.ParamDescriptions[param]; ok {
		return desc
	}
	if desc, ok := paramDescriptions[param]; ok {
		return desc
	}
	return param
}

func boolPtr(b bool) *bool {
	return &b
}
