package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/komodo-tools/komodo-mcp/pkg/config"
	"github.com/komodo-tools/komodo-mcp/pkg/komodo"
)

// resourceOps carries the typed create/update/delete closures for one
// resource kind, so the dispatch below is exhaustive by construction:
// a kind cannot enter the table without all three verbs.
type resourceOps struct {
	create func(ctx context.Context, c *komodo.Client, name string, cfg map[string]any) (map[string]any, error)
	update func(ctx context.Context, c *komodo.Client, key string, cfg map[string]any) (map[string]any, error)
	delete func(ctx context.Context, c *komodo.Client, key string) (map[string]any, error)

	// keyedByName marks kinds addressed by name instead of id on
	// update and delete.
	keyedByName bool
}

func createOp(reqType string) func(context.Context, *komodo.Client, string, map[string]any) (map[string]any, error) {
	return func(ctx context.Context, c *komodo.Client, name string, cfg map[string]any) (map[string]any, error) {
		var out map[string]any
		params := map[string]any{"name": name}
		if cfg != nil {
			params["config"] = cfg
		}
		err := c.Write(ctx, reqType, params, &out)
		return out, err
	}
}

func updateOp(reqType string) func(context.Context, *komodo.Client, string, map[string]any) (map[string]any, error) {
	return func(ctx context.Context, c *komodo.Client, id string, cfg map[string]any) (map[string]any, error) {
		var out map[string]any
		err := c.Write(ctx, reqType, map[string]any{"id": id, "config": cfg}, &out)
		return out, err
	}
}

func deleteOp(reqType string) func(context.Context, *komodo.Client, string) (map[string]any, error) {
	return func(ctx context.Context, c *komodo.Client, id string) (map[string]any, error) {
		var out map[string]any
		err := c.Write(ctx, reqType, map[string]any{"id": id}, &out)
		return out, err
	}
}

// resourceKinds is the full write surface. Variables are the one kind
// keyed by name rather than id: the core has no variable ids, and
// updates touch only the value.
var resourceKinds = map[string]resourceOps{
	"server": {
		create: createOp("CreateServer"),
		update: updateOp("UpdateServer"),
		delete: deleteOp("DeleteServer"),
	},
	"stack": {
		create: createOp("CreateStack"),
		update: updateOp("UpdateStack"),
		delete: deleteOp("DeleteStack"),
	},
	"deployment": {
		create: createOp("CreateDeployment"),
		update: updateOp("UpdateDeployment"),
		delete: deleteOp("DeleteDeployment"),
	},
	"build": {
		create: createOp("CreateBuild"),
		update: updateOp("UpdateBuild"),
		delete: deleteOp("DeleteBuild"),
	},
	"repo": {
		create: createOp("CreateRepo"),
		update: updateOp("UpdateRepo"),
		delete: deleteOp("DeleteRepo"),
	},
	"procedure": {
		create: createOp("CreateProcedure"),
		update: updateOp("UpdateProcedure"),
		delete: deleteOp("DeleteProcedure"),
	},
	"action": {
		create: createOp("CreateAction"),
		update: updateOp("UpdateAction"),
		delete: deleteOp("DeleteAction"),
	},
	"alerter": {
		create: createOp("CreateAlerter"),
		update: updateOp("UpdateAlerter"),
		delete: deleteOp("DeleteAlerter"),
	},
	"variable": {
		keyedByName: true,
		create: func(ctx context.Context, c *komodo.Client, name string, cfg map[string]any) (map[string]any, error) {
			var out map[string]any
			params := map[string]any{"name": name}
			for k, v := range cfg {
				params[k] = v
			}
			err := c.Write(ctx, "CreateVariable", params, &out)
			return out, err
		},
		update: func(ctx context.Context, c *komodo.Client, name string, cfg map[string]any) (map[string]any, error) {
			var out map[string]any
			err := c.Write(ctx, "UpdateVariableValue", map[string]any{"name": name, "value": cfg["value"]}, &out)
			return out, err
		},
		delete: func(ctx context.Context, c *komodo.Client, name string) (map[string]any, error) {
			var out map[string]any
			err := c.Write(ctx, "DeleteVariable", map[string]any{"name": name}, &out)
			return out, err
		},
	},
}

var writeToolConfigs = []ToolConfig{
	{
		Name: "write_resource",
		Description: "Create, update, or delete a Komodo resource. " +
			"resource_type selects the kind (" + strings.Join(resourceKindNames(), ", ") + "); " +
			"action selects the verb (create, update, delete). " +
			"create requires name; update and delete require id, except variables, which are keyed by name.",
		Category:       CategoryWrite,
		Access:         config.AccessFull,
		RequiredParams: []string{"resource_type", "action"},
		OptionalParams: map[string]any{"id": "string", "name": "string", "config": "object"},
		ParamDescriptions: map[string]string{
			"action": "Write verb: create, update, or delete",
		},
		Annotations: &mcp.ToolAnnotation{DestructiveHint: boolPtr(true)},
		Handler:     writeResourceHandler,
	},
}

func writeResourceHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resourceType, err := req.RequireString("resource_type")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		action, err := req.RequireString("action")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		ops, ok := resourceKinds[resourceType]
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf(
				"unknown resource_type %q: must be one of %s",
				resourceType, strings.Join(resourceKindNames(), ", "))), nil
		}

		name := req.GetString("name", "")
		id := req.GetString("id", "")
		cfg, _ := req.GetArguments()["config"].(map[string]any)

		var (
			result map[string]any
			opErr  error
		)
		switch action {
		case "create":
			if name == "" {
				return mcp.NewToolResultError("create requires a name"), nil
			}
			result, opErr = ops.create(ctx, deps.Client, name, cfg)
		case "update":
			key, errResult := writeKey(ops, resourceType, id, name)
			if errResult != nil {
				return errResult, nil
			}
			result, opErr = ops.update(ctx, deps.Client, key, cfg)
		case "delete":
			key, errResult := writeKey(ops, resourceType, id, name)
			if errResult != nil {
				return errResult, nil
			}
			result, opErr = ops.delete(ctx, deps.Client, key)
		default:
			return mcp.NewToolResultError(fmt.Sprintf(
				"unknown action %q: must be create, update, or delete", action)), nil
		}
		if opErr != nil {
			return WrapError(deps.Redactor, fmt.Sprintf("writing %s", resourceType), opErr), nil
		}
		return mcp.NewToolResultText(formatWriteResult(action, resourceType, name, id, result)), nil
	}
}

// writeKey resolves the update/delete key for a kind, returning an
// error result when the required key is missing.
func writeKey(ops resourceOps, resourceType, id, name string) (string, *mcp.CallToolResult) {
	if ops.keyedByName {
		if name == "" {
			return "", mcp.NewToolResultError(fmt.Sprintf("%s is keyed by name: provide name", resourceType))
		}
		return name, nil
	}
	if id == "" {
		return "", mcp.NewToolResultError(fmt.Sprintf("update and delete require an id for %s", resourceType))
	}
	return id, nil
}

func formatWriteResult(action, resourceType, name, id string, result map[string]any) string {
	past := map[string]string{"create": "Created", "update": "Updated", "delete": "Deleted"}[action]
	key := name
	if key == "" {
		key = id
	}
	if s, ok := result["name"].(string); ok && s != "" {
		key = s
	}
	out := fmt.Sprintf("%s %s %q", past, resourceType, key)
	if s, ok := result["id"].(string); ok && s != "" {
		out += fmt.Sprintf(" (id %s)", s)
	}
	return out + "."
}

func resourceKindNames() []string {
	names := make([]string, 0, len(resourceKinds))
	for name := range resourceKinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
