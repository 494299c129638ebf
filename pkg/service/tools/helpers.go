package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/komodo-tools/komodo-mcp/pkg/komodo"
	"github.com/komodo-tools/komodo-mcp/pkg/redact"
)

// WrapError normalizes any failure into a sanitized error result. It
// never panics, whatever shape err has.
func WrapError(red *redact.Redactor, context string, err any) *mcp.CallToolResult {
	return mcp.NewToolResultError("Error " + context + ": " + red.Sanitize(normalizeError(err)))
}

// normalizeError turns an arbitrary value into a message string. JSON
// marshalling handles structured values; values it cannot serialize
// (cycles, channels, functions) fall back to their type name, which is
// always safe to format.
func normalizeError(err any) string {
	switch v := err.(type) {
	case nil:
		return "unknown error"
	case error:
		return v.Error()
	case string:
		return v
	default:
		if data, jsonErr := json.Marshal(v); jsonErr == nil {
			return string(data)
		}
		return fmt.Sprintf("unserializable %T value", v)
	}
}

// executeHandler builds the handler shared by every execute-class tool
// that targets a single resource: require the target argument, run the
// operation, format its update record.
func executeHandler(opContext, param string, run func(*komodo.Client, context.Context, string) (*komodo.Update, error)) func(ToolDependencies) server.ToolHandlerFunc {
	return func(deps ToolDependencies) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			target, err := req.RequireString(param)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			update, err := run(deps.Client, ctx, target)
			if err != nil {
				return WrapError(deps.Redactor, opContext, err), nil
			}
			return mcp.NewToolResultText(formatUpdate(update)), nil
		}
	}
}

// containerActionHandler is the execute-handler variant for container
// operations, which address a container on a specific server.
func containerActionHandler(opContext string, run func(*komodo.Client, context.Context, string, string) (*komodo.Update, error)) func(ToolDependencies) server.ToolHandlerFunc {
	return func(deps ToolDependencies) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			serverName, err := req.RequireString("server")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			container, err := req.RequireString("container")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			update, err := run(deps.Client, ctx, serverName, container)
			if err != nil {
				return WrapError(deps.Redactor, opContext, err), nil
			}
			return mcp.NewToolResultText(formatUpdate(update)), nil
		}
	}
}

// formatUpdate renders the tracking record returned by execute calls.
func formatUpdate(u *komodo.Update) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s update %s\n", u.Operation, u.ID)
	fmt.Fprintf(&b, "Status: %s\n", u.Status)
	if u.Status == "Complete" {
		fmt.Fprintf(&b, "Success: %t\n", u.Success)
	}
	if u.Operator != "" {
		fmt.Fprintf(&b, "Operator: %s\n", u.Operator)
	}
	for _, log := range u.Logs {
		fmt.Fprintf(&b, "Stage %s: ok=%t\n", log.Stage, log.Success)
		if out := strings.TrimSpace(log.Stderr); out != "" {
			fmt.Fprintf(&b, "  stderr: %s\n", out)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// tagSuffix renders a resource's tags for list rows, or nothing.
func tagSuffix(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return " tags=" + strings.Join(tags, ",")
}

// line appends a "Key: value" line, skipping empty values.
func line(b *strings.Builder, key, value string) {
	if value != "" {
		fmt.Fprintf(b, "%s: %s\n", key, value)
	}
}

func finish(b *strings.Builder) string {
	return strings.TrimRight(b.String(), "\n")
}
