package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/komodo-tools/komodo-mcp/pkg/config"
	"github.com/komodo-tools/komodo-mcp/pkg/komodo"
)

var updateToolConfigs = []ToolConfig{
	{
		Name:        "list_updates",
		Description: "List recent updates (operation records) across all resources",
		Category:    CategoryUpdates,
		Access:      config.AccessReadOnly,
		Handler:     listUpdatesHandler,
	},
	{
		Name:              "get_update",
		Description:       "Get a single update including its full stage logs",
		Category:          CategoryUpdates,
		Access:            config.AccessReadOnly,
		RequiredParams:    []string{"id"},
		ParamDescriptions: map[string]string{"id": "Update id"},
		Handler:           getUpdateHandler,
	},
}

func listUpdatesHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := deps.Client.ListUpdates(ctx)
		if err != nil {
			return WrapError(deps.Redactor, "listing updates", err), nil
		}
		return mcp.NewToolResultText(formatUpdateList(list)), nil
	}
}

func getUpdateHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		update, err := deps.Client.GetUpdate(ctx, id)
		if err != nil {
			return WrapError(deps.Redactor, "getting update", err), nil
		}
		return mcp.NewToolResultText(formatUpdateDetail(update)), nil
	}
}

func formatUpdateList(list *komodo.UpdateList) string {
	if len(list.Updates) == 0 {
		return "No updates found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Updates (%d):\n", len(list.Updates))
	for _, u := range list.Updates {
		fmt.Fprintf(&b, "- %s %s [%s]", u.ID, u.Operation, u.Status)
		if u.Status == "Complete" {
			fmt.Fprintf(&b, " success=%t", u.Success)
		}
		if u.Target.ID != "" {
			fmt.Fprintf(&b, " target=%s/%s", u.Target.Type, u.Target.ID)
		}
		if u.StartTs > 0 {
			fmt.Fprintf(&b, " at=%s", time.UnixMilli(u.StartTs).UTC().Format(time.RFC3339))
		}
		b.WriteString("\n")
	}
	if list.NextPage > 0 {
		fmt.Fprintf(&b, "More available (next page %d).\n", list.NextPage)
	}
	return finish(&b)
}

func formatUpdateDetail(u *komodo.Update) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Update %s: %s\n", u.ID, u.Operation)
	line(&b, "Status", u.Status)
	fmt.Fprintf(&b, "Success: %t\n", u.Success)
	line(&b, "Operator", u.Operator)
	if u.Target.ID != "" {
		fmt.Fprintf(&b, "Target: %s/%s\n", u.Target.Type, u.Target.ID)
	}
	if u.StartTs > 0 {
		fmt.Fprintf(&b, "Started: %s\n", time.UnixMilli(u.StartTs).UTC().Format(time.RFC3339))
	}
	if u.EndTs > 0 {
		fmt.Fprintf(&b, "Ended: %s\n", time.UnixMilli(u.EndTs).UTC().Format(time.RFC3339))
	}
	for _, log := range u.Logs {
		fmt.Fprintf(&b, "Stage %s: ok=%t\n", log.Stage, log.Success)
		if log.Command != "" {
			fmt.Fprintf(&b, "  $ %s\n", log.Command)
		}
		if out := strings.TrimSpace(log.Stdout); out != "" {
			fmt.Fprintf(&b, "  stdout: %s\n", out)
		}
		if out := strings.TrimSpace(log.Stderr); out != "" {
			fmt.Fprintf(&b, "  stderr: %s\n", out)
		}
	}
	return finish(&b)
}
