package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/komodo-tools/komodo-mcp/pkg/config"
)

var coreToolConfigs = []ToolConfig{
	{
		Name:        "get_version",
		Description: "Get the Komodo core version",
		Category:    CategoryCore,
		Access:      config.AccessReadOnly,
		Handler:     getVersionHandler,
	},
	{
		Name:        "get_core_info",
		Description: "Get Komodo core instance settings (timezone, monitoring interval, webhook base)",
		Category:    CategoryCore,
		Access:      config.AccessReadOnly,
		Handler:     getCoreInfoHandler,
	},
	{
		Name:        "list_tags",
		Description: "List all resource tags",
		Category:    CategoryCore,
		Access:      config.AccessReadOnly,
		Handler:     listTagsHandler,
	},
	{
		Name:        "list_alerts",
		Description: "List open and recent alerts",
		Category:    CategoryCore,
		Access:      config.AccessReadOnly,
		Handler:     listAlertsHandler,
	},
	{
		Name:        "list_variables",
		Description: "List global variables (secret values are masked by the core)",
		Category:    CategoryCore,
		Access:      config.AccessReadOnly,
		Handler:     listVariablesHandler,
	},
}

func getVersionHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		version, err := deps.Client.GetVersion(ctx)
		if err != nil {
			return WrapError(deps.Redactor, "getting version", err), nil
		}
		return mcp.NewToolResultText("Komodo core version: " + version.Version), nil
	}
}

func getCoreInfoHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		info, err := deps.Client.GetCoreInfo(ctx)
		if err != nil {
			return WrapError(deps.Redactor, "getting core info", err), nil
		}
		var b strings.Builder
		b.WriteString("Komodo core info:\n")
		line(&b, "Timezone", info.Timezone)
		line(&b, "Monitoring interval", info.MonitoringInterval)
		line(&b, "Webhook base URL", info.WebhookBaseURL)
		return mcp.NewToolResultText(finish(&b)), nil
	}
}

func listTagsHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tags, err := deps.Client.ListTags(ctx)
		if err != nil {
			return WrapError(deps.Redactor, "listing tags", err), nil
		}
		if len(tags) == 0 {
			return mcp.NewToolResultText("No tags found."), nil
		}
		names := make([]string, 0, len(tags))
		for _, tag := range tags {
			names = append(names, tag.Name)
		}
		return mcp.NewToolResultText(fmt.Sprintf("Tags (%d): %s", len(tags), strings.Join(names, ", "))), nil
	}
}

func listAlertsHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := deps.Client.ListAlerts(ctx)
		if err != nil {
			return WrapError(deps.Redactor, "listing alerts", err), nil
		}
		if len(list.Alerts) == 0 {
			return mcp.NewToolResultText("No alerts."), nil
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Alerts (%d):\n", len(list.Alerts))
		for _, a := range list.Alerts {
			status := "open"
			if a.Resolved {
				status = "resolved"
			}
			fmt.Fprintf(&b, "- [%s] %s", a.Level, status)
			if a.Target.ID != "" {
				fmt.Fprintf(&b, " target=%s/%s", a.Target.Type, a.Target.ID)
			}
			if a.Ts > 0 {
				fmt.Fprintf(&b, " at=%s", time.UnixMilli(a.Ts).UTC().Format(time.RFC3339))
			}
			b.WriteString("\n")
		}
		return mcp.NewToolResultText(finish(&b)), nil
	}
}

func listVariablesHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		variables, err := deps.Client.ListVariables(ctx)
		if err != nil {
			return WrapError(deps.Redactor, "listing variables", err), nil
		}
		if len(variables) == 0 {
			return mcp.NewToolResultText("No variables found."), nil
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Variables (%d):\n", len(variables))
		for _, v := range variables {
			if v.IsSecret {
				fmt.Fprintf(&b, "- %s = <secret>\n", v.Name)
				continue
			}
			fmt.Fprintf(&b, "- %s = %s\n", v.Name, v.Value)
		}
		return mcp.NewToolResultText(finish(&b)), nil
	}
}
