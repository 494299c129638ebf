package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/komodo-tools/komodo-mcp/pkg/config"
	"github.com/komodo-tools/komodo-mcp/pkg/komodo"
)

const defaultLogTail = 100

var containerToolConfigs = []ToolConfig{
	{
		Name:           "list_containers",
		Description:    "List the docker containers on a server",
		Category:       CategoryContainers,
		Access:         config.AccessReadOnly,
		RequiredParams: []string{"server"},
		Handler:        listContainersHandler,
	},
	{
		Name:           "get_container_log",
		Description:    "Get the log tail of a container on a server",
		Category:       CategoryContainers,
		Access:         config.AccessReadOnly,
		RequiredParams: []string{"server", "container"},
		OptionalParams: map[string]any{"tail": "integer"},
		Handler:        getContainerLogHandler,
	},
	{
		Name:           "inspect_container",
		Description:    "Return the full docker inspect document for a container, as pretty-printed JSON",
		Category:       CategoryContainers,
		Access:         config.AccessReadOnly,
		RequiredParams: []string{"server", "container"},
		Handler:        inspectContainerHandler,
	},
	{
		Name:           "start_container",
		Description:    "Start a container on a server",
		Category:       CategoryContainers,
		Access:         config.AccessReadExecute,
		RequiredParams: []string{"server", "container"},
		Handler:        containerActionHandler("starting container", (*komodo.Client).StartContainer),
	},
	{
		Name:           "stop_container",
		Description:    "Stop a container on a server",
		Category:       CategoryContainers,
		Access:         config.AccessReadExecute,
		RequiredParams: []string{"server", "container"},
		Handler:        containerActionHandler("stopping container", (*komodo.Client).StopContainer),
	},
	{
		Name:           "restart_container",
		Description:    "Restart a container on a server",
		Category:       CategoryContainers,
		Access:         config.AccessReadExecute,
		RequiredParams: []string{"server", "container"},
		Handler:        containerActionHandler("restarting container", (*komodo.Client).RestartContainer),
	},
}

func listContainersHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		serverName, err := req.RequireString("server")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		containers, err := deps.Client.ListContainers(ctx, serverName)
		if err != nil {
			return WrapError(deps.Redactor, "listing containers", err), nil
		}
		return mcp.NewToolResultText(formatContainerList(serverName, containers)), nil
	}
}

func getContainerLogHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		serverName, err := req.RequireString("server")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		container, err := req.RequireString("container")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		tail := req.GetInt("tail", defaultLogTail)

		log, err := deps.Client.GetContainerLog(ctx, serverName, container, tail)
		if err != nil {
			return WrapError(deps.Redactor, "getting container log", err), nil
		}
		return mcp.NewToolResultText(formatLog(container, log)), nil
	}
}

// inspectContainerHandler is the one tool that returns structured data
// verbatim: the inspect document is too irregular to summarize without
// losing the fields callers ask for.
func inspectContainerHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		serverName, err := req.RequireString("server")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		container, err := req.RequireString("container")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		raw, err := deps.Client.InspectContainer(ctx, serverName, container)
		if err != nil {
			return WrapError(deps.Redactor, "inspecting container", err), nil
		}

		var pretty bytes.Buffer
		if err := json.Indent(&pretty, raw, "", "  "); err != nil {
			return mcp.NewToolResultText(string(raw)), nil
		}
		return mcp.NewToolResultText(pretty.String()), nil
	}
}

func formatContainerList(server string, containers []komodo.Container) string {
	if len(containers) == 0 {
		return fmt.Sprintf("No containers on %s.", server)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Containers on %s (%d):\n", server, len(containers))
	for _, c := range containers {
		fmt.Fprintf(&b, "- %s [%s]", c.Name, c.State)
		if c.Image != "" {
			fmt.Fprintf(&b, " image=%s", c.Image)
		}
		if c.Status != "" {
			fmt.Fprintf(&b, " (%s)", c.Status)
		}
		b.WriteString("\n")
	}
	return finish(&b)
}

func formatLog(container string, log *komodo.Log) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Log for %s:\n", container)
	if out := strings.TrimSpace(log.Stdout); out != "" {
		b.WriteString("--- stdout ---\n" + out + "\n")
	}
	if out := strings.TrimSpace(log.Stderr); out != "" {
		b.WriteString("--- stderr ---\n" + out + "\n")
	}
	if strings.TrimSpace(log.Stdout) == "" && strings.TrimSpace(log.Stderr) == "" {
		b.WriteString("(empty)\n")
	}
	return finish(&b)
}
