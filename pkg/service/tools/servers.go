package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/komodo-tools/komodo-mcp/pkg/config"
	"github.com/komodo-tools/komodo-mcp/pkg/komodo"
)

var serverToolConfigs = []ToolConfig{
	{
		Name:        "list_servers",
		Description: "List all servers connected to Komodo with their state and address",
		Category:    CategoryServers,
		Access:      config.AccessReadOnly,
		Handler:     listServersHandler,
	},
	{
		Name:           "get_server",
		Description:    "Get a server's configuration and current reachability state",
		Category:       CategoryServers,
		Access:         config.AccessReadOnly,
		RequiredParams: []string{"server"},
		Handler:        getServerHandler,
	},
	{
		Name:           "get_server_stats",
		Description:    "Get CPU, memory and disk usage for a server",
		Category:       CategoryServers,
		Access:         config.AccessReadOnly,
		RequiredParams: []string{"server"},
		Handler:        getServerStatsHandler,
	},
	{
		Name:           "get_system_info",
		Description:    "Get host system information (OS, kernel, CPU) for a server",
		Category:       CategoryServers,
		Access:         config.AccessReadOnly,
		RequiredParams: []string{"server"},
		Handler:        getSystemInfoHandler,
	},
}

func listServersHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		servers, err := deps.Client.ListServers(ctx)
		if err != nil {
			return WrapError(deps.Redactor, "listing servers", err), nil
		}
		return mcp.NewToolResultText(formatServerList(servers)), nil
	}
}

func getServerHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("server")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var (
			srv   *komodo.Server
			state *komodo.ServerState
		)
		group, groupCtx := errgroup.WithContext(ctx)
		group.Go(func() error {
			var err error
			srv, err = deps.Client.GetServer(groupCtx, name)
			return err
		})
		group.Go(func() error {
			var err error
			state, err = deps.Client.GetServerState(groupCtx, name)
			return err
		})
		if err := group.Wait(); err != nil {
			return WrapError(deps.Redactor, "getting server", err), nil
		}
		return mcp.NewToolResultText(formatServer(srv, state)), nil
	}
}

func getServerStatsHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("server")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		stats, err := deps.Client.GetSystemStats(ctx, name)
		if err != nil {
			return WrapError(deps.Redactor, "getting server stats", err), nil
		}
		return mcp.NewToolResultText(formatSystemStats(name, stats)), nil
	}
}

func getSystemInfoHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("server")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		info, err := deps.Client.GetSystemInformation(ctx, name)
		if err != nil {
			return WrapError(deps.Redactor, "getting system info", err), nil
		}
		return mcp.NewToolResultText(formatSystemInformation(name, info)), nil
	}
}

func formatServerList(servers []komodo.ServerListItem) string {
	if len(servers) == 0 {
		return "No servers found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Servers (%d):\n", len(servers))
	for _, s := range servers {
		fmt.Fprintf(&b, "- %s [%s]", s.Name, s.Info.State)
		if s.Info.Address != "" {
			fmt.Fprintf(&b, " address=%s", s.Info.Address)
		}
		b.WriteString(tagSuffix(s.Tags) + "\n")
	}
	return finish(&b)
}

func formatServer(s *komodo.Server, state *komodo.ServerState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Server: %s (id %s)\n", s.Name, s.ID)
	line(&b, "Status", state.Status)
	line(&b, "Description", s.Description)
	line(&b, "Address", s.Config.Address)
	line(&b, "Region", s.Config.Region)
	fmt.Fprintf(&b, "Enabled: %t\n", s.Config.Enabled)
	if len(s.Tags) > 0 {
		line(&b, "Tags", strings.Join(s.Tags, ", "))
	}
	return finish(&b)
}

func formatSystemStats(server string, stats *komodo.SystemStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stats for %s:\n", server)
	fmt.Fprintf(&b, "CPU: %.1f%%\n", stats.CPUPerc)
	fmt.Fprintf(&b, "Memory: %.2f / %.2f GB\n", stats.MemUsedGB, stats.MemTotalGB)
	fmt.Fprintf(&b, "Disk: %.2f / %.2f GB\n", stats.DiskUsedGB, stats.DiskTotalGB)
	return finish(&b)
}

func formatSystemInformation(server string, info *komodo.SystemInformation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "System info for %s:\n", server)
	line(&b, "Host", info.HostName)
	line(&b, "OS", info.OS)
	line(&b, "Kernel", info.Kernel)
	line(&b, "CPU", info.CPUBrand)
	if info.CoreCount > 0 {
		fmt.Fprintf(&b, "Cores: %d\n", info.CoreCount)
	}
	return finish(&b)
}
