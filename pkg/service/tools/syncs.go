package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/komodo-tools/komodo-mcp/pkg/config"
	"github.com/komodo-tools/komodo-mcp/pkg/komodo"
)

var syncToolConfigs = []ToolConfig{
	{
		Name:        "list_syncs",
		Description: "List all resource syncs with their state and last sync time",
		Category:    CategorySyncs,
		Access:      config.AccessReadOnly,
		Handler:     listSyncsHandler,
	},
	{
		Name:           "get_sync",
		Description:    "Get a resource sync's configuration and whether it is currently syncing",
		Category:       CategorySyncs,
		Access:         config.AccessReadOnly,
		RequiredParams: []string{"sync"},
		Handler:        getSyncHandler,
	},
	{
		Name:           "run_sync",
		Description:    "Run a resource sync, applying the declared resources from its repo",
		Category:       CategorySyncs,
		Access:         config.AccessReadExecute,
		RequiredParams: []string{"sync"},
		Handler:        executeHandler("running sync", "sync", (*komodo.Client).RunSync),
	},
}

func listSyncsHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		syncs, err := deps.Client.ListSyncs(ctx)
		if err != nil {
			return WrapError(deps.Redactor, "listing syncs", err), nil
		}
		return mcp.NewToolResultText(formatSyncList(syncs)), nil
	}
}

func getSyncHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("sync")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var (
			sync  *komodo.ResourceSync
			state *komodo.SyncActionState
		)
		group, groupCtx := errgroup.WithContext(ctx)
		group.Go(func() error {
			var err error
			sync, err = deps.Client.GetSync(groupCtx, name)
			return err
		})
		group.Go(func() error {
			var err error
			state, err = deps.Client.GetSyncActionState(groupCtx, name)
			return err
		})
		if err := group.Wait(); err != nil {
			return WrapError(deps.Redactor, "getting sync", err), nil
		}
		return mcp.NewToolResultText(formatSync(sync, state)), nil
	}
}

func formatSyncList(syncs []komodo.SyncListItem) string {
	if len(syncs) == 0 {
		return "No resource syncs found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Resource syncs (%d):\n", len(syncs))
	for _, s := range syncs {
		fmt.Fprintf(&b, "- %s", s.Name)
		if s.Info.State != "" {
			fmt.Fprintf(&b, " [%s]", s.Info.State)
		}
		if s.Info.LastSyncTs > 0 {
			fmt.Fprintf(&b, " synced=%s", time.UnixMilli(s.Info.LastSyncTs).UTC().Format(time.RFC3339))
		}
		b.WriteString(tagSuffix(s.Tags) + "\n")
	}
	return finish(&b)
}

func formatSync(s *komodo.ResourceSync, state *komodo.SyncActionState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Resource sync: %s (id %s)\n", s.Name, s.ID)
	line(&b, "Description", s.Description)
	line(&b, "Repo", s.Config.Repo)
	line(&b, "Branch", s.Config.Branch)
	if len(s.Config.ResourcePaths) > 0 {
		line(&b, "Paths", strings.Join(s.Config.ResourcePaths, ", "))
	}
	if len(s.Tags) > 0 {
		line(&b, "Tags", strings.Join(s.Tags, ", "))
	}
	if state.Syncing {
		b.WriteString("In progress: syncing\n")
	}
	return finish(&b)
}
