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

var buildToolConfigs = []ToolConfig{
	{
		Name:        "list_builds",
		Description: "List all builds with their version and last build time",
		Category:    CategoryBuilds,
		Access:      config.AccessReadOnly,
		Handler:     listBuildsHandler,
	},
	{
		Name:           "get_build",
		Description:    "Get a build's configuration and whether it is currently building",
		Category:       CategoryBuilds,
		Access:         config.AccessReadOnly,
		RequiredParams: []string{"build"},
		Handler:        getBuildHandler,
	},
	{
		Name:           "run_build",
		Description:    "Run a build, producing and pushing a new image version",
		Category:       CategoryBuilds,
		Access:         config.AccessReadExecute,
		RequiredParams: []string{"build"},
		Handler:        executeHandler("running build", "build", (*komodo.Client).RunBuild),
	},
	{
		Name:           "cancel_build",
		Description:    "Cancel an in-progress build",
		Category:       CategoryBuilds,
		Access:         config.AccessReadExecute,
		RequiredParams: []string{"build"},
		Handler:        executeHandler("cancelling build", "build", (*komodo.Client).CancelBuild),
	},
}

func listBuildsHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		builds, err := deps.Client.ListBuilds(ctx)
		if err != nil {
			return WrapError(deps.Redactor, "listing builds", err), nil
		}
		return mcp.NewToolResultText(formatBuildList(builds)), nil
	}
}

func getBuildHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("build")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var (
			build *komodo.Build
			state *komodo.BuildActionState
		)
		group, groupCtx := errgroup.WithContext(ctx)
		group.Go(func() error {
			var err error
			build, err = deps.Client.GetBuild(groupCtx, name)
			return err
		})
		group.Go(func() error {
			var err error
			state, err = deps.Client.GetBuildActionState(groupCtx, name)
			return err
		})
		if err := group.Wait(); err != nil {
			return WrapError(deps.Redactor, "getting build", err), nil
		}
		return mcp.NewToolResultText(formatBuild(build, state)), nil
	}
}

func formatBuildList(builds []komodo.BuildListItem) string {
	if len(builds) == 0 {
		return "No builds found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Builds (%d):\n", len(builds))
	for _, item := range builds {
		fmt.Fprintf(&b, "- %s", item.Name)
		if item.Info.Version != "" {
			fmt.Fprintf(&b, " v%s", item.Info.Version)
		}
		if item.Info.LastBuiltAt > 0 {
			fmt.Fprintf(&b, " built=%s", time.UnixMilli(item.Info.LastBuiltAt).UTC().Format(time.RFC3339))
		}
		b.WriteString(tagSuffix(item.Tags) + "\n")
	}
	return finish(&b)
}

func formatBuild(build *komodo.Build, state *komodo.BuildActionState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Build: %s (id %s)\n", build.Name, build.ID)
	line(&b, "Description", build.Description)
	line(&b, "Builder", build.Config.BuilderID)
	line(&b, "Repo", build.Config.Repo)
	line(&b, "Branch", build.Config.Branch)
	line(&b, "Image", build.Config.ImageName)
	if len(build.Tags) > 0 {
		line(&b, "Tags", strings.Join(build.Tags, ", "))
	}
	if state.Building {
		b.WriteString("In progress: building\n")
	}
	return finish(&b)
}
