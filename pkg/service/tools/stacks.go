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

var stackToolConfigs = []ToolConfig{
	{
		Name:        "list_stacks",
		Description: "List all stacks with their state and server",
		Category:    CategoryStacks,
		Access:      config.AccessReadOnly,
		Handler:     listStacksHandler,
	},
	{
		Name:           "get_stack",
		Description:    "Get a stack's configuration and which operations are currently running on it",
		Category:       CategoryStacks,
		Access:         config.AccessReadOnly,
		RequiredParams: []string{"stack"},
		Handler:        getStackHandler,
	},
	{
		Name:           "deploy_stack",
		Description:    "Deploy a stack (docker compose up)",
		Category:       CategoryStacks,
		Access:         config.AccessReadExecute,
		RequiredParams: []string{"stack"},
		Handler:        executeHandler("deploying stack", "stack", (*komodo.Client).DeployStack),
	},
	{
		Name:           "start_stack",
		Description:    "Start a stopped stack",
		Category:       CategoryStacks,
		Access:         config.AccessReadExecute,
		RequiredParams: []string{"stack"},
		Handler:        executeHandler("starting stack", "stack", (*komodo.Client).StartStack),
	},
	{
		Name:           "restart_stack",
		Description:    "Restart a stack",
		Category:       CategoryStacks,
		Access:         config.AccessReadExecute,
		RequiredParams: []string{"stack"},
		Handler:        executeHandler("restarting stack", "stack", (*komodo.Client).RestartStack),
	},
	{
		Name:           "stop_stack",
		Description:    "Stop a running stack",
		Category:       CategoryStacks,
		Access:         config.AccessReadExecute,
		RequiredParams: []string{"stack"},
		Handler:        executeHandler("stopping stack", "stack", (*komodo.Client).StopStack),
	},
	{
		Name:           "destroy_stack",
		Description:    "Destroy a stack (docker compose down), removing its containers",
		Category:       CategoryStacks,
		Access:         config.AccessReadExecute,
		RequiredParams: []string{"stack"},
		Annotations:    &mcp.ToolAnnotation{DestructiveHint: boolPtr(true)},
		Handler:        executeHandler("destroying stack", "stack", (*komodo.Client).DestroyStack),
	},
}

func listStacksHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stacks, err := deps.Client.ListStacks(ctx)
		if err != nil {
			return WrapError(deps.Redactor, "listing stacks", err), nil
		}
		return mcp.NewToolResultText(formatStackList(stacks)), nil
	}
}

func getStackHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("stack")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var (
			stack *komodo.Stack
			state *komodo.StackActionState
		)
		group, groupCtx := errgroup.WithContext(ctx)
		group.Go(func() error {
			var err error
			stack, err = deps.Client.GetStack(groupCtx, name)
			return err
		})
		group.Go(func() error {
			var err error
			state, err = deps.Client.GetStackActionState(groupCtx, name)
			return err
		})
		if err := group.Wait(); err != nil {
			return WrapError(deps.Redactor, "getting stack", err), nil
		}
		return mcp.NewToolResultText(formatStack(stack, state)), nil
	}
}

func formatStackList(stacks []komodo.StackListItem) string {
	if len(stacks) == 0 {
		return "No stacks found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Stacks (%d):\n", len(stacks))
	for _, s := range stacks {
		fmt.Fprintf(&b, "- %s [%s]", s.Name, s.Info.State)
		if s.Info.ServerID != "" {
			fmt.Fprintf(&b, " server=%s", s.Info.ServerID)
		}
		b.WriteString(tagSuffix(s.Tags) + "\n")
	}
	return finish(&b)
}

func formatStack(s *komodo.Stack, state *komodo.StackActionState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stack: %s (id %s)\n", s.Name, s.ID)
	line(&b, "Description", s.Description)
	line(&b, "Server", s.Config.ServerID)
	line(&b, "Repo", s.Config.Repo)
	line(&b, "Branch", s.Config.Branch)
	if len(s.Config.FilePaths) > 0 {
		line(&b, "Files", strings.Join(s.Config.FilePaths, ", "))
	}
	if len(s.Tags) > 0 {
		line(&b, "Tags", strings.Join(s.Tags, ", "))
	}
	line(&b, "In progress", inProgress(map[string]bool{
		"deploying":  state.Deploying,
		"starting":   state.Starting,
		"restarting": state.Restarting,
		"stopping":   state.Stopping,
		"destroying": state.Destroying,
	}))
	return finish(&b)
}

// inProgress renders the active operations of an action state, or
// empty when the resource is idle.
func inProgress(ops map[string]bool) string {
	var active []string
	for _, name := range []string{"deploying", "starting", "restarting", "stopping", "destroying", "building", "cloning", "pulling", "running", "syncing"} {
		if ops[name] {
			active = append(active, name)
		}
	}
	return strings.Join(active, ", ")
}
