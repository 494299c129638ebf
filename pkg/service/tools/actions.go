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

var actionToolConfigs = []ToolConfig{
	{
		Name:        "list_actions",
		Description: "List all actions with their state and last run time",
		Category:    CategoryActions,
		Access:      config.AccessReadOnly,
		Handler:     listActionsHandler,
	},
	{
		Name:           "get_action",
		Description:    "Get an action's details and whether it is currently running",
		Category:       CategoryActions,
		Access:         config.AccessReadOnly,
		RequiredParams: []string{"action"},
		Handler:        getActionHandler,
	},
	{
		Name:           "run_action",
		Description:    "Run an action's script on the Komodo core",
		Category:       CategoryActions,
		Access:         config.AccessReadExecute,
		RequiredParams: []string{"action"},
		Handler:        executeHandler("running action", "action", (*komodo.Client).RunAction),
	},
}

func listActionsHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		actions, err := deps.Client.ListActions(ctx)
		if err != nil {
			return WrapError(deps.Redactor, "listing actions", err), nil
		}
		return mcp.NewToolResultText(formatActionList(actions)), nil
	}
}

func getActionHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("action")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var (
			action *komodo.Action
			state  *komodo.ActionActionState
		)
		group, groupCtx := errgroup.WithContext(ctx)
		group.Go(func() error {
			var err error
			action, err = deps.Client.GetAction(groupCtx, name)
			return err
		})
		group.Go(func() error {
			var err error
			state, err = deps.Client.GetActionActionState(groupCtx, name)
			return err
		})
		if err := group.Wait(); err != nil {
			return WrapError(deps.Redactor, "getting action", err), nil
		}
		return mcp.NewToolResultText(formatAction(action, state)), nil
	}
}

func formatActionList(actions []komodo.ActionListItem) string {
	if len(actions) == 0 {
		return "No actions found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Actions (%d):\n", len(actions))
	for _, a := range actions {
		fmt.Fprintf(&b, "- %s", a.Name)
		if a.Info.State != "" {
			fmt.Fprintf(&b, " [%s]", a.Info.State)
		}
		if a.Info.LastRunAt > 0 {
			fmt.Fprintf(&b, " ran=%s", time.UnixMilli(a.Info.LastRunAt).UTC().Format(time.RFC3339))
		}
		b.WriteString(tagSuffix(a.Tags) + "\n")
	}
	return finish(&b)
}

func formatAction(a *komodo.Action, state *komodo.ActionActionState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Action: %s (id %s)\n", a.Name, a.ID)
	line(&b, "Description", a.Description)
	if len(a.Tags) > 0 {
		line(&b, "Tags", strings.Join(a.Tags, ", "))
	}
	if state.Running {
		b.WriteString("In progress: running\n")
	}
	return finish(&b)
}
