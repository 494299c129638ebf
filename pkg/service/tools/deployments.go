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

var deploymentToolConfigs = []ToolConfig{
	{
		Name:        "list_deployments",
		Description: "List all deployments with their state, image and server",
		Category:    CategoryDeployments,
		Access:      config.AccessReadOnly,
		Handler:     listDeploymentsHandler,
	},
	{
		Name:           "get_deployment",
		Description:    "Get a deployment's configuration and which operations are currently running on it",
		Category:       CategoryDeployments,
		Access:         config.AccessReadOnly,
		RequiredParams: []string{"deployment"},
		Handler:        getDeploymentHandler,
	},
	{
		Name:           "deploy",
		Description:    "Deploy a deployment, pulling its image and recreating the container",
		Category:       CategoryDeployments,
		Access:         config.AccessReadExecute,
		RequiredParams: []string{"deployment"},
		Handler:        executeHandler("deploying", "deployment", (*komodo.Client).Deploy),
	},
	{
		Name:           "start_deployment",
		Description:    "Start a stopped deployment's container",
		Category:       CategoryDeployments,
		Access:         config.AccessReadExecute,
		RequiredParams: []string{"deployment"},
		Handler:        executeHandler("starting deployment", "deployment", (*komodo.Client).StartDeployment),
	},
	{
		Name:           "stop_deployment",
		Description:    "Stop a deployment's container",
		Category:       CategoryDeployments,
		Access:         config.AccessReadExecute,
		RequiredParams: []string{"deployment"},
		Handler:        executeHandler("stopping deployment", "deployment", (*komodo.Client).StopDeployment),
	},
	{
		Name:           "destroy_deployment",
		Description:    "Destroy a deployment, removing its container",
		Category:       CategoryDeployments,
		Access:         config.AccessReadExecute,
		RequiredParams: []string{"deployment"},
		Annotations:    &mcp.ToolAnnotation{DestructiveHint: boolPtr(true)},
		Handler:        executeHandler("destroying deployment", "deployment", (*komodo.Client).DestroyDeployment),
	},
}

func listDeploymentsHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		deployments, err := deps.Client.ListDeployments(ctx)
		if err != nil {
			return WrapError(deps.Redactor, "listing deployments", err), nil
		}
		return mcp.NewToolResultText(formatDeploymentList(deployments)), nil
	}
}

func getDeploymentHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("deployment")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var (
			deployment *komodo.Deployment
			state      *komodo.DeploymentActionState
		)
		group, groupCtx := errgroup.WithContext(ctx)
		group.Go(func() error {
			var err error
			deployment, err = deps.Client.GetDeployment(groupCtx, name)
			return err
		})
		group.Go(func() error {
			var err error
			state, err = deps.Client.GetDeploymentActionState(groupCtx, name)
			return err
		})
		if err := group.Wait(); err != nil {
			return WrapError(deps.Redactor, "getting deployment", err), nil
		}
		return mcp.NewToolResultText(formatDeployment(deployment, state)), nil
	}
}

func formatDeploymentList(deployments []komodo.DeploymentListItem) string {
	if len(deployments) == 0 {
		return "No deployments found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Deployments (%d):\n", len(deployments))
	for _, d := range deployments {
		fmt.Fprintf(&b, "- %s [%s]", d.Name, d.Info.State)
		if d.Info.Image != "" {
			fmt.Fprintf(&b, " image=%s", d.Info.Image)
		}
		if d.Info.ServerID != "" {
			fmt.Fprintf(&b, " server=%s", d.Info.ServerID)
		}
		b.WriteString(tagSuffix(d.Tags) + "\n")
	}
	return finish(&b)
}

func formatDeployment(d *komodo.Deployment, state *komodo.DeploymentActionState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Deployment: %s (id %s)\n", d.Name, d.ID)
	line(&b, "Description", d.Description)
	line(&b, "Server", d.Config.ServerID)
	line(&b, "Image", d.Config.Image)
	line(&b, "Network", d.Config.Network)
	line(&b, "Restart", d.Config.Restart)
	if len(d.Tags) > 0 {
		line(&b, "Tags", strings.Join(d.Tags, ", "))
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
