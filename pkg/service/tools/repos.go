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

var repoToolConfigs = []ToolConfig{
	{
		Name:        "list_repos",
		Description: "List all repos with their state and last pull time",
		Category:    CategoryRepos,
		Access:      config.AccessReadOnly,
		Handler:     listReposHandler,
	},
	{
		Name:           "get_repo",
		Description:    "Get a repo's configuration and which operations are currently running on it",
		Category:       CategoryRepos,
		Access:         config.AccessReadOnly,
		RequiredParams: []string{"repo"},
		Handler:        getRepoHandler,
	},
	{
		Name:           "clone_repo",
		Description:    "Clone a repo onto its configured server",
		Category:       CategoryRepos,
		Access:         config.AccessReadExecute,
		RequiredParams: []string{"repo"},
		Handler:        executeHandler("cloning repo", "repo", (*komodo.Client).CloneRepo),
	},
	{
		Name:           "pull_repo",
		Description:    "Pull the latest changes for a repo",
		Category:       CategoryRepos,
		Access:         config.AccessReadExecute,
		RequiredParams: []string{"repo"},
		Handler:        executeHandler("pulling repo", "repo", (*komodo.Client).PullRepo),
	},
}

func listReposHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		repos, err := deps.Client.ListRepos(ctx)
		if err != nil {
			return WrapError(deps.Redactor, "listing repos", err), nil
		}
		return mcp.NewToolResultText(formatRepoList(repos)), nil
	}
}

func getRepoHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("repo")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var (
			repo  *komodo.Repo
			state *komodo.RepoActionState
		)
		group, groupCtx := errgroup.WithContext(ctx)
		group.Go(func() error {
			var err error
			repo, err = deps.Client.GetRepo(groupCtx, name)
			return err
		})
		group.Go(func() error {
			var err error
			state, err = deps.Client.GetRepoActionState(groupCtx, name)
			return err
		})
		if err := group.Wait(); err != nil {
			return WrapError(deps.Redactor, "getting repo", err), nil
		}
		return mcp.NewToolResultText(formatRepo(repo, state)), nil
	}
}

func formatRepoList(repos []komodo.RepoListItem) string {
	if len(repos) == 0 {
		return "No repos found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Repos (%d):\n", len(repos))
	for _, r := range repos {
		fmt.Fprintf(&b, "- %s", r.Name)
		if r.Info.State != "" {
			fmt.Fprintf(&b, " [%s]", r.Info.State)
		}
		if r.Info.LastPulledAt > 0 {
			fmt.Fprintf(&b, " pulled=%s", time.UnixMilli(r.Info.LastPulledAt).UTC().Format(time.RFC3339))
		}
		b.WriteString(tagSuffix(r.Tags) + "\n")
	}
	return finish(&b)
}

func formatRepo(r *komodo.Repo, state *komodo.RepoActionState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Repo: %s (id %s)\n", r.Name, r.ID)
	line(&b, "Description", r.Description)
	line(&b, "Server", r.Config.ServerID)
	line(&b, "Source", r.Config.Repo)
	line(&b, "Branch", r.Config.Branch)
	if len(r.Tags) > 0 {
		line(&b, "Tags", strings.Join(r.Tags, ", "))
	}
	line(&b, "In progress", inProgress(map[string]bool{
		"cloning": state.Cloning,
		"pulling": state.Pulling,
	}))
	return finish(&b)
}
