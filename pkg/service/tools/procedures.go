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

var procedureToolConfigs = []ToolConfig{
	{
		Name:        "list_procedures",
		Description: "List all procedures with their stage count",
		Category:    CategoryProcedures,
		Access:      config.AccessReadOnly,
		Handler:     listProceduresHandler,
	},
	{
		Name:           "get_procedure",
		Description:    "Get a procedure's stages and whether it is currently running",
		Category:       CategoryProcedures,
		Access:         config.AccessReadOnly,
		RequiredParams: []string{"procedure"},
		Handler:        getProcedureHandler,
	},
	{
		Name:           "run_procedure",
		Description:    "Run a procedure, executing its stages in order",
		Category:       CategoryProcedures,
		Access:         config.AccessReadExecute,
		RequiredParams: []string{"procedure"},
		Handler:        executeHandler("running procedure", "procedure", (*komodo.Client).RunProcedure),
	},
}

func listProceduresHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		procedures, err := deps.Client.ListProcedures(ctx)
		if err != nil {
			return WrapError(deps.Redactor, "listing procedures", err), nil
		}
		return mcp.NewToolResultText(formatProcedureList(procedures)), nil
	}
}

func getProcedureHandler(deps ToolDependencies) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("procedure")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var (
			procedure *komodo.Procedure
			state     *komodo.ProcedureActionState
		)
		group, groupCtx := errgroup.WithContext(ctx)
		group.Go(func() error {
			var err error
			procedure, err = deps.Client.GetProcedure(groupCtx, name)
			return err
		})
		group.Go(func() error {
			var err error
			state, err = deps.Client.GetProcedureActionState(groupCtx, name)
			return err
		})
		if err := group.Wait(); err != nil {
			return WrapError(deps.Redactor, "getting procedure", err), nil
		}
		return mcp.NewToolResultText(formatProcedure(procedure, state)), nil
	}
}

func formatProcedureList(procedures []komodo.ProcedureListItem) string {
	if len(procedures) == 0 {
		return "No procedures found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Procedures (%d):\n", len(procedures))
	for _, p := range procedures {
		fmt.Fprintf(&b, "- %s", p.Name)
		if p.Info.Stages > 0 {
			fmt.Fprintf(&b, " stages=%d", p.Info.Stages)
		}
		if p.Info.State != "" {
			fmt.Fprintf(&b, " [%s]", p.Info.State)
		}
		b.WriteString(tagSuffix(p.Tags) + "\n")
	}
	return finish(&b)
}

func formatProcedure(p *komodo.Procedure, state *komodo.ProcedureActionState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Procedure: %s (id %s)\n", p.Name, p.ID)
	line(&b, "Description", p.Description)
	if len(p.Config.Stages) > 0 {
		b.WriteString("Stages:\n")
		for i, stage := range p.Config.Stages {
			status := "enabled"
			if !stage.Enabled {
				status = "disabled"
			}
			fmt.Fprintf(&b, "  %d. %s (%s)\n", i+1, stage.Name, status)
		}
	}
	if len(p.Tags) > 0 {
		line(&b, "Tags", strings.Join(p.Tags, ", "))
	}
	if state.Running {
		b.WriteString("In progress: running\n")
	}
	return finish(&b)
}
