// Package komodo is a minimal client for the Komodo core API. The API
// exposes three verb families as JSON POST endpoints: /read for
// queries, /execute for long-running operations (which return an
// Update tracking record), and /write for resource mutation. Every
// call posts an envelope of the form {"type": ..., "params": ...} and
// authenticates with the X-Api-Key / X-Api-Secret header pair.
//
// The client performs no retries and sets no timeout of its own; a
// failed call surfaces immediately to the tool layer.
package komodo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/komodo-tools/komodo-mcp/pkg/redact"
)

// Client talks to a single Komodo core instance.
type Client struct {
	base   string
	key    string
	secret string
	http   *http.Client
}

// New builds a Client. Both credentials are registered with the
// redactor before the client exists, so no request or error path can
// observe them unredacted.
func New(url, key, secret string, red *redact.Redactor) *Client {
	red.Register(key)
	red.Register(secret)
	return &Client{
		base:   strings.TrimRight(url, "/"),
		key:    key,
		secret: secret,
		http:   &http.Client{},
	}
}

// Read issues a query-class call and decodes the response into out.
func (c *Client) Read(ctx context.Context, reqType string, params, out any) error {
	return c.call(ctx, "/read", reqType, params, out)
}

// Write issues a mutation-class call and decodes the response into out.
func (c *Client) Write(ctx context.Context, reqType string, params, out any) error {
	return c.call(ctx, "/write", reqType, params, out)
}

// Execute issues an operation-class call and returns its Update record.
func (c *Client) Execute(ctx context.Context, reqType string, params any) (*Update, error) {
	var update Update
	if err := c.call(ctx, "/execute", reqType, params, &update); err != nil {
		return nil, err
	}
	return &update, nil
}

func (c *Client) call(ctx context.Context, path, reqType string, params, out any) error {
	if params == nil {
		params = emptyParams
	}
	body, err := json.Marshal(request{Type: reqType, Params: params})
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s request", reqType)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "failed to build %s request", reqType)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.key)
	req.Header.Set("X-Api-Secret", c.secret)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s request failed", reqType)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s response", reqType)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("%s failed: %s", reqType, apiError(resp.StatusCode, data))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "failed to decode %s response", reqType)
	}
	return nil
}

// apiError extracts the error message the core puts in failure bodies,
// falling back to the raw body or bare status code.
func apiError(status int, body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return fmt.Sprintf("%s (status %d)", payload.Error, status)
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 {
		return fmt.Sprintf("%s (status %d)", trimmed, status)
	}
	return fmt.Sprintf("status %d", status)
}

// --- core reads ---

func (c *Client) GetVersion(ctx context.Context) (*Version, error) {
	var out Version
	if err := c.Read(ctx, "GetVersion", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCoreInfo(ctx context.Context) (*CoreInfo, error) {
	var out CoreInfo
	if err := c.Read(ctx, "GetCoreInfo", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	var out []Tag
	err := c.Read(ctx, "ListTags", nil, &out)
	return out, err
}

func (c *Client) ListAlerts(ctx context.Context) (*AlertList, error) {
	var out AlertList
	if err := c.Read(ctx, "ListAlerts", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListVariables(ctx context.Context) ([]Variable, error) {
	var out []Variable
	err := c.Read(ctx, "ListVariables", nil, &out)
	return out, err
}

// --- servers ---

func (c *Client) ListServers(ctx context.Context) ([]ServerListItem, error) {
	var out []ServerListItem
	err := c.Read(ctx, "ListServers", nil, &out)
	return out, err
}

func (c *Client) GetServer(ctx context.Context, server string) (*Server, error) {
	var out Server
	if err := c.Read(ctx, "GetServer", map[string]any{"server": server}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetServerState(ctx context.Context, server string) (*ServerState, error) {
	var out ServerState
	if err := c.Read(ctx, "GetServerState", map[string]any{"server": server}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetSystemStats(ctx context.Context, server string) (*SystemStats, error) {
	var out SystemStats
	if err := c.Read(ctx, "GetSystemStats", map[string]any{"server": server}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetSystemInformation(ctx context.Context, server string) (*SystemInformation, error) {
	var out SystemInformation
	if err := c.Read(ctx, "GetSystemInformation", map[string]any{"server": server}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- stacks ---

func (c *Client) ListStacks(ctx context.Context) ([]StackListItem, error) {
	var out []StackListItem
	err := c.Read(ctx, "ListStacks", nil, &out)
	return out, err
}

func (c *Client) GetStack(ctx context.Context, stack string) (*Stack, error) {
	var out Stack
	if err := c.Read(ctx, "GetStack", map[string]any{"stack": stack}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetStackActionState(ctx context.Context, stack string) (*StackActionState, error) {
	var out StackActionState
	if err := c.Read(ctx, "GetStackActionState", map[string]any{"stack": stack}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeployStack(ctx context.Context, stack string) (*Update, error) {
	return c.Execute(ctx, "DeployStack", map[string]any{"stack": stack})
}

func (c *Client) StartStack(ctx context.Context, stack string) (*Update, error) {
	return c.Execute(ctx, "StartStack", map[string]any{"stack": stack})
}

func (c *Client) RestartStack(ctx context.Context, stack string) (*Update, error) {
	return c.Execute(ctx, "RestartStack", map[string]any{"stack": stack})
}

func (c *Client) StopStack(ctx context.Context, stack string) (*Update, error) {
	return c.Execute(ctx, "StopStack", map[string]any{"stack": stack})
}

func (c *Client) DestroyStack(ctx context.Context, stack string) (*Update, error) {
	return c.Execute(ctx, "DestroyStack", map[string]any{"stack": stack})
}

// --- deployments ---

func (c *Client) ListDeployments(ctx context.Context) ([]DeploymentListItem, error) {
	var out []DeploymentListItem
	err := c.Read(ctx, "ListDeployments", nil, &out)
	return out, err
}

func (c *Client) GetDeployment(ctx context.Context, deployment string) (*Deployment, error) {
	var out Deployment
	if err := c.Read(ctx, "GetDeployment", map[string]any{"deployment": deployment}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetDeploymentActionState(ctx context.Context, deployment string) (*DeploymentActionState, error) {
	var out DeploymentActionState
	if err := c.Read(ctx, "GetDeploymentActionState", map[string]any{"deployment": deployment}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Deploy(ctx context.Context, deployment string) (*Update, error) {
	return c.Execute(ctx, "Deploy", map[string]any{"deployment": deployment})
}

func (c *Client) StartDeployment(ctx context.Context, deployment string) (*Update, error) {
	return c.Execute(ctx, "StartDeployment", map[string]any{"deployment": deployment})
}

func (c *Client) StopDeployment(ctx context.Context, deployment string) (*Update, error) {
	return c.Execute(ctx, "StopDeployment", map[string]any{"deployment": deployment})
}

func (c *Client) DestroyDeployment(ctx context.Context, deployment string) (*Update, error) {
	return c.Execute(ctx, "DestroyDeployment", map[string]any{"deployment": deployment})
}

// --- builds ---

func (c *Client) ListBuilds(ctx context.Context) ([]BuildListItem, error) {
	var out []BuildListItem
	err := c.Read(ctx, "ListBuilds", nil, &out)
	return out, err
}

func (c *Client) GetBuild(ctx context.Context, build string) (*Build, error) {
	var out Build
	if err := c.Read(ctx, "GetBuild", map[string]any{"build": build}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetBuildActionState(ctx context.Context, build string) (*BuildActionState, error) {
	var out BuildActionState
	if err := c.Read(ctx, "GetBuildActionState", map[string]any{"build": build}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RunBuild(ctx context.Context, build string) (*Update, error) {
	return c.Execute(ctx, "RunBuild", map[string]any{"build": build})
}

func (c *Client) CancelBuild(ctx context.Context, build string) (*Update, error) {
	return c.Execute(ctx, "CancelBuild", map[string]any{"build": build})
}

// --- repos ---

func (c *Client) ListRepos(ctx context.Context) ([]RepoListItem, error) {
	var out []RepoListItem
	err := c.Read(ctx, "ListRepos", nil, &out)
	return out, err
}

func (c *Client) GetRepo(ctx context.Context, repo string) (*Repo, error) {
	var out Repo
	if err := c.Read(ctx, "GetRepo", map[string]any{"repo": repo}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetRepoActionState(ctx context.Context, repo string) (*RepoActionState, error) {
	var out RepoActionState
	if err := c.Read(ctx, "GetRepoActionState", map[string]any{"repo": repo}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CloneRepo(ctx context.Context, repo string) (*Update, error) {
	return c.Execute(ctx, "CloneRepo", map[string]any{"repo": repo})
}

func (c *Client) PullRepo(ctx context.Context, repo string) (*Update, error) {
	return c.Execute(ctx, "PullRepo", map[string]any{"repo": repo})
}

// --- procedures ---

func (c *Client) ListProcedures(ctx context.Context) ([]ProcedureListItem, error) {
	var out []ProcedureListItem
	err := c.Read(ctx, "ListProcedures", nil, &out)
	return out, err
}

func (c *Client) GetProcedure(ctx context.Context, procedure string) (*Procedure, error) {
	var out Procedure
	if err := c.Read(ctx, "GetProcedure", map[string]any{"procedure": procedure}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProcedureActionState(ctx context.Context, procedure string) (*ProcedureActionState, error) {
	var out ProcedureActionState
	if err := c.Read(ctx, "GetProcedureActionState", map[string]any{"procedure": procedure}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RunProcedure(ctx context.Context, procedure string) (*Update, error) {
	return c.Execute(ctx, "RunProcedure", map[string]any{"procedure": procedure})
}

// --- actions ---

func (c *Client) ListActions(ctx context.Context) ([]ActionListItem, error) {
	var out []ActionListItem
	err := c.Read(ctx, "ListActions", nil, &out)
	return out, err
}

func (c *Client) GetAction(ctx context.Context, action string) (*Action, error) {
	var out Action
	if err := c.Read(ctx, "GetAction", map[string]any{"action": action}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetActionActionState(ctx context.Context, action string) (*ActionActionState, error) {
	var out ActionActionState
	if err := c.Read(ctx, "GetActionActionState", map[string]any{"action": action}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RunAction(ctx context.Context, action string) (*Update, error) {
	return c.Execute(ctx, "RunAction", map[string]any{"action": action})
}

// --- resource syncs ---

func (c *Client) ListSyncs(ctx context.Context) ([]SyncListItem, error) {
	var out []SyncListItem
	err := c.Read(ctx, "ListResourceSyncs", nil, &out)
	return out, err
}

func (c *Client) GetSync(ctx context.Context, sync string) (*ResourceSync, error) {
	var out ResourceSync
	if err := c.Read(ctx, "GetResourceSync", map[string]any{"sync": sync}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetSyncActionState(ctx context.Context, sync string) (*SyncActionState, error) {
	var out SyncActionState
	if err := c.Read(ctx, "GetResourceSyncActionState", map[string]any{"sync": sync}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RunSync(ctx context.Context, sync string) (*Update, error) {
	return c.Execute(ctx, "RunSync", map[string]any{"sync": sync})
}

// --- containers ---

func (c *Client) ListContainers(ctx context.Context, server string) ([]Container, error) {
	var out []Container
	err := c.Read(ctx, "ListDockerContainers", map[string]any{"server": server}, &out)
	return out, err
}

func (c *Client) GetContainerLog(ctx context.Context, server, container string, tail int) (*Log, error) {
	var out Log
	params := map[string]any{"server": server, "container": container, "tail": tail}
	if err := c.Read(ctx, "GetContainerLog", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InspectContainer returns the raw inspection document. This is the
// one read whose payload is passed through to the caller verbatim
// instead of being formatted.
func (c *Client) InspectContainer(ctx context.Context, server, container string) (json.RawMessage, error) {
	var out json.RawMessage
	params := map[string]any{"server": server, "container": container}
	if err := c.Read(ctx, "InspectDockerContainer", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) StartContainer(ctx context.Context, server, container string) (*Update, error) {
	return c.Execute(ctx, "StartContainer", map[string]any{"server": server, "container": container})
}

func (c *Client) StopContainer(ctx context.Context, server, container string) (*Update, error) {
	return c.Execute(ctx, "StopContainer", map[string]any{"server": server, "container": container})
}

func (c *Client) RestartContainer(ctx context.Context, server, container string) (*Update, error) {
	return c.Execute(ctx, "RestartContainer", map[string]any{"server": server, "container": container})
}

// --- updates ---

func (c *Client) ListUpdates(ctx context.Context) (*UpdateList, error) {
	var out UpdateList
	if err := c.Read(ctx, "ListUpdates", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetUpdate(ctx context.Context, id string) (*Update, error) {
	var out Update
	if err := c.Read(ctx, "GetUpdate", map[string]any{"id": id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
