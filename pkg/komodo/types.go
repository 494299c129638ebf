package komodo

import "encoding/json"

// Version is the response to the GetVersion read.
type Version struct {
	Version string `json:"version"`
}

// CoreInfo describes the Komodo core instance.
type CoreInfo struct {
	Timezone           string `json:"timezone,omitempty"`
	MonitoringInterval string `json:"monitoring_interval,omitempty"`
	WebhookBaseURL     string `json:"webhook_base_url,omitempty"`
}

// Update is the tracking record returned by every execute call. Komodo
// creates one per long-running operation and appends stage logs as the
// operation progresses.
type Update struct {
	ID        string       `json:"id"`
	Operation string       `json:"operation"`
	Status    string       `json:"status"`
	Success   bool         `json:"success"`
	Operator  string       `json:"operator,omitempty"`
	StartTs   int64        `json:"start_ts,omitempty"`
	EndTs     int64        `json:"end_ts,omitempty"`
	Target    UpdateTarget `json:"target,omitempty"`
	Logs      []UpdateLog  `json:"logs,omitempty"`
}

// UpdateTarget identifies the resource an update operated on.
type UpdateTarget struct {
	Type string `json:"type,omitempty"`
	ID   string `json:"id,omitempty"`
}

// UpdateLog is one stage of an update's execution log.
type UpdateLog struct {
	Stage   string `json:"stage"`
	Command string `json:"command,omitempty"`
	Stdout  string `json:"stdout,omitempty"`
	Stderr  string `json:"stderr,omitempty"`
	Success bool   `json:"success"`
}

// UpdateList is the paged response to the ListUpdates read.
type UpdateList struct {
	Updates  []Update `json:"updates"`
	NextPage int64    `json:"next_page,omitempty"`
}

// ServerListItem is one row of the ListServers response.
type ServerListItem struct {
	ID   string             `json:"id"`
	Name string             `json:"name"`
	Tags []string           `json:"tags,omitempty"`
	Info ServerListItemInfo `json:"info"`
}

type ServerListItemInfo struct {
	State   string `json:"state"`
	Address string `json:"address,omitempty"`
	Version string `json:"version,omitempty"`
	Region  string `json:"region,omitempty"`
}

// Server is the full server resource.
type Server struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Config      ServerConfig `json:"config"`
}

type ServerConfig struct {
	Address string `json:"address,omitempty"`
	Region  string `json:"region,omitempty"`
	Enabled bool   `json:"enabled"`
}

// ServerState is the response to the GetServerState read.
type ServerState struct {
	Status string `json:"status"`
}

// SystemStats reports host resource usage for a server.
type SystemStats struct {
	CPUPerc     float64 `json:"cpu_perc"`
	MemUsedGB   float64 `json:"mem_used_gb"`
	MemTotalGB  float64 `json:"mem_total_gb"`
	DiskUsedGB  float64 `json:"disk_used_gb"`
	DiskTotalGB float64 `json:"disk_total_gb"`
}

// SystemInformation describes a server's host system.
type SystemInformation struct {
	HostName  string `json:"host_name,omitempty"`
	OS        string `json:"os,omitempty"`
	Kernel    string `json:"kernel,omitempty"`
	CPUBrand  string `json:"cpu_brand,omitempty"`
	CoreCount int    `json:"core_count,omitempty"`
}

// StackListItem is one row of the ListStacks response.
type StackListItem struct {
	ID   string            `json:"id"`
	Name string            `json:"name"`
	Tags []string          `json:"tags,omitempty"`
	Info StackListItemInfo `json:"info"`
}

type StackListItemInfo struct {
	State    string `json:"state"`
	ServerID string `json:"server_id,omitempty"`
}

// Stack is the full stack resource.
type Stack struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	Config      StackConfig `json:"config"`
}

type StackConfig struct {
	ServerID  string   `json:"server_id,omitempty"`
	Repo      string   `json:"repo,omitempty"`
	Branch    string   `json:"branch,omitempty"`
	FilePaths []string `json:"file_paths,omitempty"`
}

// StackActionState reports which stack operations are in flight.
type StackActionState struct {
	Deploying  bool `json:"deploying"`
	Starting   bool `json:"starting"`
	Restarting bool `json:"restarting"`
	Stopping   bool `json:"stopping"`
	Destroying bool `json:"destroying"`
}

// DeploymentListItem is one row of the ListDeployments response.
type DeploymentListItem struct {
	ID   string                 `json:"id"`
	Name string                 `json:"name"`
	Tags []string               `json:"tags,omitempty"`
	Info DeploymentListItemInfo `json:"info"`
}

type DeploymentListItemInfo struct {
	State    string `json:"state"`
	Image    string `json:"image,omitempty"`
	ServerID string `json:"server_id,omitempty"`
}

// Deployment is the full deployment resource.
type Deployment struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	Config      DeploymentConfig `json:"config"`
}

type DeploymentConfig struct {
	ServerID string `json:"server_id,omitempty"`
	Image    string `json:"image,omitempty"`
	Network  string `json:"network,omitempty"`
	Restart  string `json:"restart,omitempty"`
}

// DeploymentActionState reports which deployment operations are in flight.
type DeploymentActionState struct {
	Deploying  bool `json:"deploying"`
	Starting   bool `json:"starting"`
	Restarting bool `json:"restarting"`
	Stopping   bool `json:"stopping"`
	Destroying bool `json:"destroying"`
}

// BuildListItem is one row of the ListBuilds response.
type BuildListItem struct {
	ID   string            `json:"id"`
	Name string            `json:"name"`
	Tags []string          `json:"tags,omitempty"`
	Info BuildListItemInfo `json:"info"`
}

type BuildListItemInfo struct {
	LastBuiltAt int64  `json:"last_built_at,omitempty"`
	Version     string `json:"version,omitempty"`
}

// Build is the full build resource.
type Build struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	Config      BuildConfig `json:"config"`
}

type BuildConfig struct {
	BuilderID string `json:"builder_id,omitempty"`
	Repo      string `json:"repo,omitempty"`
	Branch    string `json:"branch,omitempty"`
	ImageName string `json:"image_name,omitempty"`
}

// BuildActionState reports whether a build is in flight.
type BuildActionState struct {
	Building bool `json:"building"`
}

// RepoListItem is one row of the ListRepos response.
type RepoListItem struct {
	ID   string           `json:"id"`
	Name string           `json:"name"`
	Tags []string         `json:"tags,omitempty"`
	Info RepoListItemInfo `json:"info"`
}

type RepoListItemInfo struct {
	State        string `json:"state,omitempty"`
	LastPulledAt int64  `json:"last_pulled_at,omitempty"`
}

// Repo is the full repo resource.
type Repo struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Config      RepoConfig `json:"config"`
}

type RepoConfig struct {
	ServerID string `json:"server_id,omitempty"`
	Repo     string `json:"repo,omitempty"`
	Branch   string `json:"branch,omitempty"`
}

// RepoActionState reports which repo operations are in flight.
type RepoActionState struct {
	Cloning bool `json:"cloning"`
	Pulling bool `json:"pulling"`
}

// ProcedureListItem is one row of the ListProcedures response.
type ProcedureListItem struct {
	ID   string                `json:"id"`
	Name string                `json:"name"`
	Tags []string              `json:"tags,omitempty"`
	Info ProcedureListItemInfo `json:"info"`
}

type ProcedureListItemInfo struct {
	Stages int    `json:"stages,omitempty"`
	State  string `json:"state,omitempty"`
}

// Procedure is the full procedure resource.
type Procedure struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Config      ProcedureConfig `json:"config"`
}

type ProcedureConfig struct {
	Stages []ProcedureStage `json:"stages,omitempty"`
}

type ProcedureStage struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// ProcedureActionState reports whether a procedure run is in flight.
type ProcedureActionState struct {
	Running bool `json:"running"`
}

// ActionListItem is one row of the ListActions response.
type ActionListItem struct {
	ID   string             `json:"id"`
	Name string             `json:"name"`
	Tags []string           `json:"tags,omitempty"`
	Info ActionListItemInfo `json:"info"`
}

type ActionListItemInfo struct {
	State     string `json:"state,omitempty"`
	LastRunAt int64  `json:"last_run_at,omitempty"`
}

// Action is the full action resource.
type Action struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ActionActionState reports whether an action run is in flight.
type ActionActionState struct {
	Running bool `json:"running"`
}

// SyncListItem is one row of the ListResourceSyncs response.
type SyncListItem struct {
	ID   string           `json:"id"`
	Name string           `json:"name"`
	Tags []string         `json:"tags,omitempty"`
	Info SyncListItemInfo `json:"info"`
}

type SyncListItemInfo struct {
	State      string `json:"state,omitempty"`
	LastSyncTs int64  `json:"last_sync_ts,omitempty"`
}

// ResourceSync is the full resource sync resource.
type ResourceSync struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Config      SyncConfig `json:"config"`
}

type SyncConfig struct {
	Repo          string   `json:"repo,omitempty"`
	Branch        string   `json:"branch,omitempty"`
	ResourcePaths []string `json:"resource_path,omitempty"`
}

// SyncActionState reports whether a sync is in flight.
type SyncActionState struct {
	Syncing bool `json:"syncing"`
}

// Container is one row of a server's container listing.
type Container struct {
	Name   string `json:"name"`
	ID     string `json:"id,omitempty"`
	Image  string `json:"image,omitempty"`
	State  string `json:"state"`
	Status string `json:"status,omitempty"`
}

// Log is a container's captured output.
type Log struct {
	Stdout string `json:"stdout,omitempty"`
	Stderr string `json:"stderr,omitempty"`
}

// Tag is a resource grouping label.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Alert is one row of the ListAlerts response.
type Alert struct {
	Level    string       `json:"level"`
	Resolved bool         `json:"resolved"`
	Ts       int64        `json:"ts,omitempty"`
	Target   UpdateTarget `json:"target,omitempty"`
}

// AlertList is the paged response to the ListAlerts read.
type AlertList struct {
	Alerts   []Alert `json:"alerts"`
	NextPage int64   `json:"next_page,omitempty"`
}

// Variable is a global key/value entry. Secret values are masked by the
// core and never returned in cleartext.
type Variable struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Value       string `json:"value,omitempty"`
	IsSecret    bool   `json:"is_secret,omitempty"`
}

// request is the envelope every API call posts.
type request struct {
	Type   string `json:"type"`
	Params any    `json:"params"`
}

// emptyParams marshals to {} for operations without parameters.
var emptyParams = json.RawMessage("{}")
