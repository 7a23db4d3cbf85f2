package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	ccerrors "github.com/neilberkman/ccscope/internal/core/errors"
	"github.com/neilberkman/ccscope/internal/core/explorer"
	"github.com/neilberkman/ccscope/internal/core/logging"
)

var log = logging.NewLogger("mcp")

// ListProjectsArgs defines arguments for the list_projects tool
type ListProjectsArgs struct {
	SortBy       string `json:"sort_by,omitempty"`
	Order        string `json:"order,omitempty"`
	Limit        int    `json:"limit,omitempty"`
	Offset       int    `json:"offset,omitempty"`
	PathPrefixes string `json:"path_prefixes,omitempty"` // comma separated
}

// ProjectArgs identifies one project
type ProjectArgs struct {
	ProjectID string `json:"project_id"`
}

// ListSessionsArgs defines arguments for the list_sessions tool
type ListSessionsArgs struct {
	ProjectID string `json:"project_id"`
	Type      string `json:"type,omitempty"`
	Since     string `json:"since,omitempty"`
	Until     string `json:"until,omitempty"`
	SortBy    string `json:"sort_by,omitempty"`
	Order     string `json:"order,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// SessionArgs identifies one session
type SessionArgs struct {
	ProjectID string `json:"project_id"`
	SessionID string `json:"session_id"`
}

// ListMessagesArgs defines arguments for the list_messages tool
type ListMessagesArgs struct {
	ProjectID string `json:"project_id"`
	SessionID string `json:"session_id"`
	Type      string `json:"type,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// CorrelatedArgs defines arguments for the get_correlated_data tool
type CorrelatedArgs struct {
	SessionID string `json:"session_id"`
}

// ProjectActivityArgs defines arguments for the get_project_activity tool
type ProjectActivityArgs struct {
	ProjectID string `json:"project_id"`
	Days      int    `json:"days,omitempty"`
	Type      string `json:"type,omitempty"`
}

// RangeArgs defines arguments for the cross-project activity tools
type RangeArgs struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Type      string `json:"type,omitempty"`
}

// NewServer registers every tool against e.
func NewServer(e *explorer.Explorer, version string) *server.MCPServer {
	s := server.NewMCPServer("ccscope", version)

	s.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List Claude Code projects with session counts and last activity. Paginated; returns data plus meta.total."),
		mcp.WithString("sort_by", mcp.Description("lastActivity (default), name or sessionCount")),
		mcp.WithString("order", mcp.Description("desc (default) or asc")),
		mcp.WithNumber("limit", mcp.Description("Page size, default 50, max 100")),
		mcp.WithNumber("offset", mcp.Description("Items to skip")),
		mcp.WithString("path_prefixes", mcp.Description("Comma-separated path prefixes; ~ is expanded")),
	), handler(func(ctx context.Context, args ListProjectsArgs) (any, error) {
		return e.ListProjects(ctx, explorer.ProjectQuery{
			SortBy:       args.SortBy,
			Order:        args.Order,
			Limit:        args.Limit,
			Offset:       args.Offset,
			PathPrefixes: splitList(args.PathPrefixes),
		})
	}))

	s.AddTool(mcp.NewTool("get_project",
		mcp.WithDescription("Get one project with its 10 most recent sessions and an activity summary"),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Encoded project id, e.g. -Users-sam-app")),
	), handler(func(ctx context.Context, args ProjectArgs) (any, error) {
		return e.GetProject(ctx, args.ProjectID)
	}))

	s.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List a project's sessions. Date bounds filter on session start time."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Encoded project id")),
		mcp.WithString("type", mcp.Description("all (default), regular or agent")),
		mcp.WithString("since", mcp.Description("ISO 8601 date or instant, inclusive")),
		mcp.WithString("until", mcp.Description("ISO 8601 date or instant, inclusive")),
		mcp.WithString("sort_by", mcp.Description("startTime (default), endTime, messageCount or lastModified")),
		mcp.WithString("order", mcp.Description("desc (default) or asc")),
		mcp.WithNumber("limit", mcp.Description("Page size, default 50, max 100")),
		mcp.WithNumber("offset", mcp.Description("Items to skip")),
	), handler(func(ctx context.Context, args ListSessionsArgs) (any, error) {
		since, err := parseBound("since", args.Since, false)
		if err != nil {
			return nil, err
		}
		until, err := parseBound("until", args.Until, true)
		if err != nil {
			return nil, err
		}
		return e.ListSessions(ctx, args.ProjectID, explorer.SessionQuery{
			Type:   args.Type,
			Since:  since,
			Until:  until,
			SortBy: args.SortBy,
			Order:  args.Order,
			Limit:  args.Limit,
			Offset: args.Offset,
		})
	}))

	s.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Get a session with duration, tokens, tools used, sub-agent ids and correlated data"),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Encoded project id")),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session UUID or agent-<id>")),
	), handler(func(ctx context.Context, args SessionArgs) (any, error) {
		return e.GetSession(ctx, args.ProjectID, args.SessionID)
	}))

	s.AddTool(mcp.NewTool("list_messages",
		mcp.WithDescription("List a session's messages in transcript order"),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Encoded project id")),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session UUID or agent-<id>")),
		mcp.WithString("type", mcp.Description("all (default), user or assistant")),
		mcp.WithNumber("limit", mcp.Description("Page size, default 50, max 100")),
		mcp.WithNumber("offset", mcp.Description("Items to skip")),
	), handler(func(ctx context.Context, args ListMessagesArgs) (any, error) {
		return e.ListMessages(ctx, args.ProjectID, args.SessionID, explorer.MessageQuery{
			Type:   args.Type,
			Limit:  args.Limit,
			Offset: args.Offset,
		})
	}))

	s.AddTool(mcp.NewTool("get_correlated_data",
		mcp.WithDescription("Get todos, file history, debug logs, linked plan and linked skill for a session id"),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session UUID")),
	), handler(func(ctx context.Context, args CorrelatedArgs) (any, error) {
		return e.CorrelatedData(ctx, args.SessionID)
	}))

	s.AddTool(mcp.NewTool("list_sub_agents",
		mcp.WithDescription("For a main session list its sub-agents; for an agent session return its parent id"),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Encoded project id")),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session UUID or agent-<id>")),
	), handler(func(ctx context.Context, args SessionArgs) (any, error) {
		return e.SubAgents(ctx, args.ProjectID, args.SessionID)
	}))

	s.AddTool(mcp.NewTool("get_project_activity",
		mcp.WithDescription("Day-by-day sessions of one project over the last N days"),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Encoded project id")),
		mcp.WithNumber("days", mcp.Description("1-90, default 14")),
		mcp.WithString("type", mcp.Description("regular (default), agent or all")),
	), handler(func(ctx context.Context, args ProjectActivityArgs) (any, error) {
		return e.ProjectActivity(ctx, args.ProjectID, args.Days, args.Type)
	}))

	s.AddTool(mcp.NewTool("get_global_activity",
		mcp.WithDescription("Day-by-day sessions across all projects between two inclusive dates"),
		mcp.WithString("start_date", mcp.Description("YYYY-MM-DD")),
		mcp.WithString("end_date", mcp.Description("YYYY-MM-DD, inclusive")),
		mcp.WithString("type", mcp.Description("all (default), regular or agent")),
	), handler(func(ctx context.Context, args RangeArgs) (any, error) {
		return e.GlobalActivity(ctx, args.StartDate, args.EndDate, args.Type)
	}))

	s.AddTool(mcp.NewTool("get_activity_summary",
		mcp.WithDescription("Sessions and messages per project and per day across all projects"),
		mcp.WithString("start_date", mcp.Description("YYYY-MM-DD")),
		mcp.WithString("end_date", mcp.Description("YYYY-MM-DD, inclusive")),
		mcp.WithString("type", mcp.Description("all (default), regular or agent")),
	), handler(func(ctx context.Context, args RangeArgs) (any, error) {
		return e.ActivitySummary(ctx, args.StartDate, args.EndDate, args.Type)
	}))

	return s
}

// StartServer serves the tools over stdio until stdin closes.
func StartServer(e *explorer.Explorer, version string) error {
	return server.ServeStdio(NewServer(e, version))
}

// handler decodes the tool arguments into A, runs fn and returns its result
// as JSON text. Failures become tool errors carrying the error code.
func handler[A any](fn func(context.Context, A) (any, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args A
		argsBytes, _ := json.Marshal(request.Params.Arguments)
		if err := json.Unmarshal(argsBytes, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		result, err := fn(ctx, args)
		if err != nil {
			log.WithError(err).WithField("tool", request.Params.Name).Debug("tool failed")
			return mcp.NewToolResultError(errorText(err)), nil
		}

		resultJSON, err := json.Marshal(result)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(resultJSON)), nil
	}
}

func errorText(err error) string {
	if code := ccerrors.GetCode(err); code != "" {
		return fmt.Sprintf("%s: %v", code, err)
	}
	return err.Error()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseBound reads an ISO 8601 date or instant. A plain date used as an
// upper bound covers its whole day.
func parseBound(field, value string, upper bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, ccerrors.InvalidInput(field, value, "must be YYYY-MM-DD or RFC 3339")
	}
	if upper {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}
