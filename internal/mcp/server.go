package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Gymlog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Gymlog workout tracking server. Query exercises, session history, personal records, and strength progress analytics. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetOneRepMax, Handler: h.getOneRepMax},
		server.ServerTool{Tool: toolGetVolumeProgression, Handler: h.getVolumeProgression},
		server.ServerTool{Tool: toolGetStrengthStandards, Handler: h.getStrengthStandards},
		server.ServerTool{Tool: toolGetPersonalRecords, Handler: h.getPersonalRecords},
		server.ServerTool{Tool: toolGetSessionHistory, Handler: h.getSessionHistory},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resRecentSessions = mcp.NewResource(
	"gymlog://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("Summaries of the last 10 completed workout sessions: volume, sets, exercise counts"),
	mcp.WithMIMEType("application/json"),
)
