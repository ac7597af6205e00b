package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/gymlog/internal/analytics"
	"github.com/meltforce/gymlog/internal/models"
)

// --- Tool definitions ---

var toolGetOneRepMax = mcp.NewTool("get_one_rep_max",
	mcp.WithDescription("Estimate the one-rep max for an exercise from recent completed sets using the Epley formula. Returns the best estimate plus the per-set calculations behind it."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (e.g. 'Barbell Bench Press')")),
)

var toolGetVolumeProgression = mcp.NewTool("get_volume_progression",
	mcp.WithDescription("Daily training volume (weight x reps, summed) for an exercise over a timeframe. Days with no completed sets are omitted."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name")),
	mcp.WithString("timeframe", mcp.Description("Window: 'week', 'month', or 'year'. Defaults to 'month'."), mcp.Enum("week", "month", "year")),
)

var toolGetStrengthStandards = mcp.NewTool("get_strength_standards",
	mcp.WithDescription("Strength level classification for an exercise with the beginner-to-elite threshold table derived from the current estimated max."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name")),
)

var toolGetPersonalRecords = mcp.NewTool("get_personal_records",
	mcp.WithDescription("All-time personal records per exercise: heaviest set, highest single-set volume, and best estimated one-rep max, each with the date it was achieved."),
)

var toolGetSessionHistory = mcp.NewTool("get_session_history",
	mcp.WithDescription("Completed workout sessions, most recent first, with total volume, set counts, and duration."),
	mcp.WithNumber("limit", mcp.Description("Maximum sessions to return. Defaults to 20.")),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List all exercises visible to the user: built-ins plus their custom exercises, with muscle groups and equipment."),
)

// --- Tool handlers ---

// resolveExercise maps a tool's exercise-name argument to an exercise row.
func (h *handlers) resolveExercise(ctx context.Context, req mcp.CallToolRequest) (*models.Exercise, *mcp.CallToolResult) {
	name, err := req.RequireString("exercise")
	if err != nil {
		return nil, mcp.NewToolResultError("exercise parameter is required")
	}

	uid := UserIDFromContext(ctx)
	exercise, err := h.ds.FindExercise(ctx, uid, name)
	if err != nil {
		h.log.Warn("mcp exercise lookup failed", "exercise", name, "error", err)
		return nil, mcp.NewToolResultError("unknown exercise: " + name)
	}
	return exercise, nil
}

func (h *handlers) getOneRepMax(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, errResult := h.resolveExercise(ctx, req)
	if errResult != nil {
		return errResult, nil
	}

	uid := UserIDFromContext(ctx)
	estimate, err := h.ds.OneRepMax(ctx, uid, exercise.ID)
	if err != nil {
		h.log.Error("mcp get_one_rep_max", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if estimate == nil {
		return mcp.NewToolResultText("No completed sets recorded for " + exercise.Name + "."), nil
	}

	result, err := mcp.NewToolResultJSON(estimate)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getVolumeProgression(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, errResult := h.resolveExercise(ctx, req)
	if errResult != nil {
		return errResult, nil
	}

	tf := analytics.Timeframe(req.GetString("timeframe", string(analytics.TimeframeMonth)))
	uid := UserIDFromContext(ctx)

	points, err := h.ds.VolumeProgression(ctx, uid, exercise.ID, tf)
	if err != nil {
		h.log.Error("mcp get_volume_progression", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(points)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getStrengthStandards(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, errResult := h.resolveExercise(ctx, req)
	if errResult != nil {
		return errResult, nil
	}

	uid := UserIDFromContext(ctx)
	standards, err := h.ds.StrengthStandards(ctx, uid, exercise.ID)
	if err != nil {
		h.log.Error("mcp get_strength_standards", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if standards == nil {
		return mcp.NewToolResultText("No completed sets recorded for " + exercise.Name + "."), nil
	}

	result, err := mcp.NewToolResultJSON(standards)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getPersonalRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	records, err := h.ds.PersonalRecords(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_personal_records", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(records)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSessionHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	uid := UserIDFromContext(ctx)

	sessions, err := h.ds.SessionHistory(ctx, uid, limit)
	if err != nil {
		h.log.Error("mcp get_session_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	exercises, err := h.ds.ListExercises(ctx, uid)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
