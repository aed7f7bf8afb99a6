package main

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	defaultListLimit = 50
	maxListLimit     = 250
)

// toolHandlers holds the dependencies every tool call needs: the shared
// API gateway and a clock. Handlers are constructed once at startup and
// registered through an explicit table; they keep no per-call state.
type toolHandlers struct {
	api tempoRequester
	log *log.Logger
	now func() time.Time
}

func newToolHandlers(api tempoRequester, logger *log.Logger) *toolHandlers {
	return &toolHandlers{api: api, log: logger, now: time.Now}
}

// tools returns the registration table handed to the MCP server.
func (h *toolHandlers) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: toolGetWorkouts, Handler: h.getWorkouts},
		{Tool: toolGetWorkoutDetails, Handler: h.getWorkoutDetails},
		{Tool: toolGetEvents, Handler: h.getEvents},
		{Tool: toolGetEventDetails, Handler: h.getEventDetails},
		{Tool: toolGetWellness, Handler: h.getWellness},
	}
}

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("Get a list of workouts from Tempo AI."),
	mcp.WithString("start_date", mcp.Description("Start date in YYYY-MM-DD format (optional, defaults to 30 days ago)")),
	mcp.WithString("end_date", mcp.Description("End date in YYYY-MM-DD format (optional, defaults to tomorrow)")),
	mcp.WithNumber("limit", mcp.DefaultNumber(defaultListLimit), mcp.Description("Maximum number of workouts to return (1-250, defaults to 50)")),
	mcp.WithNumber("offset", mcp.DefaultNumber(0), mcp.Description("Number of workouts to skip for pagination (defaults to 0)")),
	mcp.WithString("api_key", mcp.Description("The Tempo AI API key (optional, uses API_KEY from the environment if not provided)")),
)

var toolGetWorkoutDetails = mcp.NewTool("get_workout_details",
	mcp.WithDescription("Get detailed information for a specific workout from Tempo AI."),
	mcp.WithNumber("workout_id", mcp.Required(), mcp.Description("The Tempo AI workout ID")),
	mcp.WithString("api_key", mcp.Description("The Tempo AI API key (optional, uses API_KEY from the environment if not provided)")),
)

var toolGetEvents = mcp.NewTool("get_events",
	mcp.WithDescription("Get a list of events from Tempo AI."),
	mcp.WithString("start_date", mcp.Description("Start date in YYYY-MM-DD format (optional, defaults to 30 days ago)")),
	mcp.WithString("end_date", mcp.Description("End date in YYYY-MM-DD format (optional, defaults to tomorrow)")),
	mcp.WithNumber("limit", mcp.DefaultNumber(defaultListLimit), mcp.Description("Maximum number of events to return (1-250, defaults to 50)")),
	mcp.WithNumber("offset", mcp.DefaultNumber(0), mcp.Description("Number of events to skip for pagination (defaults to 0)")),
	mcp.WithString("api_key", mcp.Description("The Tempo AI API key (optional, uses API_KEY from the environment if not provided)")),
)

var toolGetEventDetails = mcp.NewTool("get_event_details",
	mcp.WithDescription("Get detailed information for a specific event from Tempo AI."),
	mcp.WithNumber("event_id", mcp.Required(), mcp.Description("The Tempo AI event ID")),
	mcp.WithString("api_key", mcp.Description("The Tempo AI API key (optional, uses API_KEY from the environment if not provided)")),
)

var toolGetWellness = mcp.NewTool("get_wellness",
	mcp.WithDescription("Get wellness data from Tempo AI."),
	mcp.WithString("start_date", mcp.Description("Start date in YYYY-MM-DD format (optional, defaults to 30 days ago)")),
	mcp.WithString("end_date", mcp.Description("End date in YYYY-MM-DD format (optional, defaults to tomorrow)")),
	mcp.WithString("api_key", mcp.Description("The Tempo AI API key (optional, uses API_KEY from the environment if not provided)")),
)

// clampLimit bounds a caller-supplied page size into [1, 250].
func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// clampOffset bounds a caller-supplied offset into [0, inf).
func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// unwrapList extracts the item list and total from a list-endpoint payload.
// The API normally answers {<field>: [...], "total": n} but may degrade to a
// bare array; both shapes are part of the contract. Anything else yields an
// empty list.
func unwrapList(payload any, field string) ([]any, int) {
	switch p := payload.(type) {
	case map[string]any:
		items, _ := p[field].([]any)
		total := len(items)
		if f, ok := numValue(p["total"]); ok {
			total = int(f)
		}
		return items, total
	case []any:
		return p, len(p)
	default:
		return nil, 0
	}
}

// emptyPayload reports whether a detail-endpoint payload carries no entity.
func emptyPayload(payload any) bool {
	switch p := payload.(type) {
	case nil:
		return true
	case map[string]any:
		return len(p) == 0
	case []any:
		return len(p) == 0
	case string:
		return p == ""
	case float64:
		return p == 0
	case bool:
		return !p
	default:
		return false
	}
}

// renderList turns a list payload into the final tool text: the "X of Y
// total" header, one formatted block per well-formed item, and an explicit
// invalid-format line for anything that is not an object. An empty list
// yields the sentinel, which is a valid outcome and not an error.
func renderList(items []any, total int, heading, noun, sentinel, separator string, format func(map[string]any) string) string {
	if len(items) == 0 {
		return sentinel
	}

	response := fmt.Sprintf("%s (%d of %d total):\n\n", heading, len(items), total)
	for _, item := range items {
		if entry, ok := item.(map[string]any); ok {
			response += format(entry) + separator
		} else {
			response += fmt.Sprintf("Invalid %s format: %v\n\n", noun, item)
		}
	}
	return response
}

func (h *toolHandlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	startDate, endDate := resolveDateRange(h.now(), req.GetString("start_date", ""), req.GetString("end_date", ""), defaultStartDaysAgo)

	params := url.Values{}
	params.Set("limit", strconv.Itoa(clampLimit(req.GetInt("limit", defaultListLimit))))
	params.Set("offset", strconv.Itoa(clampOffset(req.GetInt("offset", 0))))
	params.Set("start_date", startDate)
	params.Set("end_date", endDate)

	result, apiErr := h.api.Request(ctx, "/mcp/workouts", req.GetString("api_key", ""), params)
	if apiErr != nil {
		h.log.Error("get_workouts failed", "kind", apiErr.Kind)
		return mcp.NewToolResultText("Error fetching workouts: " + apiErr.Message), nil
	}

	workouts, total := unwrapList(result, "workouts")
	text := renderList(workouts, total, "Workouts", "workout",
		"No workouts found in the specified date range.", "\n", formatWorkoutSummary)
	return mcp.NewToolResultText(text), nil
}

func (h *toolHandlers) getWorkoutDetails(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workoutID, err := req.RequireInt("workout_id")
	if err != nil {
		return mcp.NewToolResultError("workout_id is required and must be an integer"), nil
	}

	result, apiErr := h.api.Request(ctx, fmt.Sprintf("/mcp/workouts/%d", workoutID), req.GetString("api_key", ""), nil)
	if apiErr != nil {
		h.log.Error("get_workout_details failed", "kind", apiErr.Kind, "workout_id", workoutID)
		return mcp.NewToolResultText("Error fetching workout details: " + apiErr.Message), nil
	}

	if emptyPayload(result) {
		return mcp.NewToolResultText(fmt.Sprintf("No details found for workout %d.", workoutID)), nil
	}

	workout, ok := result.(map[string]any)
	if !ok {
		h.log.Warn("unexpected workout payload shape", "kind", KindInvalidShape, "workout_id", workoutID)
		return mcp.NewToolResultText(fmt.Sprintf("Invalid workout format for workout %d.", workoutID)), nil
	}

	return mcp.NewToolResultText(formatWorkoutDetails(workout)), nil
}

func (h *toolHandlers) getEvents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	startDate, endDate := resolveDateRange(h.now(), req.GetString("start_date", ""), req.GetString("end_date", ""), defaultStartDaysAgo)

	params := url.Values{}
	params.Set("limit", strconv.Itoa(clampLimit(req.GetInt("limit", defaultListLimit))))
	params.Set("offset", strconv.Itoa(clampOffset(req.GetInt("offset", 0))))
	params.Set("start_date", startDate)
	params.Set("end_date", endDate)

	result, apiErr := h.api.Request(ctx, "/mcp/events", req.GetString("api_key", ""), params)
	if apiErr != nil {
		h.log.Error("get_events failed", "kind", apiErr.Kind)
		return mcp.NewToolResultText("Error fetching events: " + apiErr.Message), nil
	}

	events, total := unwrapList(result, "events")
	text := renderList(events, total, "Events", "event",
		"No events found in the specified date range.", "\n\n", formatEventSummary)
	return mcp.NewToolResultText(text), nil
}

func (h *toolHandlers) getEventDetails(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eventID, err := req.RequireInt("event_id")
	if err != nil {
		return mcp.NewToolResultError("event_id is required and must be an integer"), nil
	}

	result, apiErr := h.api.Request(ctx, fmt.Sprintf("/mcp/events/%d", eventID), req.GetString("api_key", ""), nil)
	if apiErr != nil {
		h.log.Error("get_event_details failed", "kind", apiErr.Kind, "event_id", eventID)
		return mcp.NewToolResultText("Error fetching event details: " + apiErr.Message), nil
	}

	if emptyPayload(result) {
		return mcp.NewToolResultText(fmt.Sprintf("No details found for event %d.", eventID)), nil
	}

	event, ok := result.(map[string]any)
	if !ok {
		h.log.Warn("unexpected event payload shape", "kind", KindInvalidShape, "event_id", eventID)
		return mcp.NewToolResultText(fmt.Sprintf("Invalid event format for event %d.", eventID)), nil
	}

	return mcp.NewToolResultText(formatEventDetails(event)), nil
}

func (h *toolHandlers) getWellness(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	startDate, endDate := resolveDateRange(h.now(), req.GetString("start_date", ""), req.GetString("end_date", ""), defaultStartDaysAgo)

	// The wellness endpoint is unpaginated: date range only.
	params := url.Values{}
	params.Set("start_date", startDate)
	params.Set("end_date", endDate)

	result, apiErr := h.api.Request(ctx, "/mcp/wellness", req.GetString("api_key", ""), params)
	if apiErr != nil {
		h.log.Error("get_wellness failed", "kind", apiErr.Kind)
		return mcp.NewToolResultText("Error fetching wellness data: " + apiErr.Message), nil
	}

	entries, total := unwrapList(result, "wellness")
	text := renderList(entries, total, "Wellness Data", "wellness entry",
		"No wellness data found in the specified date range.", "\n\n", formatWellnessEntry)
	return mcp.NewToolResultText(text), nil
}
