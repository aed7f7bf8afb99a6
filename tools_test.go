package main

import (
	"context"
	"io"
	"net/url"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is a test double for the gateway. It records the last request
// and returns a canned payload or error.
type fakeAPI struct {
	payload    any
	err        *APIError
	calls      int
	lastPath   string
	lastKey    string
	lastParams url.Values
}

func (f *fakeAPI) Request(_ context.Context, path, apiKeyOverride string, params url.Values) (any, *APIError) {
	f.calls++
	f.lastPath = path
	f.lastKey = apiKeyOverride
	f.lastParams = params
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

func newTestHandlers(api *fakeAPI) *toolHandlers {
	h := newToolHandlers(api, log.New(io.Discard))
	h.now = func() time.Time {
		return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	}
	return h
}

func callReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok, "expected text content")
	return tc.Text
}

var sampleWorkout = map[string]any{
	"id":                     float64(123),
	"name":                   "Morning Ride",
	"workout_type":           "Ride",
	"status":                 "completed",
	"start_time":             "2024-01-01T08:00:00Z",
	"end_time":               "2024-01-01T09:00:00Z",
	"distance_meters":        float64(25000),
	"duration_total_seconds": float64(3600),
	"power_normalized":       float64(200),
	"training_stress_score":  float64(75),
	"intensity_factor":       0.85,
}

var sampleEvent = map[string]any{
	"id":          float64(1),
	"name":        "Spring Race",
	"event_date":  "2024-04-15T08:00:00Z",
	"event_type":  "road",
	"status":      "planned",
	"location":    "Central Park",
	"distance_km": float64(100),
}

var sampleWellness = map[string]any{
	"id":          float64(1),
	"date":        "2024-01-01",
	"weight_kg":   70.5,
	"resting_hr":  float64(55),
	"hrv_rmssd":   float64(45),
	"sleep_hours": 7.5,
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-10, 1},
		{0, 1},
		{1, 1},
		{50, 50},
		{250, 250},
		{251, 250},
		{10000, 250},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, clampLimit(tt.in), "clampLimit(%d)", tt.in)
	}
}

func TestClampOffset(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-100, 0},
		{-1, 0},
		{0, 0},
		{7, 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, clampOffset(tt.in), "clampOffset(%d)", tt.in)
	}
}

func TestUnwrapList(t *testing.T) {
	tests := []struct {
		name      string
		payload   any
		field     string
		wantLen   int
		wantTotal int
	}{
		{
			name:      "object with items and total",
			payload:   map[string]any{"workouts": []any{sampleWorkout}, "total": float64(40)},
			field:     "workouts",
			wantLen:   1,
			wantTotal: 40,
		},
		{
			name:      "object without total defaults to length",
			payload:   map[string]any{"events": []any{sampleEvent, sampleEvent}},
			field:     "events",
			wantLen:   2,
			wantTotal: 2,
		},
		{
			name:      "bare array degraded form",
			payload:   []any{sampleWorkout, sampleWorkout, sampleWorkout},
			field:     "workouts",
			wantLen:   3,
			wantTotal: 3,
		},
		{
			name:      "object missing the named field",
			payload:   map[string]any{"total": float64(9)},
			field:     "wellness",
			wantLen:   0,
			wantTotal: 9,
		},
		{
			name:      "field holds the wrong type",
			payload:   map[string]any{"workouts": "oops"},
			field:     "workouts",
			wantLen:   0,
			wantTotal: 0,
		},
		{
			name:      "scalar payload",
			payload:   "not a collection",
			field:     "workouts",
			wantLen:   0,
			wantTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total := unwrapList(tt.payload, tt.field)
			assert.Len(t, items, tt.wantLen)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestGetWorkouts(t *testing.T) {
	t.Run("single workout", func(t *testing.T) {
		api := &fakeAPI{payload: map[string]any{"workouts": []any{sampleWorkout}, "total": float64(1)}}
		h := newTestHandlers(api)

		res, err := h.getWorkouts(context.Background(), callReq(nil))
		require.NoError(t, err)

		text := resultText(t, res)
		assert.Contains(t, text, "Workouts (1 of 1 total):")
		assert.Contains(t, text, "Morning Ride")
		assert.Equal(t, "/mcp/workouts", api.lastPath)
	})

	t.Run("default query parameters", func(t *testing.T) {
		api := &fakeAPI{payload: map[string]any{"workouts": []any{}, "total": float64(0)}}
		h := newTestHandlers(api)

		_, err := h.getWorkouts(context.Background(), callReq(nil))
		require.NoError(t, err)

		assert.Equal(t, "50", api.lastParams.Get("limit"))
		assert.Equal(t, "0", api.lastParams.Get("offset"))
		assert.Equal(t, "2024-05-16", api.lastParams.Get("start_date"))
		assert.Equal(t, "2024-06-16", api.lastParams.Get("end_date"))
	})

	t.Run("out of range pagination is clamped", func(t *testing.T) {
		api := &fakeAPI{payload: map[string]any{"workouts": []any{}}}
		h := newTestHandlers(api)

		_, err := h.getWorkouts(context.Background(), callReq(map[string]any{
			"limit":  float64(10000),
			"offset": float64(-5),
		}))
		require.NoError(t, err)

		assert.Equal(t, "250", api.lastParams.Get("limit"))
		assert.Equal(t, "0", api.lastParams.Get("offset"))
	})

	t.Run("supplied dates pass through", func(t *testing.T) {
		api := &fakeAPI{payload: map[string]any{"workouts": []any{}}}
		h := newTestHandlers(api)

		_, err := h.getWorkouts(context.Background(), callReq(map[string]any{
			"start_date": "2024-01-01",
			"end_date":   "2024-02-01",
		}))
		require.NoError(t, err)

		assert.Equal(t, "2024-01-01", api.lastParams.Get("start_date"))
		assert.Equal(t, "2024-02-01", api.lastParams.Get("end_date"))
	})

	t.Run("empty list yields sentinel", func(t *testing.T) {
		api := &fakeAPI{payload: map[string]any{"workouts": []any{}, "total": float64(0)}}
		h := newTestHandlers(api)

		res, err := h.getWorkouts(context.Background(), callReq(nil))
		require.NoError(t, err)
		assert.Equal(t, "No workouts found in the specified date range.", resultText(t, res))
	})

	t.Run("bare array payload", func(t *testing.T) {
		api := &fakeAPI{payload: []any{sampleWorkout}}
		h := newTestHandlers(api)

		res, err := h.getWorkouts(context.Background(), callReq(nil))
		require.NoError(t, err)

		text := resultText(t, res)
		assert.Contains(t, text, "Workouts (1 of 1 total):")
		assert.Contains(t, text, "Morning Ride")
	})

	t.Run("malformed item renders inline without dropping siblings", func(t *testing.T) {
		api := &fakeAPI{payload: map[string]any{"workouts": []any{"bogus", sampleWorkout}}}
		h := newTestHandlers(api)

		res, err := h.getWorkouts(context.Background(), callReq(nil))
		require.NoError(t, err)

		text := resultText(t, res)
		assert.Contains(t, text, "Invalid workout format: bogus")
		assert.Contains(t, text, "Morning Ride")
		assert.Contains(t, text, "Workouts (2 of 2 total):")
	})

	t.Run("gateway error becomes error text", func(t *testing.T) {
		api := &fakeAPI{err: &APIError{Kind: KindHTTPStatus, Message: "resource not found (status 404)"}}
		h := newTestHandlers(api)

		res, err := h.getWorkouts(context.Background(), callReq(nil))
		require.NoError(t, err)
		assert.Equal(t, "Error fetching workouts: resource not found (status 404)", resultText(t, res))
	})

	t.Run("api key override is forwarded", func(t *testing.T) {
		api := &fakeAPI{payload: map[string]any{"workouts": []any{}}}
		h := newTestHandlers(api)

		_, err := h.getWorkouts(context.Background(), callReq(map[string]any{"api_key": "per-call"}))
		require.NoError(t, err)
		assert.Equal(t, "per-call", api.lastKey)
	})

	t.Run("deterministic output", func(t *testing.T) {
		api := &fakeAPI{payload: map[string]any{"workouts": []any{sampleWorkout}, "total": float64(1)}}
		h := newTestHandlers(api)

		first, err := h.getWorkouts(context.Background(), callReq(nil))
		require.NoError(t, err)
		second, err := h.getWorkouts(context.Background(), callReq(nil))
		require.NoError(t, err)
		assert.Equal(t, resultText(t, first), resultText(t, second))
	})
}

func TestGetWorkoutDetails(t *testing.T) {
	t.Run("full rendering", func(t *testing.T) {
		api := &fakeAPI{payload: sampleWorkout}
		h := newTestHandlers(api)

		res, err := h.getWorkoutDetails(context.Background(), callReq(map[string]any{"workout_id": float64(123)}))
		require.NoError(t, err)

		text := resultText(t, res)
		assert.Contains(t, text, "Workout Details:")
		assert.Contains(t, text, "Morning Ride")
		assert.Equal(t, "/mcp/workouts/123", api.lastPath)
	})

	t.Run("empty payload", func(t *testing.T) {
		api := &fakeAPI{payload: map[string]any{}}
		h := newTestHandlers(api)

		res, err := h.getWorkoutDetails(context.Background(), callReq(map[string]any{"workout_id": float64(123)}))
		require.NoError(t, err)
		assert.Equal(t, "No details found for workout 123.", resultText(t, res))
	})

	t.Run("non-object payload", func(t *testing.T) {
		api := &fakeAPI{payload: float64(42)}
		h := newTestHandlers(api)

		res, err := h.getWorkoutDetails(context.Background(), callReq(map[string]any{"workout_id": float64(123)}))
		require.NoError(t, err)
		assert.Equal(t, "Invalid workout format for workout 123.", resultText(t, res))
	})

	t.Run("missing id is a parameter error", func(t *testing.T) {
		api := &fakeAPI{payload: sampleWorkout}
		h := newTestHandlers(api)

		res, err := h.getWorkoutDetails(context.Background(), callReq(nil))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Zero(t, api.calls)
	})

	t.Run("gateway error becomes error text", func(t *testing.T) {
		api := &fakeAPI{err: &APIError{Kind: KindNetworkFailure, Message: "request failed: connection refused"}}
		h := newTestHandlers(api)

		res, err := h.getWorkoutDetails(context.Background(), callReq(map[string]any{"workout_id": float64(7)}))
		require.NoError(t, err)
		assert.Equal(t, "Error fetching workout details: request failed: connection refused", resultText(t, res))
	})
}

func TestGetEvents(t *testing.T) {
	t.Run("single event", func(t *testing.T) {
		api := &fakeAPI{payload: map[string]any{"events": []any{sampleEvent}, "total": float64(1)}}
		h := newTestHandlers(api)

		res, err := h.getEvents(context.Background(), callReq(nil))
		require.NoError(t, err)

		text := resultText(t, res)
		assert.Contains(t, text, "Events (1 of 1 total):")
		assert.Contains(t, text, "Spring Race")
		assert.Equal(t, "/mcp/events", api.lastPath)
	})

	t.Run("empty list yields sentinel", func(t *testing.T) {
		api := &fakeAPI{payload: map[string]any{"events": []any{}}}
		h := newTestHandlers(api)

		res, err := h.getEvents(context.Background(), callReq(nil))
		require.NoError(t, err)
		assert.Equal(t, "No events found in the specified date range.", resultText(t, res))
	})

	t.Run("gateway error becomes error text", func(t *testing.T) {
		api := &fakeAPI{err: &APIError{Kind: KindAuthMissing, Message: "no API key provided"}}
		h := newTestHandlers(api)

		res, err := h.getEvents(context.Background(), callReq(nil))
		require.NoError(t, err)
		assert.Contains(t, resultText(t, res), "Error fetching events: no API key provided")
	})
}

func TestGetEventDetails(t *testing.T) {
	t.Run("full rendering", func(t *testing.T) {
		api := &fakeAPI{payload: sampleEvent}
		h := newTestHandlers(api)

		res, err := h.getEventDetails(context.Background(), callReq(map[string]any{"event_id": float64(1)}))
		require.NoError(t, err)

		text := resultText(t, res)
		assert.Contains(t, text, "Event Details:")
		assert.Contains(t, text, "Spring Race")
		assert.Equal(t, "/mcp/events/1", api.lastPath)
	})

	t.Run("empty payload", func(t *testing.T) {
		api := &fakeAPI{payload: nil}
		h := newTestHandlers(api)

		res, err := h.getEventDetails(context.Background(), callReq(map[string]any{"event_id": float64(9)}))
		require.NoError(t, err)
		assert.Equal(t, "No details found for event 9.", resultText(t, res))
	})

	t.Run("non-object payload", func(t *testing.T) {
		api := &fakeAPI{payload: []any{sampleEvent}}
		h := newTestHandlers(api)

		res, err := h.getEventDetails(context.Background(), callReq(map[string]any{"event_id": float64(9)}))
		require.NoError(t, err)
		assert.Equal(t, "Invalid event format for event 9.", resultText(t, res))
	})
}

func TestGetWellness(t *testing.T) {
	t.Run("single entry", func(t *testing.T) {
		api := &fakeAPI{payload: map[string]any{"wellness": []any{sampleWellness}, "total": float64(1)}}
		h := newTestHandlers(api)

		res, err := h.getWellness(context.Background(), callReq(nil))
		require.NoError(t, err)

		text := resultText(t, res)
		assert.Contains(t, text, "Wellness Data (1 of 1 total):")
		assert.Contains(t, text, "2024-01-01")
		assert.Equal(t, "/mcp/wellness", api.lastPath)
	})

	t.Run("no pagination parameters", func(t *testing.T) {
		api := &fakeAPI{payload: map[string]any{"wellness": []any{}}}
		h := newTestHandlers(api)

		_, err := h.getWellness(context.Background(), callReq(nil))
		require.NoError(t, err)

		assert.Empty(t, api.lastParams.Get("limit"))
		assert.Empty(t, api.lastParams.Get("offset"))
		assert.Equal(t, "2024-05-16", api.lastParams.Get("start_date"))
		assert.Equal(t, "2024-06-16", api.lastParams.Get("end_date"))
	})

	t.Run("empty list yields sentinel", func(t *testing.T) {
		api := &fakeAPI{payload: map[string]any{"wellness": []any{}}}
		h := newTestHandlers(api)

		res, err := h.getWellness(context.Background(), callReq(nil))
		require.NoError(t, err)
		assert.Equal(t, "No wellness data found in the specified date range.", resultText(t, res))
	})

	t.Run("gateway error becomes error text", func(t *testing.T) {
		api := &fakeAPI{err: &APIError{Kind: KindDecodeFailure, Message: "invalid JSON in response"}}
		h := newTestHandlers(api)

		res, err := h.getWellness(context.Background(), callReq(nil))
		require.NoError(t, err)
		assert.Equal(t, "Error fetching wellness data: invalid JSON in response", resultText(t, res))
	})
}

func TestEmptyPayload(t *testing.T) {
	assert.True(t, emptyPayload(nil))
	assert.True(t, emptyPayload(map[string]any{}))
	assert.True(t, emptyPayload([]any{}))
	assert.True(t, emptyPayload(""))
	assert.True(t, emptyPayload(float64(0)))
	assert.True(t, emptyPayload(false))
	assert.False(t, emptyPayload(map[string]any{"id": float64(1)}))
	assert.False(t, emptyPayload("text"))
	assert.False(t, emptyPayload(float64(3)))
}
