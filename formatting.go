package main

import (
	"fmt"
	"strings"
	"time"
)

// Formatting helpers turn loosely-typed API payloads into readable text.
// Payload values arrive as decoded JSON (map[string]any with float64
// numbers), so every helper tolerates missing keys and odd types.

func formatDateTime(v any) string {
	switch dt := v.(type) {
	case nil:
		return "N/A"
	case string:
		if t, err := time.Parse(time.RFC3339, dt); err == nil {
			return t.Format("2006-01-02 15:04:05")
		}
		return dt
	default:
		return fmt.Sprint(v)
	}
}

func formatDuration(v any) string {
	seconds, ok := numValue(v)
	if !ok {
		return "N/A"
	}
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, secs)
	}
	return fmt.Sprintf("%ds", secs)
}

func formatDistance(v any) string {
	meters, ok := numValue(v)
	if !ok {
		return "N/A"
	}
	if meters >= 1000 {
		return fmt.Sprintf("%.2f km", meters/1000)
	}
	return fmt.Sprintf("%.0f m", meters)
}

// numValue coerces a decoded JSON value to float64.
func numValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// strValue renders a field for display, falling back to "N/A" when the
// field is absent or null.
func strValue(data map[string]any, key string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return "N/A"
	}
	return fmt.Sprint(v)
}

// strOr returns the string value of a field or the given default.
func strOr(data map[string]any, key, fallback string) string {
	if s, ok := data[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// truthy mirrors the presence checks used throughout the formatters:
// a field counts only if it is set and non-zero.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	default:
		return true
	}
}

// formatWorkoutSummary renders a workout for the list view.
func formatWorkoutSummary(workout map[string]any) string {
	lines := []string{
		fmt.Sprintf("Workout: %s", strOr(workout, "name", "Unnamed")),
		fmt.Sprintf("  Type: %s", strOr(workout, "workout_type", "Unknown")),
		fmt.Sprintf("  Date: %s", formatDateTime(workout["start_time"])),
		fmt.Sprintf("  Duration: %s", formatDuration(workout["duration_total_seconds"])),
		fmt.Sprintf("  Distance: %s", formatDistance(workout["distance_meters"])),
	}

	if truthy(workout["power_normalized"]) {
		lines = append(lines, fmt.Sprintf("  Norm Power: %s W", strValue(workout, "power_normalized")))
	}
	if truthy(workout["training_stress_score"]) {
		lines = append(lines, fmt.Sprintf("  Load: %s", strValue(workout, "training_stress_score")))
	}
	if f, ok := numValue(workout["intensity_factor"]); ok && f != 0 {
		lines = append(lines, fmt.Sprintf("  Intensity: %.2f", f))
	}

	return strings.Join(lines, "\n")
}

// formatWorkoutDetails renders the full workout view.
func formatWorkoutDetails(workout map[string]any) string {
	lines := []string{"Workout Details:", ""}

	lines = append(lines, "General Information:")
	lines = append(lines, fmt.Sprintf("  ID: %s", strValue(workout, "id")))
	lines = append(lines, fmt.Sprintf("  Name: %s", strOr(workout, "name", "Unnamed")))
	lines = append(lines, fmt.Sprintf("  Type: %s", strOr(workout, "workout_type", "Unknown")))
	lines = append(lines, fmt.Sprintf("  Status: %s", strValue(workout, "status")))
	lines = append(lines, fmt.Sprintf("  Start Time: %s", formatDateTime(workout["start_time"])))
	lines = append(lines, fmt.Sprintf("  End Time: %s", formatDateTime(workout["end_time"])))
	if truthy(workout["description"]) {
		lines = append(lines, fmt.Sprintf("  Description: %s", strValue(workout, "description")))
	}
	lines = append(lines, "")

	lines = append(lines, "Duration:")
	lines = append(lines, fmt.Sprintf("  Total: %s", formatDuration(workout["duration_total_seconds"])))
	lines = append(lines, fmt.Sprintf("  Active: %s", formatDuration(workout["duration_active_seconds"])))
	lines = append(lines, fmt.Sprintf("  Paused: %s", formatDuration(workout["duration_paused_seconds"])))
	lines = append(lines, "")

	lines = append(lines, "Distance & Elevation:")
	lines = append(lines, fmt.Sprintf("  Distance: %s", formatDistance(workout["distance_meters"])))
	lines = append(lines, fmt.Sprintf("  Elevation Gain: %s m", strValue(workout, "elevation_gain")))
	lines = append(lines, fmt.Sprintf("  Elevation Loss: %s m", strValue(workout, "elevation_loss")))
	lines = append(lines, "")

	lines = append(lines, "Speed:")
	lines = append(lines, fmt.Sprintf("  Average Speed: %s m/s", strValue(workout, "speed_average")))
	lines = append(lines, fmt.Sprintf("  Max Speed: %s m/s", strValue(workout, "speed_max")))
	lines = append(lines, "")

	lines = append(lines, "Power:")
	lines = append(lines, fmt.Sprintf("  Average Power: %s W", strValue(workout, "power_average")))
	lines = append(lines, fmt.Sprintf("  Max Power: %s W", strValue(workout, "power_max")))
	lines = append(lines, fmt.Sprintf("  Norm Power: %s W", strValue(workout, "power_normalized")))
	lines = append(lines, fmt.Sprintf("  5-min Max Power: %s W", strValue(workout, "power_5min_max")))
	lines = append(lines, fmt.Sprintf("  Estimated FTP: %s W", strValue(workout, "estimated_ftp")))
	lines = append(lines, fmt.Sprintf("  Intensity: %s", strValue(workout, "intensity_factor")))
	lines = append(lines, fmt.Sprintf("  L/R Balance: %s", strValue(workout, "left_right_balance")))
	lines = append(lines, "")

	lines = append(lines, "Heart Rate:")
	lines = append(lines, fmt.Sprintf("  Average HR: %s bpm", strValue(workout, "heart_rate_average")))
	lines = append(lines, fmt.Sprintf("  Max HR: %s bpm", strValue(workout, "heart_rate_max")))
	lines = append(lines, fmt.Sprintf("  HR Recovery: %s", strValue(workout, "best_vagal_rebound")))
	lines = append(lines, "")

	lines = append(lines, "Training Metrics:")
	lines = append(lines, fmt.Sprintf("  Load: %s", strValue(workout, "training_stress_score")))
	lines = append(lines, fmt.Sprintf("  Efficiency Factor: %s", strValue(workout, "efficiency_factor")))
	lines = append(lines, fmt.Sprintf("  Estimated VO2max: %s", strValue(workout, "estimated_vo2max")))
	lines = append(lines, fmt.Sprintf("  Power:HR Ratio: %s", strValue(workout, "power_hr_ratio")))
	lines = append(lines, fmt.Sprintf("  Cadence: %s rpm", strValue(workout, "cadence_average")))
	lines = append(lines, "")

	lines = append(lines, "Energy:")
	lines = append(lines, fmt.Sprintf("  Calories: %s", strValue(workout, "calories")))
	lines = append(lines, fmt.Sprintf("  Work (Joules): %s", strValue(workout, "work_joules")))
	lines = append(lines, fmt.Sprintf("  Carb Intake: %s g", strValue(workout, "carbohydrate_intake")))
	lines = append(lines, fmt.Sprintf("  Carb Used: %s g", strValue(workout, "carbohydrate_used")))
	lines = append(lines, "")

	if truthy(workout["feel"]) || truthy(workout["perceived_exertion"]) {
		lines = append(lines, "Subjective:")
		if truthy(workout["feel"]) {
			lines = append(lines, fmt.Sprintf("  Feel: %s", strValue(workout, "feel")))
		}
		if truthy(workout["perceived_exertion"]) {
			lines = append(lines, fmt.Sprintf("  RPE: %s/10", strValue(workout, "perceived_exertion")))
		}
		lines = append(lines, "")
	}

	lines = append(lines, "Source:")
	lines = append(lines, fmt.Sprintf("  Source: %s", strValue(workout, "source")))
	lines = append(lines, fmt.Sprintf("  Created: %s", formatDateTime(workout["created_at"])))
	lines = append(lines, fmt.Sprintf("  Updated: %s", formatDateTime(workout["updated_at"])))

	return strings.Join(lines, "\n")
}

// formatWellnessEntry renders a single wellness entry.
func formatWellnessEntry(entry map[string]any) string {
	lines := []string{"Wellness Entry:"}

	dateValue := entry["date"]
	if dateValue == nil {
		dateValue = entry["id"]
	}
	if dateValue == nil {
		dateValue = "N/A"
	}
	lines = append(lines, fmt.Sprintf("  Date: %v", dateValue))
	lines = append(lines, fmt.Sprintf("  ID: %s", strValue(entry, "id")))
	lines = append(lines, "")

	var body []string
	if f, ok := numValue(entry["weight_kg"]); ok {
		body = append(body, fmt.Sprintf("  Weight: %.1f kg", f))
	}
	if f, ok := numValue(entry["body_fat_percentage"]); ok {
		body = append(body, fmt.Sprintf("  Body Fat: %.1f%%", f))
	}
	if f, ok := numValue(entry["hydration_kg"]); ok {
		body = append(body, fmt.Sprintf("  Hydration: %.1f kg", f))
	}
	if len(body) > 0 {
		lines = append(lines, "Body Metrics:")
		lines = append(lines, body...)
		lines = append(lines, "")
	}

	var recovery []string
	if f, ok := numValue(entry["sleep_hours"]); ok {
		recovery = append(recovery, fmt.Sprintf("  Sleep: %.1f hours", f))
	}
	if entry["resting_hr"] != nil {
		recovery = append(recovery, fmt.Sprintf("  Resting HR: %s bpm", strValue(entry, "resting_hr")))
	}
	if entry["hrv_rmssd"] != nil {
		recovery = append(recovery, fmt.Sprintf("  HRV (RMSSD): %s", strValue(entry, "hrv_rmssd")))
	}
	if entry["readiness_score"] != nil {
		recovery = append(recovery, fmt.Sprintf("  Readiness Score: %s", strValue(entry, "readiness_score")))
	}
	if f, ok := numValue(entry["vo2max"]); ok {
		recovery = append(recovery, fmt.Sprintf("  VO2max: %.1f ml/kg/min", f))
	}
	if len(recovery) > 0 {
		lines = append(lines, "Recovery Metrics:")
		lines = append(lines, recovery...)
		lines = append(lines, "")
	}

	// 7-day rolling averages
	var baselines []string
	if f, ok := numValue(entry["hrv_rmssd_baseline"]); ok {
		baselines = append(baselines, fmt.Sprintf("  HRV Baseline: %.1f", f))
	}
	if f, ok := numValue(entry["resting_hr_baseline"]); ok {
		baselines = append(baselines, fmt.Sprintf("  Resting HR Baseline: %.1f bpm", f))
	}
	if f, ok := numValue(entry["sleep_baseline"]); ok {
		baselines = append(baselines, fmt.Sprintf("  Sleep Baseline: %.1f hours", f))
	}
	if f, ok := numValue(entry["hydration_baseline"]); ok {
		baselines = append(baselines, fmt.Sprintf("  Hydration Baseline: %.1f%%", f))
	}
	if f, ok := numValue(entry["vo2max_baseline"]); ok {
		baselines = append(baselines, fmt.Sprintf("  VO2max Baseline: %.1f ml/kg/min", f))
	}
	if len(baselines) > 0 {
		lines = append(lines, "7-Day Baselines:")
		lines = append(lines, baselines...)
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// formatEventSummary renders an event for the list view.
func formatEventSummary(event map[string]any) string {
	lines := []string{
		fmt.Sprintf("Event: %s", strOr(event, "name", "Unnamed")),
		fmt.Sprintf("  ID: %s", strValue(event, "id")),
		fmt.Sprintf("  Date: %s", formatDateTime(event["event_date"])),
		fmt.Sprintf("  Type: %s", strOr(event, "event_type", "Unknown")),
		fmt.Sprintf("  Status: %s", strValue(event, "status")),
	}

	if truthy(event["location"]) {
		lines = append(lines, fmt.Sprintf("  Location: %s", strValue(event, "location")))
	}
	if truthy(event["distance_km"]) {
		lines = append(lines, fmt.Sprintf("  Distance: %s km", strValue(event, "distance_km")))
	}
	if desc, ok := event["description"].(string); ok && desc != "" {
		if len(desc) > 100 {
			desc = desc[:100] + "..."
		}
		lines = append(lines, fmt.Sprintf("  Description: %s", desc))
	}

	return strings.Join(lines, "\n")
}

// formatEventDetails renders the full event view.
func formatEventDetails(event map[string]any) string {
	lines := []string{"Event Details:", ""}

	lines = append(lines, "General Information:")
	lines = append(lines, fmt.Sprintf("  Name: %s", strOr(event, "name", "Unnamed")))
	lines = append(lines, fmt.Sprintf("  ID: %s", strValue(event, "id")))
	lines = append(lines, fmt.Sprintf("  Date: %s", formatDateTime(event["event_date"])))
	lines = append(lines, fmt.Sprintf("  Type: %s", strOr(event, "event_type", "Unknown")))
	lines = append(lines, fmt.Sprintf("  Category: %s", strValue(event, "category")))
	lines = append(lines, fmt.Sprintf("  Status: %s", strValue(event, "status")))
	if truthy(event["location"]) {
		lines = append(lines, fmt.Sprintf("  Location: %s", strValue(event, "location")))
	}
	if truthy(event["description"]) {
		lines = append(lines, fmt.Sprintf("  Description: %s", strValue(event, "description")))
	}
	lines = append(lines, "")

	var course []string
	if truthy(event["distance_km"]) {
		course = append(course, fmt.Sprintf("  Distance: %s km", strValue(event, "distance_km")))
	}
	if truthy(event["elevation_gain_m"]) {
		course = append(course, fmt.Sprintf("  Elevation Gain: %s m", strValue(event, "elevation_gain_m")))
	}
	if truthy(event["duration_minutes"]) {
		course = append(course, fmt.Sprintf("  Duration: %s min", strValue(event, "duration_minutes")))
	}
	if len(course) > 0 {
		lines = append(lines, "Course Details:")
		lines = append(lines, course...)
		lines = append(lines, "")
	}

	var targets []string
	if truthy(event["target_tss"]) {
		targets = append(targets, fmt.Sprintf("  Target TSS: %s", strValue(event, "target_tss")))
	}
	if f, ok := numValue(event["target_intensity_factor"]); ok && f != 0 {
		targets = append(targets, fmt.Sprintf("  Target IF: %.2f", f))
	}
	if truthy(event["target_power_watts"]) {
		targets = append(targets, fmt.Sprintf("  Target Power: %s W", strValue(event, "target_power_watts")))
	}
	if truthy(event["estimated_calories"]) {
		targets = append(targets, fmt.Sprintf("  Est. Calories: %s", strValue(event, "estimated_calories")))
	}
	if truthy(event["estimated_carbs"]) {
		targets = append(targets, fmt.Sprintf("  Est. Carbs: %s g", strValue(event, "estimated_carbs")))
	}
	if len(targets) > 0 {
		lines = append(lines, "Targets & Estimates:")
		lines = append(lines, targets...)
		lines = append(lines, "")
	}

	var settings []string
	if v, ok := event["auto_calculate_intensity"].(bool); ok {
		settings = append(settings, fmt.Sprintf("  Auto Calculate Intensity: %s", yesNo(v)))
	}
	if v, ok := event["include_drafting"].(bool); ok {
		settings = append(settings, fmt.Sprintf("  Include Drafting: %s", yesNo(v)))
	}
	if len(settings) > 0 {
		lines = append(lines, "Settings:")
		lines = append(lines, settings...)
		lines = append(lines, "")
	}

	var links []string
	if truthy(event["event_website"]) {
		links = append(links, fmt.Sprintf("  Website: %s", strValue(event, "event_website")))
	}
	if truthy(event["registration_url"]) {
		links = append(links, fmt.Sprintf("  Registration: %s", strValue(event, "registration_url")))
	}
	if truthy(event["results_url"]) {
		links = append(links, fmt.Sprintf("  Results: %s", strValue(event, "results_url")))
	}
	if len(links) > 0 {
		lines = append(lines, "Links:")
		lines = append(lines, links...)
		lines = append(lines, "")
	}

	if truthy(event["notes"]) {
		lines = append(lines, fmt.Sprintf("Notes: %s", strValue(event, "notes")))
		lines = append(lines, "")
	}

	lines = append(lines, "Metadata:")
	if truthy(event["workout_id"]) {
		lines = append(lines, fmt.Sprintf("  Linked Workout ID: %s", strValue(event, "workout_id")))
	}
	lines = append(lines, fmt.Sprintf("  Created: %s", formatDateTime(event["created_at"])))
	lines = append(lines, fmt.Sprintf("  Updated: %s", formatDateTime(event["updated_at"])))

	return strings.Join(lines, "\n")
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
