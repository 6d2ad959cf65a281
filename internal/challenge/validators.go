package challenge

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	MinWorkoutMinutes = 30
	MinWaterLiters    = 3.78
	MinReadingMinutes = 30
	MinReadingPages   = 20
	MinDailyWeight    = 30
	MaxDailyWeight    = 200
)

var (
	workoutTypes       = []string{"strength", "cardio"}
	workoutIntensities = []string{"light", "moderate", "high"}
	workoutLocations   = []string{"gym", "home", "outdoor"}

	nonCompliantFoods = []string{"egg", "meat", "fish", "chicken", "beef", "pork", "salmon", "tuna", "shrimp"}
)

// Validators never fail on malformed input: a wrong shape is simply not satisfied.

// ValidateWorkout requires a logged session of at least MinWorkoutMinutes
// with a known type, intensity and location.
func ValidateWorkout(v any) bool {
	m, ok := asMap(v)
	if !ok || !isTrue(m["logged"]) {
		return false
	}
	minutes, ok := asNumber(m["duration"])
	return ok &&
		minutes >= MinWorkoutMinutes &&
		oneOf(m["type"], workoutTypes) &&
		oneOf(m["intensity"], workoutIntensities) &&
		oneOf(m["location"], workoutLocations)
}

// ValidateWater requires at least MinWaterLiters.
func ValidateWater(v any) bool {
	m, ok := asMap(v)
	if !ok {
		return false
	}
	liters, ok := asNumber(m["liters"])
	return ok && liters >= MinWaterLiters
}

// ValidateDiet accepts meals as objects with an optional compliant flag, or as
// plain descriptions judged by ValidateMealCompliance.
func ValidateDiet(v any) bool {
	m, ok := asMap(v)
	if !ok {
		return false
	}
	meals, ok := m["meals"].([]any)
	if !ok || len(meals) == 0 {
		return false
	}
	if isTrue(m["compliant"]) {
		return true
	}
	for _, meal := range meals {
		switch meal := meal.(type) {
		case map[string]any:
			if c, ok := meal["compliant"].(bool); ok && !c {
				return false
			}
		case string:
			if !ValidateMealCompliance(meal) {
				return false
			}
		}
	}
	return true
}

// ValidateMealCompliance rejects descriptions that mention non-vegetarian food.
func ValidateMealCompliance(meal string) bool {
	lower := strings.ToLower(meal)
	for _, kw := range nonCompliantFoods {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	return true
}

// ValidatePhoto requires an uploaded photo whose timestamp falls on day in loc.
func ValidatePhoto(v any, day string, loc *time.Location) bool {
	m, ok := asMap(v)
	if !ok || !isTrue(m["uploaded"]) {
		return false
	}
	ts, ok := asTime(m["timestamp"])
	if !ok {
		return false
	}
	if loc == nil {
		loc = time.UTC
	}
	return FormatDate(ts.In(loc)) == day
}

// ValidateReading requires a title plus enough minutes or pages.
func ValidateReading(v any) bool {
	m, ok := asMap(v)
	if !ok {
		return false
	}
	title, _ := m["title"].(string)
	if strings.TrimSpace(title) == "" {
		return false
	}
	if minutes, ok := asNumber(m["minutes"]); ok && minutes >= MinReadingMinutes {
		return true
	}
	pages, ok := asNumber(m["pages"])
	return ok && pages >= MinReadingPages
}

// ValidateWeight accepts a daily weigh-in between MinDailyWeight and MaxDailyWeight.
func ValidateWeight(v any) bool {
	w, ok := WeightValue(v)
	return ok && w >= MinDailyWeight && w <= MaxDailyWeight
}

// WeightValue extracts a weight from a bare number or a {logged, value} payload.
func WeightValue(v any) (float64, bool) {
	if n, ok := asNumber(v); ok {
		return n, true
	}
	m, ok := asMap(v)
	if !ok {
		return 0, false
	}
	if logged, present := m["logged"]; present && !isTrue(logged) {
		return 0, false
	}
	if n, ok := asNumber(m["value"]); ok {
		return n, true
	}
	return asNumber(m["weight"])
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}

func isTrue(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, n == n
	case float32:
		return float64(n), n == n
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func asTime(v any) (time.Time, bool) {
	switch ts := v.(type) {
	case time.Time:
		return ts, !ts.IsZero()
	case string:
		t, err := time.Parse(time.RFC3339Nano, ts)
		return t, err == nil
	default:
		// epoch milliseconds
		ms, ok := asNumber(v)
		if !ok || ms <= 0 {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(ms)), true
	}
}

func oneOf(v any, allowed []string) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}
