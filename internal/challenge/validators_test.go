package challenge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func workout() map[string]any {
	return map[string]any{
		"logged":    true,
		"type":      "strength",
		"duration":  45.0,
		"intensity": "high",
		"location":  "gym",
	}
}

func TestValidateWorkout(t *testing.T) {
	assert.True(t, ValidateWorkout(workout()))

	short := workout()
	short["duration"] = 29
	assert.False(t, ValidateWorkout(short))

	notLogged := workout()
	notLogged["logged"] = false
	assert.False(t, ValidateWorkout(notLogged))

	badType := workout()
	badType["type"] = "yoga"
	assert.False(t, ValidateWorkout(badType))

	badLocation := workout()
	badLocation["location"] = "office"
	assert.False(t, ValidateWorkout(badLocation))

	assert.False(t, ValidateWorkout(nil))
	assert.False(t, ValidateWorkout("workout"))
}

func TestValidateWater(t *testing.T) {
	assert.True(t, ValidateWater(map[string]any{"liters": 3.78}))
	assert.True(t, ValidateWater(map[string]any{"liters": 4}))
	assert.False(t, ValidateWater(map[string]any{"liters": 3.7}))
	assert.False(t, ValidateWater(map[string]any{"liters": "4"}))
	assert.False(t, ValidateWater(nil))
}

func TestValidateDiet(t *testing.T) {
	assert.True(t, ValidateDiet(map[string]any{
		"meals": []any{map[string]any{"name": "dal"}, map[string]any{"name": "roti", "compliant": true}},
	}))
	assert.False(t, ValidateDiet(map[string]any{
		"meals": []any{map[string]any{"name": "burger", "compliant": false}},
	}))
	assert.True(t, ValidateDiet(map[string]any{
		"compliant": true,
		"meals":     []any{map[string]any{"name": "burger", "compliant": false}},
	}))
	assert.False(t, ValidateDiet(map[string]any{"compliant": true, "meals": []any{}}))
	assert.False(t, ValidateDiet(map[string]any{"compliant": true}))
	assert.False(t, ValidateDiet(map[string]any{"meals": []any{"paneer curry", "chicken tikka"}}))
	assert.True(t, ValidateDiet(map[string]any{"meals": []any{"paneer curry", "vegetable salad"}}))
}

func TestValidateMealCompliance(t *testing.T) {
	assert.True(t, ValidateMealCompliance("Dal and rice"))
	assert.False(t, ValidateMealCompliance("Grilled Salmon"))
	assert.False(t, ValidateMealCompliance("EGG fried rice"))
}

func TestValidatePhoto(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Singapore")
	if err != nil {
		t.Skip("tzdata not available")
	}

	// 2024-03-10 20:00 UTC is already 2024-03-11 in Singapore.
	ts := "2024-03-10T20:00:00Z"
	photo := map[string]any{"uploaded": true, "timestamp": ts}

	assert.True(t, ValidatePhoto(photo, "2024-03-10", time.UTC))
	assert.False(t, ValidatePhoto(photo, "2024-03-11", time.UTC))
	assert.True(t, ValidatePhoto(photo, "2024-03-11", loc))

	millis := map[string]any{"uploaded": true, "timestamp": float64(time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC).UnixMilli())}
	assert.True(t, ValidatePhoto(millis, "2024-03-10", time.UTC))

	assert.False(t, ValidatePhoto(map[string]any{"uploaded": false, "timestamp": ts}, "2024-03-10", time.UTC))
	assert.False(t, ValidatePhoto(map[string]any{"uploaded": true}, "2024-03-10", time.UTC))
	assert.False(t, ValidatePhoto(map[string]any{"uploaded": true, "timestamp": "yesterday"}, "2024-03-10", time.UTC))
}

func TestValidateReading(t *testing.T) {
	assert.True(t, ValidateReading(map[string]any{"title": "Atomic Habits", "minutes": 30}))
	assert.True(t, ValidateReading(map[string]any{"title": "Atomic Habits", "pages": 20}))
	assert.False(t, ValidateReading(map[string]any{"title": "Atomic Habits", "minutes": 29, "pages": 19}))
	assert.False(t, ValidateReading(map[string]any{"title": "  ", "minutes": 60}))
	assert.False(t, ValidateReading(map[string]any{"minutes": 60}))
}

func TestValidateWeight(t *testing.T) {
	assert.True(t, ValidateWeight(80.5))
	assert.True(t, ValidateWeight(30))
	assert.True(t, ValidateWeight(200))
	assert.True(t, ValidateWeight(map[string]any{"logged": true, "value": 81.0}))
	assert.False(t, ValidateWeight(29.9))
	assert.False(t, ValidateWeight(200.1))
	assert.False(t, ValidateWeight("80"))
	assert.False(t, ValidateWeight(true))
	assert.False(t, ValidateWeight(map[string]any{"logged": false, "value": 81.0}))
}
