package challenge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twentyhard/twentyhard/internal/model"
)

func day(date, status string) model.DayLog {
	return model.DayLog{Date: date, Tasks: model.Tasks{}, Status: status}
}

func TestCalculateStreaks(t *testing.T) {
	logs := []model.DayLog{
		day("2023-01-01", model.DayStatusCompleted),
		day("2023-01-02", model.DayStatusCompleted),
		day("2023-01-03", model.DayStatusFailed),
		day("2023-01-04", model.DayStatusCompleted),
		day("2023-01-05", model.DayStatusCompleted),
		day("2023-01-06", model.DayStatusCompleted),
	}

	assert.Equal(t, Streaks{Current: 3, Longest: 3}, CalculateStreaks(logs))
}

func TestCalculateStreaks_Empty(t *testing.T) {
	assert.Equal(t, Streaks{}, CalculateStreaks(nil))
}

func TestCalculateStreaks_SortsUnorderedInput(t *testing.T) {
	logs := []model.DayLog{
		day("2023-01-03", model.DayStatusCompleted),
		day("2023-01-01", model.DayStatusCompleted),
		day("2023-01-02", model.DayStatusFailed),
	}

	assert.Equal(t, Streaks{Current: 1, Longest: 1}, CalculateStreaks(logs))
	assert.Equal(t, "2023-01-03", logs[0].Date, "input must not be reordered")
}

func TestCalculateStreaks_Idempotent(t *testing.T) {
	logs := []model.DayLog{
		day("2023-01-01", model.DayStatusCompleted),
		day("2023-01-02", model.DayStatusPending),
		day("2023-01-03", model.DayStatusCompleted),
	}

	first := CalculateStreaks(logs)
	second := CalculateStreaks(logs)
	assert.Equal(t, first, second)
	assert.Equal(t, Streaks{Current: 2, Longest: 2}, first)
}

func TestCalculateStreaks_TrailingFailureResets(t *testing.T) {
	logs := []model.DayLog{
		day("2023-01-01", model.DayStatusCompleted),
		day("2023-01-02", model.DayStatusCompleted),
		day("2023-01-03", model.DayStatusFailed),
	}

	s := CalculateStreaks(logs)
	assert.Equal(t, 0, s.Current)
	assert.Equal(t, 2, s.Longest)
}

func TestCalculateStreaks_PendingIsNeutral(t *testing.T) {
	logs := []model.DayLog{
		day("2023-01-01", model.DayStatusCompleted),
		day("2023-01-02", model.DayStatusCompleted),
	}
	before := CalculateStreaks(logs)

	after := CalculateStreaks(append(logs, day("2023-01-03", model.DayStatusPending)))
	assert.Equal(t, before, after)
}

func TestCalculateStreaks_LongestNeverDecreases(t *testing.T) {
	var logs []model.DayLog
	longest := 0
	statuses := []string{
		model.DayStatusCompleted, model.DayStatusCompleted, model.DayStatusFailed,
		model.DayStatusCompleted, model.DayStatusPending, model.DayStatusCompleted,
		model.DayStatusCompleted, model.DayStatusFailed, model.DayStatusCompleted,
	}
	for i, st := range statuses {
		logs = append(logs, day(AddDays("2023-02-01", i), st))
		s := CalculateStreaks(logs)
		assert.GreaterOrEqual(t, s.Longest, longest)
		longest = s.Longest
	}
	assert.Equal(t, 3, longest)
}
