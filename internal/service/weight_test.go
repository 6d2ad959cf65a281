package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twentyhard/twentyhard/internal/challenge"
	"github.com/twentyhard/twentyhard/internal/model"
)

func TestWeight_RequiresGoal(t *testing.T) {
	f := newFixture(t, "2024-05-10", 20)
	f.createUser(t, "u1")

	_, err := f.weights.Summary(f.ctx, "u1")
	assert.ErrorIs(t, err, challenge.ErrNoWeightGoal)
	assert.Equal(t, challenge.KindNotFound, challenge.KindOf(err))

	_, err = f.weights.LogEntry(f.ctx, "u1", "2024-05-10", 90)
	assert.ErrorIs(t, err, challenge.ErrNoWeightGoal)
}

func TestWeight_GoalAndEntries(t *testing.T) {
	f := newFixture(t, "2024-05-10", 20)
	f.createUser(t, "u1")

	_, err := f.weights.SetGoal(f.ctx, "u1", 90, 100, 20)
	assert.ErrorIs(t, err, challenge.ErrInvalidGoal)

	goal, err := f.weights.SetGoal(f.ctx, "u1", 100, 90, 20)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-10", goal.StartDate)
	assert.InDelta(t, 0.5, goal.DailyLossTarget, 1e-9)

	_, err = f.weights.LogEntry(f.ctx, "u1", "2024-05-10", 99.4)
	require.NoError(t, err)

	_, err = f.weights.LogEntry(f.ctx, "u1", "2024-05-11", 99)
	assert.ErrorIs(t, err, challenge.ErrFutureLog)

	_, err = f.weights.LogEntry(f.ctx, "u1", "2024-05-10", 500)
	assert.ErrorIs(t, err, challenge.ErrInvalidWeight)

	sum, err := f.weights.Summary(f.ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 99.4, sum.Stats.CurrentWeight)
	assert.Equal(t, 1, sum.Stats.Entries)
	assert.InDelta(t, 88.0, sum.Projected, 1e-9)
	require.NotNil(t, sum.Progress)
	assert.Equal(t, 1, sum.Progress.DayNumber)
	assert.True(t, sum.Progress.Valid)

	check, err := f.weights.Progress(f.ctx, "u1", 10)
	require.NoError(t, err)
	assert.InDelta(t, 95.0, check.Expected, 1e-9)
	assert.False(t, check.Valid)
}

func TestWeight_DayLogFeedsSeries(t *testing.T) {
	f := newFixture(t, "2024-05-10", 20)
	f.createUser(t, "u1")
	_, err := f.weights.SetGoal(f.ctx, "u1", 100, 90, 20)
	require.NoError(t, err)

	_, err = f.challenges.LogDay(f.ctx, "u1", "2024-05-10", model.Tasks{"weight": map[string]any{"logged": true, "value": 98.7}})
	require.NoError(t, err)
	// out of the daily range: stored on the log, not in the series
	_, err = f.challenges.LogDay(f.ctx, "u1", "2024-05-09", model.Tasks{"weight": 250.0})
	require.NoError(t, err)

	sum, err := f.weights.Summary(f.ctx, "u1")
	require.NoError(t, err)
	require.Len(t, sum.Goal.WeightLog, 1)
	assert.Equal(t, model.WeightEntry{Date: "2024-05-10", Weight: 98.7}, sum.Goal.WeightLog[0])
}

func TestWeight_Export(t *testing.T) {
	f := newFixture(t, "2024-05-10", 20)
	f.createUser(t, "u1")
	_, err := f.weights.SetGoal(f.ctx, "u1", 100, 90, 20)
	require.NoError(t, err)
	_, err = f.weights.LogEntry(f.ctx, "u1", "2024-05-09", 99.5)
	require.NoError(t, err)

	body, contentType, err := f.weights.Export(f.ctx, "u1", "CSV")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.True(t, strings.HasPrefix(string(body), "date,weight\n2024-05-09,99.5"))

	_, contentType, err = f.weights.Export(f.ctx, "u1", "")
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)

	_, _, err = f.weights.Export(f.ctx, "u1", "xml")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
