package challenge

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twentyhard/twentyhard/internal/model"
)

func newTestEngine(today string) (*Engine, *FakeClock) {
	d, _ := ParseDate(today)
	clock := NewFakeClock(d.Add(10 * time.Hour))
	return NewEngine(clock, DefaultGoalDays), clock
}

func completeTasks() model.Tasks {
	return model.Tasks{
		"workout1": true, "workout2": true, "water": true,
		"diet": true, "photo": true, "reading": true, "weight": 80.0,
	}
}

func TestCheckWriteWindow(t *testing.T) {
	e, _ := newTestEngine("2024-05-10")

	assert.NoError(t, e.CheckWriteWindow("2024-05-10"))
	assert.NoError(t, e.CheckWriteWindow("2024-05-09"))
	assert.ErrorIs(t, e.CheckWriteWindow("2024-05-11"), ErrFutureLog)
	assert.ErrorIs(t, e.CheckWriteWindow("2024-05-07"), ErrWindowClosed)
	assert.ErrorIs(t, e.CheckWriteWindow("2024-5-10"), ErrInvalidDate)
	assert.ErrorIs(t, e.CheckWriteWindow("not-a-date"), ErrInvalidDate)

	assert.Equal(t, KindTemporalPolicy, KindOf(e.CheckWriteWindow("2024-05-11")))
	assert.Equal(t, KindInvalidInput, KindOf(e.CheckWriteWindow("garbage")))
}

func TestApplyLog_RejectsWithoutMutation(t *testing.T) {
	e, _ := newTestEngine("2024-05-10")
	ch := e.NewChallenge("u1")

	_, err := e.ApplyLog(ch, "2024-05-11", completeTasks())
	assert.ErrorIs(t, err, ErrFutureLog)
	_, err = e.ApplyLog(ch, "2024-05-07", completeTasks())
	assert.ErrorIs(t, err, ErrWindowClosed)

	assert.Empty(t, ch.DailyLogs)
}

func TestApplyLog_MergesFields(t *testing.T) {
	e, _ := newTestEngine("2024-05-10")
	ch := e.NewChallenge("u1")

	_, err := e.ApplyLog(ch, "2024-05-10", model.Tasks{"workout1": true, "water": true})
	require.NoError(t, err)
	_, err = e.ApplyLog(ch, "2024-05-10", model.Tasks{"water": false, "diet": true})
	require.NoError(t, err)

	log := ch.Log("2024-05-10")
	require.NotNil(t, log)
	assert.Equal(t, model.Tasks{"workout1": true, "water": false, "diet": true}, log.Tasks)
	assert.Equal(t, model.DayStatusPending, log.Status)

	_, err = e.ApplyLog(ch, "2024-05-10", model.Tasks{"diet": nil})
	require.NoError(t, err)
	assert.NotContains(t, ch.Log("2024-05-10").Tasks, "diet")
}

func TestApplyLog_CompletesDayAndExtendsStreak(t *testing.T) {
	e, _ := newTestEngine("2024-05-10")
	ch := e.NewChallenge("u1")

	_, err := e.ApplyLog(ch, "2024-05-09", completeTasks())
	require.NoError(t, err)
	_, err = e.ApplyLog(ch, "2024-05-10", completeTasks())
	require.NoError(t, err)

	assert.Equal(t, model.DayStatusCompleted, ch.Log("2024-05-10").Status)
	assert.Equal(t, 2, ch.CurrentStreak)
	assert.Equal(t, 2, ch.LongestStreak)
}

func TestApplyLog_YesterdayWithExplicitMissFails(t *testing.T) {
	e, _ := newTestEngine("2024-05-10")
	ch := e.NewChallenge("u1")

	_, err := e.ApplyLog(ch, "2024-05-09", model.Tasks{"workout1": true, "reading": false})
	require.NoError(t, err)
	assert.Equal(t, model.DayStatusFailed, ch.Log("2024-05-09").Status)
}

func TestBackfill(t *testing.T) {
	e, _ := newTestEngine("2024-05-10")
	ch := e.NewChallenge("u1")
	ch.DailyLogs = []model.DayLog{
		{Date: "2024-05-05", Tasks: completeTasks(), Status: model.DayStatusCompleted},
	}

	added := e.Backfill(ch)
	assert.Equal(t, []string{"2024-05-06", "2024-05-07", "2024-05-08", "2024-05-09"}, added)
	for _, d := range added {
		l := ch.Log(d)
		require.NotNil(t, l)
		assert.Equal(t, model.DayStatusFailed, l.Status)
		assert.Empty(t, l.Tasks)
	}
	assert.Nil(t, ch.Log("2024-05-10"), "today is never backfilled")

	assert.Empty(t, e.Backfill(ch), "second run adds nothing")
}

func TestBackfill_NoLogsNoGap(t *testing.T) {
	e, _ := newTestEngine("2024-05-10")
	ch := e.NewChallenge("u1")
	assert.Empty(t, e.Backfill(ch))

	ch.DailyLogs = []model.DayLog{day("2024-05-09", model.DayStatusPending)}
	assert.Empty(t, e.Backfill(ch))
}

func TestBackfill_IgnoresMalformedStoredDates(t *testing.T) {
	e, _ := newTestEngine("2026-10-17")

	for _, bad := range []string{"2026-1-5", "2023-02-30", ""} {
		ch := e.NewChallenge("u1")
		ch.DailyLogs = []model.DayLog{{Date: bad, Tasks: model.Tasks{}, Status: model.DayStatusPending}}

		done := make(chan []string, 1)
		go func() { done <- e.Backfill(ch) }()
		select {
		case added := <-done:
			assert.Empty(t, added, "date %q", bad)
			assert.Len(t, ch.DailyLogs, 1)
		case <-time.After(2 * time.Second):
			t.Fatalf("Backfill did not return for stored date %q", bad)
		}
	}

	ch := e.NewChallenge("u1")
	ch.DailyLogs = []model.DayLog{
		{Date: "2026-10-14", Tasks: completeTasks(), Status: model.DayStatusCompleted},
		{Date: "2026-1-5", Tasks: model.Tasks{}, Status: model.DayStatusPending},
	}
	assert.Equal(t, []string{"2026-10-15", "2026-10-16"}, e.Backfill(ch))
}

func TestRefresh_AutoFailBreaksStreak(t *testing.T) {
	e, clock := newTestEngine("2024-05-01")
	ch := e.NewChallenge("u1")

	for i := 0; i < 3; i++ {
		_, err := e.ApplyLog(ch, e.Today(), completeTasks())
		require.NoError(t, err)
		clock.Advance(24 * time.Hour)
	}
	res := e.Refresh(ch)
	assert.Empty(t, res.Backfilled)
	assert.Equal(t, 3, ch.CurrentStreak)

	// two days pass without logging
	clock.Advance(48 * time.Hour)
	res = e.Refresh(ch)
	assert.Equal(t, []string{"2024-05-04", "2024-05-05"}, res.Backfilled)
	assert.Equal(t, 0, ch.CurrentStreak)
	assert.Equal(t, 3, ch.LongestStreak)
	assert.True(t, res.Changed())

	again := e.Refresh(ch)
	assert.False(t, again.Changed())
	assert.Equal(t, 0, ch.CurrentStreak)
}

func TestRefresh_LocksClosedDaysAndRecordsFailures(t *testing.T) {
	e, _ := newTestEngine("2024-05-10")
	ch := e.NewChallenge("u1")
	ch.StartDate = "2024-05-06"
	ch.DailyLogs = []model.DayLog{
		{Date: "2024-05-06", Tasks: completeTasks(), Status: model.DayStatusCompleted},
		{Date: "2024-05-07", Tasks: model.Tasks{"workout1": true}, Status: model.DayStatusPending},
	}

	res := e.Refresh(ch)

	assert.Equal(t, []string{"2024-05-08", "2024-05-09"}, res.Backfilled)
	assert.Equal(t, []string{"2024-05-06", "2024-05-07", "2024-05-08"}, res.Locked)
	require.Len(t, res.Failed, 2)
	assert.Equal(t, "2024-05-07", res.Failed[0].Date)
	assert.Equal(t, 2, res.Failed[0].Day)
	assert.Equal(t, "workout_2_missing", res.Failed[0].Reason)
	assert.Equal(t, "workout_1_missing", res.Failed[1].Reason)

	assert.Equal(t, model.DayStatusCompleted, ch.Log("2024-05-06").Status)
	assert.Equal(t, model.DayStatusFailed, ch.Log("2024-05-07").Status)
	assert.True(t, ch.Log("2024-05-07").Locked)
	assert.False(t, ch.Log("2024-05-09").Locked, "yesterday stays editable")
	assert.Len(t, ch.FailureHistory, 2)

	_, err := e.ApplyLog(ch, "2024-05-09", completeTasks())
	require.NoError(t, err)
	assert.Equal(t, model.DayStatusCompleted, ch.Log("2024-05-09").Status)
	assert.Equal(t, 1, ch.CurrentStreak)
	assert.Equal(t, 1, ch.LongestStreak)
}

func TestApplyLog_LockedDayRejected(t *testing.T) {
	e, _ := newTestEngine("2024-05-10")
	ch := e.NewChallenge("u1")
	ch.DailyLogs = []model.DayLog{
		{Date: "2024-05-09", Tasks: model.Tasks{}, Status: model.DayStatusFailed, Locked: true},
	}

	_, err := e.ApplyLog(ch, "2024-05-09", completeTasks())
	assert.ErrorIs(t, err, ErrDayLocked)
	assert.Empty(t, ch.Log("2024-05-09").Tasks)
}

func TestApplyLog_WinsChallengeOnce(t *testing.T) {
	e, clock := newTestEngine("2024-01-01")
	ch := e.NewChallenge("u1")

	wins := 0
	for i := 0; i < 22; i++ {
		e.Refresh(ch)
		won, err := e.ApplyLog(ch, e.Today(), completeTasks())
		require.NoError(t, err)
		if won {
			wins++
			assert.Equal(t, 20, ch.CurrentStreak)
		}
		clock.Advance(24 * time.Hour)
	}

	assert.Equal(t, 1, wins)
	assert.True(t, ch.ChallengeWon)
	require.NotNil(t, ch.WonAt)

	// a later failure does not undo the win
	clock.Advance(72 * time.Hour)
	e.Refresh(ch)
	assert.Equal(t, 0, ch.CurrentStreak)
	assert.True(t, ch.ChallengeWon)
}

func TestUpdateTasks(t *testing.T) {
	e, _ := newTestEngine("2024-05-10")
	ch := e.NewChallenge("u1")

	list := append(DefaultTasks(), model.CustomTask{ID: "meditate", Label: "Meditate", Enabled: true})
	require.NoError(t, e.UpdateTasks(ch, list))
	assert.Len(t, ch.CustomTasks, 8)

	list[len(list)-1].Enabled = false
	require.NoError(t, e.UpdateTasks(ch, list), "custom tasks may be disabled")
}

func TestUpdateTasks_RejectsDisablingCoreTask(t *testing.T) {
	e, _ := newTestEngine("2024-05-10")
	ch := e.NewChallenge("u1")
	before := ch.Clone()

	list := DefaultTasks()
	list[0] = model.CustomTask{ID: "workout1", Label: "Workout I", Enabled: false}
	err := e.UpdateTasks(ch, list)

	assert.ErrorIs(t, err, ErrCoreTaskDisabled)
	assert.Equal(t, KindPolicy, KindOf(err))
	assert.Equal(t, before, ch)
}

func TestUpdateTasks_RejectsDroppingWeightOrDuplicates(t *testing.T) {
	e, _ := newTestEngine("2024-05-10")
	ch := e.NewChallenge("u1")

	noWeight := DefaultTasks()[:6]
	assert.ErrorIs(t, e.UpdateTasks(ch, noWeight), ErrCoreTaskDisabled)

	dup := append(DefaultTasks(), model.CustomTask{ID: "water", Label: "Again", Enabled: true})
	assert.ErrorIs(t, e.UpdateTasks(ch, dup), ErrInvalidTaskList)

	unlabeled := append(DefaultTasks(), model.CustomTask{ID: "x", Enabled: true})
	assert.ErrorIs(t, e.UpdateTasks(ch, unlabeled), ErrInvalidTaskList)

	assert.ErrorIs(t, e.UpdateTasks(ch, nil), ErrInvalidTaskList)
}

func TestUpdateTasks_RecomputesOpenDays(t *testing.T) {
	e, _ := newTestEngine("2024-05-10")
	ch := e.NewChallenge("u1")

	_, err := e.ApplyLog(ch, "2024-05-10", completeTasks())
	require.NoError(t, err)
	assert.Equal(t, 1, ch.CurrentStreak)

	list := append(DefaultTasks(), model.CustomTask{ID: "meditate", Label: "Meditate", Enabled: true})
	require.NoError(t, e.UpdateTasks(ch, list))
	assert.Equal(t, model.DayStatusPending, ch.Log("2024-05-10").Status)
	assert.Equal(t, 0, ch.CurrentStreak)
}

func TestRefresh_NormalizesLegacyTemplate(t *testing.T) {
	e, _ := newTestEngine("2024-05-10")
	ch := &model.Challenge{UserID: "u1"}

	res := e.Refresh(ch)
	assert.True(t, res.Normalized)
	assert.Equal(t, DefaultTasks(), ch.CustomTasks)

	ch.CustomTasks = DefaultTasks()[:6]
	res = e.Refresh(ch)
	assert.True(t, res.Normalized)
	assert.Equal(t, TaskWeight, ch.CustomTasks[6].ID)
}

func TestStatus(t *testing.T) {
	e, _ := newTestEngine("2024-05-10")
	ch := e.NewChallenge("u1")
	ch.CurrentStreak = 4
	ch.LongestStreak = 9
	for i := 0; i < 7; i++ {
		ch.FailureHistory = append(ch.FailureHistory, model.FailureRecord{Date: AddDays("2024-04-01", i)})
	}

	s := e.Status(ch)
	assert.Equal(t, 4, s.CurrentStreak)
	assert.Equal(t, 9, s.LongestStreak)
	assert.Equal(t, 7, s.FailureCount)
	assert.Equal(t, 5, s.NextDay)
	assert.Equal(t, 16, s.DaysRemaining)
	require.Len(t, s.RecentFailures, 5)
	assert.Equal(t, "2024-04-03", s.RecentFailures[0].Date)
}

func TestKindOf_Wrapped(t *testing.T) {
	err := errors.Join(errors.New("context"), ErrWindowClosed)
	assert.Equal(t, KindTemporalPolicy, KindOf(err))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}
