package challenge

import (
	"strings"
	"time"

	"github.com/twentyhard/twentyhard/internal/model"
)

const DefaultGoalDays = 20

// Engine applies the day-boundary rules. It holds no per-user state and is
// safe for concurrent use; callers serialize writes per challenge.
type Engine struct {
	clock    Clock
	goalDays int
}

func NewEngine(clock Clock, goalDays int) *Engine {
	if clock == nil {
		clock = SystemClock{Location: time.UTC}
	}
	if goalDays <= 0 {
		goalDays = DefaultGoalDays
	}
	return &Engine{clock: clock, goalDays: goalDays}
}

func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

func (e *Engine) Location() *time.Location {
	return e.clock.Now().Location()
}

func (e *Engine) Today() string {
	return FormatDate(e.clock.Now())
}

func (e *Engine) GoalDays() int {
	return e.goalDays
}

// NewChallenge builds the default record created on first access.
func (e *Engine) NewChallenge(userID string) *model.Challenge {
	now := e.Now()
	return &model.Challenge{
		UserID:         userID,
		StartDate:      FormatDate(now),
		DailyLogs:      []model.DayLog{},
		CustomTasks:    DefaultTasks(),
		Badges:         []string{},
		FailureHistory: []model.FailureRecord{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// CheckWriteWindow allows writes for today and yesterday only.
func (e *Engine) CheckWriteWindow(date string) error {
	if _, err := ParseDate(date); err != nil {
		return err
	}
	today := e.Today()
	if date > today {
		return ErrFutureLog
	}
	if date < AddDays(today, -1) {
		return ErrWindowClosed
	}
	return nil
}

type RefreshResult struct {
	Normalized bool
	Backfilled []string
	Locked     []string
	Failed     []model.FailureRecord
	Won        bool
}

func (r RefreshResult) Changed() bool {
	return r.Normalized || len(r.Backfilled) > 0 || len(r.Locked) > 0 || r.Won
}

// Refresh runs the read-path enforcement: template normalization, auto-fail
// backfill, locking of closed days, and streak recomputation.
func (e *Engine) Refresh(ch *model.Challenge) RefreshResult {
	var res RefreshResult
	res.Normalized = normalizeTasks(ch)
	res.Backfilled = e.Backfill(ch)
	res.Locked, res.Failed = e.LockClosedDays(ch)
	res.Won = e.recompute(ch)
	return res
}

// Backfill appends a failed, empty log for every day strictly between the
// latest log and today. Running it twice adds nothing the second time. Stored
// dates that do not parse are ignored.
func (e *Engine) Backfill(ch *model.Challenge) []string {
	var last time.Time
	for _, l := range ch.DailyLogs {
		t, err := ParseDate(l.Date)
		if err != nil {
			continue
		}
		if t.After(last) {
			last = t
		}
	}
	if last.IsZero() {
		return nil
	}

	today, err := ParseDate(e.Today())
	if err != nil {
		return nil
	}

	var added []string
	for d := last.AddDate(0, 0, 1); d.Before(today); d = d.AddDate(0, 0, 1) {
		date := FormatDate(d)
		ch.DailyLogs = append(ch.DailyLogs, model.DayLog{
			Date:   date,
			Tasks:  model.Tasks{},
			Status: model.DayStatusFailed,
		})
		added = append(added, date)
	}
	return added
}

// LockClosedDays finalizes every unlocked day before yesterday. A locked day
// is completed or failed, never pending, and is not edited again.
func (e *Engine) LockClosedDays(ch *model.Challenge) ([]string, []model.FailureRecord) {
	yesterday := AddDays(e.Today(), -1)
	loc := e.Location()
	now := e.Now()

	var (
		locked []string
		failed []model.FailureRecord
	)
	for i := range ch.DailyLogs {
		l := &ch.DailyLogs[i]
		if l.Locked || l.Date >= yesterday {
			continue
		}
		report := ValidateDayCompletion(*l, ch.CustomTasks, loc)
		l.Locked = true
		locked = append(locked, l.Date)
		if report.Valid {
			l.Status = model.DayStatusCompleted
			continue
		}
		l.Status = model.DayStatusFailed
		rec := model.FailureRecord{
			Date:     l.Date,
			Day:      dayNumber(ch.StartDate, l.Date),
			Reason:   report.FailureReason,
			Failures: report.Failures,
			LockedAt: now,
		}
		ch.FailureHistory = append(ch.FailureHistory, rec)
		failed = append(failed, rec)
	}
	return locked, failed
}

// ApplyLog merges tasks into the log for date. Fields are last-write-wins;
// a nil value removes the field. Nothing is changed on error. The returned
// flag reports whether this write won the challenge.
func (e *Engine) ApplyLog(ch *model.Challenge, date string, tasks model.Tasks) (bool, error) {
	err := e.CheckWriteWindow(date)
	if err != nil {
		return false, err
	}

	log := ch.Log(date)
	if log != nil && log.Locked {
		return false, ErrDayLocked
	}
	if log == nil {
		ch.DailyLogs = append(ch.DailyLogs, model.DayLog{Date: date, Tasks: model.Tasks{}})
		log = &ch.DailyLogs[len(ch.DailyLogs)-1]
	}
	if log.Tasks == nil {
		log.Tasks = model.Tasks{}
	}

	for id, v := range tasks {
		if v == nil {
			delete(log.Tasks, id)
			continue
		}
		log.Tasks[id] = v
	}
	log.Status = DayStatus(date, log.Tasks, ch.CustomTasks, e.Today(), e.Location())

	return e.recompute(ch), nil
}

// UpdateTasks replaces the task template. Disabling or dropping a locked task
// rejects the whole list.
func (e *Engine) UpdateTasks(ch *model.Challenge, list []model.CustomTask) error {
	if len(list) == 0 {
		return ErrInvalidTaskList
	}
	seen := make(map[string]model.CustomTask, len(list))
	for _, t := range list {
		id := strings.TrimSpace(t.ID)
		if id == "" || id != t.ID || strings.TrimSpace(t.Label) == "" {
			return ErrInvalidTaskList
		}
		if _, dup := seen[id]; dup {
			return ErrInvalidTaskList
		}
		seen[id] = t
	}
	for _, id := range append(append([]string{}, CoreTasks...), TaskWeight) {
		t, ok := seen[id]
		if !ok || !t.Enabled {
			return ErrCoreTaskDisabled
		}
	}

	ch.CustomTasks = append([]model.CustomTask(nil), list...)

	today, loc := e.Today(), e.Location()
	for i := range ch.DailyLogs {
		l := &ch.DailyLogs[i]
		if l.Locked {
			continue
		}
		l.Status = DayStatus(l.Date, l.Tasks, ch.CustomTasks, today, loc)
	}
	e.recompute(ch)
	return nil
}

func (e *Engine) recompute(ch *model.Challenge) bool {
	SortLogs(ch.DailyLogs)
	s := CalculateStreaks(ch.DailyLogs)
	ch.CurrentStreak = s.Current
	ch.LongestStreak = s.Longest

	if ch.ChallengeWon || ch.CurrentStreak < e.goalDays {
		return false
	}
	now := e.Now()
	ch.ChallengeWon = true
	ch.WonAt = &now
	return true
}

// normalizeTasks installs the default template on empty lists and makes sure
// the weight task is present and enabled.
func normalizeTasks(ch *model.Challenge) bool {
	if len(ch.CustomTasks) == 0 {
		ch.CustomTasks = DefaultTasks()
		return true
	}
	for i, t := range ch.CustomTasks {
		if t.ID == TaskWeight {
			if t.Enabled {
				return false
			}
			ch.CustomTasks[i].Enabled = true
			return true
		}
	}
	defaults := DefaultTasks()
	ch.CustomTasks = append(ch.CustomTasks, defaults[len(defaults)-1])
	return true
}

func dayNumber(start, date string) int {
	if start == "" {
		return 0
	}
	return DaysBetween(start, date) + 1
}

type StreakStatus struct {
	CurrentStreak  int                   `json:"currentStreak"`
	LongestStreak  int                   `json:"longestStreak"`
	FailureCount   int                   `json:"failureCount"`
	ChallengeWon   bool                  `json:"challengeWon"`
	WonAt          *time.Time            `json:"wonAt,omitempty"`
	GoalDays       int                   `json:"goalDays"`
	DaysRemaining  int                   `json:"daysRemaining"`
	NextDay        int                   `json:"nextDay"`
	RecentFailures []model.FailureRecord `json:"recentFailures"`
}

// Status summarizes streak progress with the last five failures.
func (e *Engine) Status(ch *model.Challenge) StreakStatus {
	recent := ch.FailureHistory
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	remaining := e.goalDays - ch.CurrentStreak
	if remaining < 0 || ch.ChallengeWon {
		remaining = 0
	}
	return StreakStatus{
		CurrentStreak:  ch.CurrentStreak,
		LongestStreak:  ch.LongestStreak,
		FailureCount:   len(ch.FailureHistory),
		ChallengeWon:   ch.ChallengeWon,
		WonAt:          ch.WonAt,
		GoalDays:       e.goalDays,
		DaysRemaining:  remaining,
		NextDay:        NextDayNumber(ch),
		RecentFailures: append([]model.FailureRecord{}, recent...),
	}
}

// NextDayNumber is the challenge day the user is working towards.
func NextDayNumber(ch *model.Challenge) int {
	return ch.CurrentStreak + 1
}
