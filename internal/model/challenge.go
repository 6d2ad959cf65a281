package model

import (
	"slices"
	"time"
)

const (
	DayStatusPending   = "pending"
	DayStatusCompleted = "completed"
	DayStatusFailed    = "failed"
)

// Challenge is the per-user aggregate. Streak fields and badges are derived
// from DailyLogs and are rewritten on every mutation.
type Challenge struct {
	UserID         string          `json:"userId" bson:"user_id"`
	StartDate      string          `json:"startDate" bson:"start_date"`
	DailyLogs      []DayLog        `json:"dailyLogs" bson:"daily_logs"`
	CurrentStreak  int             `json:"currentStreak" bson:"current_streak"`
	LongestStreak  int             `json:"longestStreak" bson:"longest_streak"`
	CustomTasks    []CustomTask    `json:"customTasks" bson:"custom_tasks"`
	Badges         []string        `json:"badges" bson:"badges"`
	ChallengeWon   bool            `json:"challengeWon" bson:"challenge_won"`
	WonAt          *time.Time      `json:"wonAt,omitempty" bson:"won_at,omitempty"`
	WeightGoal     *WeightGoal     `json:"weightGoal,omitempty" bson:"weight_goal,omitempty"`
	FailureHistory []FailureRecord `json:"failureHistory" bson:"failure_history"`
	CreatedAt      time.Time       `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time       `json:"updatedAt" bson:"updated_at"`
}

type CustomTask struct {
	ID      string `json:"id" bson:"id" validate:"required,max=40"`
	Label   string `json:"label" bson:"label" validate:"required,max=100"`
	Enabled bool   `json:"enabled" bson:"enabled"`
}

// FailureRecord is written once, when a failed day is locked.
type FailureRecord struct {
	Date     string    `json:"date" bson:"date"`
	Day      int       `json:"day" bson:"day"`
	Reason   string    `json:"reason" bson:"reason"`
	Failures []string  `json:"allFailures" bson:"all_failures"`
	LockedAt time.Time `json:"lockedAt" bson:"locked_at"`
}

// Log returns the day log for date, or nil.
func (c *Challenge) Log(date string) *DayLog {
	for i := range c.DailyLogs {
		if c.DailyLogs[i].Date == date {
			return &c.DailyLogs[i]
		}
	}
	return nil
}

// Clone returns a deep copy. Task payloads are copied one level deep.
func (c *Challenge) Clone() *Challenge {
	if c == nil {
		return nil
	}
	out := *c
	if c.DailyLogs != nil {
		out.DailyLogs = make([]DayLog, len(c.DailyLogs))
		for i, l := range c.DailyLogs {
			out.DailyLogs[i] = l.Clone()
		}
	}
	out.CustomTasks = slices.Clone(c.CustomTasks)
	out.Badges = slices.Clone(c.Badges)
	if c.FailureHistory != nil {
		out.FailureHistory = make([]FailureRecord, len(c.FailureHistory))
		for i, f := range c.FailureHistory {
			f.Failures = slices.Clone(f.Failures)
			out.FailureHistory[i] = f
		}
	}
	if c.WonAt != nil {
		t := *c.WonAt
		out.WonAt = &t
	}
	if c.WeightGoal != nil {
		g := *c.WeightGoal
		g.WeightLog = slices.Clone(c.WeightGoal.WeightLog)
		out.WeightGoal = &g
	}
	return &out
}
