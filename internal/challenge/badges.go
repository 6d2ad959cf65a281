package challenge

import (
	"github.com/twentyhard/twentyhard/internal/model"
)

const (
	Badge7DayStreak      = "7-day-streak"
	Badge20DayStreak     = "20-day-streak"
	Badge30DayStreak     = "30-day-streak"
	BadgeConsistencyKing = "consistency-king"
	BadgeGoalReached     = "goal-reached"
)

type BadgeResult struct {
	Badges       []string `json:"badges"`
	Added        []string `json:"added"`
	NewlyAwarded bool     `json:"newlyAwarded"`
}

// CheckBadges returns the union of held and newly earned badges. Badges are
// never revoked.
func CheckBadges(ch *model.Challenge, user *model.User) BadgeResult {
	held := make(map[string]bool, len(ch.Badges))
	res := BadgeResult{Badges: append([]string{}, ch.Badges...)}
	for _, b := range ch.Badges {
		held[b] = true
	}

	award := func(badge string, earned bool) {
		if !earned || held[badge] {
			return
		}
		held[badge] = true
		res.Badges = append(res.Badges, badge)
		res.Added = append(res.Added, badge)
	}

	award(Badge7DayStreak, ch.CurrentStreak >= 7)
	award(Badge20DayStreak, ch.CurrentStreak >= 20)
	award(Badge30DayStreak, ch.CurrentStreak >= 30)
	award(BadgeConsistencyKing, ch.LongestStreak >= 14)

	if user != nil && user.TargetWeight != nil {
		if w, ok := LatestWeight(ch); ok {
			award(BadgeGoalReached, w <= *user.TargetWeight)
		}
	}

	res.NewlyAwarded = len(res.Added) > 0
	return res
}

// LatestWeight is the weight on the most recently dated day log that holds
// one the daily validator accepts.
func LatestWeight(ch *model.Challenge) (float64, bool) {
	var (
		date   string
		weight float64
		found  bool
	)
	for _, l := range ch.DailyLogs {
		v := l.Tasks[TaskWeight]
		if !ValidateWeight(v) {
			continue
		}
		if !found || l.Date > date {
			w, _ := WeightValue(v)
			date, weight, found = l.Date, w, true
		}
	}
	return weight, found
}
