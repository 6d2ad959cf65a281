package challenge

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/twentyhard/twentyhard/internal/model"
)

const (
	MinTrackedWeight = 20
	MaxTrackedWeight = 300
	WeightTolerance  = 0.1
	trendThreshold   = 0.2
)

const (
	TrendLosing  = "losing"
	TrendGaining = "gaining"
	TrendStable  = "stable"
	TrendNoData  = "no_data"
)

// NewWeightGoal sets up a linear loss plan from start to goal over days.
func NewWeightGoal(start, goal float64, days int, startDate string) (*model.WeightGoal, error) {
	if !finite(start) || !finite(goal) || start <= goal || days <= 0 {
		return nil, ErrInvalidGoal
	}
	if startDate != "" {
		if _, err := ParseDate(startDate); err != nil {
			return nil, err
		}
	}
	return &model.WeightGoal{
		StartWeight:     start,
		GoalWeight:      goal,
		Days:            days,
		DailyLossTarget: (start - goal) / float64(days),
		Tolerance:       WeightTolerance,
		StartDate:       startDate,
		WeightLog:       []model.WeightEntry{},
	}, nil
}

// Tracker reads and appends to a weight goal's series in place.
type Tracker struct {
	goal *model.WeightGoal
}

func NewTracker(goal *model.WeightGoal) *Tracker {
	return &Tracker{goal: goal}
}

// LogWeight inserts an entry in date order. A second entry for the same
// date replaces the first.
func (t *Tracker) LogWeight(weight float64, date string) error {
	if !finite(weight) || weight < MinTrackedWeight || weight > MaxTrackedWeight {
		return ErrInvalidWeight
	}
	if _, err := ParseDate(date); err != nil {
		return err
	}

	log := t.goal.WeightLog
	i := sort.Search(len(log), func(i int) bool { return log[i].Date >= date })
	if i < len(log) && log[i].Date == date {
		log[i].Weight = weight
		return nil
	}
	log = append(log, model.WeightEntry{})
	copy(log[i+1:], log[i:])
	log[i] = model.WeightEntry{Date: date, Weight: weight}
	t.goal.WeightLog = log
	return nil
}

func (t *Tracker) Entries() []model.WeightEntry {
	return append([]model.WeightEntry{}, t.goal.WeightLog...)
}

// CurrentWeight is the latest entry, or the start weight before any entry.
func (t *Tracker) CurrentWeight() float64 {
	if n := len(t.goal.WeightLog); n > 0 {
		return t.goal.WeightLog[n-1].Weight
	}
	return t.goal.StartWeight
}

// ProgressPercentage is always within [0, 100].
func (t *Tracker) ProgressPercentage() float64 {
	span := t.goal.StartWeight - t.goal.GoalWeight
	if span == 0 {
		return 100
	}
	ratio := (t.goal.StartWeight - t.CurrentWeight()) / span
	return math.Max(0, math.Min(1, ratio)) * 100
}

func (t *Tracker) TotalLoss() float64 {
	return t.goal.StartWeight - t.CurrentWeight()
}

// IsOffTrack compares actual loss with the target for the number of
// logged entries, without tolerance.
func (t *Tracker) IsOffTrack() bool {
	n := len(t.goal.WeightLog)
	if n == 0 {
		return false
	}
	return t.TotalLoss() < t.goal.DailyLossTarget*float64(n)
}

func (t *Tracker) AverageWeight() float64 {
	return mean(t.goal.WeightLog, t.goal.StartWeight)
}

// WeeklyAverage is the mean of the last seven entries by position.
func (t *Tracker) WeeklyAverage() float64 {
	log := t.goal.WeightLog
	if len(log) > 7 {
		log = log[len(log)-7:]
	}
	return mean(log, t.goal.StartWeight)
}

func (t *Tracker) RemainingToGoal() float64 {
	return math.Max(0, t.CurrentWeight()-t.goal.GoalWeight)
}

// ProgressSinceLast is latest minus previous; nil with fewer than two entries.
func (t *Tracker) ProgressSinceLast() *float64 {
	n := len(t.goal.WeightLog)
	if n < 2 {
		return nil
	}
	d := t.goal.WeightLog[n-1].Weight - t.goal.WeightLog[n-2].Weight
	return &d
}

func (t *Tracker) IsTargetAchieved() bool {
	return len(t.goal.WeightLog) > 0 && t.CurrentWeight() <= t.goal.GoalWeight
}

// Trend looks at the last three entries.
func (t *Tracker) Trend() string {
	log := t.goal.WeightLog
	if len(log) < 2 {
		return TrendNoData
	}
	if len(log) > 3 {
		log = log[len(log)-3:]
	}
	change := log[len(log)-1].Weight - log[0].Weight
	switch {
	case change < -trendThreshold:
		return TrendLosing
	case change > trendThreshold:
		return TrendGaining
	default:
		return TrendStable
	}
}

func (t *Tracker) AverageDailyLoss() float64 {
	n := len(t.goal.WeightLog)
	if n == 0 {
		return 0
	}
	return t.TotalLoss() / float64(n)
}

// Projection extrapolates the average daily loss over daysRemaining.
func (t *Tracker) Projection(daysRemaining int) float64 {
	return t.CurrentWeight() - t.AverageDailyLoss()*float64(daysRemaining)
}

type ProgressCheck struct {
	DayNumber int     `json:"dayNumber"`
	Weight    float64 `json:"weight"`
	Expected  float64 `json:"expectedWeight"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Deviation float64 `json:"deviation"`
	Valid     bool    `json:"valid"`
	Message   string  `json:"message"`
}

// ValidateProgress checks weight against the expected line for dayNumber.
// Anything at or below expected plus tolerance is on track.
func (t *Tracker) ValidateProgress(dayNumber int, weight float64) (ProgressCheck, error) {
	if dayNumber < 1 {
		return ProgressCheck{}, fmt.Errorf("%w: day number must be positive", ErrInvalidGoal)
	}
	if !finite(weight) || weight < MinTrackedWeight || weight > MaxTrackedWeight {
		return ProgressCheck{}, ErrInvalidWeight
	}
	expected := t.goal.StartWeight - t.goal.DailyLossTarget*float64(dayNumber)
	c := ProgressCheck{
		DayNumber: dayNumber,
		Weight:    weight,
		Expected:  expected,
		Min:       expected - t.goal.Tolerance,
		Max:       expected + t.goal.Tolerance,
		Deviation: weight - expected,
	}
	c.Valid = weight <= c.Max
	if c.Valid {
		c.Message = fmt.Sprintf("On track for day %d", dayNumber)
	} else {
		c.Message = fmt.Sprintf("%.1f kg above the day %d target of %.1f kg", c.Deviation, dayNumber, expected)
	}
	return c, nil
}

type WeightStats struct {
	StartWeight       float64  `json:"startWeight"`
	GoalWeight        float64  `json:"goalWeight"`
	CurrentWeight     float64  `json:"currentWeight"`
	TotalLoss         float64  `json:"totalLoss"`
	AverageWeight     float64  `json:"averageWeight"`
	WeeklyAverage     float64  `json:"weeklyAverage"`
	AverageDailyLoss  float64  `json:"averageDailyLoss"`
	RemainingToGoal   float64  `json:"remainingToGoal"`
	ProgressPercent   float64  `json:"progressPercent"`
	ProgressSinceLast *float64 `json:"progressSinceLast"`
	Trend             string   `json:"trend"`
	OffTrack          bool     `json:"offTrack"`
	TargetAchieved    bool     `json:"targetAchieved"`
	Entries           int      `json:"entries"`
}

func (t *Tracker) Stats() WeightStats {
	return WeightStats{
		StartWeight:       t.goal.StartWeight,
		GoalWeight:        t.goal.GoalWeight,
		CurrentWeight:     t.CurrentWeight(),
		TotalLoss:         t.TotalLoss(),
		AverageWeight:     t.AverageWeight(),
		WeeklyAverage:     t.WeeklyAverage(),
		AverageDailyLoss:  t.AverageDailyLoss(),
		RemainingToGoal:   t.RemainingToGoal(),
		ProgressPercent:   t.ProgressPercentage(),
		ProgressSinceLast: t.ProgressSinceLast(),
		Trend:             t.Trend(),
		OffTrack:          t.IsOffTrack(),
		TargetAchieved:    t.IsTargetAchieved(),
		Entries:           len(t.goal.WeightLog),
	}
}

func (t *Tracker) ExportCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"date", "weight"}); err != nil {
		return nil, err
	}
	for _, e := range t.goal.WeightLog {
		if err := w.Write([]string{e.Date, strconv.FormatFloat(e.Weight, 'f', -1, 64)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func (t *Tracker) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(struct {
		Goal    *model.WeightGoal   `json:"goal"`
		Stats   WeightStats         `json:"stats"`
		Entries []model.WeightEntry `json:"entries"`
	}{t.goal, t.Stats(), t.Entries()}, "", "  ")
}

func mean(log []model.WeightEntry, fallback float64) float64 {
	if len(log) == 0 {
		return fallback
	}
	var sum float64
	for _, e := range log {
		sum += e.Weight
	}
	return sum / float64(len(log))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
