package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/twentyhard/twentyhard/internal/challenge"
	"github.com/twentyhard/twentyhard/internal/model"
)

const (
	ExportCSV  = "csv"
	ExportJSON = "json"
)

// WeightService manages the weight goal stored on the challenge. Writes go
// through the challenge service so they share its lock.
type WeightService struct {
	challengeService *ChallengeService
}

func NewWeightService(challengeService *ChallengeService) *WeightService {
	return &WeightService{challengeService: challengeService}
}

// SetGoal replaces the goal and starts a new series from today.
func (s *WeightService) SetGoal(ctx context.Context, userID string, start, goal float64, days int) (*model.WeightGoal, error) {
	engine := s.challengeService.engine
	wg, err := challenge.NewWeightGoal(start, goal, days, engine.Today())
	if err != nil {
		return nil, err
	}

	ch, err := s.challengeService.mutate(ctx, userID, func(ch *model.Challenge, _ *model.User) error {
		ch.WeightGoal = wg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ch.WeightGoal, nil
}

// LogEntry adds a weight to the goal series. Future dates are rejected; the
// series itself has no edit window.
func (s *WeightService) LogEntry(ctx context.Context, userID, date string, weight float64) (*model.WeightGoal, error) {
	engine := s.challengeService.engine
	if date == "" {
		date = engine.Today()
	}
	_, err := challenge.ParseDate(date)
	if err != nil {
		return nil, err
	}
	if date > engine.Today() {
		return nil, challenge.ErrFutureLog
	}

	ch, err := s.challengeService.mutate(ctx, userID, func(ch *model.Challenge, _ *model.User) error {
		if ch.WeightGoal == nil {
			return challenge.ErrNoWeightGoal
		}
		// Work on a copy so a rejected entry leaves the series untouched.
		goal := *ch.WeightGoal
		goal.WeightLog = append([]model.WeightEntry(nil), ch.WeightGoal.WeightLog...)
		err := challenge.NewTracker(&goal).LogWeight(weight, date)
		if err != nil {
			return err
		}
		ch.WeightGoal = &goal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ch.WeightGoal, nil
}

type WeightSummary struct {
	Goal     *model.WeightGoal        `json:"goal"`
	Stats    challenge.WeightStats    `json:"stats"`
	Progress *challenge.ProgressCheck `json:"progress,omitempty"`
	// Projected is the weight expected on the goal's last day at the
	// current average rate.
	Projected float64 `json:"projectedWeight"`
}

// Summary returns stats and, once an entry exists, today's progress check.
func (s *WeightService) Summary(ctx context.Context, userID string) (*WeightSummary, error) {
	goal, err := s.goal(ctx, userID)
	if err != nil {
		return nil, err
	}

	tr := challenge.NewTracker(goal)
	day := s.dayNumber(goal)
	sum := &WeightSummary{
		Goal:      goal,
		Stats:     tr.Stats(),
		Projected: tr.Projection(max(goal.Days-day, 0)),
	}
	if len(goal.WeightLog) > 0 {
		check, err := tr.ValidateProgress(day, tr.CurrentWeight())
		if err == nil {
			sum.Progress = &check
		}
	}
	return sum, nil
}

// Progress checks the current weight against the plan for dayNumber.
func (s *WeightService) Progress(ctx context.Context, userID string, dayNumber int) (challenge.ProgressCheck, error) {
	goal, err := s.goal(ctx, userID)
	if err != nil {
		return challenge.ProgressCheck{}, err
	}
	tr := challenge.NewTracker(goal)
	return tr.ValidateProgress(dayNumber, tr.CurrentWeight())
}

// Export renders the series as csv or json and returns the content type.
func (s *WeightService) Export(ctx context.Context, userID, format string) ([]byte, string, error) {
	goal, err := s.goal(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	tr := challenge.NewTracker(goal)
	switch strings.ToLower(format) {
	case ExportCSV:
		b, err := tr.ExportCSV()
		return b, "text/csv", err
	case ExportJSON, "":
		b, err := tr.ExportJSON()
		return b, "application/json", err
	default:
		return nil, "", fmt.Errorf("%w: unsupported export format %q", ErrInvalidInput, format)
	}
}

func (s *WeightService) goal(ctx context.Context, userID string) (*model.WeightGoal, error) {
	ch, err := s.challengeService.Challenge(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ch.WeightGoal == nil {
		return nil, challenge.ErrNoWeightGoal
	}
	return ch.WeightGoal, nil
}

// dayNumber counts today as day one when the goal was set today.
func (s *WeightService) dayNumber(goal *model.WeightGoal) int {
	if goal.StartDate == "" {
		return 1
	}
	n := challenge.DaysBetween(goal.StartDate, s.challengeService.engine.Today()) + 1
	if n < 1 {
		return 1
	}
	return n
}
