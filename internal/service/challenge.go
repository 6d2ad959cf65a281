package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twentyhard/twentyhard/internal/challenge"
	"github.com/twentyhard/twentyhard/internal/events"
	"github.com/twentyhard/twentyhard/internal/lock"
	"github.com/twentyhard/twentyhard/internal/metrics"
	"github.com/twentyhard/twentyhard/internal/model"
	"github.com/twentyhard/twentyhard/internal/repository"
)

// ChallengeService owns every read and write of a user's challenge. Each call
// holds the user's lock for the whole load, enforce, mutate and save cycle.
type ChallengeService struct {
	challengeRepository repository.ChallengeRepository
	userRepository      repository.UserRepository
	engine              *challenge.Engine
	locker              lock.Locker
	publisher           events.Publisher
	emailService        *EmailService
}

func NewChallengeService(
	challengeRepository repository.ChallengeRepository,
	userRepository repository.UserRepository,
	engine *challenge.Engine,
	locker lock.Locker,
	publisher events.Publisher,
	emailService *EmailService,
) *ChallengeService {
	if locker == nil {
		locker = lock.NewMemoryLocker()
	}
	if publisher == nil {
		publisher = events.LogPublisher{}
	}
	return &ChallengeService{
		challengeRepository: challengeRepository,
		userRepository:      userRepository,
		engine:              engine,
		locker:              locker,
		publisher:           publisher,
		emailService:        emailService,
	}
}

func (s *ChallengeService) Engine() *challenge.Engine {
	return s.engine
}

// Challenge loads the user's challenge, creating it on first access, and
// applies auto-fail and locking before returning it.
func (s *ChallengeService) Challenge(ctx context.Context, userID string) (*model.Challenge, error) {
	return s.mutate(ctx, userID, nil)
}

// LogDay merges tasks into the log for date. A valid weight is also recorded
// in the weight goal series when a goal exists.
func (s *ChallengeService) LogDay(ctx context.Context, userID, date string, tasks model.Tasks) (*model.Challenge, error) {
	if date == "" {
		date = s.engine.Today()
	}
	ch, err := s.mutate(ctx, userID, func(ch *model.Challenge, _ *model.User) error {
		_, err := s.engine.ApplyLog(ch, date, tasks)
		if err != nil {
			return err
		}
		v := tasks[challenge.TaskWeight]
		if ch.WeightGoal != nil && challenge.ValidateWeight(v) {
			w, _ := challenge.WeightValue(v)
			err = challenge.NewTracker(ch.WeightGoal).LogWeight(w, date)
			if err != nil {
				slog.Warn("weight not added to goal series", "user_id", userID, "date", date, "error", err)
			}
		}
		return nil
	})
	if err != nil {
		recordRejection(err)
		return nil, err
	}
	return ch, nil
}

func (s *ChallengeService) UpdateTasks(ctx context.Context, userID string, list []model.CustomTask) (*model.Challenge, error) {
	ch, err := s.mutate(ctx, userID, func(ch *model.Challenge, _ *model.User) error {
		return s.engine.UpdateTasks(ch, list)
	})
	if err != nil {
		recordRejection(err)
		return nil, err
	}
	return ch, nil
}

func (s *ChallengeService) Status(ctx context.Context, userID string) (challenge.StreakStatus, error) {
	ch, err := s.Challenge(ctx, userID)
	if err != nil {
		return challenge.StreakStatus{}, err
	}
	return s.engine.Status(ch), nil
}

// ValidateDay reports every reason date falls short under the current task
// list. A day with no log reports all required tasks as missing.
func (s *ChallengeService) ValidateDay(ctx context.Context, userID, date string) (challenge.DayReport, error) {
	_, err := challenge.ParseDate(date)
	if err != nil {
		return challenge.DayReport{}, err
	}

	ch, err := s.Challenge(ctx, userID)
	if err != nil {
		return challenge.DayReport{}, err
	}

	log := model.DayLog{Date: date, Tasks: model.Tasks{}}
	if l := ch.Log(date); l != nil {
		log = *l
	}
	return challenge.ValidateDayCompletion(log, ch.CustomTasks, s.engine.Location()), nil
}

type SweepResult struct {
	Processed int `json:"processed"`
	Errors    int `json:"errors"`
}

// Sweep runs enforcement for every stored challenge so days close even for
// users who never come back.
func (s *ChallengeService) Sweep(ctx context.Context) (SweepResult, error) {
	var res SweepResult

	ids, err := s.challengeRepository.UserIDs(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to list challenges: %w", err)
	}

	for _, id := range ids {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		_, err := s.Challenge(ctx, id)
		if err != nil {
			res.Errors++
			slog.Error("sweep failed for user", "user_id", id, "error", err)
			continue
		}
		res.Processed++
	}

	slog.Info("sweep completed", "processed", res.Processed, "errors", res.Errors)
	return res, nil
}

// Delete removes the user's challenge. A missing challenge is not an error.
func (s *ChallengeService) Delete(ctx context.Context, userID string) error {
	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to lock challenge: %w", err)
	}
	defer unlock()

	err = s.challengeRepository.Delete(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrChallengeNotFound) {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	return nil
}

// mutate is the single read-modify-write path. Enforcement changes are saved
// even when fn rejects its own change.
func (s *ChallengeService) mutate(ctx context.Context, userID string, fn func(ch *model.Challenge, user *model.User) error) (*model.Challenge, error) {
	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock challenge: %w", err)
	}
	defer unlock()

	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	ch, err := s.challengeRepository.ByUserID(ctx, userID)
	created := false
	if errors.Is(err, repository.ErrChallengeNotFound) {
		ch = s.engine.NewChallenge(userID)
		created = true
	} else if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}

	wasWon := ch.ChallengeWon
	refresh := s.engine.Refresh(ch)
	dirty := created || refresh.Changed()

	var fnErr error
	if fn != nil {
		fnErr = fn(ch, user)
		if fnErr == nil {
			dirty = true
		}
	}

	badges := challenge.CheckBadges(ch, user)
	ch.Badges = badges.Badges
	if badges.NewlyAwarded {
		dirty = true
	}

	if dirty {
		ch.UpdatedAt = s.engine.Now()
		err = s.challengeRepository.Save(ctx, ch)
		if err != nil {
			return nil, fmt.Errorf("failed to save challenge: %w", err)
		}
		s.announce(ctx, user, ch, refresh, badges.Added, !wasWon && ch.ChallengeWon)
	}

	if fnErr != nil {
		return nil, fnErr
	}
	return ch, nil
}

// announce reports milestones after a successful save. Delivery failures are
// logged and never fail the request.
func (s *ChallengeService) announce(ctx context.Context, user *model.User, ch *model.Challenge, refresh challenge.RefreshResult, added []string, won bool) {
	now := s.engine.Now()

	metrics.DaysAutoFailed.Add(float64(len(refresh.Backfilled)))
	for _, date := range refresh.Locked {
		if l := ch.Log(date); l != nil {
			metrics.DaysLocked.WithLabelValues(l.Status).Inc()
		}
	}

	for _, f := range refresh.Failed {
		s.publish(ctx, events.Event{
			Type:       events.TypeDayFailed,
			UserID:     user.ID,
			OccurredAt: now,
			Data: map[string]any{
				"date":     f.Date,
				"day":      f.Day,
				"reason":   f.Reason,
				"failures": f.Failures,
			},
		})
	}

	if len(added) > 0 {
		for _, b := range added {
			metrics.BadgesAwarded.WithLabelValues(b).Inc()
			s.publish(ctx, events.Event{
				Type:       events.TypeBadgeAwarded,
				UserID:     user.ID,
				OccurredAt: now,
				Data:       map[string]any{"badge": b},
			})
		}
		if s.emailService != nil {
			err := s.emailService.SendBadgeEmail(ctx, user.Email, user.Name, added)
			if err != nil {
				slog.Warn("failed to send badge email", "user_id", user.ID, "error", err)
			}
		}
	}

	if won {
		metrics.ChallengesWon.Inc()
		s.publish(ctx, events.Event{
			Type:       events.TypeChallengeWon,
			UserID:     user.ID,
			OccurredAt: now,
			Data:       map[string]any{"goalDays": s.engine.GoalDays(), "currentStreak": ch.CurrentStreak},
		})
		if s.emailService != nil {
			err := s.emailService.SendChallengeWonEmail(ctx, user.Email, user.Name, s.engine.GoalDays())
			if err != nil {
				slog.Warn("failed to send challenge won email", "user_id", user.ID, "error", err)
			}
		}
		slog.Info("challenge won", "user_id", user.ID, "streak", ch.CurrentStreak)
	}
}

func (s *ChallengeService) publish(ctx context.Context, e events.Event) {
	err := s.publisher.Publish(ctx, e)
	if err != nil {
		slog.Warn("failed to publish event", "type", e.Type, "user_id", e.UserID, "error", err)
	}
}

func recordRejection(err error) {
	var ce *challenge.Error
	if errors.As(err, &ce) {
		metrics.LogsRejected.WithLabelValues(ce.Code).Inc()
	}
}
