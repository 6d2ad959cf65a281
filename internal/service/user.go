package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/twentyhard/twentyhard/internal/challenge"
	"github.com/twentyhard/twentyhard/internal/model"
	"github.com/twentyhard/twentyhard/internal/repository"
	"github.com/twentyhard/twentyhard/internal/validation"
)

type UserService struct {
	userRepository   repository.UserRepository
	challengeService *ChallengeService
	emailService     *EmailService
}

func NewUserService(
	userRepository repository.UserRepository,
	challengeService *ChallengeService,
	emailService *EmailService,
) *UserService {
	return &UserService{
		userRepository:   userRepository,
		challengeService: challengeService,
		emailService:     emailService,
	}
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	return s.userRepository.ByID(ctx, id)
}

// ProfileUpdate carries the editable fields. Nil fields are left alone.
type ProfileUpdate struct {
	Name         *string
	Theme        *string
	StartWeight  *float64
	TargetWeight *float64
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, u ProfileUpdate) (*model.User, error) {
	user, err := s.userRepository.ByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		err = validation.ValidateName(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		user.Name = name
	}
	if u.Theme != nil {
		err = validation.ValidateTheme(*u.Theme)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		user.Theme = *u.Theme
	}
	if u.StartWeight != nil {
		if !validWeight(*u.StartWeight) {
			return nil, challenge.ErrInvalidWeight
		}
		user.StartWeight = u.StartWeight
	}
	if u.TargetWeight != nil {
		if !validWeight(*u.TargetWeight) {
			return nil, challenge.ErrInvalidWeight
		}
		user.TargetWeight = u.TargetWeight
	}

	err = s.userRepository.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteAccount removes the challenge and then the user.
func (s *UserService) DeleteAccount(ctx context.Context, id string) error {
	user, err := s.userRepository.ByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	err = s.challengeService.Delete(ctx, id)
	if err != nil {
		return err
	}

	err = s.userRepository.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if s.emailService != nil {
		err = s.emailService.SendAccountDeletedEmail(ctx, user.Email, user.Name)
		if err != nil {
			slog.Warn("failed to send account deleted email", "user_id", id, "error", err)
		}
	}

	slog.Info("account deleted", "user_id", id)
	return nil
}

func validWeight(w float64) bool {
	return !math.IsNaN(w) && w >= challenge.MinTrackedWeight && w <= challenge.MaxTrackedWeight
}
