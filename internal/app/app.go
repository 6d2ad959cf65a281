package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twentyhard/twentyhard/internal/challenge"
	"github.com/twentyhard/twentyhard/internal/config"
	"github.com/twentyhard/twentyhard/internal/events"
	"github.com/twentyhard/twentyhard/internal/lock"
	"github.com/twentyhard/twentyhard/internal/repository"
	"github.com/twentyhard/twentyhard/internal/service"
	"github.com/twentyhard/twentyhard/internal/storage"
)

type App struct {
	Cfg              *config.Config
	Store            *repository.Store
	Engine           *challenge.Engine
	Locker           lock.Locker
	Publisher        events.Publisher
	EmailService     *service.EmailService
	AuthService      *service.AuthService
	UserService      *service.UserService
	ChallengeService *service.ChallengeService
	WeightService    *service.WeightService
	PhotoService     *service.PhotoService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := repository.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	a := &App{Cfg: cfg, Store: store}

	// Per-user locks must be shared when several server processes write
	// the same store.
	if cfg.RedisURL != "" {
		redisLocker, err := lock.NewRedisLocker(cfg.RedisURL)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to initialize redis locker: %w", err)
		}
		a.Locker = redisLocker
	} else {
		a.Locker = lock.NewMemoryLocker()
	}

	if cfg.RabbitMQURL != "" {
		publisher, err := events.NewAMQPPublisher(cfg.RabbitMQURL, cfg.EventsQueue)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to initialize event publisher: %w", err)
		}
		a.Publisher = publisher
	} else {
		a.Publisher = events.LogPublisher{}
	}

	photoStorage, err := storage.New(ctx, cfg)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Day boundaries follow the configured timezone.
	a.Engine = challenge.NewEngine(challenge.SystemClock{Location: cfg.Location()}, cfg.GoalDays)

	a.EmailService = service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	a.ChallengeService = service.NewChallengeService(
		store.Challenges,
		store.Users,
		a.Engine,
		a.Locker,
		a.Publisher,
		a.EmailService,
	)
	a.WeightService = service.NewWeightService(a.ChallengeService)
	a.UserService = service.NewUserService(store.Users, a.ChallengeService, a.EmailService)
	a.AuthService = service.NewAuthService(store.Users, a.EmailService, cfg.JWTSecret, cfg.JWTExpiry)
	a.PhotoService = service.NewPhotoService(photoStorage, a.ChallengeService)

	slog.Info("app initialized",
		"store", store.Driver,
		"goal_days", a.Engine.GoalDays(),
		"timezone", cfg.Timezone,
		"photos", a.PhotoService.Enabled(),
	)
	return a, nil
}

func (a *App) Close() error {
	var errs []error
	if a.Publisher != nil {
		errs = append(errs, a.Publisher.Close())
	}
	if c, ok := a.Locker.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	return errors.Join(errs...)
}
