package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twentyhard/twentyhard/internal/challenge"
	"github.com/twentyhard/twentyhard/internal/events"
	"github.com/twentyhard/twentyhard/internal/lock"
	"github.com/twentyhard/twentyhard/internal/model"
	"github.com/twentyhard/twentyhard/internal/repository"
)

type fixture struct {
	ctx        context.Context
	store      *repository.Store
	clock      *challenge.FakeClock
	engine     *challenge.Engine
	events     *events.Recorder
	email      *EmailService
	challenges *ChallengeService
	weights    *WeightService
	users      *UserService
	auth       *AuthService
}

func newFixture(t *testing.T, today string, goalDays int) *fixture {
	t.Helper()
	d, err := challenge.ParseDate(today)
	require.NoError(t, err)

	f := &fixture{
		ctx:    context.Background(),
		store:  repository.NewMemoryBackedStore(),
		clock:  challenge.NewFakeClock(d.Add(10 * time.Hour)),
		events: &events.Recorder{},
		email:  NewEmailService("", "noreply@example.com", "http://localhost", "20 Hard", true),
	}
	f.engine = challenge.NewEngine(f.clock, goalDays)
	f.challenges = NewChallengeService(f.store.Challenges, f.store.Users, f.engine, lock.NewMemoryLocker(), f.events, f.email)
	f.weights = NewWeightService(f.challenges)
	f.users = NewUserService(f.store.Users, f.challenges, f.email)
	f.auth = NewAuthService(f.store.Users, f.email, "test-secret", time.Hour)
	return f
}

func (f *fixture) createUser(t *testing.T, id string) *model.User {
	t.Helper()
	u := &model.User{
		ID:        id,
		Name:      "Athlete " + id,
		Email:     id + "@example.com",
		Theme:     model.ThemeDark,
		CreatedAt: f.clock.Now(),
	}
	require.NoError(t, f.store.Users.Create(f.ctx, u))
	return u
}

// advance moves the fixture clock to 10:00 on date.
func (f *fixture) advance(t *testing.T, date string) {
	t.Helper()
	d, err := challenge.ParseDate(date)
	require.NoError(t, err)
	f.clock.Set(d.Add(10 * time.Hour))
}

func completeTasks(weight float64) model.Tasks {
	return model.Tasks{
		"workout1": true, "workout2": true, "water": true,
		"diet": true, "photo": true, "reading": true, "weight": weight,
	}
}
