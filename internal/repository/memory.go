package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/twentyhard/twentyhard/internal/model"
)

// MemoryStore keeps users and challenges in process. Values are copied on
// the way in and out so callers never share state with the store.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[string]model.User
	emails     map[string]string
	challenges map[string]*model.Challenge
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[string]model.User),
		emails:     make(map[string]string),
		challenges: make(map[string]*model.Challenge),
	}
}

func (s *MemoryStore) Users() UserRepository {
	return memoryUsers{s}
}

func (s *MemoryStore) Challenges() ChallengeRepository {
	return memoryChallenges{s}
}

type memoryUsers struct {
	s *MemoryStore
}

func (r memoryUsers) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.emails[user.Email]; ok {
		return ErrDuplicateEmail
	}
	if _, ok := r.s.users[user.ID]; ok {
		return ErrDuplicateEmail
	}
	r.s.users[user.ID] = copyUser(user)
	r.s.emails[user.Email] = user.ID
	return nil
}

func (r memoryUsers) ByID(_ context.Context, id string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := copyUser(&u)
	return &out, nil
}

func (r memoryUsers) ByEmail(ctx context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	id, ok := r.s.emails[email]
	r.s.mu.RUnlock()
	if !ok {
		return nil, ErrUserNotFound
	}
	return r.ByID(ctx, id)
}

func (r memoryUsers) Update(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	old, ok := r.s.users[user.ID]
	if !ok {
		return ErrUserNotFound
	}
	if owner, taken := r.s.emails[user.Email]; taken && owner != user.ID {
		return ErrDuplicateEmail
	}
	delete(r.s.emails, old.Email)
	r.s.users[user.ID] = copyUser(user)
	r.s.emails[user.Email] = user.ID
	return nil
}

func (r memoryUsers) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	delete(r.s.users, id)
	delete(r.s.emails, u.Email)
	delete(r.s.challenges, id)
	return nil
}

type memoryChallenges struct {
	s *MemoryStore
}

func (r memoryChallenges) ByUserID(_ context.Context, userID string) (*model.Challenge, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ch, ok := r.s.challenges[userID]
	if !ok {
		return nil, ErrChallengeNotFound
	}
	return ch.Clone(), nil
}

func (r memoryChallenges) Save(_ context.Context, ch *model.Challenge) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.challenges[ch.UserID] = ch.Clone()
	return nil
}

func (r memoryChallenges) Delete(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.challenges[userID]; !ok {
		return ErrChallengeNotFound
	}
	delete(r.s.challenges, userID)
	return nil
}

func (r memoryChallenges) UserIDs(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := make([]string, 0, len(r.s.challenges))
	for id := range r.s.challenges {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func copyUser(u *model.User) model.User {
	out := *u
	if u.PasswordHash != nil {
		h := *u.PasswordHash
		out.PasswordHash = &h
	}
	if u.StartWeight != nil {
		w := *u.StartWeight
		out.StartWeight = &w
	}
	if u.TargetWeight != nil {
		w := *u.TargetWeight
		out.TargetWeight = &w
	}
	return out
}
