package repository

// In-memory store implementations. They back the test suite and make the
// server runnable without a database. Both are safe for concurrent use;
// handlers themselves share nothing between requests.

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tasktracker/internal/model"
	"tasktracker/internal/utils"
)

// MemoryUserStore is a mutex-guarded, map-backed UserStore.
type MemoryUserStore struct {
	mu      sync.Mutex
	byID    map[string]model.User
	byEmail map[string]string // email -> id
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    make(map[string]model.User),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryUserStore) Create(_ context.Context, name, email, password string, cost int) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.byEmail[email]; dup {
		return model.User{}, ErrEmailExists
	}
	now := time.Now().UTC()
	u := model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.byID[u.ID] = u
	s.byEmail[email] = u.ID
	return u, nil
}

func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[email]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return s.byID[id], nil
}

func (s *MemoryUserStore) GetByID(_ context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return u, nil
}

// MemoryTaskStore keeps tasks in insertion order so pagination matches the
// SQL store's created_at ordering.
type MemoryTaskStore struct {
	mu    sync.Mutex
	order []string
	tasks map[string]model.Task
}

func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{tasks: make(map[string]model.Task)}
}

func (s *MemoryTaskStore) Create(_ context.Context, t model.Task) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = uuid.NewString()
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	s.tasks[t.ID] = t
	s.order = append(s.order, t.ID)
	return t, nil
}

func (s *MemoryTaskStore) GetByID(_ context.Context, id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return model.Task{}, ErrTaskNotFound
	}
	return t, nil
}

func (s *MemoryTaskStore) ListByCreator(_ context.Context, userID string, offset, limit int) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mine := make([]model.Task, 0)
	for _, id := range s.order {
		if t := s.tasks[id]; t.CreatedBy == userID {
			mine = append(mine, t)
		}
	}
	if offset >= len(mine) {
		return []model.Task{}, nil
	}
	end := offset + limit
	if end > len(mine) {
		end = len(mine)
	}
	return mine[offset:end], nil
}

func (s *MemoryTaskStore) CountByCreator(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if t.CreatedBy == userID {
			n++
		}
	}
	return n, nil
}

func (s *MemoryTaskStore) Update(_ context.Context, t model.Task) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.tasks[t.ID]
	if !ok {
		return model.Task{}, ErrTaskNotFound
	}
	cur.Task = t.Task
	cur.Urgency = t.Urgency
	cur.Completed = t.Completed
	cur.UpdatedAt = time.Now().UTC()
	s.tasks[t.ID] = cur
	return cur, nil
}

func (s *MemoryTaskStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return ErrTaskNotFound
	}
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
