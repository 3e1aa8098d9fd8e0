package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/game-hipe/remembering/internal/domain/entity"
)

type nopLogger struct{}

func (nopLogger) Error(string, error) {}
func (nopLogger) Warn(string)         {}
func (nopLogger) Info(string)         {}
func (nopLogger) Debug(string)        {}

// fakeUserRepo is an in-memory UserRepository keyed by ascending IDs.
type fakeUserRepo struct {
	mu        sync.Mutex
	users     []*entity.User
	nextID    uint
	pageCalls int
	pageErr   error
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	repo := &fakeUserRepo{nextID: 1}
	for _, u := range users {
		if u.ID == 0 {
			u.ID = repo.nextID
		}
		if u.ID >= repo.nextID {
			repo.nextID = u.ID + 1
		}
		repo.users = append(repo.users, u)
	}
	sort.Slice(repo.users, func(i, j int) bool { return repo.users[i].ID < repo.users[j].ID })
	return repo
}

func (f *fakeUserRepo) FindByChatID(_ context.Context, chatID string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ChatID == chatID {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user with chat_id %s not found: %w", chatID, gorm.ErrRecordNotFound)
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = f.nextID
	f.nextID++
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, u := range f.users {
		if u.ID == user.ID {
			f.users[i] = user
			return nil
		}
	}
	return fmt.Errorf("user %d not found: %w", user.ID, gorm.ErrRecordNotFound)
}

func (f *fakeUserRepo) Delete(_ context.Context, chatID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, u := range f.users {
		if u.ChatID == chatID {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeUserRepo) PageWithMemories(_ context.Context, cursor uint, limit int) ([]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageCalls++
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	var page []*entity.User
	for _, u := range f.users {
		if u.ID >= cursor {
			page = append(page, u)
			if len(page) == limit {
				break
			}
		}
	}
	return page, nil
}

// fakeMemoryRepo is an in-memory MemoryRepository.
type fakeMemoryRepo struct {
	mu       sync.Mutex
	nextID   uint
	memories map[uint]*entity.Memory
}

func newFakeMemoryRepo() *fakeMemoryRepo {
	return &fakeMemoryRepo{nextID: 1, memories: make(map[uint]*entity.Memory)}
}

func (f *fakeMemoryRepo) FindByID(_ context.Context, id uint) (*entity.Memory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.memories[id]
	if !ok {
		return nil, fmt.Errorf("memory %d not found: %w", id, gorm.ErrRecordNotFound)
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMemoryRepo) FindByUserID(_ context.Context, userID uint) ([]*entity.Memory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*entity.Memory
	for _, m := range f.memories {
		if m.UserID == userID {
			cp := *m
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeMemoryRepo) Create(_ context.Context, memory *entity.Memory) (uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	memory.ID = f.nextID
	f.nextID++
	cp := *memory
	f.memories[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeMemoryRepo) Update(_ context.Context, memory *entity.Memory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.memories[memory.ID]; !ok {
		return fmt.Errorf("memory %d not found: %w", memory.ID, gorm.ErrRecordNotFound)
	}
	cp := *memory
	f.memories[cp.ID] = &cp
	return nil
}

func (f *fakeMemoryRepo) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.memories[id]; !ok {
		return fmt.Errorf("memory %d not found: %w", id, gorm.ErrRecordNotFound)
	}
	delete(f.memories, id)
	return nil
}

func (f *fakeMemoryRepo) DeleteByUserID(_ context.Context, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, m := range f.memories {
		if m.UserID == userID {
			delete(f.memories, id)
		}
	}
	return nil
}

func (f *fakeMemoryRepo) AdvanceRemindTime(_ context.Context, id uint, delta time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.memories[id]
	if !ok {
		return fmt.Errorf("memory %d not found: %w", id, gorm.ErrRecordNotFound)
	}
	m.RemindAt = m.RemindAt.Add(delta)
	return nil
}

func (f *fakeMemoryRepo) DeleteOlderThan(_ context.Context, threshold time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, m := range f.memories {
		if m.RemindAt.Before(threshold) {
			delete(f.memories, id)
		}
	}
	return nil
}

type sentMessage struct {
	to   string
	text string
}

// fakeSender records pushed messages and can fail for chosen recipients.
type fakeSender struct {
	mu      sync.Mutex
	calls   []sentMessage
	failFor map[string]error
}

func (f *fakeSender) PushText(to string, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[to]; ok {
		return err
	}
	f.calls = append(f.calls, sentMessage{to: to, text: text})
	return nil
}

func (f *fakeSender) sent() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.calls...)
}
