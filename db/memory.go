package db

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nemopss/expense-tracker/backend/models"
)

// MemoryStore keeps everything in process memory behind one mutex. It backs
// the test suite and DATA_BACKEND=memory.
type MemoryStore struct {
	mu           sync.Mutex
	users        map[string]*models.User
	transactions map[string]*models.Transaction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        map[string]*models.User{},
		transactions: map[string]*models.Transaction{},
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) CreateUser(name, email, password string) (*models.User, error) {
	if len(password) < 6 {
		return nil, errPasswordTooShort
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return nil, ErrEmailTaken
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Password:  string(hash),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	s.users[u.ID] = u
	out := *u
	return &out, nil
}

func (s *MemoryStore) GetUserByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) GetUserByID(id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, nil
}

func (s *MemoryStore) SetAvatar(userID, image string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	u.IsAvatarImageSet = true
	u.AvatarImage = image
	out := *u
	return &out, nil
}

func (s *MemoryStore) CreateTransaction(t *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now().UTC().Truncate(time.Second)
	t.Date = t.Date.UTC()
	stored := *t
	s.transactions[t.ID] = &stored
	return nil
}

func (s *MemoryStore) GetTransaction(id string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *t
	return &out, nil
}

func (s *MemoryStore) GetTransactions(f TransactionFilter) ([]models.Transaction, error) {
	from, to, err := f.DateBounds(time.Now())
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Transaction{}
	for _, t := range s.transactions {
		if t.UserID != f.UserID {
			continue
		}
		if !matches(*t, from, to, f.Type) {
			continue
		}
		out = append(out, *t)
	}
	// Same ordering as the SQL backends: date desc, creation desc, id as
	// the deterministic last resort.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) UpdateTransaction(t *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.transactions[t.ID]
	if !ok || existing.UserID != t.UserID {
		return ErrNotFound
	}
	t.CreatedAt = existing.CreatedAt
	t.Date = t.Date.UTC()
	stored := *t
	s.transactions[t.ID] = &stored
	return nil
}

func (s *MemoryStore) DeleteTransaction(id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok || t.UserID != userID {
		return ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}
