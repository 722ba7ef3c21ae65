package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AngelCh415/acos-forecaster/internal/models"
)

var ErrNotFound = errors.New("worksheet not found")

// MemoryStore holds worksheets for the life of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	sheets map[string]*models.Worksheet
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sheets: make(map[string]*models.Worksheet),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Create(in models.RawInputs) models.Worksheet {
	t := s.now()
	ws := &models.Worksheet{
		ID:        uuid.NewString(),
		CreatedAt: t,
		UpdatedAt: t,
		Revision:  1,
		Inputs:    in,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[ws.ID] = ws
	return *ws
}

func (s *MemoryStore) Get(id string) (models.Worksheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ws, ok := s.sheets[id]
	if !ok {
		return models.Worksheet{}, ErrNotFound
	}
	return *ws, nil
}

// Update applies fn to a copy of the inputs and commits it only if fn succeeds.
func (s *MemoryStore) Update(id string, fn func(*models.RawInputs) error) (models.Worksheet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.sheets[id]
	if !ok {
		return models.Worksheet{}, ErrNotFound
	}
	in := ws.Inputs
	if err := fn(&in); err != nil {
		return *ws, err
	}
	ws.Inputs = in
	ws.Revision++
	ws.UpdatedAt = s.now()
	return *ws, nil
}

func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sheets[id]; !ok {
		return ErrNotFound
	}
	delete(s.sheets, id)
	return nil
}

// All returns every worksheet, oldest first.
func (s *MemoryStore) All() []models.Worksheet {
	s.mu.RLock()
	out := make([]models.Worksheet, 0, len(s.sheets))
	for _, v := range s.sheets {
		out = append(out, *v)
	}
	s.mu.RUnlock()

	// orden determinista
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sheets)
}
