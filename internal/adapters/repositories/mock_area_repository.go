package repositories

import (
	"context"
	"delivery-area-service/internal/domain"
	"sync"
)

// MockAreaRepository serves a replaceable in-memory area list.
type MockAreaRepository struct {
	mu    sync.Mutex
	areas []domain.Area
	err   error
	calls int

	// Gate, when set, makes ListAreas wait for a receive before returning.
	Gate chan struct{}
	// Entered, when set, receives once per ListAreas call on entry.
	Entered chan struct{}
}

func NewMockAreaRepository(areas []domain.Area) *MockAreaRepository {
	return &MockAreaRepository{areas: areas}
}

func (m *MockAreaRepository) SetAreas(areas []domain.Area) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.areas, m.err = areas, nil
}

// SetErr makes subsequent ListAreas calls fail with err.
func (m *MockAreaRepository) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockAreaRepository) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockAreaRepository) ListAreas(ctx context.Context) ([]domain.Area, error) {
	m.mu.Lock()
	m.calls++
	areas, err := m.areas, m.err
	m.mu.Unlock()

	if m.Entered != nil {
		m.Entered <- struct{}{}
	}
	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}
	out := make([]domain.Area, 0, len(areas))
	for _, a := range areas {
		out = append(out, a.Clone())
	}
	return out, nil
}
