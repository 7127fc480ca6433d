package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"asset-inventory/internal/models"
)

// Memory is an in-process Store, ordered by insertion
type Memory struct {
	mu     sync.RWMutex
	order  []string
	assets map[string]models.Asset
	newID  func() string
}

// NewMemory returns an empty store that assigns random UUIDs
func NewMemory() *Memory {
	return &Memory{
		assets: make(map[string]models.Asset),
		newID:  uuid.NewString,
	}
}

func (m *Memory) List(ctx context.Context) ([]models.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Asset, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.assets[id])
	}
	return out, nil
}

func (m *Memory) Page(ctx context.Context, page, size int) ([]models.Asset, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := len(m.order)
	out := []models.Asset{}
	start := page * size
	if page < 0 || size <= 0 || start >= total {
		return out, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	for _, id := range m.order[start:end] {
		out = append(out, m.assets[id])
	}
	return out, total, nil
}

func (m *Memory) Get(ctx context.Context, id string) (models.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assets[id]
	if !ok {
		return models.Asset{}, ErrNotFound
	}
	return a, nil
}

func (m *Memory) Create(ctx context.Context, draft models.Asset) (models.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.holderOf(draft.SerialNo) != "" {
		return models.Asset{}, &DuplicateSerialError{SerialNo: draft.SerialNo}
	}
	a := draft.Draft()
	a.ID = m.newID()
	m.assets[a.ID] = a
	m.order = append(m.order, a.ID)
	return a, nil
}

func (m *Memory) Update(ctx context.Context, id string, draft models.Asset) (models.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.assets[id]
	if !ok {
		return models.Asset{}, ErrNotFound
	}
	if holder := m.holderOf(draft.SerialNo); holder != "" && holder != id {
		return models.Asset{}, &DuplicateSerialError{SerialNo: draft.SerialNo}
	}
	existing.Name = draft.Name
	existing.SerialNo = draft.SerialNo
	existing.AssignDate = draft.AssignDate
	if draft.Category != "" {
		existing.Category = draft.Category
	}
	m.assets[id] = existing
	return existing, nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assets[id]; !ok {
		return ErrNotFound
	}
	delete(m.assets, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order), nil
}

func (m *Memory) Close() error { return nil }

// holderOf returns the id holding serialNo, "" if none. Caller holds mu.
func (m *Memory) holderOf(serialNo string) string {
	for id, a := range m.assets {
		if a.SerialNo == serialNo {
			return id
		}
	}
	return ""
}
