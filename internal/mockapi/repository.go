package mockapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Adda-Baaj/tour-of-heroes/internal/domain"
)

// ErrNotFound is returned when no hero has the requested id.
var ErrNotFound = errors.New("hero not found")

const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"

	// firstHeroID is assigned when the collection is empty.
	firstHeroID = 11
)

// Repository stores the heroes served by the mock API.
type Repository interface {
	List(ctx context.Context) ([]domain.Hero, error)
	Get(ctx context.Context, id int) (domain.Hero, error)
	// Create assigns the next id and stores the hero.
	Create(ctx context.Context, name string) (domain.Hero, error)
	// Put stores hero under its own id and reports whether it was new.
	Put(ctx context.Context, hero domain.Hero) (bool, error)
	// Update replaces an existing hero, returning ErrNotFound otherwise.
	Update(ctx context.Context, hero domain.Hero) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
	Close() error
}

// NewRepository builds the repository for kind ("memory" or "sqlite").
func NewRepository(kind, path string) (Repository, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", StorageMemory:
		return NewMemoryRepository(), nil
	case StorageSQLite:
		if strings.TrimSpace(path) == "" {
			return nil, errors.New("sqlite path is required")
		}
		return OpenSQLiteRepository(path)
	default:
		return nil, fmt.Errorf("unsupported server storage %q", kind)
	}
}

type memoryRepository struct {
	mu     sync.RWMutex
	heroes map[int]domain.Hero
}

// NewMemoryRepository returns an empty process-local repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{heroes: make(map[int]domain.Hero)}
}

func (m *memoryRepository) List(context.Context) ([]domain.Hero, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Hero, 0, len(m.heroes))
	for _, h := range m.heroes {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryRepository) Get(_ context.Context, id int) (domain.Hero, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h, ok := m.heroes[id]
	if !ok {
		return domain.Hero{}, ErrNotFound
	}
	return h, nil
}

func (m *memoryRepository) Create(_ context.Context, name string) (domain.Hero, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := firstHeroID
	for existing := range m.heroes {
		if existing >= id {
			id = existing + 1
		}
	}
	h := domain.Hero{ID: id, Name: name}
	m.heroes[id] = h
	return h, nil
}

func (m *memoryRepository) Put(_ context.Context, hero domain.Hero) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, exists := m.heroes[hero.ID]
	m.heroes[hero.ID] = hero
	return !exists, nil
}

func (m *memoryRepository) Update(_ context.Context, hero domain.Hero) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.heroes[hero.ID]; !ok {
		return ErrNotFound
	}
	m.heroes[hero.ID] = hero
	return nil
}

func (m *memoryRepository) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.heroes, id)
	return nil
}

func (m *memoryRepository) Count(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.heroes), nil
}

func (m *memoryRepository) Close() error { return nil }
