// Package app is a small cats API wired entirely through the container:
// an in-memory repository singleton, a scoped request context, and
// transient handlers and controllers resolved once per request.
package app

import (
	"errors"
	"log/slog"
	"maps"
	"slices"
	"sync"
)

// ErrCatNotFound is returned by repositories for unknown ids.
var ErrCatNotFound = errors.New("cat not found")

type Cat struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CatsRepository stores cats.
type CatsRepository interface {
	All() []*Cat
	GetByID(id int) (*Cat, error)
	Save(cat *Cat) *Cat
	Delete(id int) error
}

// InMemoryCatsRepository is a CatsRepository safe for concurrent use.
type InMemoryCatsRepository struct {
	mu     sync.RWMutex
	cats   map[int]*Cat
	nextID int
	logger *slog.Logger
}

// NewInMemoryCatsRepository returns a repository holding the given names.
func NewInMemoryCatsRepository(logger *slog.Logger, names ...string) *InMemoryCatsRepository {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &InMemoryCatsRepository{cats: make(map[int]*Cat), nextID: 1, logger: logger}
	for _, name := range names {
		r.Save(&Cat{Name: name})
	}
	return r
}

// All returns every cat ordered by id.
func (r *InMemoryCatsRepository) All() []*Cat {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Cat, 0, len(r.cats))
	for _, id := range slices.Sorted(maps.Keys(r.cats)) {
		c := *r.cats[id]
		out = append(out, &c)
	}
	return out
}

func (r *InMemoryCatsRepository) GetByID(id int) (*Cat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cat, ok := r.cats[id]
	if !ok {
		return nil, ErrCatNotFound
	}
	c := *cat
	return &c, nil
}

// Save inserts cat when its ID is zero and replaces it otherwise.
func (r *InMemoryCatsRepository) Save(cat *Cat) *Cat {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *cat
	if c.ID == 0 {
		c.ID = r.nextID
		r.nextID++
	}
	r.cats[c.ID] = &c
	r.logger.Debug("cat saved", "id", c.ID, "name", c.Name)
	out := c
	return &out
}

func (r *InMemoryCatsRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cats[id]; !ok {
		return ErrCatNotFound
	}
	delete(r.cats, id)
	r.logger.Debug("cat deleted", "id", id)
	return nil
}
