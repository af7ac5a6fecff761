package store

import (
	"context"
	"sort"

	"descanso/internal/models"
)

func (s *Store) AddMenuItem(ctx context.Context, item *models.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *item
	s.menu[item.ID] = &stored
	s.persistLocked(ctx)
	return nil
}

func (s *Store) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.menu[id]
	if !ok {
		return nil, ErrMenuItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (s *Store) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.MenuItem, 0, len(s.menu))
	for _, m := range s.menu {
		items = append(items, *m)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}
