package store

import (
	"context"
	"sort"
	"strings"

	"descanso/internal/models"
)

// AddClient registers a client with a zero loyalty balance.
func (s *Store) AddClient(ctx context.Context, client *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client.Points = 0
	stored := *client
	s.clients[client.ID] = &stored
	s.persistLocked(ctx)
	return nil
}

func (s *Store) GetClient(ctx context.Context, id string) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	client, ok := s.clients[id]
	if !ok {
		return nil, ErrClientNotFound
	}
	copied := *client
	return &copied, nil
}

// SearchClients matches the query case-insensitively against client
// name or id.
func (s *Store) SearchClients(ctx context.Context, query string) ([]models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lower := strings.ToLower(strings.TrimSpace(query))
	var result []models.Client
	for _, c := range s.clients {
		if strings.Contains(strings.ToLower(c.Name), lower) || strings.Contains(strings.ToLower(c.ID), lower) {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *Store) ListClients(ctx context.Context) ([]models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clients := make([]models.Client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, *c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].Name < clients[j].Name })
	return clients, nil
}
