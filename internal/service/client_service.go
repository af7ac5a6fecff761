package service

import (
	"context"

	"descanso/internal/domain"
	"descanso/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ClientService manages the guest registry.
type ClientService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewClientService(st domain.Store, logger *zerolog.Logger) *ClientService {
	return &ClientService{store: st, logger: logger}
}

// Register adds a guest with a zero loyalty balance.
func (s *ClientService) Register(ctx context.Context, name, address, phone, document string) (*models.Client, error) {
	client := &models.Client{
		ID:       uuid.NewString(),
		Name:     name,
		Address:  address,
		Phone:    phone,
		Document: document,
	}
	if err := s.store.AddClient(ctx, client); err != nil {
		return nil, err
	}
	s.logger.Info().Str("client_id", client.ID).Msg("client registered")
	return client, nil
}

func (s *ClientService) Get(ctx context.Context, id string) (*models.Client, error) {
	return s.store.GetClient(ctx, id)
}

// Search matches clients by name or id, case-insensitively.
func (s *ClientService) Search(ctx context.Context, query string) ([]models.Client, error) {
	return s.store.SearchClients(ctx, query)
}

func (s *ClientService) List(ctx context.Context) ([]models.Client, error) {
	return s.store.ListClients(ctx)
}

// History returns the client's stays, newest check-in first.
func (s *ClientService) History(ctx context.Context, clientID string) ([]models.Stay, error) {
	if _, err := s.store.GetClient(ctx, clientID); err != nil {
		return nil, err
	}
	return s.store.GetClientStays(ctx, clientID)
}
