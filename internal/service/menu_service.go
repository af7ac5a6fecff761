package service

import (
	"context"
	"fmt"
	"strings"

	"descanso/internal/domain"
	"descanso/internal/models"
	"descanso/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MenuService keeps the restaurant catalog and turns room-service
// orders into stay charges.
type MenuService struct {
	store   domain.Store
	booking *BookingService
	logger  *zerolog.Logger
}

func NewMenuService(st domain.Store, booking *BookingService, logger *zerolog.Logger) *MenuService {
	return &MenuService{store: st, booking: booking, logger: logger}
}

func (s *MenuService) AddItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if err := s.store.AddMenuItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *MenuService) Catalog(ctx context.Context) ([]models.MenuItem, error) {
	return s.store.ListMenu(ctx)
}

// PlaceOrder books a restaurant order against an active stay as a
// single aggregated charge. Unknown items or non-positive quantities
// fail the whole order before anything is charged.
func (s *MenuService) PlaceOrder(ctx context.Context, stayID string, lines []models.OrderLine) (*models.Charge, error) {
	if len(lines) == 0 {
		return nil, store.ErrInvalidChargeAmount
	}

	var total float64
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, store.ErrInvalidChargeAmount
		}
		item, err := s.store.GetMenuItem(ctx, line.MenuItemID)
		if err != nil {
			return nil, err
		}
		total += item.Price * float64(line.Quantity)
		parts = append(parts, fmt.Sprintf("%dx %s", line.Quantity, item.Name))
	}

	description := "Restaurant order: " + strings.Join(parts, ", ")
	charge, err := s.booking.AddCharge(ctx, stayID, description, total, models.ChargeRestaurant)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("stay_id", stayID).Int("lines", len(lines)).Float64("total", total).Msg("restaurant order charged")
	return charge, nil
}
