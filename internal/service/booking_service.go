package service

import (
	"context"
	"time"

	"descanso/internal/domain"
	"descanso/internal/events"
	"descanso/internal/metrics"
	"descanso/internal/models"
	"descanso/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BookingService covers room availability search and the stay ledger:
// stay creation and mid-stay charge accumulation.
type BookingService struct {
	store    domain.Store
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(st domain.Store, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		store:    st,
		eventBus: eventBus,
		logger:   logger,
	}
}

// FindAvailableRooms returns rooms with enough capacity, the requested
// category (when given) and no active stay overlapping the requested
// interval. Intervals are half-open: a checkout on day X and a new
// check-in on day X do not collide. Results come back in ascending
// room-number order and the search has no side effects.
func (s *BookingService) FindAvailableRooms(ctx context.Context, checkIn, checkOut time.Time, guestCount int, category *models.RoomCategory) ([]models.Room, error) {
	if !checkIn.Before(checkOut) {
		return nil, store.ErrInvalidDateRange
	}

	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	available := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		if room.Capacity < guestCount {
			continue
		}
		if category != nil && room.Category != *category {
			continue
		}

		stays, err := s.store.ActiveStaysForRoom(ctx, room.Number)
		if err != nil {
			return nil, err
		}
		if overlapsAny(checkIn, checkOut, stays) {
			continue
		}
		available = append(available, room)
	}
	return available, nil
}

func overlapsAny(reqStart, reqEnd time.Time, stays []models.Stay) bool {
	for _, st := range stays {
		// Half-open overlap: (reqStart < stayEnd) && (reqEnd > stayStart).
		if reqStart.Before(st.CheckOut) && reqEnd.After(st.CheckIn) {
			return true
		}
	}
	return false
}

// CreateStay books a room for a client. Availability is deliberately
// not re-verified: booking confirmation is a single unconditional step
// once the caller has selected from an availability result, and the
// room flips to occupied no matter its previous status. The quoted
// cost is frozen here from the current rate.
func (s *BookingService) CreateStay(ctx context.Context, clientID, roomNumber string, checkIn, checkOut time.Time, guestCount int) (*models.Stay, error) {
	room, err := s.store.GetRoom(ctx, roomNumber)
	if err != nil {
		return nil, err
	}

	days := models.StayDays(checkIn, checkOut)
	stay := &models.Stay{
		ID:         uuid.NewString(),
		ClientID:   clientID,
		RoomNumber: room.Number,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		TotalDays:  days,
		GuestCount: guestCount,
		QuotedCost: float64(days) * room.DailyRate,
		Charges:    []models.Charge{},
	}

	if err := s.store.CreateStay(ctx, stay); err != nil {
		return nil, err
	}

	metrics.IncStaysCreated()
	refreshOccupancyGauge(ctx, s.store)
	s.publishStayEvent(events.EventStayCreated, stay)
	s.logger.Info().
		Str("stay_id", stay.ID).
		Str("room", stay.RoomNumber).
		Int("days", stay.TotalDays).
		Float64("quoted_cost", stay.QuotedCost).
		Msg("stay created")

	return stay, nil
}

// AddCharge appends an incidental charge to an active stay. Charges on
// completed stays are rejected.
func (s *BookingService) AddCharge(ctx context.Context, stayID, description string, amount float64, category models.ChargeCategory) (*models.Charge, error) {
	if amount <= 0 {
		return nil, store.ErrInvalidChargeAmount
	}

	charge := models.Charge{
		ID:          uuid.NewString(),
		Description: description,
		Amount:      amount,
		Category:    category,
		CreatedAt:   time.Now(),
	}

	added, err := s.store.AddCharge(ctx, stayID, charge)
	if err != nil {
		return nil, err
	}

	metrics.IncCharges(string(category))
	if s.eventBus != nil {
		if err := s.eventBus.PublishJSON(events.EventChargeAdded, map[string]interface{}{
			"stay_id":  stayID,
			"charge":   added,
			"category": category,
		}); err != nil {
			s.logger.Error().Err(err).Str("stay_id", stayID).Msg("publish charge event")
		}
	}
	return added, nil
}

func (s *BookingService) GetStay(ctx context.Context, id string) (*models.Stay, error) {
	return s.store.GetStay(ctx, id)
}

func (s *BookingService) GetClientStays(ctx context.Context, clientID string) ([]models.Stay, error) {
	return s.store.GetClientStays(ctx, clientID)
}

func (s *BookingService) ListRooms(ctx context.Context) ([]models.Room, error) {
	return s.store.ListRooms(ctx)
}

// refreshOccupancyGauge recounts occupied rooms after a status flip.
// Gauge drift on a listing error is tolerable, so failures are ignored.
func refreshOccupancyGauge(ctx context.Context, st domain.Store) {
	rooms, err := st.ListRooms(ctx)
	if err != nil {
		return
	}
	occupied := 0
	for _, room := range rooms {
		if room.Status == models.RoomOccupied {
			occupied++
		}
	}
	metrics.SetOccupiedRooms(occupied)
}

func (s *BookingService) publishStayEvent(eventType string, stay *models.Stay) {
	if s.eventBus == nil {
		return
	}

	payload := events.StayEventPayload{
		StayID:     stay.ID,
		ClientID:   stay.ClientID,
		RoomNumber: stay.RoomNumber,
		Status:     string(stay.Status),
		CheckIn:    stay.CheckIn,
		CheckOut:   stay.CheckOut,
		TotalDays:  stay.TotalDays,
		FinalCost:  stay.FinalCost,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("stay_id", stay.ID).Msg("publish event error")
	}
}
