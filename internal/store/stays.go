package store

import (
	"context"
	"sort"
	"time"

	"descanso/internal/loyalty"
	"descanso/internal/models"

	"github.com/google/uuid"
)

// CreateStay records a new active stay and unconditionally flips the
// room to occupied, in one step under the store lock. Availability is
// NOT re-verified here: booking confirmation stays a single
// unconditional step once the caller has picked a room from an
// availability result.
func (s *Store) CreateStay(ctx context.Context, stay *models.Stay) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[stay.RoomNumber]
	if !ok {
		return ErrRoomNotFound
	}

	now := time.Now()
	stay.Status = models.StayActive
	stay.CreatedAt = now
	stay.UpdatedAt = now
	if stay.Charges == nil {
		stay.Charges = []models.Charge{}
	}

	stored := *stay
	stored.Charges = append([]models.Charge(nil), stay.Charges...)
	s.stays[stay.ID] = &stored
	room.Status = models.RoomOccupied

	s.persistLocked(ctx)
	return nil
}

func (s *Store) GetStay(ctx context.Context, id string) (*models.Stay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stay, ok := s.stays[id]
	if !ok {
		return nil, ErrStayNotFound
	}
	copied := *stay
	copied.Charges = append([]models.Charge(nil), stay.Charges...)
	return &copied, nil
}

// ActiveStaysForRoom returns the active stays referencing a room.
// Historically completed stays are excluded; they persist for
// reporting only.
func (s *Store) ActiveStaysForRoom(ctx context.Context, roomNumber string) ([]models.Stay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.Stay
	for _, st := range s.stays {
		if st.RoomNumber == roomNumber && st.Status == models.StayActive {
			copied := *st
			copied.Charges = append([]models.Charge(nil), st.Charges...)
			result = append(result, copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// GetClientStays returns every stay for a client, newest check-in
// first.
func (s *Store) GetClientStays(ctx context.Context, clientID string) ([]models.Stay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.Stay
	for _, st := range s.stays {
		if st.ClientID == clientID {
			copied := *st
			copied.Charges = append([]models.Charge(nil), st.Charges...)
			result = append(result, copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CheckIn.After(result[j].CheckIn) })
	return result, nil
}

// ListStays returns every stay, active and completed.
func (s *Store) ListStays(ctx context.Context) ([]models.Stay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stays := make([]models.Stay, 0, len(s.stays))
	for _, st := range s.stays {
		copied := *st
		copied.Charges = append([]models.Charge(nil), st.Charges...)
		stays = append(stays, copied)
	}
	sort.Slice(stays, func(i, j int) bool { return stays[i].CreatedAt.Before(stays[j].CreatedAt) })
	return stays, nil
}

// AddCharge appends an incidental charge to an active stay.
func (s *Store) AddCharge(ctx context.Context, stayID string, charge models.Charge) (*models.Charge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stay, ok := s.stays[stayID]
	if !ok {
		return nil, ErrStayNotFound
	}
	if stay.Status != models.StayActive {
		return nil, ErrStayNotActive
	}

	if charge.ID == "" {
		charge.ID = uuid.NewString()
	}
	if charge.CreatedAt.IsZero() {
		charge.CreatedAt = time.Now()
	}
	stay.Charges = append(stay.Charges, charge)
	stay.UpdatedAt = time.Now()

	s.persistLocked(ctx)
	copied := charge
	return &copied, nil
}

// CompleteStay finalizes a checkout atomically: the stay flips to
// completed with its final cost, the room is released, the client's
// balance moves by earned minus redeemed points, and an unassigned
// cleaning request is raised for the vacated room. Every validation
// runs before the first mutation, so a failed checkout leaves no trace.
func (s *Store) CompleteStay(ctx context.Context, stayID string, pointsToRedeem int, calc loyalty.Calculator) (*models.CheckoutReceipt, *models.ServiceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stay, ok := s.stays[stayID]
	if !ok {
		return nil, nil, ErrStayNotFound
	}
	if stay.Status == models.StayCompleted {
		return nil, nil, ErrAlreadyCheckedOut
	}

	room, ok := s.rooms[stay.RoomNumber]
	if !ok {
		return nil, nil, ErrRoomNotFound
	}
	client, ok := s.clients[stay.ClientID]
	if !ok {
		return nil, nil, ErrClientNotFound
	}
	if pointsToRedeem < 0 || pointsToRedeem > client.Points {
		return nil, nil, ErrInsufficientPoints
	}

	// The subtotal is re-derived from the current rate and the stored
	// day count, not the booking-time quote.
	subtotal := float64(stay.TotalDays)*room.DailyRate + stay.ChargesTotal()
	earned := calc.Earned(room.Category, stay.TotalDays)
	finalCost, discount := calc.FinalTotal(subtotal, pointsToRedeem)

	now := time.Now()
	stay.Status = models.StayCompleted
	stay.FinalCost = finalCost
	stay.UpdatedAt = now
	room.Status = models.RoomAvailable
	client.Points = client.Points - pointsToRedeem + earned

	request := &models.ServiceRequest{
		ID:         uuid.NewString(),
		RoomNumber: room.Number,
		Type:       models.RequestCleaning,
		Status:     models.RequestPending,
		CreatedAt:  now,
	}
	s.requests[request.ID] = request

	s.persistLocked(ctx)

	receipt := &models.CheckoutReceipt{
		StayID:         stay.ID,
		Subtotal:       subtotal,
		Discount:       discount,
		FinalCost:      finalCost,
		PointsEarned:   earned,
		PointsRedeemed: pointsToRedeem,
	}
	copied := *request
	return receipt, &copied, nil
}
