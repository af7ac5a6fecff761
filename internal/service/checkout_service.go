package service

import (
	"context"

	"descanso/internal/domain"
	"descanso/internal/events"
	"descanso/internal/loyalty"
	"descanso/internal/metrics"
	"descanso/internal/models"

	"github.com/rs/zerolog"
)

// CheckoutService orchestrates checkout: the store applies the atomic
// state transition, then events, metrics and the housekeeping
// dispatcher are notified. Side effects after the commit are
// best-effort; the checkout itself never rolls back for them.
type CheckoutService struct {
	store      domain.Store
	calc       loyalty.Calculator
	eventBus   domain.EventPublisher
	dispatcher domain.Dispatcher
	logger     *zerolog.Logger
}

func NewCheckoutService(st domain.Store, calc loyalty.Calculator, eventBus domain.EventPublisher, dispatcher domain.Dispatcher, logger *zerolog.Logger) *CheckoutService {
	return &CheckoutService{
		store:      st,
		calc:       calc,
		eventBus:   eventBus,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Checkout completes a stay, settling the bill with the points
// redemption the guest asked for. The returned receipt itemizes
// subtotal, discount, final cost and both points movements.
func (s *CheckoutService) Checkout(ctx context.Context, stayID string, pointsToRedeem int) (*models.CheckoutReceipt, error) {
	receipt, request, err := s.store.CompleteStay(ctx, stayID, pointsToRedeem, s.calc)
	if err != nil {
		return nil, err
	}

	metrics.IncCheckouts()
	metrics.AddPointsEarned(receipt.PointsEarned)
	metrics.AddPointsRedeemed(receipt.PointsRedeemed)
	refreshOccupancyGauge(ctx, s.store)

	stay, err := s.store.GetStay(ctx, stayID)
	if err == nil {
		s.publishCompleted(ctx, stay)
	}

	if s.dispatcher != nil && request != nil {
		if err := s.dispatcher.EnqueueRequest(ctx, request.ID); err != nil {
			s.logger.Error().Err(err).Str("request_id", request.ID).Msg("enqueue cleaning request")
		}
	}
	if s.eventBus != nil && request != nil {
		if err := s.eventBus.PublishJSON(events.EventCleaningRequested, events.CleaningEventPayload{
			RequestID:  request.ID,
			RoomNumber: request.RoomNumber,
		}); err != nil {
			s.logger.Error().Err(err).Str("request_id", request.ID).Msg("publish cleaning event")
		}
	}

	s.logger.Info().
		Str("stay_id", stayID).
		Float64("subtotal", receipt.Subtotal).
		Float64("discount", receipt.Discount).
		Float64("final_cost", receipt.FinalCost).
		Int("points_earned", receipt.PointsEarned).
		Int("points_redeemed", receipt.PointsRedeemed).
		Msg("checkout completed")

	return receipt, nil
}

func (s *CheckoutService) publishCompleted(ctx context.Context, stay *models.Stay) {
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
	if err := s.eventBus.PublishJSON(events.EventStayCompleted, payload); err != nil {
		s.logger.Error().Err(err).Str("stay_id", stay.ID).Msg("publish checkout event")
	}

	client, err := s.store.GetClient(ctx, stay.ClientID)
	if err != nil {
		return
	}
	if err := s.eventBus.PublishJSON(events.EventPointsCredited, events.PointsEventPayload{
		ClientID: client.ID,
		Balance:  client.Points,
	}); err != nil {
		s.logger.Error().Err(err).Str("client_id", client.ID).Msg("publish points event")
	}
}
