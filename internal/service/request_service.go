package service

import (
	"context"
	"time"

	"descanso/internal/domain"
	"descanso/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestService manages housekeeping and maintenance tasks raised
// manually at the desk. Cleaning tasks raised by checkout go through
// the store directly.
type RequestService struct {
	store      domain.Store
	dispatcher domain.Dispatcher
	logger     *zerolog.Logger
}

func NewRequestService(st domain.Store, dispatcher domain.Dispatcher, logger *zerolog.Logger) *RequestService {
	return &RequestService{store: st, dispatcher: dispatcher, logger: logger}
}

// Raise opens a pending request for a room. Cleaning requests are also
// handed to the dispatcher for background assignment.
func (s *RequestService) Raise(ctx context.Context, roomNumber string, reqType models.RequestType) (*models.ServiceRequest, error) {
	request := &models.ServiceRequest{
		ID:         uuid.NewString(),
		RoomNumber: roomNumber,
		Type:       reqType,
		Status:     models.RequestPending,
		CreatedAt:  time.Now(),
	}
	if err := s.store.AddRequest(ctx, request); err != nil {
		return nil, err
	}

	if s.dispatcher != nil && reqType == models.RequestCleaning {
		if err := s.dispatcher.EnqueueRequest(ctx, request.ID); err != nil {
			s.logger.Error().Err(err).Str("request_id", request.ID).Msg("enqueue request")
		}
	}
	return request, nil
}

func (s *RequestService) Assign(ctx context.Context, requestID, employeeID string) error {
	return s.store.AssignRequest(ctx, requestID, employeeID)
}

func (s *RequestService) Complete(ctx context.Context, requestID string) error {
	return s.store.CompleteRequest(ctx, requestID)
}

func (s *RequestService) List(ctx context.Context) ([]models.ServiceRequest, error) {
	return s.store.ListRequests(ctx)
}
