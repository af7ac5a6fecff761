package store

import (
	"context"
	"sort"
	"time"

	"descanso/internal/models"
)

// AddRequest records a staff-raised service request as pending.
func (s *Store) AddRequest(ctx context.Context, request *models.ServiceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[request.RoomNumber]; !ok {
		return ErrRoomNotFound
	}

	request.Status = models.RequestPending
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now()
	}

	stored := *request
	s.requests[request.ID] = &stored
	s.persistLocked(ctx)
	return nil
}

func (s *Store) GetRequest(ctx context.Context, id string) (*models.ServiceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	request, ok := s.requests[id]
	if !ok {
		return nil, ErrRequestNotFound
	}
	copied := *request
	return &copied, nil
}

// AssignRequest sets the employee responsible for a pending request.
func (s *Store) AssignRequest(ctx context.Context, id, employeeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.requests[id]
	if !ok {
		return ErrRequestNotFound
	}
	if request.Status != models.RequestPending {
		return ErrRequestNotFound
	}
	if _, ok := s.employees[employeeID]; !ok {
		return ErrEmployeeNotFound
	}

	request.EmployeeID = employeeID
	s.persistLocked(ctx)
	return nil
}

func (s *Store) CompleteRequest(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.requests[id]
	if !ok {
		return ErrRequestNotFound
	}
	request.Status = models.RequestCompleted
	s.persistLocked(ctx)
	return nil
}

func (s *Store) ListRequests(ctx context.Context) ([]models.ServiceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	requests := make([]models.ServiceRequest, 0, len(s.requests))
	for _, r := range s.requests {
		requests = append(requests, *r)
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].CreatedAt.Before(requests[j].CreatedAt) })
	return requests, nil
}

// PendingUnassigned returns pending requests of the given type that
// have no employee yet, oldest first.
func (s *Store) PendingUnassigned(ctx context.Context, reqType models.RequestType) ([]models.ServiceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.ServiceRequest
	for _, r := range s.requests {
		if r.Type == reqType && r.Status == models.RequestPending && r.EmployeeID == "" {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}
