package store

import (
	"context"
	"sort"
	"strings"

	"descanso/internal/models"
)

// AddRoom registers a room. The daily rate is resolved from the
// category rate table when the config is loaded; it is immutable
// afterwards.
func (s *Store) AddRoom(ctx context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[room.Number]; ok {
		return ErrRoomExists
	}
	if room.Status == "" {
		room.Status = models.RoomAvailable
	}

	stored := *room
	s.rooms[room.Number] = &stored
	s.persistLocked(ctx)
	return nil
}

// SyncRooms seeds configured rooms that are not registered yet.
// Existing rooms keep their occupancy status and rate.
func (s *Store) SyncRooms(ctx context.Context, rooms []models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for i := range rooms {
		room := rooms[i]
		if _, ok := s.rooms[room.Number]; ok {
			continue
		}
		if room.Status == "" {
			room.Status = models.RoomAvailable
		}
		s.rooms[room.Number] = &room
		added++
	}

	if added > 0 {
		s.persistLocked(ctx)
		s.logger.Info().Int("added", added).Msg("room inventory synced")
	}
	return nil
}

func (s *Store) GetRoom(ctx context.Context, number string) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[strings.TrimSpace(number)]
	if !ok {
		return nil, ErrRoomNotFound
	}
	copied := *room
	return &copied, nil
}

// ListRooms returns all rooms in ascending room-number order.
func (s *Store) ListRooms(ctx context.Context) ([]models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]models.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, *r)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Number < rooms[j].Number })
	return rooms, nil
}
