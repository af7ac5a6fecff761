package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"descanso/internal/models"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// Store is the single state container every desk operation goes
// through. All state lives in memory behind one RWMutex; after every
// committed change the whole document is rewritten into sqlite, and at
// startup it is loaded back wholesale.
type Store struct {
	db     *sql.DB
	logger *zerolog.Logger

	mu        sync.RWMutex
	clients   map[string]*models.Client
	employees map[string]*models.Employee
	rooms     map[string]*models.Room
	stays     map[string]*models.Stay
	requests  map[string]*models.ServiceRequest
	menu      map[string]*models.MenuItem
}

// Open initializes the sqlite snapshot file and loads the persisted
// document, if any.
func Open(path string, logger *zerolog.Logger) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect to store: %w", err)
	}

	query := `CREATE TABLE IF NOT EXISTS state (
        id INTEGER PRIMARY KEY CHECK (id = 1),
        document TEXT NOT NULL,
        updated_at DATETIME NOT NULL
    )`
	if _, err := db.Exec(query); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}

	s := &Store{
		db:        db,
		logger:    logger,
		clients:   make(map[string]*models.Client),
		employees: make(map[string]*models.Employee),
		rooms:     make(map[string]*models.Room),
		stays:     make(map[string]*models.Stay),
		requests:  make(map[string]*models.ServiceRequest),
		menu:      make(map[string]*models.MenuItem),
	}

	if err := s.load(context.Background()); err != nil {
		return nil, err
	}

	logger.Info().Str("path", path).Msg("state store initialized")
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) load(ctx context.Context) error {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM state WHERE id = 1`).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range snap.Clients {
		c := snap.Clients[i]
		s.clients[c.ID] = &c
	}
	for i := range snap.Employees {
		e := snap.Employees[i]
		s.employees[e.ID] = &e
	}
	for i := range snap.Rooms {
		r := snap.Rooms[i]
		s.rooms[r.Number] = &r
	}
	for i := range snap.Stays {
		st := snap.Stays[i]
		s.stays[st.ID] = &st
	}
	for i := range snap.ServiceRequests {
		req := snap.ServiceRequests[i]
		s.requests[req.ID] = &req
	}
	for i := range snap.MenuItems {
		m := snap.MenuItems[i]
		s.menu[m.ID] = &m
	}
	return nil
}

// Snapshot returns a deep copy of the full state for serialization or
// reporting. Slices come back in a stable order.
func (s *Store) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(), nil
}

func (s *Store) snapshotLocked() *models.Snapshot {
	snap := &models.Snapshot{
		Clients:         make([]models.Client, 0, len(s.clients)),
		Employees:       make([]models.Employee, 0, len(s.employees)),
		Rooms:           make([]models.Room, 0, len(s.rooms)),
		Stays:           make([]models.Stay, 0, len(s.stays)),
		ServiceRequests: make([]models.ServiceRequest, 0, len(s.requests)),
		MenuItems:       make([]models.MenuItem, 0, len(s.menu)),
	}
	for _, c := range s.clients {
		snap.Clients = append(snap.Clients, *c)
	}
	for _, e := range s.employees {
		snap.Employees = append(snap.Employees, *e)
	}
	for _, r := range s.rooms {
		snap.Rooms = append(snap.Rooms, *r)
	}
	for _, st := range s.stays {
		stay := *st
		stay.Charges = append([]models.Charge(nil), st.Charges...)
		snap.Stays = append(snap.Stays, stay)
	}
	for _, req := range s.requests {
		snap.ServiceRequests = append(snap.ServiceRequests, *req)
	}
	for _, m := range s.menu {
		snap.MenuItems = append(snap.MenuItems, *m)
	}

	sort.Slice(snap.Clients, func(i, j int) bool { return snap.Clients[i].ID < snap.Clients[j].ID })
	sort.Slice(snap.Employees, func(i, j int) bool { return snap.Employees[i].ID < snap.Employees[j].ID })
	sort.Slice(snap.Rooms, func(i, j int) bool { return snap.Rooms[i].Number < snap.Rooms[j].Number })
	sort.Slice(snap.Stays, func(i, j int) bool { return snap.Stays[i].ID < snap.Stays[j].ID })
	sort.Slice(snap.ServiceRequests, func(i, j int) bool {
		return snap.ServiceRequests[i].ID < snap.ServiceRequests[j].ID
	})
	sort.Slice(snap.MenuItems, func(i, j int) bool { return snap.MenuItems[i].ID < snap.MenuItems[j].ID })
	return snap
}

// persistLocked rewrites the whole document. Callers hold the write
// lock; a committed in-memory change is the source of truth, so a
// persistence failure is logged but does not roll the change back.
func (s *Store) persistLocked(ctx context.Context) {
	raw, err := json.Marshal(s.snapshotLocked())
	if err != nil {
		s.logger.Error().Err(err).Msg("encode snapshot")
		return
	}

	query := `INSERT INTO state (id, document, updated_at) VALUES (1, ?, ?)
              ON CONFLICT(id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query, string(raw), time.Now()); err != nil {
		s.logger.Error().Err(err).Msg("persist snapshot")
	}
}
