package domain

import (
	"context"
	"time"

	"descanso/internal/loyalty"
	"descanso/internal/models"
)

// Store is the state container every desk operation goes through.
// Mutating methods are atomic: they either apply fully and persist, or
// leave the state untouched.
type Store interface {
	AddRoom(ctx context.Context, room *models.Room) error
	SyncRooms(ctx context.Context, rooms []models.Room) error
	GetRoom(ctx context.Context, number string) (*models.Room, error)
	ListRooms(ctx context.Context) ([]models.Room, error)

	AddClient(ctx context.Context, client *models.Client) error
	GetClient(ctx context.Context, id string) (*models.Client, error)
	SearchClients(ctx context.Context, query string) ([]models.Client, error)
	ListClients(ctx context.Context) ([]models.Client, error)

	AddEmployee(ctx context.Context, employee *models.Employee) error
	GetEmployee(ctx context.Context, id string) (*models.Employee, error)
	FindByLogin(ctx context.Context, identifier, password string) (*models.Employee, error)
	SearchEmployees(ctx context.Context, query string) ([]models.Employee, error)
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	ListOnShift(ctx context.Context, role string, hour int) ([]models.Employee, error)
	EnsureDefaultAdmin(ctx context.Context, email, password string) error

	CreateStay(ctx context.Context, stay *models.Stay) error
	GetStay(ctx context.Context, id string) (*models.Stay, error)
	ActiveStaysForRoom(ctx context.Context, roomNumber string) ([]models.Stay, error)
	GetClientStays(ctx context.Context, clientID string) ([]models.Stay, error)
	ListStays(ctx context.Context) ([]models.Stay, error)
	AddCharge(ctx context.Context, stayID string, charge models.Charge) (*models.Charge, error)
	CompleteStay(ctx context.Context, stayID string, pointsToRedeem int, calc loyalty.Calculator) (*models.CheckoutReceipt, *models.ServiceRequest, error)

	AddRequest(ctx context.Context, request *models.ServiceRequest) error
	GetRequest(ctx context.Context, id string) (*models.ServiceRequest, error)
	AssignRequest(ctx context.Context, id, employeeID string) error
	CompleteRequest(ctx context.Context, id string) error
	ListRequests(ctx context.Context) ([]models.ServiceRequest, error)
	PendingUnassigned(ctx context.Context, reqType models.RequestType) ([]models.ServiceRequest, error)

	AddMenuItem(ctx context.Context, item *models.MenuItem) error
	GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error)
	ListMenu(ctx context.Context) ([]models.MenuItem, error)

	Snapshot(ctx context.Context) (*models.Snapshot, error)
}

// SessionRepository keeps desk login sessions and throttles desk
// actions.
type SessionRepository interface {
	GetSession(ctx context.Context, token string) (*models.Session, error)
	SetSession(ctx context.Context, session *models.Session) error
	ClearSession(ctx context.Context, token string) error
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// EventPublisher fans domain events out to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// Dispatcher accepts cleaning requests for background assignment.
type Dispatcher interface {
	EnqueueRequest(ctx context.Context, requestID string) error
}
