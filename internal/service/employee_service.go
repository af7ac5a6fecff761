package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"descanso/internal/domain"
	"descanso/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrRateLimited means the employee fired too many desk actions inside
// the window.
var ErrRateLimited = errors.New("too many actions, slow down")

// EmployeeService manages the staff roster and desk login sessions.
// Sessions live in the session repository under an opaque token.
type EmployeeService struct {
	store    domain.Store
	sessions domain.SessionRepository
	limit    int
	window   time.Duration
	logger   *zerolog.Logger
}

func NewEmployeeService(st domain.Store, sessions domain.SessionRepository, limit int, window time.Duration, logger *zerolog.Logger) *EmployeeService {
	if limit <= 0 {
		limit = models.RateLimitActions
	}
	if window <= 0 {
		window = models.RateLimitWindow * time.Second
	}
	return &EmployeeService{
		store:    st,
		sessions: sessions,
		limit:    limit,
		window:   window,
		logger:   logger,
	}
}

// Hire registers an employee. Email and document must be unique across
// the roster.
func (s *EmployeeService) Hire(ctx context.Context, employee *models.Employee) (*models.Employee, error) {
	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	if err := s.store.AddEmployee(ctx, employee); err != nil {
		return nil, err
	}
	s.logger.Info().Str("employee_id", employee.ID).Str("role", employee.Role).Msg("employee registered")
	return employee, nil
}

func (s *EmployeeService) Get(ctx context.Context, id string) (*models.Employee, error) {
	return s.store.GetEmployee(ctx, id)
}

func (s *EmployeeService) Search(ctx context.Context, query string) ([]models.Employee, error) {
	return s.store.SearchEmployees(ctx, query)
}

func (s *EmployeeService) List(ctx context.Context) ([]models.Employee, error) {
	return s.store.ListEmployees(ctx)
}

// Login authenticates by email or document and opens a session.
func (s *EmployeeService) Login(ctx context.Context, identifier, password string) (*models.Session, error) {
	employee, err := s.store.FindByLogin(ctx, identifier, password)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		Token:      uuid.NewString(),
		EmployeeID: employee.ID,
		Name:       employee.Name,
		Role:       employee.Role,
		CreatedAt:  time.Now(),
	}
	if err := s.sessions.SetSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.logger.Info().Str("employee_id", employee.ID).Str("role", employee.Role).Msg("desk login")
	return session, nil
}

// CurrentSession resolves a token back to its session, if still alive.
func (s *EmployeeService) CurrentSession(ctx context.Context, token string) (*models.Session, error) {
	return s.sessions.GetSession(ctx, token)
}

func (s *EmployeeService) Logout(ctx context.Context, token string) error {
	return s.sessions.ClearSession(ctx, token)
}

// ThrottleAction enforces the per-employee desk action rate limit.
func (s *EmployeeService) ThrottleAction(ctx context.Context, employeeID, action string) error {
	key := fmt.Sprintf("desk:%s:%s", employeeID, action)
	allowed, err := s.sessions.CheckRateLimit(ctx, key, s.limit, s.window)
	if err != nil {
		// Limiter outage must not block the desk.
		s.logger.Warn().Err(err).Str("employee_id", employeeID).Msg("rate limit check failed, allowing")
		return nil
	}
	if !allowed {
		return ErrRateLimited
	}
	return nil
}

// OnShiftNow lists staff of the given role whose shift covers the
// current hour.
func (s *EmployeeService) OnShiftNow(ctx context.Context, role string) ([]models.Employee, error) {
	return s.store.ListOnShift(ctx, role, time.Now().Hour())
}

// EnsureDefaultAdmin seeds a manager account so a fresh deployment is
// never locked out.
func (s *EmployeeService) EnsureDefaultAdmin(ctx context.Context, email, password string) error {
	if err := s.store.EnsureDefaultAdmin(ctx, email, password); err != nil {
		return fmt.Errorf("ensure default admin: %w", err)
	}
	return nil
}
