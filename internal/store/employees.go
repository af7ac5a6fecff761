package store

import (
	"context"
	"sort"
	"strings"

	"descanso/internal/models"

	"github.com/google/uuid"
)

// AddEmployee registers an employee after uniqueness checks on email
// and document.
func (s *Store) AddEmployee(ctx context.Context, employee *models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	employee.Email = strings.ToLower(strings.TrimSpace(employee.Email))
	employee.Document = strings.TrimSpace(employee.Document)
	if employee.Shift == "" {
		employee.Shift = models.ShiftMorning
	}

	for _, e := range s.employees {
		if e.Email == employee.Email {
			return ErrEmailTaken
		}
		if e.Document == employee.Document {
			return ErrDocumentTaken
		}
	}

	stored := *employee
	s.employees[employee.ID] = &stored
	s.persistLocked(ctx)
	return nil
}

func (s *Store) GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employee, ok := s.employees[id]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	copied := *employee
	return &copied, nil
}

// FindByLogin resolves an employee by email or document plus password.
func (s *Store) FindByLogin(ctx context.Context, identifier, password string) (*models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cleaned := strings.TrimSpace(identifier)
	for _, e := range s.employees {
		if (strings.EqualFold(e.Email, cleaned) || e.Document == cleaned) && e.Password == password {
			copied := *e
			return &copied, nil
		}
	}
	return nil, ErrInvalidCredentials
}

// SearchEmployees matches the query case-insensitively against
// employee name or id.
func (s *Store) SearchEmployees(ctx context.Context, query string) ([]models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lower := strings.ToLower(strings.TrimSpace(query))
	var result []models.Employee
	for _, e := range s.employees {
		if strings.Contains(strings.ToLower(e.Name), lower) || strings.Contains(strings.ToLower(e.ID), lower) {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employees := make([]models.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		employees = append(employees, *e)
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].Name < employees[j].Name })
	return employees, nil
}

// ListOnShift returns employees of the given role whose shift covers
// the given hour.
func (s *Store) ListOnShift(ctx context.Context, role string, hour int) ([]models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.Employee
	for _, e := range s.employees {
		if e.Role == role && e.OnShiftAt(hour) {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// EnsureDefaultAdmin seeds a manager account when the roster has no
// usable one, so a fresh installation can always log in.
func (s *Store) EnsureDefaultAdmin(ctx context.Context, email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.employees {
		if e.Role == models.RoleManager && e.Email != "" && e.Password != "" {
			return nil
		}
	}

	admin := &models.Employee{
		ID:       uuid.NewString(),
		Name:     "Default Administrator",
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: password,
		Role:     models.RoleManager,
		Shift:    models.ShiftMorning,
	}
	s.employees[admin.ID] = admin
	s.persistLocked(ctx)
	s.logger.Info().Str("email", admin.Email).Msg("default admin seeded")
	return nil
}
