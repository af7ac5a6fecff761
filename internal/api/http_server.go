package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"descanso/internal/config"
	"descanso/internal/export"
	"descanso/internal/metrics"
	"descanso/internal/models"
	"descanso/internal/service"
	"descanso/internal/store"

	"github.com/rs/zerolog"
)

// sessionTokenHeader carries the desk session token on session
// lookups and logout.
const sessionTokenHeader = "x-session-token"

// HTTPServer exposes the front-desk operations over a small JSON API
// for kiosk and partner integrations.
type HTTPServer struct {
	cfg       config.APIConfig
	booking   *service.BookingService
	checkout  *service.CheckoutService
	clients   *service.ClientService
	menu      *service.MenuService
	requests  *service.RequestService
	employees *service.EmployeeService
	reports   *export.Reporter
	server    *http.Server
	auth      *HTTPAuth
	logger    *zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, booking *service.BookingService, checkout *service.CheckoutService, clients *service.ClientService, menu *service.MenuService, requests *service.RequestService, employees *service.EmployeeService, reports *export.Reporter, logger *zerolog.Logger) *HTTPServer {
	mux := http.NewServeMux()
	srv := &HTTPServer{
		cfg:       cfg,
		booking:   booking,
		checkout:  checkout,
		clients:   clients,
		menu:      menu,
		requests:  requests,
		employees: employees,
		reports:   reports,
		logger:    logger,
	}
	srv.auth = NewHTTPAuth(cfg)

	mux.HandleFunc("/api/v1/availability", srv.handleAvailability)
	mux.HandleFunc("/api/v1/rooms", srv.handleRooms)
	mux.HandleFunc("/api/v1/menu", srv.handleMenu)
	mux.HandleFunc("/api/v1/requests", srv.handleRequests)
	mux.HandleFunc("/api/v1/stays", srv.handleCreateStay)
	mux.HandleFunc("/api/v1/stays/", srv.handleStaySubresource)
	mux.HandleFunc("/api/v1/clients", srv.handleCreateClient)
	mux.HandleFunc("/api/v1/clients/", srv.handleClientSubresource)
	mux.HandleFunc("/api/v1/sessions", srv.handleSessions)
	mux.HandleFunc("/api/v1/reports/occupancy", srv.handleOccupancyReport)

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the composed handler for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("availability")

	q := r.URL.Query()
	checkIn, err := parseDate(q.Get("check_in"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid check_in; expected YYYY-MM-DD")
		return
	}
	checkOut, err := parseDate(q.Get("check_out"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid check_out; expected YYYY-MM-DD")
		return
	}

	guests := 1
	if raw := strings.TrimSpace(q.Get("guests")); raw != "" {
		guests, err = strconv.Atoi(raw)
		if err != nil || guests < 1 {
			writeError(w, http.StatusBadRequest, "invalid guests")
			return
		}
	}

	var category *models.RoomCategory
	if raw := strings.TrimSpace(q.Get("category")); raw != "" {
		c := models.RoomCategory(raw)
		if !models.ValidCategory(c) {
			writeError(w, http.StatusBadRequest, "unknown category")
			return
		}
		category = &c
	}

	rooms, err := s.booking.FindAvailableRooms(r.Context(), checkIn, checkOut, guests, category)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

func (s *HTTPServer) handleRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("rooms")

	rooms, err := s.booking.ListRooms(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

func (s *HTTPServer) handleMenu(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("menu")

	items, err := s.menu.Catalog(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *HTTPServer) handleRequests(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("requests")

	list, err := s.requests.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": list})
}

func (s *HTTPServer) handleCreateStay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("create_stay")

	var body struct {
		ClientID   string `json:"client_id"`
		RoomNumber string `json:"room_number"`
		CheckIn    string `json:"check_in"`
		CheckOut   string `json:"check_out"`
		GuestCount int    `json:"guest_count"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.ClientID == "" || body.RoomNumber == "" {
		writeError(w, http.StatusBadRequest, "client_id and room_number are required")
		return
	}

	checkIn, err := parseDate(body.CheckIn)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid check_in; expected YYYY-MM-DD")
		return
	}
	checkOut, err := parseDate(body.CheckOut)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid check_out; expected YYYY-MM-DD")
		return
	}
	if body.GuestCount < 1 {
		body.GuestCount = 1
	}

	stay, err := s.booking.CreateStay(r.Context(), body.ClientID, body.RoomNumber, checkIn, checkOut, body.GuestCount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, stay)
}

// handleStaySubresource routes /api/v1/stays/{id}/(charges|checkout|order).
func (s *HTTPServer) handleStaySubresource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/stays/")
	parts := strings.Split(rest, "/")

	if len(parts) == 1 && parts[0] != "" {
		s.handleGetStay(w, r, parts[0])
		return
	}
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	stayID := parts[0]
	switch parts[1] {
	case "charges":
		s.handleAddCharge(w, r, stayID)
	case "checkout":
		s.handleCheckout(w, r, stayID)
	case "order":
		s.handleOrder(w, r, stayID)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *HTTPServer) handleGetStay(w http.ResponseWriter, r *http.Request, stayID string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("get_stay")

	stay, err := s.booking.GetStay(r.Context(), stayID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stay)
}

func (s *HTTPServer) handleAddCharge(w http.ResponseWriter, r *http.Request, stayID string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("add_charge")

	var body struct {
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
		Category    string  `json:"category"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	category := models.ChargeCategory(body.Category)
	if category == "" {
		category = models.ChargeOther
	}

	charge, err := s.booking.AddCharge(r.Context(), stayID, body.Description, body.Amount, category)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, charge)
}

func (s *HTTPServer) handleCheckout(w http.ResponseWriter, r *http.Request, stayID string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("checkout")

	// An absent body means no redemption.
	var body struct {
		PointsToRedeem int `json:"points_to_redeem"`
	}
	if err := decodeBody(r, &body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	receipt, err := s.checkout.Checkout(r.Context(), stayID, body.PointsToRedeem)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (s *HTTPServer) handleOrder(w http.ResponseWriter, r *http.Request, stayID string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("order")

	var body struct {
		Lines []models.OrderLine `json:"lines"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	charge, err := s.menu.PlaceOrder(r.Context(), stayID, body.Lines)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, charge)
}

func (s *HTTPServer) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		metrics.IncHTTP("search_clients")
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		clients, err := s.clients.Search(r.Context(), query)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"clients": clients})
	case http.MethodPost:
		metrics.IncHTTP("create_client")
		var body struct {
			Name     string `json:"name"`
			Address  string `json:"address"`
			Phone    string `json:"phone"`
			Document string `json:"document"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(body.Name) == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		client, err := s.clients.Register(r.Context(), body.Name, body.Address, body.Phone, body.Document)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, client)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleClientSubresource routes /api/v1/clients/{id}/stays.
func (s *HTTPServer) handleClientSubresource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/clients/")
	parts := strings.Split(rest, "/")

	if len(parts) == 1 && parts[0] != "" {
		metrics.IncHTTP("get_client")
		client, err := s.clients.Get(r.Context(), parts[0])
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, client)
		return
	}
	if len(parts) == 2 && parts[0] != "" && parts[1] == "stays" {
		metrics.IncHTTP("client_stays")
		stays, err := s.clients.History(r.Context(), parts[0])
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"stays": stays})
		return
	}
	writeError(w, http.StatusNotFound, "not found")
}

// handleSessions covers desk login (POST), token resolution (GET) and
// logout (DELETE).
func (s *HTTPServer) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		metrics.IncHTTP("login")
		var body struct {
			Identifier string `json:"identifier"`
			Password   string `json:"password"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(body.Identifier) == "" || body.Password == "" {
			writeError(w, http.StatusBadRequest, "identifier and password are required")
			return
		}
		session, err := s.employees.Login(r.Context(), body.Identifier, body.Password)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, session)
	case http.MethodGet:
		metrics.IncHTTP("current_session")
		token := strings.TrimSpace(r.Header.Get(sessionTokenHeader))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing session token")
			return
		}
		session, err := s.employees.CurrentSession(r.Context(), token)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if session == nil {
			writeError(w, http.StatusUnauthorized, "session expired")
			return
		}
		writeJSON(w, http.StatusOK, session)
	case http.MethodDelete:
		metrics.IncHTTP("logout")
		token := strings.TrimSpace(r.Header.Get(sessionTokenHeader))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing session token")
			return
		}
		if err := s.employees.Logout(r.Context(), token); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleOccupancyReport renders the occupancy/revenue workbook for the
// requested period and streams it back as a download.
func (s *HTTPServer) handleOccupancyReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("occupancy_report")

	q := r.URL.Query()
	start, err := parseDate(q.Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start; expected YYYY-MM-DD")
		return
	}
	end, err := parseDate(q.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end; expected YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end must not precede start")
		return
	}

	path, err := s.reports.OccupancyReport(r.Context(), start, end)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(raw))
}

func decodeBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// writeDomainError maps store sentinels onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrRoomNotFound),
		errors.Is(err, store.ErrStayNotFound),
		errors.Is(err, store.ErrClientNotFound),
		errors.Is(err, store.ErrMenuItemNotFound),
		errors.Is(err, store.ErrRequestNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrAlreadyCheckedOut),
		errors.Is(err, store.ErrStayNotActive),
		errors.Is(err, store.ErrRoomExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, store.ErrInvalidDateRange),
		errors.Is(err, store.ErrInvalidChargeAmount),
		errors.Is(err, store.ErrInsufficientPoints):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
