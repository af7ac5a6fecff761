package models

import "time"

type RequestType string

const (
	RequestCleaning    RequestType = "cleaning"
	RequestMaintenance RequestType = "maintenance"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestCompleted RequestStatus = "completed"
)

// ServiceRequest is a housekeeping or maintenance task for a room.
// Checkout raises an unassigned cleaning request for the vacated room;
// the dispatcher assigns it to on-shift staff later.
type ServiceRequest struct {
	ID         string        `json:"id"`
	RoomNumber string        `json:"room_number"`
	Type       RequestType   `json:"type"`
	EmployeeID string        `json:"employee_id"`
	Status     RequestStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
}
