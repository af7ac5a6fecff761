package models

import "time"

// Session is a desk login session kept in the session repository
// under its token.
type Session struct {
	Token      string    `json:"token"`
	EmployeeID string    `json:"employee_id"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}
