package models

const (
	// MinChargeableDays is the floor applied to a stay's day count.
	// A same-day check-in/check-out therefore books 0 days at 0 cost,
	// matching the historical front-desk behaviour. Raise to 1 to
	// enforce a one-night minimum.
	MinChargeableDays = 0

	// DefaultPointsPerDiscount points buy 1% off the checkout subtotal
	// unless overridden in config.
	DefaultPointsPerDiscount = 10
)

const (
	// DefaultSessionTTL desk login session lifetime in seconds
	DefaultSessionTTL = 8 * 60 * 60

	// RateLimitActions desk actions allowed per window
	RateLimitActions = 30

	// RateLimitWindow rate limit window in seconds
	RateLimitWindow = 60

	// DispatchQueueSize housekeeping dispatch queue capacity
	DispatchQueueSize = 256
)

const (
	ShiftMorning   = "morning"
	ShiftAfternoon = "afternoon"
	ShiftNight     = "night"
)

const (
	RoleManager      = "manager"
	RoleReceptionist = "receptionist"
	RoleHousekeeping = "housekeeping"
)
