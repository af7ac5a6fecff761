package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	staysCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "descanso",
			Name:      "stays_created_total",
			Help:      "Stays booked at the desk.",
		},
	)

	checkouts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "descanso",
			Name:      "checkouts_total",
			Help:      "Completed checkouts.",
		},
	)

	chargesAdded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "descanso",
			Name:      "charges_total",
			Help:      "Incidental charges by category.",
		},
		[]string{"category"},
	)

	pointsEarned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "descanso",
			Name:      "loyalty_points_earned_total",
			Help:      "Loyalty points credited at checkout.",
		},
	)

	pointsRedeemed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "descanso",
			Name:      "loyalty_points_redeemed_total",
			Help:      "Loyalty points redeemed at checkout.",
		},
	)

	cleaningDispatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "descanso",
			Name:      "cleaning_dispatches_total",
			Help:      "Housekeeping dispatch attempts by outcome.",
		},
		[]string{"outcome"},
	)

	occupiedRooms = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "descanso",
			Name:      "occupied_rooms",
			Help:      "Rooms currently occupied.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "descanso",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			staysCreated,
			checkouts,
			chargesAdded,
			pointsEarned,
			pointsRedeemed,
			cleaningDispatches,
			occupiedRooms,
			httpRequests,
		)
	})
}

func IncStaysCreated()             { staysCreated.Inc() }
func IncCheckouts()                { checkouts.Inc() }
func IncCharges(category string)   { chargesAdded.WithLabelValues(category).Inc() }
func AddPointsEarned(points int)   { pointsEarned.Add(float64(points)) }
func AddPointsRedeemed(points int) { pointsRedeemed.Add(float64(points)) }
func IncDispatch(outcome string)   { cleaningDispatches.WithLabelValues(outcome).Inc() }
func SetOccupiedRooms(count int)   { occupiedRooms.Set(float64(count)) }
func IncHTTP(endpoint string)      { httpRequests.WithLabelValues(endpoint).Inc() }
