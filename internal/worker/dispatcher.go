package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"descanso/internal/domain"
	"descanso/internal/metrics"
	"descanso/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// HousekeepingDispatcher assigns pending cleaning requests to on-shift
// housekeeping staff. Requests arrive via Redis (durable) or the local
// channel, and a poll of the store catches anything both queues missed.
// When nobody is on shift the request is retried with backoff until
// MaxRetries, then left pending for manual assignment.
type HousekeepingDispatcher struct {
	store         domain.Store
	redis         *redis.Client
	retryPolicy   RetryPolicy
	queue         chan string
	redisQueueKey string
	pollInterval  time.Duration
	logger        *zerolog.Logger
	now           func() time.Time

	mu       sync.Mutex
	attempts map[string]int
}

func NewHousekeepingDispatcher(st domain.Store, redisClient *redis.Client, retry RetryPolicy, logger *zerolog.Logger) *HousekeepingDispatcher {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 1 * time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &HousekeepingDispatcher{
		store:         st,
		redis:         redisClient,
		retryPolicy:   retry,
		queue:         make(chan string, models.DispatchQueueSize),
		redisQueueKey: "housekeeping:queue",
		pollInterval:  2 * time.Second,
		logger:        logger,
		now:           time.Now,
		attempts:      make(map[string]int),
	}
}

// EnqueueRequest schedules a cleaning request for assignment. Redis is
// tried first for durability, with the local channel as fallback; a
// request that fits in neither is picked up by the store poll.
func (d *HousekeepingDispatcher) EnqueueRequest(ctx context.Context, requestID string) error {
	if requestID == "" {
		return errors.New("request id is required")
	}

	if d.redis != nil {
		if err := d.redis.LPush(ctx, d.redisQueueKey, requestID).Err(); err != nil {
			d.logger.Warn().Err(err).Msg("redis push failed, fallback to memory queue")
		} else {
			return nil
		}
	}

	select {
	case d.queue <- requestID:
	default:
		d.logger.Warn().Str("request_id", requestID).Msg("memory queue full, request left to polling")
	}
	return nil
}

// Start runs the dispatch loop until ctx is done.
func (d *HousekeepingDispatcher) Start(ctx context.Context) {
	d.logger.Info().Msg("housekeeping dispatcher started")
	defer d.logger.Info().Msg("housekeeping dispatcher stopped")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if id, ok := d.tryLocalQueue(); ok {
			d.process(ctx, id)
			continue
		}

		if id, ok := d.tryRedis(ctx); ok {
			d.process(ctx, id)
			continue
		}

		pending, err := d.store.PendingUnassigned(ctx, models.RequestCleaning)
		if err != nil {
			d.logger.Error().Err(err).Msg("fetch pending requests")
			d.sleep(ctx, d.pollInterval)
			continue
		}
		if len(pending) == 0 {
			d.sleep(ctx, d.pollInterval)
			continue
		}
		for _, req := range pending {
			d.process(ctx, req.ID)
		}
	}
}

func (d *HousekeepingDispatcher) tryLocalQueue() (string, bool) {
	select {
	case id := <-d.queue:
		return id, true
	default:
		return "", false
	}
}

func (d *HousekeepingDispatcher) tryRedis(ctx context.Context) (string, bool) {
	if d.redis == nil {
		return "", false
	}
	res, err := d.redis.BRPop(ctx, time.Second, d.redisQueueKey).Result()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
			return "", false
		}
		d.logger.Warn().Err(err).Msg("redis BRPOP error")
		return "", false
	}
	if len(res) != 2 {
		return "", false
	}
	return res[1], true
}

// process assigns one request to the least-loaded housekeeping employee
// currently on shift.
func (d *HousekeepingDispatcher) process(ctx context.Context, requestID string) {
	request, err := d.store.GetRequest(ctx, requestID)
	if err != nil {
		d.logger.Warn().Err(err).Str("request_id", requestID).Msg("request lookup failed")
		metrics.IncDispatch("missing")
		return
	}
	if request.Status != models.RequestPending || request.EmployeeID != "" {
		return
	}

	staff, err := d.store.ListOnShift(ctx, models.RoleHousekeeping, d.now().Hour())
	if err != nil {
		d.logger.Error().Err(err).Msg("list on-shift staff")
		d.retryLater(ctx, requestID)
		return
	}
	if len(staff) == 0 {
		d.retryLater(ctx, requestID)
		return
	}

	assignee, err := d.leastLoaded(ctx, staff)
	if err != nil {
		d.logger.Error().Err(err).Msg("pick assignee")
		d.retryLater(ctx, requestID)
		return
	}

	if err := d.store.AssignRequest(ctx, requestID, assignee.ID); err != nil {
		d.logger.Error().Err(err).Str("request_id", requestID).Msg("assign request")
		metrics.IncDispatch("error")
		return
	}

	d.clearAttempts(requestID)
	metrics.IncDispatch("assigned")
	d.logger.Info().
		Str("request_id", requestID).
		Str("room", request.RoomNumber).
		Str("employee_id", assignee.ID).
		Msg("cleaning request assigned")
}

// leastLoaded picks the on-shift employee with the fewest open
// requests; ties break on roster order.
func (d *HousekeepingDispatcher) leastLoaded(ctx context.Context, staff []models.Employee) (*models.Employee, error) {
	requests, err := d.store.ListRequests(ctx)
	if err != nil {
		return nil, err
	}

	open := make(map[string]int)
	for _, req := range requests {
		if req.Status == models.RequestPending && req.EmployeeID != "" {
			open[req.EmployeeID]++
		}
	}

	best := &staff[0]
	for i := 1; i < len(staff); i++ {
		if open[staff[i].ID] < open[best.ID] {
			best = &staff[i]
		}
	}
	return best, nil
}

func (d *HousekeepingDispatcher) retryLater(ctx context.Context, requestID string) {
	d.mu.Lock()
	d.attempts[requestID]++
	attempt := d.attempts[requestID]
	d.mu.Unlock()

	if attempt >= d.retryPolicy.MaxRetries {
		d.clearAttempts(requestID)
		metrics.IncDispatch("exhausted")
		d.logger.Warn().Str("request_id", requestID).Int("attempts", attempt).Msg("dispatch retries exhausted, request left pending")
		return
	}

	delay := d.retryPolicy.NextDelay(attempt)
	metrics.IncDispatch("retry")
	time.AfterFunc(delay, func() {
		if ctx.Err() != nil {
			return
		}
		select {
		case d.queue <- requestID:
		default:
		}
	})
}

func (d *HousekeepingDispatcher) clearAttempts(requestID string) {
	d.mu.Lock()
	delete(d.attempts, requestID)
	d.mu.Unlock()
}

func (d *HousekeepingDispatcher) sleep(ctx context.Context, dur time.Duration) {
	t := time.NewTimer(dur)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
