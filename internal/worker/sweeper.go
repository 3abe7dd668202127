// Package worker runs the background jobs of innkeep.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/internal/domains/booking/model/dto"
	bookingService "innkeep/internal/domains/booking/service"
	"innkeep/internal/metrics"
	"innkeep/shared/cache"
	"innkeep/shared/constant"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const holdSweeperLock = "lock:hold-sweeper"

var ErrAlreadyRunning = errors.New("hold sweeper already running")

// Stats is a snapshot of what the sweeper has done since it started.
type Stats struct {
	Running   bool      `json:"running"`
	Runs      int64     `json:"runs"`
	Skipped   int64     `json:"skipped"`
	Released  int64     `json:"released"`
	LastRunAt time.Time `json:"last_run_at"`
	LastError string    `json:"last_error,omitempty"`
}

// HoldSweeper periodically cancels tentative bookings whose hold expired.
// A redis lock keeps concurrent instances from sweeping at the same time.
type HoldSweeper struct {
	bookings bookingService.Booking
	cache    cache.RedisCache
	otel     otel.Otel
	limiter  *rate.Limiter
	owner    string

	interval  time.Duration
	lockTTL   time.Duration
	batchSize int

	mu     sync.Mutex
	stats  Stats
	stopCh chan struct{}
	wg     sync.WaitGroup
}

func NewHoldSweeper(bookings bookingService.Booking, cache cache.RedisCache, cfg *config.Config, otel otel.Otel) *HoldSweeper {
	sweeper := cfg.Worker.HoldSweeper

	batchSize := max(sweeper.BatchSize, 1)
	limit := rate.Inf
	if sweeper.ReleasesPerSecond > 0 {
		limit = rate.Limit(sweeper.ReleasesPerSecond)
	}

	return &HoldSweeper{
		bookings:  bookings,
		cache:     cache,
		otel:      otel,
		limiter:   rate.NewLimiter(limit, batchSize),
		owner:     uuid.NewString(),
		interval:  time.Duration(max(sweeper.IntervalSeconds, 1)) * time.Second,
		lockTTL:   time.Duration(max(sweeper.LockTTLSeconds, 1)) * time.Second,
		batchSize: batchSize,
	}
}

// Start sweeps once right away and then on every tick until ctx ends or Stop is called.
func (w *HoldSweeper) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stats.Running {
		return ErrAlreadyRunning
	}

	w.stats.Running = true
	w.stopCh = make(chan struct{})

	log.Info().Dur("interval", w.interval).Int("batch_size", w.batchSize).Msg("hold sweeper started")

	w.wg.Add(1)

	go w.loop(ctx, w.stopCh)

	return nil
}

func (w *HoldSweeper) Stop() {
	w.mu.Lock()
	if !w.stats.Running {
		w.mu.Unlock()

		return
	}

	w.stats.Running = false
	close(w.stopCh)
	w.mu.Unlock()

	w.wg.Wait()
	log.Info().Msg("hold sweeper stopped")
}

func (w *HoldSweeper) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.stats
}

func (w *HoldSweeper) loop(ctx context.Context, stop <-chan struct{}) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			w.stats.Running = false
			w.mu.Unlock()

			return
		case <-stop:
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *HoldSweeper) tick(ctx context.Context) {
	released, err := w.Sweep(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("hold sweep failed")
	}

	if released > 0 {
		log.Info().Int("released", released).Msg("hold sweep released expired holds")
	}
}

// Sweep runs one pass. It releases holds batch by batch until a batch comes
// back short, and does nothing when another instance holds the lock.
func (w *HoldSweeper) Sweep(ctx context.Context) (released int, err error) {
	ctx, scope := w.otel.NewScope(ctx, constant.OtelWorkerScopeName, constant.OtelWorkerScopeName+".hold_sweeper.Sweep")
	defer scope.End()
	defer scope.TraceIfError(err)

	started := time.Now()

	acquired, err := w.cache.Lock(ctx, holdSweeperLock, w.owner, w.lockTTL)
	if err != nil {
		w.finish(0, err)

		return 0, err //nolint:wrapcheck
	}

	if !acquired {
		w.mu.Lock()
		w.stats.Skipped++
		w.mu.Unlock()

		return 0, nil
	}

	defer func() {
		if err := w.cache.Unlock(context.WithoutCancel(ctx), holdSweeperLock, w.owner); err != nil {
			log.Warn().Err(err).Msg("failed to unlock hold sweeper")
		}
	}()

	internal := context.WithValue(ctx, constant.ContextKeyInternal, true)

	for {
		if err = w.limiter.WaitN(ctx, w.batchSize); err != nil {
			break
		}

		var res dto.ReleaseHoldsResponse

		res, err = w.bookings.ReleaseExpiredHolds(internal, dto.ReleaseHoldsRequest{Limit: w.batchSize})
		if err != nil {
			break
		}

		released += res.Released

		if res.Released < w.batchSize {
			break
		}
	}

	metrics.RecordSweep(time.Since(started).Seconds())
	w.finish(released, err)

	return released, err //nolint:wrapcheck
}

func (w *HoldSweeper) finish(released int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stats.Runs++
	w.stats.Released += int64(released)
	w.stats.LastRunAt = time.Now()
	w.stats.LastError = ""

	if err != nil {
		w.stats.LastError = err.Error()
	}
}
