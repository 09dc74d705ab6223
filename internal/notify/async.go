package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/chronos/internal/models"
)

// DefaultAsyncTimeout bounds one background delivery.
const DefaultAsyncTimeout = 30 * time.Second

// Async hands every event to the wrapped notifier in the background and returns at once.
// Delivery errors are logged. Wait drains in-flight deliveries at shutdown.
type Async struct {
	log     *slog.Logger
	next    Notifier
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewAsync wraps next. A non-positive timeout falls back to DefaultAsyncTimeout.
func NewAsync(log *slog.Logger, next Notifier, timeout time.Duration) *Async {
	if timeout <= 0 {
		timeout = DefaultAsyncTimeout
	}
	return &Async{
		log:     log.With(slog.String("component", "notify")),
		next:    next,
		timeout: timeout,
	}
}

func (a *Async) LeaveSubmitted(ctx context.Context, leave models.LeaveRequest) error {
	a.dispatch(ctx, "leave_submitted", leave, a.next.LeaveSubmitted)
	return nil
}

func (a *Async) LeaveDecided(ctx context.Context, leave models.LeaveRequest) error {
	a.dispatch(ctx, "leave_decided", leave, a.next.LeaveDecided)
	return nil
}

// Wait blocks until every dispatched delivery has finished.
func (a *Async) Wait() {
	a.wg.Wait()
}

func (a *Async) dispatch(
	ctx context.Context,
	event string,
	leave models.LeaveRequest,
	send func(context.Context, models.LeaveRequest) error,
) {
	// the request context ends with the response, the delivery must not
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer cancel()

		if err := send(sendCtx, leave); err != nil {
			a.log.WarnContext(sendCtx, "failed to deliver notification",
				slog.String("event", event),
				slog.Int64("leave_id", leave.ID),
				slog.Any("error", err),
			)
		}
	}()
}
