package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m3rciful/membot/core/logger"
	"github.com/m3rciful/membot/core/membership"

	tele "gopkg.in/telebot.v4"
)

var (
	// ErrQueueClosed is returned when recording is attempted after Close.
	ErrQueueClosed = errors.New("audit: queue closed")
	// ErrQueueFull indicates the queue is saturated and the transition was dropped.
	ErrQueueFull = errors.New("audit: queue full")
)

// Store is the persistence surface the recorder writes through.
type Store interface {
	InsertTransition(ctx context.Context, t *Transition) error
}

// Options controls the behaviour of the asynchronous recorder.
type Options struct {
	QueueSize    int
	Workers      int
	MaxRetries   int
	RetryBackoff time.Duration
	// MaxDuration bounds the time spent retrying a single write.
	MaxDuration time.Duration
}

type job struct {
	ctx context.Context
	t   *Transition
}

// Recorder journals membership transitions asynchronously with retries.
// Writes never block update dispatch; a saturated queue drops the
// transition and reports ErrQueueFull to the caller.
type Recorder struct {
	store Store
	opts  Options
	jobs  chan job
	wg    sync.WaitGroup
	errs  atomic.Uint64

	// mu guards closed so an enqueue cannot race Close into a send on a
	// closed channel.
	mu     sync.RWMutex
	closed bool
}

// NewRecorder starts a recorder with sane defaults if options are zeroed.
func NewRecorder(store Store, opts Options) *Recorder {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 2 * time.Second
	}
	if opts.MaxDuration <= 0 {
		opts.MaxDuration = 12 * time.Second
	}

	r := &Recorder{
		store: store,
		opts:  opts,
		jobs:  make(chan job, opts.QueueSize),
	}

	r.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go r.worker()
	}

	return r
}

// Record converts the transition into a journal row and enqueues it.
func (r *Recorder) Record(ctx context.Context, scope membership.Scope, tr *tele.ChatMemberUpdate) error {
	if tr == nil {
		return errors.New("audit: nil transition")
	}
	t := &Transition{
		Scope:      string(scope),
		ObservedAt: time.Now().UTC(),
	}
	if tr.Chat != nil {
		t.ChatID = tr.Chat.ID
	}
	if m := tr.NewChatMember; m != nil {
		t.NewStatus = string(m.Role)
		if m.User != nil {
			t.UserID = m.User.ID
			t.Username = m.User.Username
		}
	}
	if m := tr.OldChatMember; m != nil {
		t.OldStatus = string(m.Role)
		if t.UserID == 0 && m.User != nil {
			t.UserID = m.User.ID
			t.Username = m.User.Username
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return ErrQueueClosed
	}

	select {
	case r.jobs <- job{ctx: ctx, t: t}:
		return nil
	default:
		return ErrQueueFull
	}
}

// ErrorCount returns the number of writes that ultimately failed.
func (r *Recorder) ErrorCount() uint64 {
	return r.errs.Load()
}

// Close stops workers and waits for them to finish processing queued jobs.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.jobs)
	r.mu.Unlock()
	r.wg.Wait()
}

func (r *Recorder) worker() {
	defer r.wg.Done()
	for j := range r.jobs {
		r.handleJob(j)
	}
}

func (r *Recorder) handleJob(j job) {
	ctx := j.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	deadlineCtx, cancel := context.WithTimeout(context.Background(), r.opts.MaxDuration)
	defer cancel()

	start := time.Now()
	var lastErr error
	attempts := r.opts.MaxRetries + 1

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := deadlineCtx.Err(); err != nil {
			lastErr = err
			break
		}

		err := r.store.InsertTransition(deadlineCtx, j.t)
		if err == nil {
			if attempt > 1 {
				logger.Info(ctx, "audit", "record.retry.success",
					append(recordAttrs(ctx, j.t),
						slog.Int("attempt", attempt),
						slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
					)...,
				)
			} else {
				logger.Debug(ctx, "audit", "record.success",
					append(recordAttrs(ctx, j.t),
						slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
					)...,
				)
			}
			return
		}

		lastErr = err
		if !retryable(err) || attempt == attempts {
			break
		}

		delay := r.opts.RetryBackoff * time.Duration(attempt)
		timer := time.NewTimer(delay)
		select {
		case <-deadlineCtx.Done():
			timer.Stop()
			lastErr = deadlineCtx.Err()
		case <-timer.C:
			logger.Debug(ctx, "audit", "record.retry.backoff",
				append(recordAttrs(ctx, j.t),
					slog.Int("attempt", attempt),
					slog.Duration("backoff_ms", delay),
				)...,
			)
			continue
		}
		break
	}

	if lastErr != nil {
		r.errs.Add(1)
		logger.Error(ctx, "audit", "record.fail",
			append(recordAttrs(ctx, j.t),
				slog.String("err", logger.SanitizeLimit(lastErr.Error(), 256)),
				slog.Int("attempts", attempts),
				slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
			)...,
		)
	}
}

func recordAttrs(ctx context.Context, t *Transition) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("scope", t.Scope),
		slog.String("old_status", t.OldStatus),
		slog.String("new_status", t.NewStatus),
	}
	if t.ChatID != 0 {
		attrs = append(attrs, slog.Int64("chat_id", t.ChatID))
	}
	if t.UserID != 0 {
		attrs = append(attrs, slog.Int64("user_id", t.UserID))
	}
	if rid := logger.RIDFrom(ctx); rid != "" {
		attrs = append(attrs, slog.String("rid", rid))
	}
	return attrs
}

// retryable reports whether a store error is worth retrying. Context
// cancellation and deadline errors are final; everything else, including
// transient network failures between the bot and the database, gets
// another attempt within the job deadline.
func retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}
