// Package submit runs confirmed collection updates off the UI goroutine and
// turns their outcomes back into overlay flashes.
package submit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/unkn0wn-root/cardvault/internal/collection"
	"github.com/unkn0wn-root/cardvault/internal/overlay"
	"github.com/unkn0wn-root/cardvault/internal/telemetry"
)

const DefaultTimeout = 10 * time.Second

// ErrPanic wraps a panic raised by a submit function.
var ErrPanic = errors.New("submission panicked")

// Func persists one update.
type Func func(ctx context.Context, u collection.Update) error

// Ticket identifies an in-flight submission.
type Ticket struct {
	ID     string
	Update collection.Update
}

// Outcome is delivered on Results once a submission has finished.
type Outcome struct {
	Ticket   Ticket
	Err      error
	Duration time.Duration
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

type Options struct {
	Timeout      time.Duration
	Instrumenter telemetry.Instrumenter
	Buffer       int
}

// Coordinator starts submissions and tracks how many are in flight per card.
// Submit and Resolve are called from the UI goroutine; the workers only
// touch the counter and the results channel.
type Coordinator struct {
	overlay *overlay.Renderer
	timeout time.Duration
	inst    telemetry.Instrumenter
	results chan Outcome

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	inflight map[string]int
}

func New(r *overlay.Renderer, opts Options) *Coordinator {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	inst := opts.Instrumenter
	if inst == nil {
		inst = telemetry.Noop()
	}
	buf := opts.Buffer
	if buf <= 0 {
		buf = 64
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		overlay:  r,
		timeout:  timeout,
		inst:     inst,
		results:  make(chan Outcome, buf),
		ctx:      ctx,
		cancel:   cancel,
		inflight: make(map[string]int),
	}
}

// Results is drained by the shell.
func (c *Coordinator) Results() <-chan Outcome {
	return c.results
}

// Submit starts fn on its own goroutine and returns immediately.
func (c *Coordinator) Submit(fn Func, u collection.Update) Ticket {
	t := Ticket{ID: uuid.NewString(), Update: u}
	n := c.adjust(u.CardID, 1)
	if c.overlay != nil {
		c.overlay.SetPending(u.CardID, n)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		out := c.run(fn, t)
		c.adjust(u.CardID, -1)
		select {
		case c.results <- out:
		case <-c.ctx.Done():
		}
	}()
	return t
}

func (c *Coordinator) run(fn Func, t Ticket) (out Outcome) {
	started := time.Now()
	ctx, cancel := context.WithTimeout(c.ctx, c.timeout)
	defer cancel()
	ctx, span := c.inst.StartSubmission(ctx, telemetry.SubmissionStart{
		Ticket: t.ID,
		Update: t.Update,
	})

	out.Ticket = t
	recovered := false
	defer func() {
		if r := recover(); r != nil {
			recovered = true
			out.Err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
		out.Duration = time.Since(started)
		span.End(telemetry.SubmissionResult{
			Err:       out.Err,
			Recovered: recovered,
			Duration:  out.Duration,
		})
	}()

	if fn == nil {
		out.Err = errors.New("no submit function")
		return out
	}
	if err := fn(ctx, t.Update); err != nil {
		out.Err = fmt.Errorf("submit %s: %w", t.Update.CardID, err)
	}
	return out
}

// Resolve applies a finished outcome to the overlay and returns the flash
// expiry to schedule. It must run on the UI goroutine.
func (c *Coordinator) Resolve(o Outcome) overlay.Expiry {
	id := o.Ticket.Update.CardID
	if c.overlay == nil {
		return overlay.Expiry{CardID: id}
	}
	c.overlay.SetPending(id, c.InFlight(id))
	kind := overlay.FlashSuccess
	if !o.OK() {
		kind = overlay.FlashError
	}
	return c.overlay.Flash(id, kind)
}

// InFlight reports the number of unfinished submissions for cardID.
func (c *Coordinator) InFlight(cardID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight[cardID]
}

// Close cancels running submissions and waits for their workers to exit.
func (c *Coordinator) Close() {
	c.cancel()
	c.wg.Wait()
}

func (c *Coordinator) adjust(cardID string, delta int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.inflight[cardID] + delta
	if n <= 0 {
		delete(c.inflight, cardID)
		return 0
	}
	c.inflight[cardID] = n
	return n
}
