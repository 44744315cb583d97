package submit

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/unkn0wn-root/cardvault/internal/collection"
	"github.com/unkn0wn-root/cardvault/internal/overlay"
	"github.com/unkn0wn-root/cardvault/internal/telemetry"
)

func waitOutcome(t *testing.T, c *Coordinator) Outcome {
	t.Helper()
	select {
	case out := <-c.Results():
		return out
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for submission outcome")
	}
	return Outcome{}
}

func TestSubmitSuccessFlashesSuccess(t *testing.T) {
	r := overlay.New(overlay.Options{})
	c := New(r, Options{})
	t.Cleanup(c.Close)

	var got collection.Update
	update := collection.Update{CardID: "c1", Count: 5, Finish: collection.FinishFoil}
	ticket := c.Submit(func(_ context.Context, u collection.Update) error {
		got = u
		return nil
	}, update)
	if ticket.ID == "" || ticket.Update != update {
		t.Fatalf("unexpected ticket %+v", ticket)
	}

	out := waitOutcome(t, c)
	if !out.OK() {
		t.Fatalf("expected success, got %v", out.Err)
	}
	if got != update {
		t.Fatalf("submit received %+v, want %+v", got, update)
	}
	exp := c.Resolve(out)
	if exp.CardID != "c1" || exp.After != overlay.DefaultResultFlash {
		t.Fatalf("unexpected expiry %+v", exp)
	}
	if r.Flashing("c1") != overlay.FlashSuccess {
		t.Fatalf("expected success flash")
	}
	if c.InFlight("c1") != 0 {
		t.Fatalf("expected nothing in flight")
	}
	if h, _ := r.View("c1"); h.Pending != 0 {
		t.Fatalf("expected pending marker cleared, got %d", h.Pending)
	}
}

func TestSubmitFailureFlashesError(t *testing.T) {
	r := overlay.New(overlay.Options{})
	c := New(r, Options{})
	t.Cleanup(c.Close)

	boom := errors.New("boom")
	c.Submit(func(context.Context, collection.Update) error { return boom }, collection.Update{CardID: "c1", Count: 1})

	out := waitOutcome(t, c)
	if !errors.Is(out.Err, boom) {
		t.Fatalf("expected wrapped boom, got %v", out.Err)
	}
	c.Resolve(out)
	if r.Flashing("c1") != overlay.FlashError {
		t.Fatalf("expected error flash")
	}
}

func TestSubmitRecoversPanics(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	inst, err := telemetry.New(telemetry.Config{}, telemetry.WithSpanProcessor(recorder))
	if err != nil {
		t.Fatalf("telemetry: %v", err)
	}
	t.Cleanup(func() { _ = inst.Shutdown(context.Background()) })

	c := New(overlay.New(overlay.Options{}), Options{Instrumenter: inst})
	t.Cleanup(c.Close)

	c.Submit(func(context.Context, collection.Update) error { panic("kaboom") }, collection.Update{CardID: "c1", Count: 1})

	out := waitOutcome(t, c)
	if !errors.Is(out.Err, ErrPanic) {
		t.Fatalf("expected ErrPanic, got %v", out.Err)
	}
	spans := recorder.Ended()
	if len(spans) != 1 || spans[0].Status().Code != codes.Error {
		t.Fatalf("expected one errored span, got %d", len(spans))
	}
}

func TestSubmitTimesOut(t *testing.T) {
	c := New(overlay.New(overlay.Options{}), Options{Timeout: 20 * time.Millisecond})
	t.Cleanup(c.Close)

	c.Submit(func(ctx context.Context, _ collection.Update) error {
		<-ctx.Done()
		return ctx.Err()
	}, collection.Update{CardID: "c1", Count: 1})

	out := waitOutcome(t, c)
	if !errors.Is(out.Err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", out.Err)
	}
}

func TestConcurrentSubmissionsTrackInFlight(t *testing.T) {
	r := overlay.New(overlay.Options{})
	c := New(r, Options{})
	t.Cleanup(c.Close)

	release := make(chan struct{})
	block := func(ctx context.Context, _ collection.Update) error {
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.Submit(block, collection.Update{CardID: "c1", Count: 1})
	c.Submit(block, collection.Update{CardID: "c1", Count: 2})

	if n := c.InFlight("c1"); n != 2 {
		t.Fatalf("expected 2 in flight, got %d", n)
	}
	if h, _ := r.View("c1"); h.Pending != 2 {
		t.Fatalf("expected pending marker of 2, got %d", h.Pending)
	}

	close(release)
	for i := 0; i < 2; i++ {
		c.Resolve(waitOutcome(t, c))
	}
	if n := c.InFlight("c1"); n != 0 {
		t.Fatalf("expected 0 in flight, got %d", n)
	}
}
