package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/unkn0wn-root/cardvault/internal/collection"
)

const (
	scopeName          = "github.com/unkn0wn-root/cardvault/internal/submit"
	submissionSpanName = "collection.submit"
	defaultDialTimeout = 5 * time.Second
)

const (
	attrCardID    = attribute.Key("cardvault.card.id")
	attrCount     = attribute.Key("cardvault.update.count")
	attrFinish    = attribute.Key("cardvault.update.finish")
	attrSpecial   = attribute.Key("cardvault.update.special")
	attrTicket    = attribute.Key("cardvault.submit.ticket")
	attrDuration  = attribute.Key("cardvault.submit.duration_ms")
	attrRecovered = attribute.Key("cardvault.submit.recovered")
)

// Instrumenter traces collection submissions.
type Instrumenter interface {
	StartSubmission(ctx context.Context, info SubmissionStart) (context.Context, SubmissionSpan)
	Shutdown(ctx context.Context) error
}

type SubmissionStart struct {
	Ticket string
	Update collection.Update
}

// SubmissionResult closes a submission span. Recovered marks a persistence
// call that panicked.
type SubmissionResult struct {
	Err       error
	Recovered bool
	Duration  time.Duration
}

type SubmissionSpan interface {
	End(result SubmissionResult)
}

type spanEnder func(SubmissionResult)

func (f spanEnder) End(r SubmissionResult) { f(r) }

type Option func(*[]sdktrace.TracerProviderOption)

// WithSpanProcessor attaches proc in addition to any OTLP exporter. Passing a
// processor enables tracing even without an endpoint.
func WithSpanProcessor(proc sdktrace.SpanProcessor) Option {
	return func(opts *[]sdktrace.TracerProviderOption) {
		if proc != nil {
			*opts = append(*opts, sdktrace.WithSpanProcessor(proc))
		}
	}
}

// Provider is the OpenTelemetry backed Instrumenter.
type Provider struct {
	tp     *sdktrace.TracerProvider
	tracer trace.Tracer
	once   sync.Once
	err    error
}

// New builds a Provider for cfg. Without an endpoint or extra processors it
// returns Noop.
func New(cfg Config, opts ...Option) (Instrumenter, error) {
	var tpOpts []sdktrace.TracerProviderOption
	for _, opt := range opts {
		opt(&tpOpts)
	}
	if !cfg.Enabled() && len(tpOpts) == 0 {
		return Noop(), nil
	}

	attrs := []attribute.KeyValue{semconv.ServiceName(cfg.serviceName())}
	if cfg.Version != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.Version))
	}
	res, err := resource.New(context.Background(),
		resource.WithSchemaURL(semconv.SchemaURL),
		resource.WithAttributes(attrs...),
	)
	if err != nil {
		return nil, err
	}
	tpOpts = append(tpOpts, sdktrace.WithResource(res))

	if cfg.Enabled() {
		exp, err := dialExporter(cfg)
		if err != nil {
			return nil, err
		}
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exp))
	}

	tp := sdktrace.NewTracerProvider(tpOpts...)
	return &Provider{tp: tp, tracer: tp.Tracer(scopeName)}, nil
}

func dialExporter(cfg Config) (*otlptrace.Exporter, error) {
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	grpcOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		grpcOpts = append(grpcOpts, otlptracegrpc.WithInsecure())
	}
	if len(cfg.Headers) > 0 {
		grpcOpts = append(grpcOpts, otlptracegrpc.WithHeaders(cfg.Headers))
	}
	return otlptrace.New(ctx, otlptracegrpc.NewClient(grpcOpts...))
}

func (p *Provider) StartSubmission(ctx context.Context, info SubmissionStart) (context.Context, SubmissionSpan) {
	u := info.Update
	attrs := []attribute.KeyValue{
		attrCardID.String(u.CardID),
		attrCount.Int(u.Count),
		attrFinish.String(u.Finish.String()),
		attrSpecial.String(u.Special.String()),
	}
	if info.Ticket != "" {
		attrs = append(attrs, attrTicket.String(info.Ticket))
	}
	ctx, span := p.tracer.Start(ctx, submissionSpanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return ctx, spanEnder(func(r SubmissionResult) {
		span.SetAttributes(attrDuration.Int64(r.Duration.Milliseconds()))
		if r.Recovered {
			span.SetAttributes(attrRecovered.Bool(true))
		}
		if r.Err != nil {
			span.RecordError(r.Err)
			span.SetStatus(codes.Error, r.Err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	})
}

// Shutdown flushes pending spans. Later calls return the first result.
func (p *Provider) Shutdown(ctx context.Context) error {
	p.once.Do(func() { p.err = p.tp.Shutdown(ctx) })
	return p.err
}

// Noop returns an Instrumenter that records nothing.
func Noop() Instrumenter { return noop{} }

type noop struct{}

func (noop) StartSubmission(ctx context.Context, _ SubmissionStart) (context.Context, SubmissionSpan) {
	return ctx, spanEnder(func(SubmissionResult) {})
}

func (noop) Shutdown(context.Context) error { return nil }
