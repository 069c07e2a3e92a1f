package build

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the name of the tracer used for generation passes.
const TracerName = "github.com/vango-dev/fileroute"

// phase runs fn inside a span named "fileroute.<name>" and records its
// duration.
func (b *Builder) phase(ctx context.Context, name string, fn func(ctx context.Context, span trace.Span) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	spanCtx, span := b.tracer.Start(ctx, "fileroute."+name,
		trace.WithAttributes(attribute.String("fileroute.routes_dir", b.config.RoutesPath())),
	)
	defer span.End()

	err := fn(spanCtx, span)
	b.metrics.passDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return err
}

func defaultTracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
