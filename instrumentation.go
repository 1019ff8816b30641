/*
 * MIT License
 *
 * Copyright (c) 2025-2026 Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package nsrepo

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	otelconfig "github.com/tochemey/nsrepo/otel"
)

const instrumentationName = "github.com/tochemey/nsrepo"

// instrumentation wires the repository's observable events to OpenTelemetry
// counters and spans, following the same MetricConfig/TracerConfig/meter
// pattern the rest of the codebase uses for its own instrumentation.
type instrumentation struct {
	logger *slog.Logger

	tracer     trace.Tracer
	traceAttrs []attribute.KeyValue

	constructed   metric.Int64Counter
	constructErrs metric.Int64Counter
	erased        metric.Int64Counter
	projected     metric.Int64Counter

	dispatched       metric.Int64Counter
	dispatchErrors   metric.Int64Counter
	dispatchDuration metric.Float64Histogram
}

func newInstrumentation(metrics *otelconfig.MetricConfig, tracing *otelconfig.TracerConfig, logger *slog.Logger) *instrumentation {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = otelconfig.NewMetricConfig()
	}

	inst := &instrumentation{logger: logger}

	if tracing != nil && tracing.TracerProvider() != nil {
		inst.tracer = tracing.TracerProvider().Tracer(instrumentationName)
		inst.traceAttrs = append(inst.traceAttrs, tracing.Attributes()...)
	}

	meter := metrics.Provider().Meter(instrumentationName)

	constructed, err := meter.Int64Counter("nsrepo.entry.constructed",
		metric.WithDescription("namespace interfaces constructed"))
	if err != nil {
		logger.Warn("failed to create constructed counter", "error", err)
	}
	constructErrs, err := meter.Int64Counter("nsrepo.entry.construct_errors",
		metric.WithDescription("namespace interface construction failures"))
	if err != nil {
		logger.Warn("failed to create construct_errors counter", "error", err)
	}
	erased, err := meter.Int64Counter("nsrepo.entry.erased",
		metric.WithDescription("namespace interfaces torn down after idle expiry or drain"))
	if err != nil {
		logger.Warn("failed to create erased counter", "error", err)
	}
	projected, err := meter.Int64Counter("nsrepo.projection.updates",
		metric.WithDescription("primary projection rebuilds fanned out to workers"))
	if err != nil {
		logger.Warn("failed to create projected counter", "error", err)
	}
	dispatched, err := meter.Int64Counter("nsrepo.dispatch.requests",
		metric.WithDescription("total number of replica dispatches"))
	if err != nil {
		logger.Warn("failed to create dispatched counter", "error", err)
	}
	dispatchErrors, err := meter.Int64Counter("nsrepo.dispatch.errors",
		metric.WithDescription("total number of failed replica dispatches"))
	if err != nil {
		logger.Warn("failed to create dispatch_errors counter", "error", err)
	}
	dispatchDuration, err := meter.Float64Histogram("nsrepo.dispatch.duration.ms",
		metric.WithDescription("replica dispatch latency in milliseconds"))
	if err != nil {
		logger.Warn("failed to create dispatch duration histogram", "error", err)
	}

	inst.constructed = constructed
	inst.constructErrs = constructErrs
	inst.erased = erased
	inst.projected = projected
	inst.dispatched = dispatched
	inst.dispatchErrors = dispatchErrors
	inst.dispatchDuration = dispatchDuration
	return inst
}

// startDispatch begins tracking one NamespaceInterface operation, returning
// a context carrying the new span (if tracing is configured) and a closure
// to call with the operation's result once it completes.
func (i *instrumentation) startDispatch(ctx context.Context, op string, table TableID) (context.Context, func(error)) {
	if i == nil {
		return ctx, func(error) {}
	}

	start := time.Now()
	ctx, span := i.startSpan(ctx, op, table)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		i.recordDispatch(ctx, op, table, start, err)
	}
}

func (i *instrumentation) startSpan(ctx context.Context, op string, table TableID) (context.Context, trace.Span) {
	if i.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}

	attrs := append([]attribute.KeyValue{
		attribute.String("nsrepo.operation", op),
		attribute.String("nsrepo.table", string(table)),
	}, i.traceAttrs...)

	return i.tracer.Start(ctx, "nsrepo."+op, trace.WithAttributes(attrs...))
}

func (i *instrumentation) recordDispatch(ctx context.Context, op string, table TableID, start time.Time, err error) {
	attrs := metric.WithAttributes(
		attribute.String("nsrepo.operation", op),
		attribute.String("nsrepo.table", string(table)),
	)
	if i.dispatched != nil {
		i.dispatched.Add(ctx, 1, attrs)
	}
	if err != nil && i.dispatchErrors != nil {
		i.dispatchErrors.Add(ctx, 1, attrs)
	}
	if i.dispatchDuration != nil {
		i.dispatchDuration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
	}
}

func (i *instrumentation) entryConstructed(table TableID, err error) {
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("table", string(table)))
	if err != nil {
		if i.constructErrs != nil {
			i.constructErrs.Add(ctx, 1, attrs)
		}
		i.logger.Warn("namespace interface construction failed", "table", table, "error", err)
		return
	}
	if i.constructed != nil {
		i.constructed.Add(ctx, 1, attrs)
	}
	i.logger.Debug("namespace interface constructed", "table", table)
}

func (i *instrumentation) entryErased(table TableID) {
	if i.erased != nil {
		i.erased.Add(context.Background(), 1, metric.WithAttributes(attribute.String("table", string(table))))
	}
	i.logger.Debug("namespace interface erased", "table", table)
}

func (i *instrumentation) projectionUpdated(tables int) {
	if i.projected != nil {
		i.projected.Add(context.Background(), 1)
	}
	i.logger.Debug("primary projection rebuilt", "tables", tables)
}
