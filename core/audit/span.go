// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"encoding/base64"
	"runtime/trace"
	"strconv"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Span represents an HTTP request in flight.
type Span struct {
	// only these fields are set automatically
	task     *trace.Task
	start    time.Time
	duration time.Duration
	metric   *servertiming.Metric

	Kind       SpanKind
	RequestID  string
	Method     string
	URL        string
	StatusCode int
	Error      error

	// Decision is the auth gate outcome, if the gate produced the response.
	Decision string
}

// SpanKind names what produced the response.
type SpanKind string

// Constants for span kinds.
const (
	// KindHandler is a response written by a route handler.
	KindHandler SpanKind = "handler"
	// KindGate is a redirect written by the auth gate.
	KindGate SpanKind = "gate"
)

func (span Span) ServerTimingName() string {
	// base64 without trailing '=' to obey the Server-Timing token syntax
	return string(span.Kind) + "$" + span.Method + "$" + base64.RawURLEncoding.EncodeToString([]byte(span.URL))
}

// Begin starts timing the span.
func (span *Span) Begin(ctx context.Context) context.Context {
	span.start = time.Now()

	ctx, span.task = trace.NewTask(ctx, "http."+string(span.Kind))
	if servertimingContext := servertiming.FromContext(ctx); servertimingContext != nil {
		span.metric = servertimingContext.NewMetric(span.ServerTimingName())
		span.metric.Extra = make(map[string]string)
		span.metric.Extra["start"] = strconv.FormatFloat(float64(span.start.UnixNano())/float64(time.Millisecond), 'f', -1, 64)
	}

	return ctx
}

// End stops timing the span. Calling it more than once is a no-op.
func (span *Span) End() {
	if span.task != nil {
		span.duration = time.Since(span.start)
		span.task.End()

		if span.metric != nil {
			span.metric.Duration = span.duration
		}

		span.task = nil
	}
}

// Duration returns the time between Begin and End.
func (span Span) Duration() time.Duration {
	return span.duration
}

// Log writes the span at debug level.
func (span Span) Log() {
	span.event(log.Debug()).Send()
}

func (span Span) event(event *zerolog.Event) *zerolog.Event {
	event.Str("sys", "http")
	event.Str("method", span.Method)
	event.Str("url", span.URL)
	event.Int("status_code", span.StatusCode)
	event.Dur("dur", span.duration)
	event.Str("kind", string(span.Kind))
	event.Str("request_id", span.RequestID)

	if span.Decision != "" {
		event.Str("decision", span.Decision)
	}

	if span.Error != nil {
		event.Err(span.Error)
	}

	return event
}
