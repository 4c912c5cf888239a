// Package tracer provides a lightweight tracing abstraction for the
// verification pipeline. It keeps the pipeline decoupled from the
// OpenTelemetry APIs; production wires the OTel adapter, tests use the
// no-op implementation.
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span, recording any error that occurred.
	// End must be called exactly once, typically via defer.
	End(err error)

	// SetAttributes adds key-value pairs to the span.
	SetAttributes(attrs ...Attribute)

	// AddEvent records a timestamped event within the span.
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names used by the verification pipeline.
const (
	SpanInitiate  = "verification.initiate"
	SpanComplete  = "verification.complete"
	SpanOwnership = "verification.ownership"
	SpanSignals   = "verification.signals"
	SpanDocuments = "verification.documents"
)

// Attribute keys used by the verification pipeline.
const (
	AttrSubjectID    = "subject_id"
	AttrHandle       = "handle"
	AttrStatus       = "status"
	AttrOverallScore = "overall_score"
	AttrGatePassed   = "gate.passed"
	AttrChannelBio   = "channel.bio"
	AttrChannelRepo  = "channel.repo_file"
	AttrChannelGist  = "channel.gist"
)

// Event names used by the verification pipeline.
const (
	EventPromoted = "mentor.promoted"
)
