// Package requestcontext carries per-request metadata through context.
// Keys are unexported; access goes through the typed helpers so middleware
// and handlers cannot disagree on key types.
package requestcontext

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	subjectIDKey contextKey = "subject_id"
	deviceKey    contextKey = "device"
)

// WithRequestID returns a context carrying the request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request ID or "" when absent.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// WithSubjectID returns a context carrying the authenticated subject ID.
func WithSubjectID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, subjectIDKey, id)
}

// SubjectID returns the authenticated subject ID or "" when absent.
func SubjectID(ctx context.Context) string {
	v, _ := ctx.Value(subjectIDKey).(string)
	return v
}

// WithDevice returns a context carrying a human-readable device label.
func WithDevice(ctx context.Context, label string) context.Context {
	return context.WithValue(ctx, deviceKey, label)
}

// Device returns the device label or "" when absent.
func Device(ctx context.Context) string {
	v, _ := ctx.Value(deviceKey).(string)
	return v
}
