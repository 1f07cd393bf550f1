package core

import "context"

// Context keys for run options
type contextKey string

const (
	suppressHeaderKey contextKey = "suppressHeader"
	sourceNameKey     contextKey = "sourceName"
)

// WithSuppressHeader marks the context so run headers are not printed
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	val := ctx.Value(suppressHeaderKey)
	if val == nil {
		return false // default: show headers
	}
	suppress, ok := val.(bool)
	return ok && suppress
}

// withSourceName records a display name for the analyzed input
func withSourceName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, sourceNameKey, name)
}

// sourceName returns the display name of the analyzed input, or fallback
func sourceName(ctx context.Context, fallback string) string {
	if name, ok := ctx.Value(sourceNameKey).(string); ok && name != "" {
		return name
	}
	return fallback
}
