package audit

import (
	"context"
)

type contextKey string

const sourceAddressKey contextKey = "audit_source_address"

// WithSource attaches the request's origin address to the context so audit
// emissions deep in the call chain can carry it.
func WithSource(ctx context.Context, address string) context.Context {
	return context.WithValue(ctx, sourceAddressKey, address)
}

// SourceFrom returns the origin address attached to the context, if any.
func SourceFrom(ctx context.Context) string {
	if v, ok := ctx.Value(sourceAddressKey).(string); ok {
		return v
	}
	return ""
}
