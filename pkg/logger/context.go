package logger

import "context"

type ctxKey struct{}

// WithRequestID menyimpan id request di context supaya service bisa mencatatnya.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
