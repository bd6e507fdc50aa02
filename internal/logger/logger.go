// Package logger is the application's log/slog setup.
//
// Handlers should log through WithCtx so that lines carry the request id:
//
//	logger.WithCtx(ctx).Info("order accepted", "order_id", id)
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// L is the base logger. Init replaces it.
var L = slog.New(slog.NewTextHandler(os.Stdout, nil))

// New returns a JSON logger for production and a text logger otherwise.
func New(w io.Writer, production bool) *slog.Logger {
	if production {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Init sets L and the slog default.
func Init(production bool) *slog.Logger {
	L = New(os.Stdout, production)
	slog.SetDefault(L)
	return L
}

type ctxKey struct{}

// WithCtx returns the request-scoped logger stored in ctx, or L.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return L
}

// Inject stores l in ctx; the request-id middleware calls it.
func Inject(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}
