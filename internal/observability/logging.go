// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
	"os"
)

// writeLogger receives repository mutation logs. The middleware package swaps in
// the context-aware application logger at startup.
var writeLogger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger replaces the logger used by RepoLogger. nil is ignored.
func SetLogger(l *slog.Logger) {
	if l != nil {
		writeLogger = l
	}
}

// RepoLogger writes one line per repository mutation or storage failure,
// tagged with the table it concerns.
type RepoLogger struct {
	table string
}

func NewRepoLogger(table string) *RepoLogger {
	return &RepoLogger{table: table}
}

func (l *RepoLogger) write(ctx context.Context, level slog.Level, op string, attrs []slog.Attr) {
	all := make([]slog.Attr, 0, len(attrs)+2)
	all = append(all, slog.String("table", l.table), slog.String("operation", op))
	all = append(all, attrs...)
	writeLogger.LogAttrs(ctx, level, "repository "+op, all...)
}

func (l *RepoLogger) Created(ctx context.Context, attrs ...slog.Attr) {
	l.write(ctx, slog.LevelInfo, "create", attrs)
}

func (l *RepoLogger) Updated(ctx context.Context, attrs ...slog.Attr) {
	l.write(ctx, slog.LevelInfo, "update", attrs)
}

func (l *RepoLogger) Deleted(ctx context.Context, attrs ...slog.Attr) {
	l.write(ctx, slog.LevelInfo, "delete", attrs)
}

// Failed logs a storage error for op. The error text stays in the logs; callers
// return a generic storage failure to clients.
func (l *RepoLogger) Failed(ctx context.Context, op string, err error) {
	l.write(ctx, slog.LevelError, op, []slog.Attr{slog.String("error", err.Error())})
}
