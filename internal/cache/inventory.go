package cache

import (
	"context"
	"log/slog"
	"time"

	"forum/internal/middleware"
)

// Study programs are read on every post form and change only through seeding,
// so the whole list is cached under one key.
const (
	StudyProgramsKey    = "study_programs:all"
	StudyProgramsFamily = "study_programs"
	StudyProgramsTTL    = 30 * time.Minute
)

// Invalidate drops key. A failed delete is logged and the entry ages out with its TTL.
func Invalidate(ctx context.Context, key string) {
	if client == nil {
		return
	}
	if err := client.Del(ctx, key).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache invalidation failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

func InvalidateStudyPrograms(ctx context.Context) {
	Invalidate(ctx, StudyProgramsKey)
}
