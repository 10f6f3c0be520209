package repository

import (
	"context"
	"errors"
	"log/slog"

	"forum/internal/cache"
	"forum/internal/models"
	"forum/internal/observability"

	"gorm.io/gorm"
)

// StudyProgramRepository defines persistence operations for study programs.
type StudyProgramRepository interface {
	List(ctx context.Context) ([]models.StudyProgram, error)
	GetByID(ctx context.Context, id uint) (*models.StudyProgram, error)
	EnsureByName(ctx context.Context, name string) (*models.StudyProgram, error)
	Delete(ctx context.Context, id uint) error
}

type studyProgramRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewStudyProgramRepository returns a new StudyProgramRepository implementation.
func NewStudyProgramRepository(db *gorm.DB) StudyProgramRepository {
	return &studyProgramRepository{db: db, log: observability.NewRepoLogger("study_programs")}
}

// List returns all programs by name, cached in Redis when available.
func (r *studyProgramRepository) List(ctx context.Context) ([]models.StudyProgram, error) {
	var programs []models.StudyProgram
	err := cache.Aside(ctx, cache.StudyProgramsFamily, cache.StudyProgramsKey, &programs, cache.StudyProgramsTTL, func() error {
		if err := r.db.WithContext(ctx).Order("name ASC").Find(&programs).Error; err != nil {
			return storageError(ctx, r.log, "list", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return programs, nil
}

func (r *studyProgramRepository) GetByID(ctx context.Context, id uint) (*models.StudyProgram, error) {
	var program models.StudyProgram
	if err := r.db.WithContext(ctx).First(&program, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Study program", id)
		}
		return nil, storageError(ctx, r.log, "get", err)
	}
	return &program, nil
}

// EnsureByName returns the program with name, creating it if missing.
func (r *studyProgramRepository) EnsureByName(ctx context.Context, name string) (*models.StudyProgram, error) {
	var program models.StudyProgram
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&program).Error
	if err == nil {
		return &program, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storageError(ctx, r.log, "ensure", err)
	}

	program = models.StudyProgram{Name: name}
	if err := r.db.WithContext(ctx).Create(&program).Error; err != nil {
		if !isUniqueConstraintError(err) {
			return nil, storageError(ctx, r.log, "ensure", err)
		}
		// Lost a race with another writer; the row exists now.
		if err := r.db.WithContext(ctx).Where("name = ?", name).First(&program).Error; err != nil {
			return nil, storageError(ctx, r.log, "ensure", err)
		}
		return &program, nil
	}
	r.log.Created(ctx, slog.Any("study_program_id", program.ID), slog.String("name", name))
	cache.InvalidateStudyPrograms(ctx)
	return &program, nil
}

// Delete removes a program. Tagged posts survive with study_program_id cleared.
func (r *studyProgramRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.StudyProgram{}, id)
	if res.Error != nil {
		return storageError(ctx, r.log, "delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Study program", id)
	}
	cache.InvalidateStudyPrograms(ctx)
	r.log.Deleted(ctx, slog.Any("study_program_id", id))
	return nil
}
