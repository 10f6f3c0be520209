package repository

import (
	"context"
	"errors"
	"log/slog"

	"forum/internal/models"
	"forum/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostFilter narrows ListPublished.
type PostFilter struct {
	StudyProgramID *uint
	Limit          int
	Offset         int
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetDetail(ctx context.Context, id uint) (*models.Post, error)
	ListPublished(ctx context.Context, filter PostFilter) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error)
	UpdateStatus(ctx context.Context, id uint, status models.PostStatus) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger("posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		// The session outlived its account.
		if isForeignKeyViolation(err) && rowMissing(ctx, r.db, &models.User{}, post.AuthorID) {
			return models.NewUnauthenticatedError(models.MsgInvalidToken)
		}
		return storageError(ctx, r.log, "create", err)
	}
	r.log.Created(ctx, slog.Any("post_id", post.ID), slog.Any("author_id", post.AuthorID))
	return nil
}

// GetByID loads a post with its author and study program.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("StudyProgram").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, storageError(ctx, r.log, "get", err)
	}
	return &post, nil
}

// GetDetail additionally loads comments oldest first with their authors.
func (r *postRepository) GetDetail(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("StudyProgram").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("id ASC")
		}).
		Preload("Comments.Author").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, storageError(ctx, r.log, "get_detail", err)
	}
	return &post, nil
}

// ListPublished returns published posts newest first.
func (r *postRepository) ListPublished(ctx context.Context, filter PostFilter) ([]*models.Post, error) {
	limit, offset := clampPage(filter.Limit, filter.Offset)
	q := r.db.WithContext(ctx).
		Preload("Author").
		Preload("StudyProgram").
		Where("status = ?", models.PostStatusPublished)
	if filter.StudyProgramID != nil {
		q = q.Where("study_program_id = ?", *filter.StudyProgramID)
	}

	var posts []*models.Post
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&posts).Error; err != nil {
		return nil, storageError(ctx, r.log, "list_published", err)
	}
	return posts, nil
}

// ListByAuthor returns every post of one author, drafts included, newest first.
func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
	limit, offset = clampPage(limit, offset)
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("StudyProgram").
		Where("author_id = ?", authorID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, storageError(ctx, r.log, "list_by_author", err)
	}
	return posts, nil
}

func (r *postRepository) UpdateStatus(ctx context.Context, id uint, status models.PostStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return storageError(ctx, r.log, "update_status", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	r.log.Updated(ctx, slog.Any("post_id", id), slog.String("status", string(status)))
	return nil
}

// Delete removes the post; its comments go with it through the schema.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return storageError(ctx, r.log, "delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	r.log.Deleted(ctx, slog.Any("post_id", id))
	return nil
}
