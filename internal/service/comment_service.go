package service

import (
	"context"

	"forum/internal/authz"
	"forum/internal/models"
	"forum/internal/observability"
	"forum/internal/repository"
	"forum/internal/validation"
)

type CommentService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
}

func NewCommentService(postRepo repository.PostRepository, commentRepo repository.CommentRepository) *CommentService {
	return &CommentService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
}

// ListComments returns the comments of a readable post, oldest first.
func (s *CommentService) ListComments(ctx context.Context, id *models.Identity, postID uint) ([]models.CommentView, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := authorizeRead(ctx, id, post); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return models.NewCommentViews(comments), nil
}

// CreateComment adds a comment to a readable post. Anonymous callers produce a
// guest comment with no author.
func (s *CommentService) CreateComment(ctx context.Context, id *models.Identity, postID uint, text string) (*models.CommentView, error) {
	ctx, span := observability.StartServiceSpan(ctx, "CommentService", "CreateComment")
	defer span.End()

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := authorizeRead(ctx, id, post); err != nil {
		return nil, err
	}
	if err := authorize(ctx, id, authz.ActionCreateComment, authz.Owned(post.AuthorID)); err != nil {
		return nil, err
	}
	if err := (validation.CommentContent{Text: text}).Validate(); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	comment := &models.Comment{Text: text, PostID: postID}
	if id != nil {
		authorID := id.SubjectID
		comment.AuthorID = &authorID
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	view := models.NewCommentView(created)
	return &view, nil
}

// DeleteComment removes a comment of the given post. A comment that belongs to
// another post is reported as missing.
func (s *CommentService) DeleteComment(ctx context.Context, id *models.Identity, postID, commentID uint) error {
	ctx, span := observability.StartServiceSpan(ctx, "CommentService", "DeleteComment")
	defer span.End()

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.PostID != postID {
		return models.NewNotFoundError("Comment", commentID)
	}
	if err := authorize(ctx, id, authz.ActionDeleteComment, authz.OwnedBy(comment.AuthorID)); err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, commentID)
}
