package service

import (
	"context"

	"forum/internal/authz"
	"forum/internal/models"
	"forum/internal/observability"
	"forum/internal/repository"
	"forum/internal/validation"
)

type PostService struct {
	postRepo    repository.PostRepository
	programRepo repository.StudyProgramRepository
}

type CreatePostInput struct {
	Title          string
	Body           string
	Status         string
	StudyProgramID *uint
}

type ListPostsInput struct {
	Limit          int
	Offset         int
	StudyProgramID *uint
}

func NewPostService(postRepo repository.PostRepository, programRepo repository.StudyProgramRepository) *PostService {
	return &PostService{
		postRepo:    postRepo,
		programRepo: programRepo,
	}
}

// CreatePost stores a post authored by the caller. An empty status means published.
func (s *PostService) CreatePost(ctx context.Context, id *models.Identity, in CreatePostInput) (*models.PostView, error) {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "CreatePost")
	defer span.End()

	if err := authorize(ctx, id, authz.ActionCreatePost, authz.Unowned); err != nil {
		return nil, err
	}
	if err := (validation.PostContent{Title: in.Title, Body: in.Body}).Validate(); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	status, ok := models.ParsePostStatus(in.Status)
	if !ok {
		return nil, models.NewValidationError("Invalid status")
	}
	if in.StudyProgramID != nil {
		if _, err := s.programRepo.GetByID(ctx, *in.StudyProgramID); err != nil {
			if models.IsKind(err, models.KindNotFound) {
				return nil, models.NewValidationError("Unknown study program")
			}
			return nil, err
		}
	}

	post := &models.Post{
		Title:          in.Title,
		Body:           in.Body,
		AuthorID:       id.SubjectID,
		StudyProgramID: in.StudyProgramID,
		Status:         status,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	created, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	view := models.NewPostView(created)
	return &view, nil
}

// ListPublished returns the front page, newest first.
func (s *PostService) ListPublished(ctx context.Context, id *models.Identity, in ListPostsInput) ([]models.PostView, error) {
	if err := authorize(ctx, id, authz.ActionReadPublished, authz.Unowned); err != nil {
		return nil, err
	}
	posts, err := s.postRepo.ListPublished(ctx, repository.PostFilter{
		StudyProgramID: in.StudyProgramID,
		Limit:          in.Limit,
		Offset:         in.Offset,
	})
	if err != nil {
		return nil, err
	}
	return models.NewPostViews(posts), nil
}

// GetPost returns a post with its comments. Drafts are visible to their author
// and to moderators and admins.
func (s *PostService) GetPost(ctx context.Context, id *models.Identity, postID uint) (*models.PostDetail, error) {
	post, err := s.postRepo.GetDetail(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := authorizeRead(ctx, id, post); err != nil {
		return nil, err
	}
	detail := models.NewPostDetail(post)
	return &detail, nil
}

// ListOwn returns the caller's posts, drafts included.
func (s *PostService) ListOwn(ctx context.Context, id *models.Identity, limit, offset int) ([]models.PostView, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	posts, err := s.postRepo.ListByAuthor(ctx, id.SubjectID, limit, offset)
	if err != nil {
		return nil, err
	}
	return models.NewPostViews(posts), nil
}

// PublishPost moves a draft to published. Publishing a published post is a no-op.
func (s *PostService) PublishPost(ctx context.Context, id *models.Identity, postID uint) (*models.PostView, error) {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "PublishPost")
	defer span.End()

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, id, authz.ActionPublishPost, authz.Owned(post.AuthorID)); err != nil {
		return nil, err
	}
	if !post.IsPublished() {
		if err := s.postRepo.UpdateStatus(ctx, postID, models.PostStatusPublished); err != nil {
			return nil, err
		}
		post.Status = models.PostStatusPublished
	}
	view := models.NewPostView(post)
	return &view, nil
}

func (s *PostService) DeletePost(ctx context.Context, id *models.Identity, postID uint) error {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "DeletePost")
	defer span.End()

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := authorize(ctx, id, authz.ActionDeletePost, authz.Owned(post.AuthorID)); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, postID)
}

// ListStudyPrograms returns the reference list used to tag posts.
func (s *PostService) ListStudyPrograms(ctx context.Context) ([]models.StudyProgramView, error) {
	programs, err := s.programRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]models.StudyProgramView, 0, len(programs))
	for _, p := range programs {
		views = append(views, models.StudyProgramView{ID: p.ID, Name: p.Name})
	}
	return views, nil
}
