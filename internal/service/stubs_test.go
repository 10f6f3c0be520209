package service

import (
	"context"

	"forum/internal/models"
	"forum/internal/repository"
)

func ptr[T any](v T) *T { return &v }

func identity(subject uint, role models.Role) *models.Identity {
	return &models.Identity{SubjectID: subject, Role: role}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uint) (*models.Post, error)
	getDetailFn     func(context.Context, uint) (*models.Post, error)
	listPublishedFn func(context.Context, repository.PostFilter) ([]*models.Post, error)
	listByAuthorFn  func(context.Context, uint, int, int) ([]*models.Post, error)
	updateStatusFn  func(context.Context, uint, models.PostStatus) error
	deleteFn        func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetDetail(ctx context.Context, id uint) (*models.Post, error) {
	return s.getDetailFn(ctx, id)
}
func (s *postRepoStub) ListPublished(ctx context.Context, filter repository.PostFilter) ([]*models.Post, error) {
	return s.listPublishedFn(ctx, filter)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
	return s.listByAuthorFn(ctx, authorID, limit, offset)
}
func (s *postRepoStub) UpdateStatus(ctx context.Context, id uint, status models.PostStatus) error {
	return s.updateStatusFn(ctx, id, status)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

// postRepoWith serves a single stored post and fails every write.
func postRepoWith(post *models.Post) *postRepoStub {
	get := func(_ context.Context, id uint) (*models.Post, error) {
		if post == nil || id != post.ID {
			return nil, models.NewNotFoundError("Post", id)
		}
		cp := *post
		return &cp, nil
	}
	return &postRepoStub{
		createFn:        func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:       get,
		getDetailFn:     get,
		listPublishedFn: func(_ context.Context, _ repository.PostFilter) ([]*models.Post, error) { return nil, nil },
		listByAuthorFn:  func(_ context.Context, _ uint, _, _ int) ([]*models.Post, error) { return nil, nil },
		updateStatusFn:  func(_ context.Context, _ uint, _ models.PostStatus) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]models.Comment, error)
	deleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

// studyProgramRepoStub is a stub for repository.StudyProgramRepository.
type studyProgramRepoStub struct {
	listFn         func(context.Context) ([]models.StudyProgram, error)
	getByIDFn      func(context.Context, uint) (*models.StudyProgram, error)
	ensureByNameFn func(context.Context, string) (*models.StudyProgram, error)
	deleteFn       func(context.Context, uint) error
}

func (s *studyProgramRepoStub) List(ctx context.Context) ([]models.StudyProgram, error) {
	return s.listFn(ctx)
}
func (s *studyProgramRepoStub) GetByID(ctx context.Context, id uint) (*models.StudyProgram, error) {
	return s.getByIDFn(ctx, id)
}
func (s *studyProgramRepoStub) EnsureByName(ctx context.Context, name string) (*models.StudyProgram, error) {
	return s.ensureByNameFn(ctx, name)
}
func (s *studyProgramRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func programRepoWith(programs ...models.StudyProgram) *studyProgramRepoStub {
	return &studyProgramRepoStub{
		listFn: func(_ context.Context) ([]models.StudyProgram, error) { return programs, nil },
		getByIDFn: func(_ context.Context, id uint) (*models.StudyProgram, error) {
			for i := range programs {
				if programs[i].ID == id {
					return &programs[i], nil
				}
			}
			return nil, models.NewNotFoundError("Study program", id)
		},
		ensureByNameFn: func(_ context.Context, name string) (*models.StudyProgram, error) {
			return &models.StudyProgram{Name: name}, nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateRoleFn    func(context.Context, uint, models.Role) error
	deleteFn        func(context.Context, uint) error
	listFn          func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, u *models.User) error {
	return s.createFn(ctx, u)
}
func (s *userRepoStub) UpdateRole(ctx context.Context, id uint, role models.Role) error {
	return s.updateRoleFn(ctx, id, role)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
