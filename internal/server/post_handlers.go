package server

import (
	"forum/internal/models"
	"forum/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Title          string `json:"title"`
	Body           string `json:"body"`
	Status         string `json:"status"`
	StudyProgramID *uint  `json:"studyProgramId"`
}

// GetPosts handles GET /api/posts
// @Summary List published posts
// @Tags posts
// @Produce json
// @Param studyProgramId query int false "Filter by study program"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} models.PostView
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	programID, err := parseOptionalID(c, "studyProgramId")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	page := parsePagination(c, defaultPaginationLimit)

	posts, err := s.postService.ListPublished(c.UserContext(), identityFrom(c), service.ListPostsInput{
		Limit:          page.Limit,
		Offset:         page.Offset,
		StudyProgramID: programID,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
// @Summary Get a post with its comments
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.PostDetail
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	post, err := s.postService.GetPost(c.UserContext(), identityFrom(c), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createPostRequest true "Post"
// @Success 201 {object} models.PostView
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithError(c, err)
	}

	post, err := s.postService.CreatePost(c.UserContext(), identityFrom(c), service.CreatePostInput{
		Title:          req.Title,
		Body:           req.Body,
		Status:         req.Status,
		StudyProgramID: req.StudyProgramID,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// PublishPost handles PUT /api/posts/:id/publish
// @Summary Publish a draft
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.PostView
// @Router /posts/{id}/publish [put]
func (s *Server) PublishPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	post, err := s.postService.PublishPost(c.UserContext(), identityFrom(c), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete a post and its comments
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} object{message=string}
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if err := s.postService.DeletePost(c.UserContext(), identityFrom(c), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// GetMyPosts handles GET /api/user/posts
// @Summary List the caller's posts, drafts included
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.PostView
// @Router /user/posts [get]
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPaginationLimit)
	posts, err := s.postService.ListOwn(c.UserContext(), identityFrom(c), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(posts)
}

// GetStudyPrograms handles GET /api/study-programs
// @Summary List study programs
// @Tags reference
// @Produce json
// @Success 200 {array} models.StudyProgramView
// @Router /study-programs [get]
func (s *Server) GetStudyPrograms(c *fiber.Ctx) error {
	programs, err := s.postService.ListStudyPrograms(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(programs)
}
