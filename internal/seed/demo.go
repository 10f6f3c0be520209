package seed

import (
	"context"
	"fmt"
	"time"

	"forum/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

// DemoPassword is the password of every generated demo user.
const DemoPassword = "password123"

// DemoOptions sizes the generated demo content.
type DemoOptions struct {
	Users int
	Posts int
	// MaxComments bounds the comments per post. Zero means 3.
	MaxComments int
	// Seed makes the output reproducible. Zero picks a time based seed.
	Seed int64
}

// DemoResult counts the rows written by Demo.
type DemoResult struct {
	Users    int
	Posts    int
	Comments int
}

// Demo generates users, posts and comments with gofakeit. Roughly one post in
// five is a draft and one comment in four is a guest comment.
func (s *Seeder) Demo(ctx context.Context, opts DemoOptions) (DemoResult, error) {
	var res DemoResult
	if opts.Users <= 0 {
		return res, nil
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	maxComments := opts.MaxComments
	if maxComments <= 0 {
		maxComments = 3
	}
	faker := gofakeit.New(seed)

	programs, err := s.programs.List(ctx)
	if err != nil {
		return res, err
	}

	// Every demo user shares one digest so seeding stays fast.
	digest, err := s.hasher.Hash(DemoPassword)
	if err != nil {
		return res, fmt.Errorf("hash demo password: %w", err)
	}

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		u := &models.User{
			Username:     demoUsername(faker.Username(), i),
			PasswordHash: digest,
			Role:         models.RoleUser,
		}
		if err := s.users.Create(ctx, u); err != nil {
			return res, fmt.Errorf("create demo user: %w", err)
		}
		users = append(users, u)
	}
	res.Users = len(users)

	now := time.Now().UTC()
	for i := 0; i < opts.Posts; i++ {
		author := users[faker.Number(0, len(users)-1)]
		post := &models.Post{
			Title:     faker.Sentence(faker.Number(3, 8)),
			Body:      faker.Paragraph(1, 3, 8, "\n\n"),
			AuthorID:  author.ID,
			Status:    models.PostStatusPublished,
			CreatedAt: now.Add(-time.Duration(faker.Number(1, 90*24)) * time.Hour),
		}
		if faker.Number(1, 5) == 1 {
			post.Status = models.PostStatusDraft
		}
		if len(programs) > 0 && faker.Bool() {
			id := programs[faker.Number(0, len(programs)-1)].ID
			post.StudyProgramID = &id
		}
		if err := s.posts.Create(ctx, post); err != nil {
			return res, fmt.Errorf("create demo post: %w", err)
		}
		res.Posts++

		if !post.IsPublished() {
			continue
		}
		for j := faker.Number(0, maxComments); j > 0; j-- {
			comment := &models.Comment{
				Text:      faker.Sentence(faker.Number(4, 16)),
				PostID:    post.ID,
				CreatedAt: post.CreatedAt.Add(time.Duration(faker.Number(1, 48*60)) * time.Minute),
			}
			if faker.Number(1, 4) != 1 {
				id := users[faker.Number(0, len(users)-1)].ID
				comment.AuthorID = &id
			}
			if err := s.comments.Create(ctx, comment); err != nil {
				return res, fmt.Errorf("create demo comment: %w", err)
			}
			res.Comments++
		}
	}
	return res, nil
}

// demoUsername suffixes the index so generated names never collide.
func demoUsername(base string, i int) string {
	suffix := fmt.Sprintf("_%d", i)
	if limit := 50 - len(suffix); len(base) > limit {
		base = base[:limit]
	}
	return base + suffix
}
