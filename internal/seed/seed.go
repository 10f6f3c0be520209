// Package seed provides database seeding for reference data, the admin
// account, and demo content.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log"

	"forum/internal/auth"
	"forum/internal/models"
	"forum/internal/repository"
	"forum/internal/validation"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed study_programs.yaml
var studyProgramsYAML []byte

type studyProgramFile struct {
	StudyPrograms []string `yaml:"study_programs"`
}

// StudyProgramNames returns the built-in study program list.
func StudyProgramNames() ([]string, error) {
	var file studyProgramFile
	if err := yaml.Unmarshal(studyProgramsYAML, &file); err != nil {
		return nil, fmt.Errorf("parse study programs: %w", err)
	}
	for _, name := range file.StudyPrograms {
		if err := validation.ValidateStudyProgramName(name); err != nil {
			return nil, fmt.Errorf("study program %q: %w", name, err)
		}
	}
	return file.StudyPrograms, nil
}

// Seeder writes seed data through the repositories.
type Seeder struct {
	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	programs repository.StudyProgramRepository
	hasher   auth.Hasher
}

func NewSeeder(db *gorm.DB, hasher auth.Hasher) *Seeder {
	return &Seeder{
		users:    repository.NewUserRepository(db),
		posts:    repository.NewPostRepository(db),
		comments: repository.NewCommentRepository(db),
		programs: repository.NewStudyProgramRepository(db),
		hasher:   hasher,
	}
}

// StudyPrograms inserts any missing built-in study program. It is idempotent.
func (s *Seeder) StudyPrograms(ctx context.Context) ([]models.StudyProgram, error) {
	names, err := StudyProgramNames()
	if err != nil {
		return nil, err
	}
	programs := make([]models.StudyProgram, 0, len(names))
	for _, name := range names {
		p, err := s.programs.EnsureByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("seed study program %q: %w", name, err)
		}
		programs = append(programs, *p)
	}
	return programs, nil
}

// Admin makes sure an admin account named username exists. An existing account
// is promoted; its password is left alone.
func (s *Seeder) Admin(ctx context.Context, username, password string) (*models.User, error) {
	if err := (validation.Credentials{Username: username, Password: password}).Validate(); err != nil {
		return nil, fmt.Errorf("admin credentials: %w", err)
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Role != models.RoleAdmin {
			if err := s.users.UpdateRole(ctx, existing.ID, models.RoleAdmin); err != nil {
				return nil, err
			}
			existing.Role = models.RoleAdmin
			log.Printf("promoted %q to admin", username)
		}
		return existing, nil
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	admin := &models.User{Username: username, PasswordHash: digest, Role: models.RoleAdmin}
	if err := s.users.Create(ctx, admin); err != nil {
		return nil, err
	}
	log.Printf("created admin %q", username)
	return admin, nil
}
