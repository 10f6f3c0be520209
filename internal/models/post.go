package models

import "time"

// Post is an article written by a user. Deleting the author deletes the post,
// deleting the study program only clears the tag.
type Post struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	Title          string        `gorm:"size:255;not null" json:"title"`
	Body           string        `gorm:"type:text;not null" json:"body"`
	AuthorID       uint          `gorm:"not null;index" json:"author_id"`
	Author         User          `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	StudyProgramID *uint         `gorm:"index" json:"study_program_id"`
	StudyProgram   *StudyProgram `gorm:"foreignKey:StudyProgramID;constraint:OnDelete:SET NULL" json:"study_program,omitempty"`
	Status         PostStatus    `gorm:"size:20;not null;default:'published'" json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	Comments       []Comment     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

// IsPublished reports whether the post is visible to everyone.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}
