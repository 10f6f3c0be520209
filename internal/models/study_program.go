package models

// StudyProgram is a seeded reference category that posts may be tagged with.
type StudyProgram struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}
