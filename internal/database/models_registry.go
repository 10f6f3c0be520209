package database

import "forum/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models,
// parents before children so foreign keys resolve on creation.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.StudyProgram{},
		&models.Post{},
		&models.Comment{},
	}
}
