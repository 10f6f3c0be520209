package models

import "time"

// User is a registered account.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:20;not null;default:'user'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the authenticated principal of a single request. It is derived from
// the session token and never stored. A nil *Identity is an anonymous caller.
type Identity struct {
	SubjectID uint
	Role      Role
}
