// Package validation holds the input rules shared by the authenticator and the content services.
package validation

import (
	"errors"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	MaxUsernameLen      = 50
	MaxPasswordBytes    = 72
	MaxTitleLen         = 255
	MaxBodyLen          = 50000
	MaxCommentLen       = 10000
	MaxStudyProgramName = 100
)

// Credentials is a username and password pair as submitted by a client.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks registration input. Login input is never validated beyond
// presence so that every failed login looks the same.
func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Username,
			validation.Required,
			validation.Length(1, MaxUsernameLen),
			validation.By(noSurroundingSpace),
		),
		validation.Field(&c.Password,
			validation.Required,
			validation.By(maxBytes(MaxPasswordBytes)),
		),
	)
}

// PostContent is the editable part of a post.
type PostContent struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (p PostContent) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.By(notBlank), validation.Length(1, MaxTitleLen)),
		validation.Field(&p.Body, validation.Required, validation.By(notBlank), validation.Length(1, MaxBodyLen)),
	)
}

// CommentContent is the text of a comment.
type CommentContent struct {
	Text string `json:"text"`
}

func (c CommentContent) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Text, validation.Required, validation.By(notBlank), validation.Length(1, MaxCommentLen)),
	)
}

// ValidateStudyProgramName checks a seeded reference name.
func ValidateStudyProgramName(name string) error {
	return validation.Validate(name,
		validation.Required,
		validation.Length(1, MaxStudyProgramName),
		validation.By(noSurroundingSpace),
	)
}

// notBlank rejects text made only of whitespace; Required counts it as present.
func notBlank(value interface{}) error {
	s, _ := value.(string)
	if s != "" && strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

func noSurroundingSpace(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if strings.TrimFunc(s, unicode.IsSpace) != s {
		return errors.New("must not start or end with whitespace")
	}
	return nil
}

func maxBytes(limit int) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if len(s) > limit {
			return errors.New("is too long")
		}
		return nil
	}
}
