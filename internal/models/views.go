package models

import "time"

// PublicUser is the only user shape that leaves the service.
type PublicUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// NewPublicUser strips credentials and timestamps from u.
func NewPublicUser(u *User) PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Role: u.Role}
}

// StudyProgramView is the reference shape of a study program.
type StudyProgramView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// PostView is a post as listed on the front page.
type PostView struct {
	ID           uint       `json:"id"`
	Title        string     `json:"title"`
	Body         string     `json:"body"`
	Author       string     `json:"author"`
	Status       PostStatus `json:"status"`
	StudyProgram *string    `json:"studyProgram"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// CommentView is a comment with its author's username, or a null author for
// guest and anonymized comments.
type CommentView struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	Author    *string   `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostDetail is a single post with its comments, oldest first.
type PostDetail struct {
	PostView
	Comments []CommentView `json:"comments"`
}

func NewPostView(p *Post) PostView {
	v := PostView{
		ID:        p.ID,
		Title:     p.Title,
		Body:      p.Body,
		Author:    p.Author.Username,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
	}
	if p.StudyProgram != nil {
		name := p.StudyProgram.Name
		v.StudyProgram = &name
	}
	return v
}

func NewPostViews(posts []*Post) []PostView {
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, NewPostView(p))
	}
	return views
}

func NewCommentView(c *Comment) CommentView {
	v := CommentView{ID: c.ID, Text: c.Text, CreatedAt: c.CreatedAt}
	if c.Author != nil {
		author := c.Author.Username
		v.Author = &author
	}
	return v
}

func NewCommentViews(comments []Comment) []CommentView {
	views := make([]CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, NewCommentView(&comments[i]))
	}
	return views
}

// NewPostDetail expects Author, StudyProgram and Comments to be preloaded.
func NewPostDetail(p *Post) PostDetail {
	return PostDetail{PostView: NewPostView(p), Comments: NewCommentViews(p.Comments)}
}
