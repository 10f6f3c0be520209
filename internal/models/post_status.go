package models

// PostStatus is the publication state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// DefaultPostStatus applies when a post is created without an explicit status.
const DefaultPostStatus = PostStatusPublished

// ParsePostStatus maps a wire value onto the enum. An empty value selects the default.
func ParsePostStatus(s string) (PostStatus, bool) {
	switch PostStatus(s) {
	case "":
		return DefaultPostStatus, true
	case PostStatusDraft, PostStatusPublished:
		return PostStatus(s), true
	default:
		return "", false
	}
}

// IsValid reports whether s is one of the defined statuses.
func (s PostStatus) IsValid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}
