// Package authz decides whether an identity may perform an action on a resource.
// Decisions are pure functions of their arguments.
package authz

import "forum/internal/models"

// Action is the closed set of guarded operations.
type Action uint8

const (
	ActionReadPublished Action = iota + 1
	ActionReadDraft
	ActionCreatePost
	ActionPublishPost
	ActionCreateComment
	ActionDeletePost
	ActionDeleteComment
	ActionListUsers
	ActionChangeUserRole
	ActionDeleteUser
)

// AllActions lists every action in declaration order.
func AllActions() []Action {
	return []Action{
		ActionReadPublished, ActionReadDraft, ActionCreatePost, ActionPublishPost,
		ActionCreateComment, ActionDeletePost, ActionDeleteComment,
		ActionListUsers, ActionChangeUserRole, ActionDeleteUser,
	}
}

func (a Action) String() string {
	switch a {
	case ActionReadPublished:
		return "ReadPublished"
	case ActionReadDraft:
		return "ReadDraft"
	case ActionCreatePost:
		return "CreatePost"
	case ActionPublishPost:
		return "PublishPost"
	case ActionCreateComment:
		return "CreateComment"
	case ActionDeletePost:
		return "DeletePost"
	case ActionDeleteComment:
		return "DeleteComment"
	case ActionListUsers:
		return "ListUsers"
	case ActionChangeUserRole:
		return "ChangeUserRole"
	case ActionDeleteUser:
		return "DeleteUser"
	default:
		return "Unknown"
	}
}

// Resource describes the target of an action. For DeleteUser the owner is the
// target account itself. OwnerID nil means nobody owns it.
type Resource struct {
	OwnerID *uint
	Exists  bool
}

// Owned is an existing resource owned by id.
func Owned(id uint) Resource {
	return Resource{OwnerID: &id, Exists: true}
}

// OwnedBy is an existing resource with a possibly absent owner.
func OwnedBy(id *uint) Resource {
	return Resource{OwnerID: id, Exists: true}
}

// Unowned is an existing resource, or no target at all, with no owner.
var Unowned = Resource{Exists: true}

type rule uint8

const (
	deny rule = iota
	allow
	ownerOnly
	notSelf
)

type row struct {
	anonymous, user, moderator, admin rule
}

var matrix = map[Action]row{
	ActionReadPublished:  {anonymous: allow, user: allow, moderator: allow, admin: allow},
	ActionReadDraft:      {anonymous: deny, user: ownerOnly, moderator: allow, admin: allow},
	ActionCreatePost:     {anonymous: deny, user: allow, moderator: allow, admin: allow},
	ActionPublishPost:    {anonymous: deny, user: ownerOnly, moderator: allow, admin: allow},
	ActionCreateComment:  {anonymous: allow, user: allow, moderator: allow, admin: allow},
	ActionDeletePost:     {anonymous: deny, user: ownerOnly, moderator: allow, admin: allow},
	ActionDeleteComment:  {anonymous: deny, user: ownerOnly, moderator: allow, admin: allow},
	ActionListUsers:      {anonymous: deny, user: deny, moderator: allow, admin: allow},
	ActionChangeUserRole: {anonymous: deny, user: deny, moderator: deny, admin: allow},
	ActionDeleteUser:     {anonymous: deny, user: deny, moderator: notSelf, admin: notSelf},
}

// CanPerform reports whether id may perform action on res. A nil id is anonymous.
// Missing resources and unknown actions are always denied, and an identity with an
// unrecognized role gets anonymous rights only.
func CanPerform(id *models.Identity, action Action, res Resource) bool {
	r, ok := matrix[action]
	if !ok || !res.Exists {
		return false
	}
	if id == nil {
		return r.anonymous.eval(false)
	}

	owner := res.OwnerID != nil && *res.OwnerID == id.SubjectID
	switch id.Role {
	case models.RoleUser:
		return r.user.eval(owner)
	case models.RoleModerator:
		return r.moderator.eval(owner)
	case models.RoleAdmin:
		return r.admin.eval(owner)
	default:
		return r.anonymous.eval(false)
	}
}

func (r rule) eval(owner bool) bool {
	switch r {
	case allow:
		return true
	case ownerOnly:
		return owner
	case notSelf:
		return !owner
	default:
		return false
	}
}
