package authz

import (
	"fmt"
	"testing"

	"forum/internal/models"

	"github.com/stretchr/testify/assert"
)

const (
	callerID uint = 10
	otherID  uint = 20
)

type principal struct {
	name  string
	id    *models.Identity
	owner bool
}

var principals = []principal{
	{"anonymous", nil, false},
	{"user non-owner", &models.Identity{SubjectID: callerID, Role: models.RoleUser}, false},
	{"user owner", &models.Identity{SubjectID: callerID, Role: models.RoleUser}, true},
	{"moderator non-owner", &models.Identity{SubjectID: callerID, Role: models.RoleModerator}, false},
	{"moderator owner", &models.Identity{SubjectID: callerID, Role: models.RoleModerator}, true},
	{"admin non-owner", &models.Identity{SubjectID: callerID, Role: models.RoleAdmin}, false},
	{"admin owner", &models.Identity{SubjectID: callerID, Role: models.RoleAdmin}, true},
	{"unknown role", &models.Identity{SubjectID: callerID, Role: models.Role(99)}, true},
}

// Columns follow principals above. For DeleteUser, "owner" means acting on oneself.
var expected = map[Action][8]bool{
	ActionReadPublished:  {true, true, true, true, true, true, true, true},
	ActionReadDraft:      {false, false, true, true, true, true, true, false},
	ActionCreatePost:     {false, true, true, true, true, true, true, false},
	ActionPublishPost:    {false, false, true, true, true, true, true, false},
	ActionCreateComment:  {true, true, true, true, true, true, true, true},
	ActionDeletePost:     {false, false, true, true, true, true, true, false},
	ActionDeleteComment:  {false, false, true, true, true, true, true, false},
	ActionListUsers:      {false, false, false, true, true, true, true, false},
	ActionChangeUserRole: {false, false, false, false, false, true, true, false},
	ActionDeleteUser:     {false, false, false, true, false, true, false, false},
}

func TestCanPerformMatrix(t *testing.T) {
	t.Parallel()
	assert.Len(t, expected, len(AllActions()))

	for _, action := range AllActions() {
		want, ok := expected[action]
		if !assert.True(t, ok, "no expectation for %s", action) {
			continue
		}
		for i, p := range principals {
			res := Owned(otherID)
			if p.owner {
				res = Owned(callerID)
			}
			t.Run(fmt.Sprintf("%s/%s", action, p.name), func(t *testing.T) {
				assert.Equal(t, want[i], CanPerform(p.id, action, res))
			})
		}
	}
}

func TestCanPerformMissingResourceDenied(t *testing.T) {
	t.Parallel()
	admin := &models.Identity{SubjectID: callerID, Role: models.RoleAdmin}
	for _, action := range AllActions() {
		assert.False(t, CanPerform(admin, action, Resource{}), action.String())
		assert.False(t, CanPerform(nil, action, Resource{}), action.String())
	}
}

func TestCanPerformNullOwnerNeverMatches(t *testing.T) {
	t.Parallel()
	user := &models.Identity{SubjectID: callerID, Role: models.RoleUser}
	guestComment := OwnedBy(nil)

	assert.False(t, CanPerform(user, ActionDeleteComment, guestComment))
	assert.True(t, CanPerform(&models.Identity{SubjectID: callerID, Role: models.RoleModerator}, ActionDeleteComment, guestComment))
	assert.False(t, CanPerform(nil, ActionDeleteComment, guestComment))
}

func TestCanPerformUnknownAction(t *testing.T) {
	t.Parallel()
	admin := &models.Identity{SubjectID: callerID, Role: models.RoleAdmin}
	assert.False(t, CanPerform(admin, Action(0), Unowned))
	assert.False(t, CanPerform(admin, Action(200), Unowned))
	assert.Equal(t, "Unknown", Action(200).String())
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	t.Parallel()
	admin := &models.Identity{SubjectID: 1, Role: models.RoleAdmin}
	assert.False(t, CanPerform(admin, ActionDeleteUser, Owned(1)))
	assert.True(t, CanPerform(admin, ActionDeleteUser, Owned(2)))
}
