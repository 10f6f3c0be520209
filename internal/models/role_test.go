package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"user", RoleUser, true},
		{"moderator", RoleModerator, true},
		{"mod", RoleModerator, true},
		{"admin", RoleAdmin, true},
		{"Admin", 0, false},
		{"root", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseRole(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoleLegacyNameNeverEmitted(t *testing.T) {
	t.Parallel()

	r, ok := ParseRole("mod")
	require.True(t, ok)
	assert.Equal(t, "moderator", r.String())

	b, err := json.Marshal(struct {
		Role Role `json:"role"`
	}{r})
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"moderator"}`, string(b))
}

func TestRoleJSONRoundTrip(t *testing.T) {
	t.Parallel()

	var out struct {
		Role Role `json:"role"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"role":"admin"}`), &out))
	assert.Equal(t, RoleAdmin, out.Role)

	assert.Error(t, json.Unmarshal([]byte(`{"role":"superuser"}`), &out))
}

func TestRoleZeroValueIsInvalid(t *testing.T) {
	t.Parallel()

	var r Role
	assert.False(t, r.IsValid())
	_, err := r.Value()
	assert.Error(t, err)
	_, err = r.MarshalText()
	assert.Error(t, err)
}

func TestRoleScan(t *testing.T) {
	t.Parallel()

	var r Role
	require.NoError(t, r.Scan("moderator"))
	assert.Equal(t, RoleModerator, r)
	require.NoError(t, r.Scan([]byte("user")))
	assert.Equal(t, RoleUser, r)
	assert.Error(t, r.Scan(nil))
	assert.Error(t, r.Scan(42))
	assert.Error(t, r.Scan("owner"))
}

func TestParsePostStatus(t *testing.T) {
	t.Parallel()

	s, ok := ParsePostStatus("")
	assert.True(t, ok)
	assert.Equal(t, PostStatusPublished, s)

	s, ok = ParsePostStatus("draft")
	assert.True(t, ok)
	assert.Equal(t, PostStatusDraft, s)

	_, ok = ParsePostStatus("archived")
	assert.False(t, ok)
}
