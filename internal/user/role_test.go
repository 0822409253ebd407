package user

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timeNowPlusHour() time.Time {
	return time.Now().Add(time.Hour)
}

func TestRole_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "User", RoleUser.String())
	assert.Equal(t, "Admin", RoleAdmin.String())
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	role, err := ParseRole("User")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, role)

	role, err = ParseRole("Admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	_, err = ParseRole("admin")
	assert.Error(t, err)
	_, err = ParseRole("SuperAdmin")
	assert.Error(t, err)
	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestRole_JSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, `"Admin"`, string(data))

	var role Role
	require.NoError(t, json.Unmarshal([]byte(`"User"`), &role))
	assert.Equal(t, RoleUser, role)

	assert.Error(t, json.Unmarshal([]byte(`"Moderator"`), &role))
	assert.Error(t, json.Unmarshal([]byte(`42`), &role))
}

func TestUser_SessionHelpers(t *testing.T) {
	t.Parallel()

	u := &User{}
	assert.False(t, u.HasActiveSession())

	u.SetRefreshToken("token", timeNowPlusHour())
	assert.True(t, u.HasActiveSession())
	require.NotNil(t, u.RefreshToken)
	assert.Equal(t, "token", *u.RefreshToken)

	u.ClearRefreshToken()
	assert.False(t, u.HasActiveSession())
	assert.Nil(t, u.RefreshToken)
	assert.Nil(t, u.RefreshTokenExpiresAt)

	u.SetResetToken("reset", timeNowPlusHour())
	require.NotNil(t, u.ResetToken)
	require.NotNil(t, u.ResetTokenExpiresAt)

	u.ClearResetToken()
	assert.Nil(t, u.ResetToken)
	assert.Nil(t, u.ResetTokenExpiresAt)
}

func TestUser_JSONHidesSecrets(t *testing.T) {
	t.Parallel()

	u := &User{
		UserName:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$argon2id$...",
	}
	u.SetRefreshToken("refresh-token", timeNowPlusHour())
	u.SetResetToken("reset-token", timeNowPlusHour())

	data, err := json.Marshal(u)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "argon2id")
	assert.NotContains(t, string(data), "refresh-token")
	assert.NotContains(t, string(data), "reset-token")
	assert.Contains(t, string(data), "alice@example.com")
}
