package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmitRequest() SubmitContentRequest {
	return SubmitContentRequest{
		EntityType:  EntityTypeAnime,
		EntityID:    5,
		ContentType: ContentTypeAnimeSynopsis,
		Language:    LanguageIndonesian,
		Content:     "Ringkasan baru",
	}
}

func TestValidateSubmitContent(t *testing.T) {
	req := validSubmitRequest()
	require.NoError(t, ValidateSubmitContent(&req))
}

func TestValidateSubmitContentEmptyBody(t *testing.T) {
	req := validSubmitRequest()
	req.Content = "   \n\t "
	assert.ErrorIs(t, ValidateSubmitContent(&req), ErrInvalidInput)
}

func TestValidateSubmitContentBadEnums(t *testing.T) {
	req := validSubmitRequest()
	req.EntityType = "studio"
	assert.Error(t, ValidateSubmitContent(&req))

	req = validSubmitRequest()
	req.ContentType = "anime_trailer"
	assert.Error(t, ValidateSubmitContent(&req))

	req = validSubmitRequest()
	req.Language = "fr"
	assert.Error(t, ValidateSubmitContent(&req))

	req = validSubmitRequest()
	req.EntityID = 0
	assert.Error(t, ValidateSubmitContent(&req))
}

func TestValidateVersionFilterDefaults(t *testing.T) {
	f := VersionFilter{}
	require.NoError(t, ValidateVersionFilter(&f))
	assert.Equal(t, string(VersionStatusPending), f.Status)
	assert.Equal(t, 20, f.Limit)
	assert.Equal(t, 0, f.Offset)
}

func TestValidateVersionFilterRejectsUnknownStatus(t *testing.T) {
	f := VersionFilter{Status: "draft"}
	assert.ErrorIs(t, ValidateVersionFilter(&f), ErrInvalidInput)
}

func TestUserDisplayName(t *testing.T) {
	u := User{Username: "alice", Email: "alice@example.com"}
	assert.Equal(t, "alice", u.DisplayName())

	u.Username = ""
	assert.Equal(t, "alice@example.com", u.DisplayName())
}

func TestHasRole(t *testing.T) {
	admin := User{Role: UserRoleAdmin}
	mod := User{Role: UserRoleModerator}
	user := User{Role: UserRoleUser}

	assert.True(t, admin.HasRole(UserRoleModerator))
	assert.True(t, mod.HasRole(UserRoleModerator))
	assert.False(t, user.HasRole(UserRoleModerator))
	assert.False(t, mod.HasRole(UserRoleAdmin))
	assert.True(t, user.HasRole(UserRoleUser))
}
