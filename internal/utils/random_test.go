package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomPassword(t *testing.T) {
	for _, length := range []int{1, 12, 64} {
		assert.Len(t, GenerateRandomPassword(length), length)
	}
}

func TestGenerateUsernameFromFullName(t *testing.T) {
	username := GenerateUsernameFromFullName("Marco Rossi")
	assert.Regexp(t, `^mrossi\d{1,3}$`, username)

	username = GenerateUsernameFromFullName("Anna De Luca")
	assert.Regexp(t, `^adeluca\d{1,3}$`, username)
}

func TestGenerateRandomUser(t *testing.T) {
	teams := []string{"A", "B", "C"}

	user, err := GenerateRandomUser("segreta", "example.it", teams)
	require.NoError(t, err)

	assert.NotEmpty(t, user.Username)
	assert.NotEmpty(t, user.FullName)
	assert.Contains(t, teams, user.Team)
	assert.Contains(t, user.Email, "@example.it")
	assert.NotEqual(t, "segreta", user.PasswordHash)
}
