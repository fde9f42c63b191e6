package service

import (
	"ecolearn_backend/internal/model"
	"ecolearn_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	user := &model.User{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: "supersecret",
		Role:     model.Student,
	}
	require.NoError(t, env.auth.Register(user))
	assert.NotZero(t, user.ID)
	assert.Equal(t, 1, user.Level)
	// Stored password must be the bcrypt hash, not the plaintext.
	assert.NotEqual(t, "supersecret", user.Password)

	t.Run("DuplicateEmail", func(t *testing.T) {
		dup := &model.User{
			Name:     "Other Dana",
			Email:    "dana@example.com",
			Password: "different",
		}
		assert.ErrorIs(t, env.auth.Register(dup), util.ErrEmailRegistered)
	})
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	user := &model.User{
		Name:     "Sam",
		Email:    "sam@example.com",
		Password: "correct-horse",
	}
	require.NoError(t, env.auth.Register(user))

	t.Run("ValidCredentials", func(t *testing.T) {
		token, loggedIn, err := env.auth.Login("sam@example.com", "correct-horse")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, user.ID, loggedIn.ID)
		assert.False(t, loggedIn.LastLogin.IsZero())

		claims, err := util.ParseJWT(token, env.cfg.JWT.Secret)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, _, err := env.auth.Login("sam@example.com", "wrong")
		assert.Error(t, err)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		_, _, err := env.auth.Login("nobody@example.com", "whatever")
		assert.Error(t, err)
	})

	t.Run("DisabledAccount", func(t *testing.T) {
		require.NoError(t, env.db.Model(&model.User{}).
			Where("id = ?", user.ID).
			Update("disabled", true).Error)

		_, _, err := env.auth.Login("sam@example.com", "correct-horse")
		assert.ErrorContains(t, err, "disabled")
	})
}
