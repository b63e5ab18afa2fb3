package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	digest, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "$2a$"))
	assert.NotContains(t, digest, "secret1")

	assert.NoError(t, h.Compare(digest, "secret1"))
	assert.ErrorIs(t, h.Compare(digest, "secret2"), bcrypt.ErrMismatchedHashAndPassword)

	again, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, digest, again, "digests are salted")
}

func TestNewPasswordHasherClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).Cost())
	assert.Equal(t, bcrypt.MaxCost, NewPasswordHasher(99).Cost())
	assert.Equal(t, 12, NewPasswordHasher(12).Cost())
}

func TestCompareDummyDigestReadyAtConstruction(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	require.NotEmpty(t, h.dummy)

	cost, err := bcrypt.Cost([]byte(h.dummy))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	before := h.dummy
	h.CompareDummy("anything")
	h.CompareDummy("anything else")
	assert.Equal(t, before, h.dummy)
}

func TestHashRejectsOverlongPassword(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("a", MaxPasswordBytes))
	assert.NoError(t, err)
	_, err = h.Hash(strings.Repeat("a", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
}
