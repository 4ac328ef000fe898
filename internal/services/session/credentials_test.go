package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredentials(t *testing.T) {
	c := newCredentials()
	c.add("token-a", "ana")
	c.add("token-b1", "bob")
	c.add("token-b2", "bob")

	id, ok := c.lookup("token-a")
	assert.True(t, ok)
	assert.Equal(t, "ana", string(id))

	_, ok = c.lookup("")
	assert.False(t, ok)
	_, ok = c.lookup("token-unknown")
	assert.False(t, ok)

	c.revokePlayer("bob")
	assert.Equal(t, 1, c.count())
	_, ok = c.lookup("token-b1")
	assert.False(t, ok)
	_, ok = c.lookup("token-b2")
	assert.False(t, ok)
}

func TestCredentialsKeepOnlyDigests(t *testing.T) {
	c := newCredentials()
	c.add("secret-token", "ana")

	for d := range c.players {
		assert.NotContains(t, string(d[:]), "secret-token")
		assert.Equal(t, digest("secret-token"), d)
	}
}
