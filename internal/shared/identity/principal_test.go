package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymousIsNotAuthenticated(t *testing.T) {
	assert.False(t, Anonymous().IsAuthenticated())
	assert.False(t, New("   ").IsAuthenticated())
}

func TestHasAnyAuthority(t *testing.T) {
	p := New(" maria@gmail.com ", "ROLE_CLIENT")

	assert.Equal(t, "maria@gmail.com", p.Username)
	assert.True(t, p.IsAuthenticated())
	assert.True(t, p.HasAnyAuthority("ROLE_ADMIN", "ROLE_CLIENT"))
	assert.False(t, p.HasAnyAuthority("ROLE_ADMIN"))
}
