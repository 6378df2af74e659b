package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("secret123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, Verify("secret123", hash))
	assert.False(t, Verify("wrong123", hash))
	assert.False(t, Verify("secret123", "not-a-hash"))
}

func TestHashToken(t *testing.T) {
	a := HashToken("token-a")
	b := HashToken("token-b")

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, HashToken("token-a"), "token hashing is deterministic")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"letters and digits", "secret123", true},
		{"too short", "ab1", false},
		{"letters only", "secretword", false},
		{"digits only", "12345678", false},
		{"exactly minimum length", "abcdef12", true},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.password))
		})
	}
}
