package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	tok, err := GenerateJWT("acc-1", string(RoleAdmin), "support_service")
	require.NoError(t, err)

	claims, err := ParseJWT(tok)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.AccountID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "support_service", claims.Issuer)
}

func TestParseJWT_Tampered(t *testing.T) {
	tok, err := GenerateJWT("acc-1", string(RoleUser), "support_service")
	require.NoError(t, err)

	_, err = ParseJWT(tok + "x")
	assert.Error(t, err)
}
