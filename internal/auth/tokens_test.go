package auth_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/auth"
	"folio/internal/config"
	"folio/internal/users"
)

func TestIssueAndResolveToken(t *testing.T) {
	cfg := config.GetConfig()
	user := &users.User{ID: 42, Email: "owner@example.com", IsAdmin: true}

	token, err := auth.IssueToken(cfg, user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ResolveBearerToken(cfg, token)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, cfg.GetAppName(), claims.Issuer)
	assert.Equal(t, strconv.Itoa(42), claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt.Time))
}

func TestResolveBearerTokenRejectsGarbage(t *testing.T) {
	cfg := config.GetConfig()

	testCases := []struct {
		name  string
		token string
	}{
		{name: "empty string", token: ""},
		{name: "not a JWT", token: "definitely-not-a-token"},
		{name: "truncated JWT", token: "eyJhbGciOiJIUzI1NiJ9"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := auth.ResolveBearerToken(cfg, tc.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestResolveBearerTokenRejectsTamperedSignature(t *testing.T) {
	cfg := config.GetConfig()
	user := &users.User{ID: 7, Email: "owner@example.com", IsAdmin: false}

	token, err := auth.IssueToken(cfg, user)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	// Flip a character in the signature segment
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	claims, err := auth.ResolveBearerToken(cfg, tampered)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestResolveBearerTokenRejectsForeignKey(t *testing.T) {
	cfg := config.GetConfig()
	user := &users.User{ID: 7, Email: "owner@example.com", IsAdmin: true}

	token, err := auth.IssueToken(cfg, user)
	require.NoError(t, err)

	foreign := *cfg
	foreign.PrivateKey = "00000000000000000000000000000000"

	claims, err := auth.ResolveBearerToken(&foreign, token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}
