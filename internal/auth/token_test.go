package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cforclown/school-admin/internal/domain"
	apperrors "github.com/cforclown/school-admin/pkg/util"
)

func newTestTokens() *TokenService {
	return NewTokenService(TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
	})
}

func testPrincipal() domain.Principal {
	return domain.Principal{
		ID:       "u-1",
		Username: "dewi",
		Fullname: "Dewi",
		Role:     domain.RoleRef{ID: "r-1", Name: "teacher", Description: "teaches"},
	}
}

func TestIssueAndVerify(t *testing.T) {
	svc := newTestTokens()
	pair, err := svc.Issue(testPrincipal())
	require.NoError(t, err)
	assert.EqualValues(t, 900, pair.ExpiresIn)

	claims, err := svc.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, testPrincipal(), claims.User)
	assert.Equal(t, domain.TokenKindAccess, claims.Kind)
	assert.Equal(t, "u-1", claims.Subject)

	claims, err = svc.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, domain.TokenKindRefresh, claims.Kind)
}

func TestClaimsCarryReducedRoleOnly(t *testing.T) {
	pair, err := newTestTokens().Issue(testPrincipal())
	require.NoError(t, err)

	parts := strings.Split(pair.AccessToken, ".")
	require.Len(t, parts, 3)
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	user := payload["user"].(map[string]any)
	assert.Equal(t, map[string]any{"id": "r-1", "name": "teacher", "description": "teaches"}, user["role"])
	assert.NotContains(t, string(raw), "permissions")
}

func TestTokenKindsDoNotCross(t *testing.T) {
	svc := newTestTokens()
	pair, err := svc.Issue(testPrincipal())
	require.NoError(t, err)

	_, err = svc.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenSignature)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	_, err = svc.VerifyRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestTokenKindClaimChecked(t *testing.T) {
	shared := NewTokenService(TokenConfig{AccessSecret: "same", RefreshSecret: "same"})
	pair, err := shared.Issue(testPrincipal())
	require.NoError(t, err)

	_, err = shared.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenKind)
}

func TestExpiredToken(t *testing.T) {
	svc := newTestTokens()
	issued := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	pair, err := svc.Issue(testPrincipal())
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(16 * time.Minute) }
	_, err = svc.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = svc.VerifyRefresh(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestMalformedAndTamperedTokens(t *testing.T) {
	svc := newTestTokens()
	pair, err := svc.Issue(testPrincipal())
	require.NoError(t, err)

	_, err = svc.VerifyAccess("not-a-token")
	assert.ErrorIs(t, err, ErrTokenMalformed)

	parts := strings.Split(pair.AccessToken, ".")
	forged, err := json.Marshal(map[string]any{
		"user": map[string]any{"id": "u-2", "role": map[string]any{"id": "admin"}},
		"typ":  "access",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	tampered := parts[0] + "." + base64.RawURLEncoding.EncodeToString(forged) + "." + parts[2]

	_, err = svc.VerifyAccess(tampered)
	assert.ErrorIs(t, err, ErrTokenSignature)
}
