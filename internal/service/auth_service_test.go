package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cforclown/school-admin/internal/auth"
	"github.com/cforclown/school-admin/internal/domain"
	apperrors "github.com/cforclown/school-admin/pkg/util"
)

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	role := f.role(t, "admin", domain.FullAccess())
	f.user(t, "dewi", "secret123", "")

	session, err := f.auth.Login(ctx, "dewi", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Tokens.AccessToken)
	assert.NotEmpty(t, session.Tokens.RefreshToken)
	assert.EqualValues(t, 60, session.Tokens.ExpiresIn)

	claims, err := f.tokens.VerifyAccess(session.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleRef{ID: role.ID, Name: "admin"}, claims.User.Role)

	_, err = f.auth.Login(ctx, "dewi", "wrong")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	_, err = f.auth.Login(ctx, "nobody", "secret123")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.role(t, "member", nil)
	dewi := f.user(t, "dewi", "secret123", "")

	session, err := f.auth.Login(ctx, "dewi", "secret123")
	require.NoError(t, err)

	renewed, err := f.auth.Refresh(ctx, session.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, dewi.ID, renewed.User.ID)
	assert.NotEmpty(t, renewed.Tokens.AccessToken)

	_, err = f.auth.Refresh(ctx, session.Tokens.AccessToken)
	assert.ErrorIs(t, err, auth.ErrTokenSignature)

	_, err = f.users.Delete(ctx, "", dewi.ID)
	require.NoError(t, err)

	renewed, err = f.auth.Refresh(ctx, session.Tokens.RefreshToken)
	assert.Nil(t, renewed)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	principal := dewi.Principal()
	_, err = f.auth.Verify(ctx, &principal)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestLoginUnknownUserStillComparesPassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.role(t, "member", nil)
	f.user(t, "dewi", "secret123", "")

	var hashes []string
	f.auth.compare = func(hashed, plain string) error {
		hashes = append(hashes, hashed)
		return auth.ComparePassword(hashed, plain)
	}

	_, err := f.auth.Login(ctx, "nobody", "secret123")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	require.Len(t, hashes, 1)
	assert.Equal(t, f.auth.decoy, hashes[0])
	assert.NotEmpty(t, f.auth.decoy)

	_, err = f.auth.Login(ctx, "dewi", "wrong")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	require.Len(t, hashes, 2)
	assert.NotEqual(t, f.auth.decoy, hashes[1])
}
