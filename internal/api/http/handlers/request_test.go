package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cforclown/school-admin/internal/api/dto"
	apperrors "github.com/cforclown/school-admin/pkg/util"
)

func TestValidateStructUsesJSONNames(t *testing.T) {
	bad := "not-an-email"
	err := validateStruct(&dto.CreateUserRequest{Username: "ab", Email: &bad, Password: "short"})

	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, apperrors.CodeValidation, domainErr.Code)
	assert.Equal(t, map[string]any{
		"username": "min",
		"fullname": "required",
		"email":    "email",
		"password": "min",
	}, domainErr.Details)
}

func TestValidateStructAcceptsOptionalFields(t *testing.T) {
	assert.NoError(t, validateStruct(&dto.UpdateProfileRequest{}))
	assert.NoError(t, validateStruct(&dto.CreateStudentRequest{Fullname: "Andi", NIM: "1", DateOfBirth: "2008-03-14"}))
}
