package jwt_test

import (
	"testing"

	"liveclass-service/internal/jwt"
	"liveclass-service/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := &model.User{ID: uuid.New(), Name: "Ana", Email: "ana@example.com", Role: "student"}

	accessToken, refreshToken, err := jwt.GenerateTokens(user)
	require.NoError(t, err)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, refreshToken)

	claims, err := jwt.ValidateToken(accessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID.String(), claims["sub"])
	require.Equal(t, "student", claims["role"])
}

func TestValidateToken_RejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := &model.User{ID: uuid.New(), Role: "student"}
	accessToken, _, err := jwt.GenerateTokens(user)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "another-secret")
	_, err = jwt.ValidateToken(accessToken)
	require.Error(t, err)
}
