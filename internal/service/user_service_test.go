package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentor-go-api/internal/dto"
)

func TestUserServiceRegister(t *testing.T) {
	users := &stubUserRepo{}
	svc := NewUserService(users, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	created, err := svc.Register(context.Background(), dto.UserCreateRequest{Name: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, "jane@example.com", created.Email)

	_, err = svc.Register(context.Background(), dto.UserCreateRequest{Name: "Jane", Email: "jane@example.com"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserServiceRejectsInvalidEmail(t *testing.T) {
	svc := NewUserService(&stubUserRepo{}, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	_, err := svc.Register(context.Background(), dto.UserCreateRequest{Name: "Jane", Email: "not-an-email"})
	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)
}
