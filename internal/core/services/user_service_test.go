package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hspware/hospital_billing_app/internal/apperrors"
	"github.com/hspware/hospital_billing_app/internal/core/domain"
	"github.com/hspware/hospital_billing_app/internal/core/services"
	"github.com/hspware/hospital_billing_app/internal/dto"
	"github.com/hspware/hospital_billing_app/internal/utils"
)

func TestUserService_CreateUser_HashesPasswordAndDefaultsRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := services.NewUserService(mockRepo)

	var saved domain.User
	mockRepo.On("SaveUser", mock.Anything, mock.AnythingOfType("domain.User")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.User) }).Return(nil)

	user, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Name:     "Front Desk",
		Username: "frontdesk",
		Password: "s3cret-pass",
	}, uuid.NewString())

	require.NoError(t, err)
	assert.Equal(t, domain.RoleReception, user.Role)
	assert.NotEqual(t, "s3cret-pass", saved.PasswordHash)
	assert.True(t, utils.CheckPasswordHash("s3cret-pass", saved.PasswordHash))
}

func TestUserService_AuthenticateUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := services.NewUserService(mockRepo)

	hash, err := utils.HashPassword("correct-horse")
	require.NoError(t, err)
	user := &domain.User{UserID: uuid.NewString(), Username: "admin", PasswordHash: hash, Role: domain.RoleAdmin}
	mockRepo.On("FindUserByUsername", mock.Anything, "admin").Return(user, nil)

	got, err := svc.AuthenticateUser(context.Background(), "admin", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.UserID, got.UserID)

	_, err = svc.AuthenticateUser(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestUserService_AuthenticateUser_UnknownUsername(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := services.NewUserService(mockRepo)

	mockRepo.On("FindUserByUsername", mock.Anything, "ghost").Return(nil, apperrors.ErrNotFound)

	_, err := svc.AuthenticateUser(context.Background(), "ghost", "whatever")
	// Unknown usernames and bad passwords are indistinguishable to the caller.
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestUserService_DeleteUser_SelfDeleteRejected(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := services.NewUserService(mockRepo)

	userID := uuid.NewString()
	err := svc.DeleteUser(context.Background(), userID, userID)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	mockRepo.AssertNotCalled(t, "MarkUserDeleted")
}
