package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kupolls/api/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserGetByID(t *testing.T) {
	userRepo := newFakeUserRepo()
	service := NewUserService(userRepo)

	seeded := &domain.User{Username: "alice", CreatedAt: time.Now()}
	require.NoError(t, userRepo.Create(context.Background(), seeded))

	user, err := service.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestUserGetByIDNotFound(t *testing.T) {
	service := NewUserService(newFakeUserRepo())

	_, err := service.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
