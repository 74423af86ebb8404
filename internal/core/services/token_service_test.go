package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/strivehq/strive-engine/internal/core/domain"
	"github.com/strivehq/strive-engine/internal/core/services"
	"github.com/stretchr/testify/assert"
)

func TestTokenService(t *testing.T) {
	repo := NewMockUserRepo()
	user, _ := domain.NewUser("u1", "u1@example.com", "")
	_ = repo.Create(context.Background(), user)

	svc := services.NewTokenService("test-secret", "strive-engine", time.Hour, repo)

	t.Run("Success: Round trip", func(t *testing.T) {
		token, err := svc.GenerateToken("u1")
		assert.Nil(t, err)
		assert.NotEmpty(t, token)

		userID, err := svc.ValidateToken(token)
		assert.Nil(t, err)
		assert.Equal(t, "u1", userID)
	})

	t.Run("Error: Garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.NotNil(t, err)
	})

	t.Run("Error: Wrong issuer", func(t *testing.T) {
		other := services.NewTokenService("test-secret", "someone-else", time.Hour, repo)
		token, _ := other.GenerateToken("u1")

		_, err := svc.ValidateToken(token)
		assert.NotNil(t, err)
	})

	t.Run("Error: Deleted user fails validation", func(t *testing.T) {
		token, _ := svc.GenerateToken("ghost")

		_, err := svc.ValidateToken(token)
		assert.NotNil(t, err)
	})

	t.Run("Error: Expired token", func(t *testing.T) {
		shortLived := services.NewTokenService("test-secret", "strive-engine", -time.Minute, repo)
		token, _ := shortLived.GenerateToken("u1")

		_, err := shortLived.ValidateToken(token)
		assert.NotNil(t, err)
	})
}
