package memory

import (
	"context"
	"testing"

	"github.com/maheshrc27/foodblog-api/internal/models"
	"github.com/maheshrc27/foodblog-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStore_EmailIsUnique(t *testing.T) {
	store := NewUserStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &models.User{Username: "a", Email: "Cook@Example.com"}))
	err := store.Create(ctx, &models.User{Username: "b", Email: "cook@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	u, found, err := store.GetByEmail(ctx, "COOK@example.com")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "a", u.Username)

	count, _ := store.Count(ctx)
	assert.EqualValues(t, 1, count)
}
