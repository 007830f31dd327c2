package service

import (
	"testing"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/dafibh/spendwise/spendwise-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCategories_ActiveOnlySortedByName(t *testing.T) {
	repo := testutil.NewMockCategoryRepository()
	userID := uuid.New()
	other := uuid.New()

	repo.AddCategory(&domain.Category{ID: uuid.New(), UserID: userID, Name: "Transport", IsActive: true})
	repo.AddCategory(&domain.Category{ID: uuid.New(), UserID: userID, Name: "Food", IsActive: true})
	repo.AddCategory(&domain.Category{ID: uuid.New(), UserID: userID, Name: "Archived", IsActive: false})
	repo.AddCategory(&domain.Category{ID: uuid.New(), UserID: other, Name: "Foreign", IsActive: true})

	cats, err := NewCategoryService(repo).GetCategories(userID)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Food", cats[0].Name)
	assert.Equal(t, "Transport", cats[1].Name)
}
