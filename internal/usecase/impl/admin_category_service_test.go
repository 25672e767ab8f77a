package impl

import (
	"context"
	"testing"

	domainerrors "boutique/internal/domain/errors"
	"boutique/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminCategoryService_Create(t *testing.T) {
	env := newTestEnv(t)
	srv := env.adminCategoryService()
	ctx := context.Background()

	out, err := srv.Create(ctx, &usecase.CategoryInput{Name: " Vêtements d'été "})
	require.NoError(t, err)
	require.Len(t, out.Categories, 1)
	parent := out.Categories[0]
	assert.Equal(t, "Vêtements d'été", parent.Name)
	assert.Equal(t, "vetements-dete", parent.Slug)

	out, err = srv.Create(ctx, &usecase.CategoryInput{Name: "Robes", ParentID: &parent.ID})
	require.NoError(t, err)
	require.Len(t, out.Tree, 1)
	require.Len(t, out.Tree[0].Children, 1)
	assert.Equal(t, "robes", out.Tree[0].Children[0].Slug)

	_, err = srv.Create(ctx, &usecase.CategoryInput{Name: "ROBES"})
	assert.ErrorIs(t, err, domainerrors.ErrCategorySlugTaken)

	missing := uuid.New()
	_, err = srv.Create(ctx, &usecase.CategoryInput{Name: "Vestes", ParentID: &missing})
	assert.ErrorIs(t, err, domainerrors.ErrCategoryNotFound)

	_, err = srv.Create(ctx, &usecase.CategoryInput{Name: "!!!"})
	var verr *domainerrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "slug", verr.Fields["name"])
}

func TestAdminCategoryService_Update_RejectsCycles(t *testing.T) {
	env := newTestEnv(t)
	srv := env.adminCategoryService()
	ctx := context.Background()

	root := env.seedCategory(t, "Femmes", "femmes", nil)
	child := env.seedCategory(t, "Robes", "robes", &root.ID)
	grandChild := env.seedCategory(t, "Robes longues", "robes-longues", &child.ID)

	_, err := srv.Update(ctx, root.ID, &usecase.CategoryInput{Name: "Femmes", ParentID: &root.ID})
	assert.ErrorIs(t, err, domainerrors.ErrCategoryCycle)

	_, err = srv.Update(ctx, root.ID, &usecase.CategoryInput{Name: "Femmes", ParentID: &grandChild.ID})
	assert.ErrorIs(t, err, domainerrors.ErrCategoryCycle)

	out, err := srv.Update(ctx, grandChild.ID, &usecase.CategoryInput{Name: "Maxi robes", ParentID: &root.ID})
	require.NoError(t, err)
	require.Len(t, out.Tree, 1)
	assert.Len(t, out.Tree[0].Children, 2)

	moved, err := env.categories.FindByID(ctx, grandChild.ID)
	require.NoError(t, err)
	assert.Equal(t, "maxi-robes", moved.Slug)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, root.ID, *moved.ParentID)
}

func TestAdminCategoryService_Delete(t *testing.T) {
	env := newTestEnv(t)
	srv := env.adminCategoryService()
	ctx := context.Background()

	root := env.seedCategory(t, "Femmes", "femmes", nil)
	child := env.seedCategory(t, "Robes", "robes", &root.ID)
	env.seedProduct(t, "Robe", child.ID, "30.00", 1)

	_, err := srv.Delete(ctx, child.ID)
	assert.ErrorIs(t, err, domainerrors.ErrCategoryInUse)

	out, err := srv.Delete(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, out.Categories, 1)
	assert.Nil(t, out.Categories[0].ParentID, "children become roots")

	_, err = srv.Delete(ctx, root.ID)
	assert.ErrorIs(t, err, domainerrors.ErrCategoryNotFound)
}
