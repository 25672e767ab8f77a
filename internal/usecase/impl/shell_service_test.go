package impl

import (
	"context"
	"testing"

	"boutique/internal/domain/entity"
	"boutique/internal/infra/navigation"
	"boutique/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (env *testEnv) shellService() usecase.ShellUsecase {
	return NewShellService(ShellServiceParams{
		CategoryRepo:  env.categories,
		CategoryCache: env.categoryCache(),
		Routes:        navigation.NewRouteTable(),
		Logger:        env.logger,
	})
}

func menuPaths(menu usecase.MegaMenu) []string {
	paths := make([]string, 0, len(menu.Items))
	for _, item := range menu.Items {
		paths = append(paths, item.Path)
	}

	return paths
}

func TestShellService_Anonymous(t *testing.T) {
	env := newTestEnv(t)
	femmes := env.seedCategory(t, "Femmes", "femmes", nil)
	env.seedCategory(t, "Robes", "robes", &femmes.ID)

	shell, err := env.shellService().Shell(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, "/compte/connexion", shell.Navbar.UserLink.Path)
	assert.False(t, shell.Navbar.ShowLogout)
	assert.Nil(t, shell.Navbar.AdminLink)
	assert.Empty(t, shell.AdminSidebar)

	require.NotEmpty(t, shell.Navbar.Menus)
	categories := shell.Navbar.Menus[0]
	assert.Equal(t, "categories", categories.Key)
	assert.Equal(t, []string{"/categories/femmes", "/categories/robes"}, menuPaths(categories))
	assert.NotEmpty(t, shell.Footer)
}

func TestShellService_Admin(t *testing.T) {
	env := newTestEnv(t)
	user := &entity.CurrentUser{UserSlug: "alice-admin", Role: entity.RoleAdmin}

	shell, err := env.shellService().Shell(context.Background(), user)
	require.NoError(t, err)

	assert.Equal(t, "/compte/alice-admin", shell.Navbar.UserLink.Path)
	assert.True(t, shell.Navbar.ShowLogout)
	require.NotNil(t, shell.Navbar.AdminLink)
	assert.Equal(t, "/compte/admin/alice-admin", shell.Navbar.AdminLink.Path)
	require.Len(t, shell.AdminSidebar, 2)
	assert.Equal(t, "/compte/admin/alice-admin/produits/ajouter", shell.AdminSidebar[1].Links[0].Path)
}

func TestShellService_CategoriesUnavailable(t *testing.T) {
	env := newTestEnv(t)
	sqlDB, err := env.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	shell, err := env.shellService().Shell(context.Background(), &entity.CurrentUser{UserSlug: "jean-dupont", Role: entity.RoleCustomer})
	require.NoError(t, err)
	assert.Empty(t, shell.Navbar.Menus[0].Items)
	assert.Nil(t, shell.Navbar.AdminLink)
}
