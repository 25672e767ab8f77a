package impl

import (
	"context"
	"log/slog"

	"boutique/internal/domain/constants"
	"boutique/internal/domain/entity"
	"boutique/internal/domain/navigation"
	"boutique/internal/domain/repository"
	"boutique/internal/domain/service"
	"boutique/internal/usecase"

	"go.uber.org/fx"
)

const (
	shellBrand     = "Ecommerce"
	shellCopyright = "© 2025 Trendlama. All rights reserved."
)

var (
	menuHommes = usecase.MegaMenu{Key: "hommes", Label: "Hommes", Path: "/hommes", Items: []usecase.NavLink{
		{Label: "T-shirts", Path: "/hommes/t-shirts"},
		{Label: "Pantalons", Path: "/hommes/pantalons"},
		{Label: "Vestes", Path: "/hommes/vestes"},
		{Label: "Chaussures", Path: "/hommes/chaussures"},
	}}
	menuFemmes = usecase.MegaMenu{Key: "femmes", Label: "Femmes", Path: "/femmes", Items: []usecase.NavLink{
		{Label: "Robes", Path: "/femmes/robes"},
		{Label: "Hauts", Path: "/femmes/hauts"},
		{Label: "Pantalons", Path: "/femmes/pantalons"},
		{Label: "Chaussures", Path: "/femmes/chaussures"},
	}}
	menuEnfants = usecase.MegaMenu{Key: "enfants", Label: "Enfants", Path: "/enfants", Items: []usecase.NavLink{
		{Label: "Bébé (0-2 ans)", Path: "/enfants/bebe"},
		{Label: "Enfant (3-12 ans)", Path: "/enfants/enfant"},
		{Label: "Ado (13-16 ans)", Path: "/enfants/ado"},
		{Label: "Jouets", Path: "/enfants/jouets"},
	}}

	navbarLinks = []usecase.NavLink{
		{Label: "Chaussures", Path: "/chaussures"},
		{Label: "Accessoires", Path: "/accessoires"},
	}

	footerSections = []usecase.FooterSection{
		{Title: "Liens rapides", Links: []usecase.NavLink{
			{Label: "Homepage", Path: constants.PathRoot},
			{Label: "Hommes", Path: "/hommes"},
			{Label: "Femmes", Path: "/femmes"},
			{Label: "Catalogue", Path: "/catalogue"},
		}},
		{Title: "À propos", Links: []usecase.NavLink{
			{Label: "Politique de confidentialité", Path: "/politique-confidentialite"},
			{Label: "Mentions Légales", Path: "/mentions-legales"},
			{Label: "Conditions Générales de Ventes", Path: "/cgv"},
		}},
		{Title: "Aide", Links: []usecase.NavLink{
			{Label: "Centre d'aide", Path: "/centre-aide"},
			{Label: "Contact", Path: "/contact"},
		}},
		{Title: "Réseaux sociaux", Links: []usecase.NavLink{
			{Label: "Instagram", Path: "https://www.instagram.com", External: true},
			{Label: "Facebook", Path: "https://www.facebook.com", External: true},
			{Label: "YouTube", Path: "https://www.youtube.com", External: true},
		}},
	}
)

// shellService implements the ShellUsecase interface.
type shellService struct {
	categories *categoryLoader
	routes     navigation.RouteTable
	logger     *slog.Logger
}

// ShellServiceParams holds dependencies for ShellService, injected by Fx.
type ShellServiceParams struct {
	fx.In

	CategoryRepo  repository.CategoryRepository
	CategoryCache service.CategoryCache
	Routes        navigation.RouteTable
	Logger        *slog.Logger
}

// NewShellService is the constructor for shellService.
func NewShellService(params ShellServiceParams) usecase.ShellUsecase {
	return &shellService{
		categories: &categoryLoader{
			repo:   params.CategoryRepo,
			cache:  params.CategoryCache,
			logger: params.Logger,
		},
		routes: params.Routes,
		logger: params.Logger,
	}
}

// Shell renders the navigation frame for user. A failing category load leaves the
// categories menu empty rather than failing the page.
func (srv *shellService) Shell(ctx context.Context, user *entity.CurrentUser) (*usecase.Shell, error) {
	_, tree, err := srv.categories.tree(ctx)
	if err != nil {
		loggerFrom(ctx, srv.logger).Warn("Shell rendered without categories", slog.Any("error", err))
		tree = nil
	}

	userLink := usecase.NavLink{Label: "Connexion", Path: srv.routes.Path(navigation.PageLogin)}
	if user != nil && user.UserSlug != "" {
		userLink = usecase.NavLink{Label: "Mon compte", Path: srv.routes.Path(navigation.PageAccount, "userSlug", user.UserSlug)}
	}

	navbar := usecase.Navbar{
		Brand:             usecase.NavLink{Label: shellBrand, Path: constants.PathRoot},
		Menus:             []usecase.MegaMenu{srv.categoriesMenu(tree), menuHommes, menuFemmes, menuEnfants},
		Links:             navbarLinks,
		UserLink:          userLink,
		CartLink:          usecase.NavLink{Label: "Panier", Path: "/panier"},
		NotificationsLink: usecase.NavLink{Label: "Notifications", Path: "/notifications"},
		ShowLogout:        user != nil,
		Drawer: []usecase.NavLink{
			{Label: "Accueil", Path: constants.PathRoot},
			{Label: menuHommes.Label, Path: menuHommes.Path},
			{Label: menuFemmes.Label, Path: menuFemmes.Path},
			userLink,
		},
	}

	shell := &usecase.Shell{
		Navbar:    navbar,
		Footer:    footerSections,
		Copyright: shellCopyright,
	}

	if user.IsAdmin() && user.UserSlug != "" {
		shell.Navbar.AdminLink = &usecase.NavLink{
			Label: "Tableau de bord",
			Path:  srv.routes.Path(navigation.PageAdminDashboard, "userSlug", user.UserSlug),
		}
		shell.AdminSidebar = srv.adminSidebar(user.UserSlug)
	}

	return shell, nil
}

// categoriesMenu lists every root category followed by its children.
func (srv *shellService) categoriesMenu(tree []*entity.CategoryNode) usecase.MegaMenu {
	menu := usecase.MegaMenu{
		Key:   "categories",
		Label: "Catégories",
		Path:  srv.routes.Path(navigation.PageCategories),
		Items: []usecase.NavLink{},
	}
	for _, root := range tree {
		menu.Items = append(menu.Items, usecase.NavLink{
			Label: root.Name,
			Path:  srv.routes.Path(navigation.PageCategory, "slug", root.Slug),
		})
		for _, child := range root.Children {
			menu.Items = append(menu.Items, usecase.NavLink{
				Label: child.Name,
				Path:  srv.routes.Path(navigation.PageCategory, "slug", child.Slug),
			})
		}
	}

	return menu
}

func (srv *shellService) adminSidebar(slug string) []usecase.SidebarSection {
	link := func(label, page string) usecase.NavLink {
		return usecase.NavLink{Label: label, Path: srv.routes.Path(page, "userSlug", slug)}
	}

	return []usecase.SidebarSection{
		{Title: "Menu principal", Links: []usecase.NavLink{
			link("Tableau de bord", navigation.PageAdminDashboard),
			link("Commandes", navigation.PageAdminOrders),
			link("Utilisateurs", navigation.PageAdminUsers),
			link("Catégories", navigation.PageAdminCategories),
		}},
		{Title: "Produits", Links: []usecase.NavLink{
			link("Ajouter Produits", navigation.PageAdminProductNew),
			link("Liste de produits", navigation.PageAdminProducts),
		}},
	}
}
