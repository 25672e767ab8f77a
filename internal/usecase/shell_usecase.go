package usecase

import (
	"context"

	"boutique/internal/domain/entity"
)

// NavLink is one link of the shell.
type NavLink struct {
	Label    string `json:"label"`
	Path     string `json:"path"`
	External bool   `json:"external,omitempty"`
}

// MegaMenu is a top-level navbar entry with its submenu.
type MegaMenu struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Path  string    `json:"path"`
	Items []NavLink `json:"items"`
}

// Navbar is the top bar.
type Navbar struct {
	Brand             NavLink    `json:"brand"`
	Menus             []MegaMenu `json:"menus"`
	Links             []NavLink  `json:"links"`
	UserLink          NavLink    `json:"userLink"`
	AdminLink         *NavLink   `json:"adminLink,omitempty"`
	CartLink          NavLink    `json:"cartLink"`
	NotificationsLink NavLink    `json:"notificationsLink"`
	ShowLogout        bool       `json:"showLogout"`
	Drawer            []NavLink  `json:"drawer"`
}

// FooterSection is one column of the footer.
type FooterSection struct {
	Title string    `json:"title"`
	Links []NavLink `json:"links"`
}

// SidebarSection is one group of the admin sidebar.
type SidebarSection struct {
	Title string    `json:"title"`
	Links []NavLink `json:"links"`
}

// Shell is the navigation frame around every page.
type Shell struct {
	Navbar       Navbar           `json:"navbar"`
	Footer       []FooterSection  `json:"footer"`
	Copyright    string           `json:"copyright"`
	AdminSidebar []SidebarSection `json:"adminSidebar,omitempty"`
}

// ShellUsecase renders the shell for the caller; user is nil for anonymous visitors.
type ShellUsecase interface {
	Shell(ctx context.Context, user *entity.CurrentUser) (*Shell, error)
}
