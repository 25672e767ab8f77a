package navigation

// Page names of the client route table.
const (
	PageHome             = "home"
	PageCategories       = "categories"
	PageCategory         = "category"
	PageLogin            = "login"
	PageRegister         = "register"
	PageAccount          = "account"
	PageAccountOrders    = "account-orders"
	PageAccountAddresses = "account-addresses"
	PageAccountSecurity  = "account-security"
	PageAdminDashboard   = "admin-dashboard"
	PageAdminOrders      = "admin-orders"
	PageAdminUsers       = "admin-users"
	PageAdminProducts    = "admin-products"
	PageAdminProductNew  = "admin-product-new"
	PageAdminCategories  = "admin-categories"
	PageNotFound         = "not-found"
)

// IsReservedSlug reports whether slug is a fixed segment of the account paths,
// which a user slug must never equal.
func IsReservedSlug(slug string) bool {
	switch slug {
	case "admin", "connexion", "inscription",
		"commandes", "adresses", "securite",
		"utilisateurs", "produits", "categories", "ajouter":
		return true
	}

	return false
}

// Route is a resolved client path.
type Route struct {
	Page   string            `json:"page"`
	Area   Area              `json:"area"`
	Params map[string]string `json:"params"`
}

// RouteTable maps client paths to pages and back.
type RouteTable interface {
	// Resolve maps a path to its page; unknown paths resolve to PageNotFound.
	Resolve(path string) Route

	// Path builds the path of a page from variable name/value pairs.
	Path(page string, pairs ...string) string
}
