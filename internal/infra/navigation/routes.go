// Package navigation registers the storefront's client route table on a gorilla/mux
// router so that paths can be resolved to pages and built back from page names.
package navigation

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	domainnav "boutique/internal/domain/navigation"
)

const slugPattern = "{userSlug:[a-z0-9-]+}"

type routeDef struct {
	name string
	path string
	area domainnav.Area
}

// Order matters: mux returns the first match, so literals precede patterns.
var routeDefs = []routeDef{
	{domainnav.PageHome, "/", domainnav.AreaPublic},
	{domainnav.PageCategories, "/categories", domainnav.AreaPublic},
	{domainnav.PageCategory, "/categories/{slug}", domainnav.AreaPublic},
	{domainnav.PageLogin, "/compte/connexion", domainnav.AreaPublic},
	{domainnav.PageRegister, "/compte/inscription", domainnav.AreaPublic},
	{domainnav.PageAdminDashboard, "/compte/admin/" + slugPattern, domainnav.AreaAdmin},
	{domainnav.PageAdminOrders, "/compte/admin/" + slugPattern + "/commandes", domainnav.AreaAdmin},
	{domainnav.PageAdminUsers, "/compte/admin/" + slugPattern + "/utilisateurs", domainnav.AreaAdmin},
	{domainnav.PageAdminProducts, "/compte/admin/" + slugPattern + "/produits", domainnav.AreaAdmin},
	{domainnav.PageAdminProductNew, "/compte/admin/" + slugPattern + "/produits/ajouter", domainnav.AreaAdmin},
	{domainnav.PageAdminCategories, "/compte/admin/" + slugPattern + "/categories", domainnav.AreaAdmin},
	{domainnav.PageAccount, "/compte/" + slugPattern, domainnav.AreaAccount},
	{domainnav.PageAccountOrders, "/compte/" + slugPattern + "/commandes", domainnav.AreaAccount},
	{domainnav.PageAccountAddresses, "/compte/" + slugPattern + "/adresses", domainnav.AreaAccount},
	{domainnav.PageAccountSecurity, "/compte/" + slugPattern + "/securite", domainnav.AreaAccount},
}

// RouteTable resolves client paths with a mux router.
type RouteTable struct {
	router *mux.Router
	areas  map[string]domainnav.Area
}

var _ domainnav.RouteTable = (*RouteTable)(nil)

// NewRouteTable registers every client route.
func NewRouteTable() *RouteTable {
	t := &RouteTable{
		router: mux.NewRouter(),
		areas:  make(map[string]domainnav.Area, len(routeDefs)),
	}
	for _, def := range routeDefs {
		t.router.NewRoute().Name(def.name).Path(def.path).Methods(http.MethodGet)
		t.areas[def.name] = def.area
	}

	return t
}

// Resolve maps a client path to its page. Unknown paths resolve to the public not-found page.
func (t *RouteTable) Resolve(path string) domainnav.Route {
	notFound := domainnav.Route{Page: domainnav.PageNotFound, Area: domainnav.AreaPublic, Params: map[string]string{}}

	path = "/" + strings.Trim(path, "/")
	req, err := http.NewRequest(http.MethodGet, (&url.URL{Path: path}).String(), nil)
	if err != nil {
		return notFound
	}

	var match mux.RouteMatch
	if !t.router.Match(req, &match) || match.Route == nil {
		return notFound
	}

	name := match.Route.GetName()
	params := match.Vars
	if params == nil {
		params = map[string]string{}
	}

	return domainnav.Route{Page: name, Area: t.areas[name], Params: params}
}

// Path builds the client path of a named page. pairs are mux variable name/value pairs.
// An unknown page or a missing variable yields the root path.
func (t *RouteTable) Path(page string, pairs ...string) string {
	route := t.router.Get(page)
	if route == nil {
		return "/"
	}

	u, err := route.URLPath(pairs...)
	if err != nil {
		return "/"
	}

	return u.Path
}
