// Package navigation holds the access rules of the client route table.
package navigation

import (
	"boutique/internal/domain/constants"
	"boutique/internal/domain/entity"
)

// Area groups routes sharing an access rule.
type Area string

const (
	AreaPublic  Area = "public"
	AreaAccount Area = "account"
	AreaAdmin   Area = "admin"
)

// Outcome is the kind of guard decision.
type Outcome string

const (
	OutcomeRender   Outcome = "render"
	OutcomeWaiting  Outcome = "waiting"
	OutcomeRedirect Outcome = "redirect"
)

// WaitingPlaceholder is shown while the session is still resolving.
const WaitingPlaceholder = "Vérification des autorisations..."

// Decision is the result of guarding one navigation.
type Decision struct {
	Outcome     Outcome `json:"decision"`
	RedirectTo  string  `json:"redirectTo,omitempty"`
	Placeholder string  `json:"placeholder,omitempty"`
}

// Render lets the protected content through.
func Render() Decision { return Decision{Outcome: OutcomeRender} }

// Waiting shows the neutral placeholder.
func Waiting() Decision {
	return Decision{Outcome: OutcomeWaiting, Placeholder: WaitingPlaceholder}
}

// Redirect sends the caller elsewhere.
func Redirect(to string) Decision {
	return Decision{Outcome: OutcomeRedirect, RedirectTo: to}
}

// Decide evaluates the access rule of area against the session.
// It never redirects while the session is loading.
func Decide(session entity.SessionSnapshot, area Area) Decision {
	if area == AreaPublic {
		return Render()
	}
	if session.Loading {
		return Waiting()
	}
	if !session.SignedIn() {
		return Redirect(constants.PathLogin)
	}
	if area == AreaAdmin && !session.CurrentUser.IsAdmin() {
		return Redirect(constants.PathRoot)
	}

	return Render()
}
