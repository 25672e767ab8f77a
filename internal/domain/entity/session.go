package entity

// SessionSnapshot is an immutable view of the auth context at one point in time.
type SessionSnapshot struct {
	Version     uint64       `json:"version"`
	Loading     bool         `json:"loading"`
	CurrentUser *CurrentUser `json:"currentUser"`
}

// SignedIn reports whether the snapshot carries a user.
func (s SessionSnapshot) SignedIn() bool {
	return s.CurrentUser != nil
}
