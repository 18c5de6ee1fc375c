package domain

// Member identifies the authenticated caller of a member-only route.
type Member struct {
	UserID string
	Sudo   bool
}
