package account

// CanView reports whether the authenticated principal may read the account.
// Accounts are self-only resources.
func CanView(u User, principalID string) bool {
	return u.ID == principalID
}
