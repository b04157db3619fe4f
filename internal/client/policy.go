package client

// CanAccess reports whether the authenticated principal owns the client.
func CanAccess(c Client, principalID string) bool {
	return principalID != "" && c.OwnerID == principalID
}
