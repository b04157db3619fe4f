package client

import "testing"

func TestCanAccess(t *testing.T) {
	owned := Client{ID: "c1", OwnerID: "u1"}

	if !CanAccess(owned, "u1") {
		t.Fatalf("owner should access their client")
	}
	if CanAccess(owned, "u2") {
		t.Fatalf("non-owner must not access the client")
	}
	if CanAccess(Client{ID: "c2"}, "") {
		t.Fatalf("empty principal must never match")
	}
}
