package account

import "testing"

func TestCanView(t *testing.T) {
	user := User{ID: "u1"}

	if !CanView(user, "u1") {
		t.Fatalf("owner should be able to view their own account")
	}
	if CanView(user, "u2") {
		t.Fatalf("another principal must not view the account")
	}
	if CanView(user, "") {
		t.Fatalf("empty principal must not view the account")
	}
}
