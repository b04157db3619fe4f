package mobile

import "time"

// Mobile is a catalog entry. Visibility is set membership: a user sees a
// mobile only when enrolled on it, there is no single owner.
type Mobile struct {
	ID          string
	Brand       string
	Model       string
	Description string
	PriceCents  int64
	CreatedAt   time.Time
}
