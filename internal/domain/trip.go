package domain

import "time"

// Trip represents the trip a ledger belongs to. Trips are owned by the
// planning subsystem; the ledger only reads them for currency and existence.
type Trip struct {
	ID        string
	Name      string
	Currency  string
	CreatedAt time.Time
}
