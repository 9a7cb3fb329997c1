package model

import "time"

// OrderQuery selects orders for listing, used by backfill runs.
// Zero values mean "no constraint"; Page/PerPage follow the WooCommerce
// REST pagination model (1-based pages).
type OrderQuery struct {
	Statuses []string
	After    time.Time
	Before   time.Time
	Page     int
	PerPage  int
}
