package redisx

import "time"

const (
	// Cached on-hand total per product: inv:onhand:{product_id} -> int
	KeyInventoryOnHand = "inv:onhand:%d"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLInventoryCache = 30 * time.Second
	TTLDedup          = 48 * time.Hour
)
