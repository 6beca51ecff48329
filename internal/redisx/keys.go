package redisx

import "time"

const (
	// Cached rankings: JSON arrays of the latest aggregation.
	KeyTopClients = "analytics:top_clients"
	KeyTopSellers = "analytics:top_sellers"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var TTLDedup = 48 * time.Hour
