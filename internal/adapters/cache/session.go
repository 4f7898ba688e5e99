package cache

import (
	"time"

	"github.com/openplaylab/courtflow/internal/scheduler"
)

type SessionCache = Cache[*scheduler.Session]

// NewTTLSessionCache keeps live sessions resident while they see traffic.
// Expiry only evicts the in-memory copy; the session itself lives in the
// repository and is rehydrated on the next command.
func NewTTLSessionCache(ttl time.Duration) SessionCache {
	return NewTTLCache[*scheduler.Session](ttl)
}
