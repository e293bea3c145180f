package internal

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Shard Type (partition of the entry map)
// --------------------------------------------------------------------------

// Shard represents a partition of the entry map
// Each shard has its own independent map
type Shard struct {
	Data *xsync.MapOf[string, any] // Map of active key-value entries
}

// NewShard creates a new empty shard
func NewShard() *Shard {
	return &Shard{
		Data: xsync.NewMapOf[string, any](),
	}
}
