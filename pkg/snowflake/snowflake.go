// Package snowflake issues process-unique int64 ids for stored rows.
package snowflake

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	mu   sync.RWMutex
	node *snowflake.Node
)

// Init configures the generator for the given node id (0..1023).
func Init(nodeID int64) error {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return fmt.Errorf("init snowflake node %d: %w", nodeID, err)
	}
	mu.Lock()
	node = n
	mu.Unlock()
	return nil
}

// NextID returns a new id. It falls back to node 0 when Init was never called.
func NextID() int64 {
	mu.RLock()
	n := node
	mu.RUnlock()
	if n == nil {
		if err := Init(0); err != nil {
			panic(err)
		}
		mu.RLock()
		n = node
		mu.RUnlock()
	}
	return n.Generate().Int64()
}
