package reservation

import (
	"hash/fnv"
	"sync"

	"deskhive/models"
)

const lockShards = 64

// keyLocks serializes hold/confirm/release/expire per slot instance while
// letting unrelated slot instances proceed in parallel. Striping keeps the
// lock table bounded; two keys hashing to the same shard serialize against
// each other, which is harmless for correctness.
type keyLocks struct {
	shards [lockShards]sync.Mutex
}

// slotLocks is shared by the hold service, the confirmation service, and
// the expiry sweeper: all four protocol operations on one slot instance
// serialize through the same stripe.
var slotLocks = &keyLocks{}

func (l *keyLocks) lock(key models.SlotInstanceKey) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key.String()))
	mu := &l.shards[h.Sum32()%lockShards]
	mu.Lock()
	return mu
}
