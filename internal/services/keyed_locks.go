package services

import (
	"hash/fnv"
	"strconv"
	"sync"
)

const lockStripes = 64

// keyedLocks serialises work per key with a fixed number of stripes. Distinct
// keys may share a stripe.
type keyedLocks struct {
	stripes [lockStripes]sync.Mutex
}

func (locks *keyedLocks) lock(key string) func() {
	hasher := fnv.New32a()
	_, _ = hasher.Write([]byte(key))
	stripe := &locks.stripes[hasher.Sum32()%lockStripes]
	stripe.Lock()
	return stripe.Unlock
}

func pairLockKey(low uint, high uint) string {
	return strconv.FormatUint(uint64(low), 10) + ":" + strconv.FormatUint(uint64(high), 10)
}

func userLockKey(userID uint) string {
	return "user:" + strconv.FormatUint(uint64(userID), 10)
}
