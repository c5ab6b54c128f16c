package wallet

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// SeenFilter remembers which transactions have already been processed, so that repeated
// notifications for the same transaction are handled only once. It is safe for concurrent use.
type SeenFilter struct {
	mutex sync.Mutex
	seen  map[common.Hash]struct{}
}

func NewSeenFilter() *SeenFilter {
	return &SeenFilter{
		seen: make(map[common.Hash]struct{}),
	}
}

// MarkSeen records the transaction and reports whether this is the first time it was seen.
func (f *SeenFilter) MarkSeen(hash common.Hash) bool {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if _, alreadySeen := f.seen[hash]; alreadySeen {
		return false
	}
	f.seen[hash] = struct{}{}

	return true
}

// Seen reports whether the transaction has already been recorded.
func (f *SeenFilter) Seen(hash common.Hash) bool {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	_, alreadySeen := f.seen[hash]
	return alreadySeen
}

// Len is the number of distinct transactions recorded.
func (f *SeenFilter) Len() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	return len(f.seen)
}
