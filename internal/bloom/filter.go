// Package bloom provides a probabilistic membership filter used as a
// negative cache over stored credential hashes: a miss proves the hash was
// never inserted, so the store lookup can be skipped.
package bloom

import (
	"math"
	"sync"

	"github.com/spaolacci/murmur3"
)

// Filter is a standard bloom filter with murmur3 double hashing. It
// guarantees no false negatives: if an item was added, Contains always
// returns true for it.
type Filter struct {
	mu        sync.RWMutex
	bits      []uint64
	numBits   uint64
	numHashes uint64
	count     uint64
}

// New creates a filter sized for the expected number of items at the target
// false positive rate, using the usual optima
//
//	m = -n * ln(p) / ln(2)^2
//	k = (m/n) * ln(2)
//
// rounded up to whole 64-bit words.
func New(expectedItems int, targetFPR float64) *Filter {
	if expectedItems <= 0 {
		expectedItems = 1024
	}
	if targetFPR <= 0 || targetFPR >= 1 {
		targetFPR = 0.01
	}

	n := float64(expectedItems)
	m := -n * math.Log(targetFPR) / (math.Ln2 * math.Ln2)
	k := math.Ceil((m / n) * math.Ln2)
	if k < 1 {
		k = 1
	}

	numWords := (int(math.Ceil(m)) + 63) / 64
	if numWords < 1 {
		numWords = 1
	}

	return &Filter{
		bits:      make([]uint64, numWords),
		numBits:   uint64(numWords) * 64,
		numHashes: uint64(k),
	}
}

// Add inserts an item.
func (f *Filter) Add(item []byte) {
	h1, h2 := murmur3.Sum128(item)

	f.mu.Lock()
	defer f.mu.Unlock()

	for i := uint64(0); i < f.numHashes; i++ {
		pos := (h1 + i*h2) % f.numBits
		f.bits[pos/64] |= 1 << (pos % 64)
	}
	f.count++
}

// Contains reports whether an item may have been added. False positives are
// possible at roughly the configured rate; false negatives are not.
func (f *Filter) Contains(item []byte) bool {
	h1, h2 := murmur3.Sum128(item)

	f.mu.RLock()
	defer f.mu.RUnlock()

	for i := uint64(0); i < f.numHashes; i++ {
		pos := (h1 + i*h2) % f.numBits
		if f.bits[pos/64]&(1<<(pos%64)) == 0 {
			return false
		}
	}
	return true
}

// Count returns the number of items added.
func (f *Filter) Count() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.count
}
