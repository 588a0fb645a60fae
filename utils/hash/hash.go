// Package hash provides keyed 32-bit hash used to derive stable short names.
package hash

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/zeebo/xxh3"
)

// ErrNotInitialized is returned by Sum when Init was never called.
var ErrNotInitialized = errors.New("hash primitive is not initialized")

var (
	once        sync.Once
	initialized atomic.Bool
)

// Init prepares hash primitive. It is safe to call more than once and from
// several goroutines, only first call has any effect.
func Init() {
	once.Do(func() {
		initialized.Store(true)
	})
}

// Sum returns 8 lowercase hex characters of the 32-bit keyed hash of value.
// Result depends only on value and seed.
func Sum(value string, seed uint32) (string, error) {
	if !initialized.Load() {
		return "", ErrNotInitialized
	}
	h := xxh3.HashStringSeed(value, uint64(seed))
	return fmt.Sprintf("%08x", uint32(h^h>>32)), nil
}
