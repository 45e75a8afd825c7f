// Package bignum wraps math/big to provide the decimal string round trip
// the MPZ tag depends on.
package bignum

import (
	"fmt"
	"math/big"
	"sync/atomic"
)

var destroyed uint64

// DestroyedCount returns the number of MPZ.Destroy calls observed so far,
// process-wide.
func DestroyedCount() uint64 {
	return atomic.LoadUint64(&destroyed)
}

// MPZ is an arbitrary-precision integer value.
type MPZ struct {
	v *big.Int
}

func New(v *big.Int) *MPZ {
	return &MPZ{v: new(big.Int).Set(v)}
}

func FromInt64(n int64) *MPZ {
	return &MPZ{v: big.NewInt(n)}
}

// Parse reconstructs an MPZ from its decimal string form, as produced by
// Text.
func Parse(s string) (*MPZ, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("bignum: invalid decimal string %q", s)
	}
	return &MPZ{v: v}, nil
}

func (m *MPZ) Text() string {
	return m.v.Text(10)
}

func (m *MPZ) BigInt() *big.Int {
	return new(big.Int).Set(m.v)
}

func (m *MPZ) Destroy() {
	atomic.AddUint64(&destroyed, 1)
}
