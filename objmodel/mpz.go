package objmodel

import "github.com/oxheap/compactor/bignum"

// MPZ is an arbitrary-precision integer object.
type MPZ struct {
	Value *bignum.MPZ
}

func (m *MPZ) Tag() Tag { return TagMPZ }
