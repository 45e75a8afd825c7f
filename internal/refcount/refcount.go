// Package refcount gives an io.Closer an acquire/release-to-zero lifecycle.
package refcount

import (
	"io"
	"sync/atomic"

	"github.com/v2pro/plz"
	"github.com/v2pro/plz/countlog"
)

// Counted is an io.Closer-backed resource that is only actually released
// once its last acquirer closes it.
type Counted struct {
	resourceName string
	counter      uint32
	resources    []io.Closer
}

// New creates a Counted resource with an initial reference count of 1,
// owning resources that are closed together when the count reaches zero.
func New(resourceName string, resources ...io.Closer) *Counted {
	return &Counted{resourceName: resourceName, counter: 1, resources: resources}
}

// Acquire increments the reference count and reports whether the resource
// was still alive to acquire.
func (c *Counted) Acquire() bool {
	for {
		n := atomic.LoadUint32(&c.counter)
		if n == 0 {
			return false
		}
		if atomic.CompareAndSwapUint32(&c.counter, n, n+1) {
			return true
		}
	}
}

// Close releases one reference, closing the underlying resources once the
// last reference is released.
func (c *Counted) Close() error {
	if !c.decrement() {
		return nil
	}
	countlog.Trace("event!refcount.close", "resourceName", c.resourceName)
	var errs []error
	for _, res := range c.resources {
		if err := res.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return plz.MergeErrors(errs...)
}

func (c *Counted) decrement() bool {
	for {
		n := atomic.LoadUint32(&c.counter)
		if n == 0 {
			return true
		}
		if atomic.CompareAndSwapUint32(&c.counter, n, n-1) {
			return n == 1
		}
	}
}

// Closed reports whether the resource has already been fully released.
func (c *Counted) Closed() bool {
	return atomic.LoadUint32(&c.counter) == 0
}
