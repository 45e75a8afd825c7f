package compactor

import (
	"github.com/oxheap/compactor/compact"
	"github.com/oxheap/compactor/region"
	"github.com/oxheap/compactor/regionio"
	"github.com/oxheap/compactor/regionset"
)

// Compile compacts roots into a single byte buffer and writes it to path as
// a region file. Roots compacted together share structure with each other;
// each becomes independently readable, in order, by a later Open.
func Compile(path string, roots ...any) error {
	c, err := compact.New()
	if err != nil {
		return err
	}
	defer c.Close()
	for _, root := range roots {
		c.Compact(root)
	}
	return regionio.WriteFile(path, c.Data(), len(roots))
}

// Open memory-maps path and returns a Region ready to Read its roots back,
// one Read per root Compile wrote, in the same order.
func Open(path string) (*region.Region, error) {
	return regionio.OpenFile(path)
}

// NewCache creates a bounded, reference-counted cache of regions loaded by
// Open, so that repeatedly opening the same path across a process's
// lifetime shares one loaded instance instead of re-running the fix-up
// sweep each time.
func NewCache(size int) (*regionset.Cache, error) {
	return regionset.NewCache(size)
}
