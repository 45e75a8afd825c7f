// Package region turns a raw compacted byte buffer back into a live object
// graph with a single linear fix-up sweep.
package region

import (
	"errors"
	"io"

	"github.com/edsrzf/mmap-go"
	"github.com/v2pro/plz"
	"github.com/v2pro/plz/countlog"

	"github.com/oxheap/compactor/bignum"
	"github.com/oxheap/compactor/compact"
	"github.com/oxheap/compactor/objmodel"
	"github.com/oxheap/compactor/wire"
)

var ErrCorrupt = errors.New("region: corrupt or truncated data")

// Region wraps a compacted byte buffer and decodes it into live objects on
// demand. A Region is not safe for concurrent use.
type Region struct {
	data    []byte
	mapping mmap.MMap
	pos     uint64

	decoded     map[wire.Offset]any
	resurrected []*bignum.MPZ
}

// FromCompactor copies the finished bytes out of c into a Region.
func FromCompactor(c *compact.Compactor) (*Region, error) {
	src := c.Data()
	owned := make([]byte, len(src))
	copy(owned, src)
	return &Region{
		data:    owned,
		decoded: make(map[wire.Offset]any),
	}, nil
}

// Adopt takes ownership of an externally-provided buffer, typically one
// obtained by memory-mapping a region file. If mapping is non-nil, Close
// unmaps it.
func Adopt(data []byte, mapping mmap.MMap) (*Region, error) {
	if uint64(len(data))%wire.WordSize != 0 {
		return nil, ErrCorrupt
	}
	return &Region{
		data:    data,
		mapping: mapping,
		decoded: make(map[wire.Offset]any),
	}, nil
}

// Read decodes and returns the next root in the buffer. It returns io.EOF
// once every root has been consumed.
func (r *Region) Read() (any, error) {
	if r.pos >= uint64(len(r.data)) {
		return nil, io.EOF
	}
	for {
		if r.pos+wire.WordSize > uint64(len(r.data)) {
			return nil, ErrCorrupt
		}
		header := wire.GetHeader(r.data[r.pos:])
		if objmodel.Tag(header.Tag()) == objmodel.TagReserved {
			if r.pos+2*wire.WordSize > uint64(len(r.data)) {
				return nil, ErrCorrupt
			}
			rootWord := wire.GetWord(r.data[r.pos+wire.WordSize:])
			r.pos += 2 * wire.WordSize
			return r.resolve(rootWord)
		}
		obj, size, err := r.decodeAt(r.pos, header)
		if err != nil {
			return nil, err
		}
		r.decoded[wire.Offset(r.pos)] = obj
		r.pos += size
	}
}

func (r *Region) resolve(w wire.Word) (any, error) {
	if w.IsScalar() {
		return objmodel.Scalar(w.Scalar()), nil
	}
	obj, ok := r.decoded[w.Offset()]
	if !ok {
		countlog.Error("event!region.dangling offset on fix-up", "offset", w.Offset())
		return nil, ErrCorrupt
	}
	return obj, nil
}

// Close runs the MPZ destructor for every value this region resurrected,
// then releases the backing buffer if it owns a memory mapping.
func (r *Region) Close() error {
	for _, m := range r.resurrected {
		m.Destroy()
	}
	if r.mapping == nil {
		return nil
	}
	var errs []error
	if err := r.mapping.Unmap(); err != nil {
		errs = append(errs, err)
	}
	return plz.MergeErrors(errs...)
}
