package compact

import (
	"github.com/edsrzf/mmap-go"
	"github.com/v2pro/plz/countlog"

	"github.com/oxheap/compactor/wire"
)

const initialArenaSize = 1 << 20

// arena is the compactor's growable byte buffer. Every object lives at a
// stable offset from a single contiguous base, so when it fills up arena
// copies its contents into a new anonymous mapping twice the size and
// unmaps the old one, instead of handing out separate fixed-size pages.
type arena struct {
	buf mmap.MMap
	len uint64
}

func newArena() (*arena, error) {
	buf, err := mmap.MapRegion(nil, initialArenaSize, mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, err
	}
	return &arena{buf: buf}, nil
}

func (a *arena) size() uint64 {
	return a.len
}

func (a *arena) bytes() []byte {
	return a.buf[:a.len]
}

// alloc reserves sz bytes, rounded up to a whole word, at the current tail
// and returns the offset it starts at. The returned slice aliases the
// arena's buffer and is only valid until the next alloc that grows it.
func (a *arena) alloc(sz uint64) (wire.Offset, []byte) {
	sz = wire.AlignUp(sz)
	for a.len+sz > uint64(len(a.buf)) {
		a.grow()
	}
	off := wire.Offset(a.len)
	region := a.buf[a.len : a.len+sz]
	for i := range region {
		region[i] = 0
	}
	a.len += sz
	return off, a.buf[off : uint64(off)+sz]
}

// rewind frees the most recent allocation, used when structural dedup
// finds the bytes just written duplicate an object already in the arena.
func (a *arena) rewind(off wire.Offset) {
	a.len = uint64(off)
}

func (a *arena) grow() {
	newCap := uint64(len(a.buf)) * 2
	newBuf, err := mmap.MapRegion(nil, int(newCap), mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		panic(err)
	}
	copy(newBuf, a.buf[:a.len])
	countlog.Debug("event!compact.arena grown", "oldCap", len(a.buf), "newCap", newCap)
	if err := a.buf.Unmap(); err != nil {
		countlog.Error("event!compact.arena failed to unmap old buffer", "err", err)
	}
	a.buf = newBuf
}

func (a *arena) close() error {
	return a.buf.Unmap()
}
