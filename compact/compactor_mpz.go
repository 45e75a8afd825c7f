package compact

import (
	"github.com/oxheap/compactor/objmodel"
	"github.com/oxheap/compactor/wire"
)

// emitMPZ writes an arbitrary-precision integer as its decimal string
// form. MPZ payloads are never deduplicated, so this records the offset
// directly instead of routing through internAndMark.
func (c *Compactor) emitMPZ(o *objmodel.MPZ) {
	text := o.Value.Text()
	n := len(text)
	sz := wire.WordSize + wire.AlignUp(uint64(n))
	off, buf := c.arena.alloc(sz)
	wire.PutHeader(buf, wire.PackHeader(uint8(objmodel.TagMPZ), 0, uint64(n)))
	copy(buf[wire.WordSize:], text)
	c.visited[o] = off
}
