package compact

import (
	"github.com/oxheap/compactor/objmodel"
	"github.com/oxheap/compactor/wire"
)

// emitScalarArray and emitString have no child pointers to wait on, so
// unlike emitCtor/emitArray they always succeed on first visit.

func (c *Compactor) emitScalarArray(o *objmodel.ScalarArray) {
	n := len(o.Data)
	sz := wire.WordSize + wire.AlignUp(uint64(n))
	off, buf := c.arena.alloc(sz)
	wire.PutHeader(buf, wire.PackHeader(uint8(objmodel.TagScalarArray), o.ElemSize, uint64(n)))
	copy(buf[wire.WordSize:], o.Data)
	c.internAndMark(o, off, sz)
}

func (c *Compactor) emitString(o *objmodel.String) {
	n := len(o.Data)
	sz := wire.WordSize + wire.AlignUp(uint64(n))
	off, buf := c.arena.alloc(sz)
	wire.PutHeader(buf, wire.PackHeader(uint8(objmodel.TagString), 0, uint64(n)))
	copy(buf[wire.WordSize:], o.Data)
	c.internAndMark(o, off, sz)
}
