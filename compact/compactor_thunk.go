package compact

import (
	"github.com/oxheap/compactor/objmodel"
	"github.com/oxheap/compactor/wire"
)

// emitThunk, emitRef and emitTask each wait on exactly one child slot, so
// unlike emitCtor they need no per-object progress tracking.

func (c *Compactor) emitThunk(o *objmodel.Thunk) (done bool) {
	w, ok := c.toWord(o.Value)
	if !ok {
		return false
	}
	c.emitSingleSlot(o, uint8(objmodel.TagThunk), w)
	return true
}

func (c *Compactor) emitRef(o *objmodel.RefCell) (done bool) {
	w, ok := c.toWord(o.Value)
	if !ok {
		return false
	}
	c.emitSingleSlot(o, uint8(objmodel.TagRef), w)
	return true
}

// emitTask rewrites a Task into the same single-slot record a Thunk uses; a
// loaded region has no thread of execution to hand it back to, so only its
// resolved value survives.
func (c *Compactor) emitTask(o *objmodel.Task) (done bool) {
	w, ok := c.toWord(o.Get())
	if !ok {
		return false
	}
	c.emitSingleSlot(o, uint8(objmodel.TagThunk), w)
	return true
}

func (c *Compactor) emitSingleSlot(o objmodel.Object, tag uint8, w wire.Word) {
	sz := 2 * wire.WordSize
	off, buf := c.arena.alloc(sz)
	wire.PutHeader(buf, wire.PackHeader(tag, 0, 0))
	wire.PutWord(buf[wire.WordSize:], w)
	c.internAndMark(o, off, sz)
}
