// Package compact implements the object graph compactor: it walks a live
// object graph and appends its closure to a growing byte buffer, replacing
// inter-object pointers with intra-buffer offsets and deduplicating
// byte-identical sub-objects.
package compact

import (
	"fmt"

	"github.com/esdb/biter"

	"github.com/oxheap/compactor/objmodel"
	"github.com/oxheap/compactor/wire"
)

// Stats tallies how many objects of each tag a Compactor has written.
type Stats struct {
	Counts map[objmodel.Tag]int
}

func newStats() *Stats {
	return &Stats{Counts: map[objmodel.Tag]int{}}
}

// ctorProgress tracks, across repeated visits to a constructor still
// waiting on some children, which fields have already resolved to a word.
type ctorProgress struct {
	resolved biter.Bits
	words    [objmodel.MaxCtorFields]wire.Word
}

// Compactor walks one or more live object graphs and appends each one's
// closure, followed by a terminator, to a single growing byte buffer.
//
// A Compactor is not safe for concurrent use.
type Compactor struct {
	arena   *arena
	dedup   *dedupTable
	visited map[objmodel.Object]wire.Offset
	pending map[*objmodel.Ctor]*ctorProgress
	stack   []objmodel.Object
	stats   *Stats
}

func New() (*Compactor, error) {
	a, err := newArena()
	if err != nil {
		return nil, err
	}
	return &Compactor{
		arena:   a,
		dedup:   newDedupTable(a),
		visited: map[objmodel.Object]wire.Offset{},
		pending: map[*objmodel.Ctor]*ctorProgress{},
		stats:   newStats(),
	}, nil
}

// Data returns the bytes written so far. The returned slice aliases the
// compactor's internal buffer and is invalidated by the next call to
// Compact if it grows the buffer.
func (c *Compactor) Data() []byte {
	return c.arena.bytes()
}

func (c *Compactor) Size() uint64 {
	return c.arena.size()
}

// Stats returns a snapshot of the running per-tag object counts.
func (c *Compactor) Stats() Stats {
	counts := make(map[objmodel.Tag]int, len(c.stats.Counts))
	for k, v := range c.stats.Counts {
		counts[k] = v
	}
	return Stats{Counts: counts}
}

// Close releases the compactor's backing memory. Call it once the finished
// bytes have been copied out, e.g. via region.FromCompactor.
func (c *Compactor) Close() error {
	return c.arena.close()
}

// Compact appends the transitive closure of root to the buffer, followed by
// a terminator referencing root's final offset. It may be called more than
// once on the same Compactor; earlier calls' objects remain available for
// structural sharing with later ones.
func (c *Compactor) Compact(root any) {
	if !objmodel.IsScalar(root) {
		c.stack = append(c.stack, root.(objmodel.Object))
		for len(c.stack) > 0 {
			curr := c.stack[len(c.stack)-1]
			if _, ok := c.visited[curr]; ok {
				c.stack = c.stack[:len(c.stack)-1]
				continue
			}
			if c.emit(curr) {
				c.stack = c.stack[:len(c.stack)-1]
			}
		}
	}
	c.emitTerminator(root)
}

// toWord resolves a field value to its wire-level word. If the value is an
// Object that hasn't been emitted yet, it is pushed onto the work stack and
// toWord reports failure.
func (c *Compactor) toWord(v any) (wire.Word, bool) {
	if s, ok := v.(objmodel.Scalar); ok {
		return wire.ScalarWord(int64(s)), true
	}
	obj := v.(objmodel.Object)
	if off, ok := c.visited[obj]; ok {
		return wire.OffsetWord(off), true
	}
	c.stack = append(c.stack, obj)
	return 0, false
}

// emit dispatches curr to its tag-specific writer. A constructor or array
// waiting on a not-yet-emitted child returns done == false and is
// revisited later. A Task is counted as a Thunk, matching the tag it is
// actually written under. An object that structural sharing folds into an
// earlier byte-identical one adds no bytes and is not counted.
func (c *Compactor) emit(curr objmodel.Object) (done bool) {
	writtenTag := curr.Tag()
	sizeBefore := c.arena.size()
	switch o := curr.(type) {
	case *objmodel.Ctor:
		done = c.emitCtor(o)
	case *objmodel.Array:
		done = c.emitArray(o)
	case *objmodel.ScalarArray:
		c.emitScalarArray(o)
		done = true
	case *objmodel.String:
		c.emitString(o)
		done = true
	case *objmodel.MPZ:
		c.emitMPZ(o)
		done = true
	case *objmodel.Thunk:
		done = c.emitThunk(o)
	case *objmodel.RefCell:
		done = c.emitRef(o)
	case *objmodel.Task:
		done = c.emitTask(o)
		writtenTag = objmodel.TagThunk
	case *objmodel.Closure:
		panic("compact: closures cannot be compacted")
	case *objmodel.External:
		panic("compact: external objects cannot be compacted")
	default:
		panic(fmt.Sprintf("compact: unreachable tag %v", curr.Tag()))
	}
	if done && c.arena.size() > sizeBefore {
		c.stats.Counts[writtenTag]++
	}
	return done
}

func (c *Compactor) emitCtor(o *objmodel.Ctor) (done bool) {
	n := o.NumFields()
	if n > objmodel.MaxCtorFields {
		panic(fmt.Sprintf("compact: constructor has %d fields, exceeds max %d", n, objmodel.MaxCtorFields))
	}
	prog := c.pending[o]
	if prog == nil {
		prog = &ctorProgress{}
		c.pending[o] = prog
	}
	missing := false
	for i := 0; i < n; i++ {
		bit := biter.SetBits[i]
		if prog.resolved&bit != 0 {
			continue
		}
		w, ok := c.toWord(o.Fields[i])
		if !ok {
			missing = true
			continue
		}
		prog.words[i] = w
		prog.resolved |= bit
	}
	if missing {
		return false
	}
	delete(c.pending, o)
	sz := wire.WordSize + uint64(n)*wire.WordSize
	off, buf := c.arena.alloc(sz)
	wire.PutHeader(buf, wire.PackHeader(uint8(objmodel.TagCtor), o.CtorTag, uint64(n)))
	for i := 0; i < n; i++ {
		wire.PutWord(buf[wire.WordSize+uint64(i)*wire.WordSize:], prog.words[i])
	}
	c.internAndMark(o, off, sz)
	return true
}

func (c *Compactor) emitArray(o *objmodel.Array) (done bool) {
	n := o.Len()
	words := make([]wire.Word, n)
	missing := false
	for i, field := range o.Elems {
		w, ok := c.toWord(field)
		if !ok {
			missing = true
			continue
		}
		words[i] = w
	}
	if missing {
		return false
	}
	sz := wire.WordSize + uint64(n)*wire.WordSize
	off, buf := c.arena.alloc(sz)
	wire.PutHeader(buf, wire.PackHeader(uint8(objmodel.TagArray), 0, uint64(n)))
	for i, w := range words {
		wire.PutWord(buf[wire.WordSize+uint64(i)*wire.WordSize:], w)
	}
	c.internAndMark(o, off, sz)
	return true
}

// internAndMark interns the just-allocated (offset, size) window through
// the structural-sharing table, rewinding the arena if it turned out to
// duplicate an earlier object.
func (c *Compactor) internAndMark(obj objmodel.Object, off wire.Offset, size uint64) {
	canonical, isDup := c.dedup.internOrShare(off, size)
	if isDup {
		c.arena.rewind(off)
	}
	c.visited[obj] = canonical
}

func (c *Compactor) emitTerminator(root any) {
	rootWord, ok := c.toWord(root)
	if !ok {
		panic("compact: root did not resolve after full traversal")
	}
	_, buf := c.arena.alloc(2 * wire.WordSize)
	wire.PutHeader(buf, wire.PackHeader(uint8(objmodel.TagReserved), 0, 0))
	wire.PutWord(buf[wire.WordSize:], rootWord)
}
