package compact

import (
	"bytes"

	"github.com/spaolacci/murmur3"

	"github.com/oxheap/compactor/wire"
)

// dedupKey identifies a byte window already written into the arena, by
// (offset, size) rather than absolute address, since arena.grow rebases
// everything. Hash and equality both re-read the arena's current bytes at
// call time.
type dedupKey struct {
	offset wire.Offset
	size   uint64
}

// dedupTable is the structural-sharing hash set: every tag except MPZ
// interns its freshly-written bytes here, so a byte-identical object is
// never duplicated in the region.
type dedupTable struct {
	arena   *arena
	buckets map[uint64][]dedupKey
}

func newDedupTable(a *arena) *dedupTable {
	return &dedupTable{arena: a, buckets: make(map[uint64][]dedupKey)}
}

func (d *dedupTable) hashOf(key dedupKey) uint64 {
	bs := d.arena.buf[key.offset : uint64(key.offset)+key.size]
	return murmur3.Sum64(bs)
}

func (d *dedupTable) bytesOf(key dedupKey) []byte {
	return d.arena.buf[key.offset : uint64(key.offset)+key.size]
}

// internOrShare either registers (offset, size) as a new canonical instance
// and returns it unchanged, or finds a byte-identical instance already
// present and returns that one instead, in which case the caller should
// rewind the arena to reclaim the just-written duplicate.
func (d *dedupTable) internOrShare(offset wire.Offset, size uint64) (canonical wire.Offset, isDuplicate bool) {
	key := dedupKey{offset: offset, size: size}
	h := d.hashOf(key)
	candidateBytes := d.bytesOf(key)
	for _, existing := range d.buckets[h] {
		if existing.size != size {
			continue
		}
		if bytes.Equal(d.bytesOf(existing), candidateBytes) {
			return existing.offset, true
		}
	}
	d.buckets[h] = append(d.buckets[h], key)
	return offset, false
}
