package region

import (
	"fmt"

	"github.com/oxheap/compactor/bignum"
	"github.com/oxheap/compactor/objmodel"
	"github.com/oxheap/compactor/wire"
)

// decodeAt reads the object starting at off, whose header has already been
// read into h, and returns it along with its total byte size.
func (r *Region) decodeAt(off uint64, h wire.Header) (any, uint64, error) {
	switch objmodel.Tag(h.Tag()) {
	case objmodel.TagCtor:
		return r.decodeCtor(off, h)
	case objmodel.TagArray:
		return r.decodeArray(off, h)
	case objmodel.TagScalarArray:
		return r.decodeScalarArray(off, h)
	case objmodel.TagString:
		return r.decodeString(off, h)
	case objmodel.TagMPZ:
		return r.decodeMPZ(off, h)
	case objmodel.TagThunk:
		return r.decodeSingleSlot(off, &objmodel.Thunk{})
	case objmodel.TagRef:
		return r.decodeSingleSlot(off, &objmodel.RefCell{})
	case objmodel.TagClosure, objmodel.TagTask, objmodel.TagExternal:
		return nil, 0, fmt.Errorf("%w: tag %v never belongs in a region", ErrCorrupt, objmodel.Tag(h.Tag()))
	default:
		return nil, 0, fmt.Errorf("%w: unknown tag %d", ErrCorrupt, h.Tag())
	}
}

func (r *Region) decodeCtor(off uint64, h wire.Header) (any, uint64, error) {
	n := h.Count()
	size := wire.WordSize + n*wire.WordSize
	if off+size > uint64(len(r.data)) {
		return nil, 0, ErrCorrupt
	}
	fields := make([]any, n)
	for i := uint64(0); i < n; i++ {
		w := wire.GetWord(r.data[off+wire.WordSize+i*wire.WordSize:])
		v, err := r.resolve(w)
		if err != nil {
			return nil, 0, err
		}
		fields[i] = v
	}
	return &objmodel.Ctor{CtorTag: h.Sub(), Fields: fields}, size, nil
}

func (r *Region) decodeArray(off uint64, h wire.Header) (any, uint64, error) {
	n := h.Count()
	size := wire.WordSize + n*wire.WordSize
	if off+size > uint64(len(r.data)) {
		return nil, 0, ErrCorrupt
	}
	elems := make([]any, n)
	for i := uint64(0); i < n; i++ {
		w := wire.GetWord(r.data[off+wire.WordSize+i*wire.WordSize:])
		v, err := r.resolve(w)
		if err != nil {
			return nil, 0, err
		}
		elems[i] = v
	}
	return &objmodel.Array{Elems: elems}, size, nil
}

func (r *Region) decodeScalarArray(off uint64, h wire.Header) (any, uint64, error) {
	n := h.Count()
	size := wire.WordSize + wire.AlignUp(n)
	if off+size > uint64(len(r.data)) {
		return nil, 0, ErrCorrupt
	}
	data := make([]byte, n)
	copy(data, r.data[off+wire.WordSize:off+wire.WordSize+n])
	return &objmodel.ScalarArray{ElemSize: h.Sub(), Data: data}, size, nil
}

func (r *Region) decodeString(off uint64, h wire.Header) (any, uint64, error) {
	n := h.Count()
	size := wire.WordSize + wire.AlignUp(n)
	if off+size > uint64(len(r.data)) {
		return nil, 0, ErrCorrupt
	}
	data := make([]byte, n)
	copy(data, r.data[off+wire.WordSize:off+wire.WordSize+n])
	return &objmodel.String{Data: data}, size, nil
}

// decodeMPZ parses the decimal text payload back into a value, then
// overwrites the first word of the text with its index into
// Region.resurrected.
func (r *Region) decodeMPZ(off uint64, h wire.Header) (any, uint64, error) {
	n := h.Count()
	size := wire.WordSize + wire.AlignUp(n)
	if off+size > uint64(len(r.data)) {
		return nil, 0, ErrCorrupt
	}
	text := r.data[off+wire.WordSize : off+wire.WordSize+n]
	value, err := bignum.Parse(string(text))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	wire.PutWord(r.data[off+wire.WordSize:], wire.Word(len(r.resurrected)))
	r.resurrected = append(r.resurrected, value)
	return &objmodel.MPZ{Value: value}, size, nil
}

func (r *Region) decodeSingleSlot(off uint64, into objmodel.Object) (any, uint64, error) {
	size := 2 * wire.WordSize
	if off+size > uint64(len(r.data)) {
		return nil, 0, ErrCorrupt
	}
	w := wire.GetWord(r.data[off+wire.WordSize:])
	v, err := r.resolve(w)
	if err != nil {
		return nil, 0, err
	}
	switch o := into.(type) {
	case *objmodel.Thunk:
		o.Value = v
	case *objmodel.RefCell:
		o.Value = v
	}
	return into, size, nil
}
