package region

import (
	"io"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxheap/compactor/bignum"
	"github.com/oxheap/compactor/compact"
	"github.com/oxheap/compactor/objmodel"
)

func compactAndLoad(t *testing.T, roots ...any) (*Region, []any) {
	t.Helper()
	c, err := compact.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	for _, root := range roots {
		c.Compact(root)
	}
	r, err := FromCompactor(c)
	require.NoError(t, err)

	var loaded []any
	for range roots {
		v, err := r.Read()
		require.NoError(t, err)
		loaded = append(loaded, v)
	}
	return r, loaded
}

func Test_scalar_root_round_trips(t *testing.T) {
	should := require.New(t)
	_, loaded := compactAndLoad(t, objmodel.Scalar(0))
	should.Equal(objmodel.Scalar(0), loaded[0])
}

func Test_read_reports_eof_after_last_root(t *testing.T) {
	should := require.New(t)
	r, _ := compactAndLoad(t, objmodel.Scalar(1))
	_, err := r.Read()
	should.ErrorIs(err, io.EOF)
}

func Test_shared_subterm_round_trips_to_the_same_object(t *testing.T) {
	should := require.New(t)
	shared := &objmodel.String{Data: []byte("hello")}
	root := &objmodel.Ctor{CtorTag: 0, Fields: []any{shared, shared}}

	_, loaded := compactAndLoad(t, root)
	ctor := loaded[0].(*objmodel.Ctor)
	should.Same(ctor.Fields[0], ctor.Fields[1])
	should.Equal("hello", string(ctor.Fields[0].(*objmodel.String).Data))
}

func Test_two_byte_identical_strings_load_as_one_object(t *testing.T) {
	should := require.New(t)
	a := &objmodel.String{Data: []byte("abc")}
	b := &objmodel.String{Data: []byte("abc")}
	root := &objmodel.Array{Elems: []any{a, b}}

	_, loaded := compactAndLoad(t, root)
	arr := loaded[0].(*objmodel.Array)
	should.Same(arr.Elems[0], arr.Elems[1])
}

func Test_mpz_round_trips_and_destructs_once(t *testing.T) {
	should := require.New(t)
	before := bignum.DestroyedCount()
	want := new(big.Int).Lsh(big.NewInt(1), 128) // 2^128
	root := &objmodel.MPZ{Value: bignum.New(want)}

	r, loaded := compactAndLoad(t, root)
	got := loaded[0].(*objmodel.MPZ)
	should.Equal(0, want.Cmp(got.Value.BigInt()))

	should.NoError(r.Close())
	should.Equal(before+1, bignum.DestroyedCount())
}

func Test_thunk_wrapping_a_former_task_yields_its_value(t *testing.T) {
	should := require.New(t)
	task := &objmodel.Task{Value: objmodel.Scalar(42)}

	_, loaded := compactAndLoad(t, task)
	thunk := loaded[0].(*objmodel.Thunk)
	should.Equal(objmodel.Scalar(42), thunk.Value)
}

func Test_ref_round_trips(t *testing.T) {
	should := require.New(t)
	ref := &objmodel.RefCell{Value: objmodel.Scalar(11)}

	_, loaded := compactAndLoad(t, ref)
	got := loaded[0].(*objmodel.RefCell)
	should.Equal(objmodel.Scalar(11), got.Value)
}

func Test_scalar_array_round_trips(t *testing.T) {
	should := require.New(t)
	sa := &objmodel.ScalarArray{ElemSize: 4, Data: []byte{1, 2, 3, 4, 5, 6, 7, 8}}

	_, loaded := compactAndLoad(t, sa)
	got := loaded[0].(*objmodel.ScalarArray)
	should.Equal(uint8(4), got.ElemSize)
	should.Equal(sa.Data, got.Data)
}

func Test_multiple_roots_share_structure_across_reads(t *testing.T) {
	should := require.New(t)
	shared := &objmodel.String{Data: []byte("shared-across-roots")}

	_, loaded := compactAndLoad(t,
		&objmodel.Array{Elems: []any{shared}},
		&objmodel.Array{Elems: []any{shared}},
	)
	first := loaded[0].(*objmodel.Array).Elems[0]
	second := loaded[1].(*objmodel.Array).Elems[0]
	should.Same(first, second)
}

func Test_long_constructor_chain_round_trips(t *testing.T) {
	should := require.New(t)
	var root any = objmodel.Scalar(0)
	const chainLength = 5000
	for i := 0; i < chainLength; i++ {
		root = &objmodel.Ctor{CtorTag: 0, Fields: []any{objmodel.Scalar(int64(i)), root}}
	}

	_, loaded := compactAndLoad(t, root)
	curr := loaded[0]
	for i := chainLength - 1; i >= 0; i-- {
		ctor := curr.(*objmodel.Ctor)
		should.Equal(objmodel.Scalar(int64(i)), ctor.Fields[0])
		curr = ctor.Fields[1]
	}
	should.Equal(objmodel.Scalar(0), curr)
}
