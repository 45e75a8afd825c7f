package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_scalar_word_round_trips(t *testing.T) {
	should := require.New(t)
	w := ScalarWord(42)
	should.True(w.IsScalar())
	should.Equal(int64(42), w.Scalar())
}

func Test_negative_scalar_word_round_trips(t *testing.T) {
	should := require.New(t)
	w := ScalarWord(-7)
	should.True(w.IsScalar())
	should.Equal(int64(-7), w.Scalar())
}

func Test_offset_word_is_never_scalar(t *testing.T) {
	should := require.New(t)
	w := OffsetWord(Offset(0))
	should.False(w.IsScalar())
	should.Equal(Offset(0), w.Offset())

	w = OffsetWord(Offset(1024))
	should.False(w.IsScalar())
	should.Equal(Offset(1024), w.Offset())
}

func Test_header_round_trips(t *testing.T) {
	should := require.New(t)
	h := PackHeader(3, 9, 12345)
	should.Equal(uint8(3), h.Tag())
	should.Equal(uint8(9), h.Sub())
	should.Equal(uint64(12345), h.Count())
}

func Test_align_up(t *testing.T) {
	should := require.New(t)
	should.Equal(uint64(0), AlignUp(0))
	should.Equal(uint64(8), AlignUp(1))
	should.Equal(uint64(8), AlignUp(8))
	should.Equal(uint64(16), AlignUp(9))
}
