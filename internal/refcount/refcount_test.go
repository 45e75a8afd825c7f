package refcount

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type countingCloser struct{ closed int }

func (c *countingCloser) Close() error {
	c.closed++
	return nil
}

func Test_closes_only_after_last_release(t *testing.T) {
	should := require.New(t)
	res := &countingCloser{}
	c := New("test", res)
	should.True(c.Acquire())
	should.Nil(c.Close()) // release the acquire
	should.Equal(0, res.closed)
	should.Nil(c.Close()) // release the initial reference
	should.Equal(1, res.closed)
}

func Test_acquire_after_close_fails(t *testing.T) {
	should := require.New(t)
	res := &countingCloser{}
	c := New("test", res)
	should.Nil(c.Close())
	should.False(c.Acquire())
}

func Test_closed_reports_count_reaching_zero(t *testing.T) {
	should := require.New(t)
	c := New("test", &countingCloser{})
	should.True(c.Acquire())
	should.False(c.Closed())
	should.Nil(c.Close())
	should.False(c.Closed())
	should.Nil(c.Close())
	should.True(c.Closed())
}
