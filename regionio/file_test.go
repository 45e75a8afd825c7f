package regionio

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/esdb/gocodec"
	"github.com/stretchr/testify/require"

	"github.com/oxheap/compactor/compact"
	"github.com/oxheap/compactor/objmodel"
)

func writeEnvelopeAndBody(t *testing.T, path string, env envelope, body []byte) {
	t.Helper()
	stream := gocodec.NewStream(nil)
	stream.Marshal(env)
	require.NoError(t, stream.Error)
	buf := append(append([]byte{}, stream.Buffer()...), body...)
	require.NoError(t, ioutil.WriteFile(path, buf, 0644))
}

func Test_write_and_open_round_trips_a_region(t *testing.T) {
	should := require.New(t)
	c, err := compact.New()
	should.NoError(err)
	defer c.Close()

	root := &objmodel.Array{Elems: []any{objmodel.Scalar(1), objmodel.Scalar(2)}}
	c.Compact(root)

	path := filepath.Join(t.TempDir(), "test.region")
	should.NoError(WriteFile(path, c.Data(), 1))

	r, err := OpenFile(path)
	should.NoError(err)
	defer r.Close()

	loaded, err := r.Read()
	should.NoError(err)
	arr := loaded.(*objmodel.Array)
	should.Equal(objmodel.Scalar(1), arr.Elems[0])
	should.Equal(objmodel.Scalar(2), arr.Elems[1])
}

func Test_open_rejects_non_region_file(t *testing.T) {
	should := require.New(t)
	path := filepath.Join(t.TempDir(), "garbage.region")
	should.NoError(ioutil.WriteFile(path, []byte("not a region file at all, just noise"), 0644))

	_, err := OpenFile(path)
	should.Error(err)
}

func Test_open_rejects_unsupported_format_version(t *testing.T) {
	should := require.New(t)
	path := filepath.Join(t.TempDir(), "future.region")
	writeEnvelopeAndBody(t, path, envelope{
		Magic:         magic,
		FormatVersion: FormatVersion + 1,
		ByteLength:    0,
		RootCount:     0,
	}, nil)

	_, err := OpenFile(path)
	should.Error(err)
}

func Test_open_rejects_wrong_magic(t *testing.T) {
	should := require.New(t)
	path := filepath.Join(t.TempDir(), "wrong-magic.region")
	writeEnvelopeAndBody(t, path, envelope{
		Magic:         magic ^ 0xffffffff,
		FormatVersion: FormatVersion,
		ByteLength:    0,
		RootCount:     0,
	}, nil)

	_, err := OpenFile(path)
	should.Error(err)
}
