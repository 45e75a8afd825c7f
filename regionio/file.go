package regionio

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/esdb/gocodec"
	"github.com/v2pro/plz/countlog"

	"github.com/oxheap/compactor/region"
)

// WriteFile writes a compacted byte buffer to path, prefixed with the
// region file envelope.
func WriteFile(path string, data []byte, rootCount int) error {
	stream := gocodec.NewStream(nil)
	stream.Marshal(envelope{
		Magic:         magic,
		FormatVersion: FormatVersion,
		ByteLength:    uint64(len(data)),
		RootCount:     uint32(rootCount),
	})
	if stream.Error != nil {
		return stream.Error
	}
	buf := make([]byte, 0, len(stream.Buffer())+len(data))
	buf = append(buf, stream.Buffer()...)
	buf = append(buf, data...)
	if err := ioutil.WriteFile(path, buf, 0644); err != nil {
		countlog.Error("event!regionio.failed to write region file", "path", path, "err", err)
		return err
	}
	countlog.Debug("event!regionio.wrote region file", "path", path, "bytes", len(data), "roots", rootCount)
	return nil
}

// OpenFile memory-maps path copy-on-write and adopts the region bytes that
// follow its envelope.
func OpenFile(path string) (*region.Region, error) {
	file, err := os.OpenFile(path, os.O_RDONLY, 0666)
	if err != nil {
		return nil, err
	}
	mapping, err := mmap.Map(file, mmap.COPY, 0)
	closeErr := file.Close()
	if err != nil {
		countlog.Error("event!regionio.failed to mmap region file", "path", path, "err", err)
		return nil, err
	}
	if closeErr != nil {
		countlog.Error("event!regionio.failed to close region file after mmap", "path", path, "err", closeErr)
	}

	iter := gocodec.NewIterator(mapping)
	env, _ := iter.Unmarshal((*envelope)(nil)).(*envelope)
	if iter.Error != nil {
		_ = mapping.Unmap()
		return nil, fmt.Errorf("regionio: reading envelope of %s: %w", path, iter.Error)
	}
	if err := env.validate(path); err != nil {
		_ = mapping.Unmap()
		return nil, err
	}
	body := iter.Buffer()
	if consumed := len(mapping) - len(body); consumed != envelopeSize {
		_ = mapping.Unmap()
		return nil, fmt.Errorf("regionio: %s: envelope decoded to %d bytes, expected %d", path, consumed, envelopeSize)
	}
	if uint64(len(body)) < env.ByteLength {
		_ = mapping.Unmap()
		return nil, fmt.Errorf("regionio: %s is truncated: envelope promises %d bytes, file has %d", path, env.ByteLength, len(body))
	}
	return region.Adopt(body[:env.ByteLength], mapping)
}
