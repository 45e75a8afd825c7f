// Package regionio persists region buffers to and loads them from files: a
// small fixed header (magic, format version, byte length, root count)
// followed by the raw compacted bytes.
package regionio

import (
	"fmt"

	"github.com/esdb/gocodec"
)

const magic = uint32(0x4f584852) // "OXHR"

// FormatVersion is bumped whenever the wire layout changes incompatibly.
const FormatVersion = uint32(1)

type envelope struct {
	Magic         uint32
	FormatVersion uint32
	ByteLength    uint64
	RootCount     uint32
}

var envelopeSize = calcEnvelopeSize()

func calcEnvelopeSize() int {
	stream := gocodec.NewStream(nil)
	stream.Marshal(envelope{})
	if stream.Error != nil {
		panic(stream.Error)
	}
	return len(stream.Buffer())
}

func (e envelope) validate(path string) error {
	if e.Magic != magic {
		return fmt.Errorf("regionio: %s is not a region file", path)
	}
	if e.FormatVersion != FormatVersion {
		return fmt.Errorf("regionio: %s has format version %d, this build reads %d",
			path, e.FormatVersion, FormatVersion)
	}
	return nil
}
