package filter

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"

	"github.com/veyronix/hdf5/internal/message"
)

// Deflate implements the DEFLATE filter. Chunk data is a single zlib
// stream; the compression level in the client data only matters when
// writing and is carried for completeness.
type Deflate struct {
	level int
}

// NewDeflate creates a new DEFLATE filter.
// Client data: [0] = compression level (0-9, or default if empty)
func NewDeflate(clientData []uint32) *Deflate {
	f := &Deflate{level: zlib.DefaultCompression}
	if len(clientData) > 0 {
		f.level = int(clientData[0])
	}
	return f
}

func (f *Deflate) ID() uint16 {
	return message.FilterDeflate
}

// Decode inflates one chunk's zlib stream.
func (f *Deflate) Decode(input []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("deflate: bad stream header: %w", err)
	}
	defer zr.Close()

	var out bytes.Buffer
	if _, err := io.Copy(&out, zr); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("deflate: truncated stream: %w", err)
		}
		return nil, fmt.Errorf("deflate: %w", err)
	}

	return out.Bytes(), nil
}
