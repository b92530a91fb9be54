package object

import (
	"fmt"

	"github.com/veyronix/hdf5/internal/binary"
	"github.com/veyronix/hdf5/internal/message"
)

// Version 1 object header: a 12-byte prefix (version, reserved, message
// count, reference count, message area size), then the message area padded
// to 8 bytes. Each message is {type(2), size(2), flags(1), reserved(3)}
// followed by size data bytes, padded to 8.
//
// The declared message count is advisory; decoding stops strictly on the
// byte budget of each area. Continuation messages name further areas,
// which are queued and drained iteratively rather than recursed into.

// span is one pending message area: the current block plus any
// continuation blocks discovered while scanning it.
type span struct {
	offset uint64
	length uint64
}

func readV1(r *binary.Reader, address uint64) (*Header, error) {
	version, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	if version != 1 {
		return nil, fmt.Errorf("%w: expected version 1, got %d", ErrUnsupportedVersion, version)
	}

	r.Skip(1) // reserved

	numMessages, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	refCount, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	headerSize, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	hdr := &Header{
		Version:  1,
		Address:  address,
		RefCount: refCount,
		Messages: make([]message.Message, 0, numMessages),
	}

	// The first message area starts on the next 8-byte boundary.
	r.Align(8)

	queue := []span{{offset: uint64(r.Pos()), length: uint64(headerSize)}}
	for len(queue) > 0 {
		area := queue[0]
		queue = queue[1:]

		msgs, continuations := readV1Area(r, area)
		hdr.Messages = append(hdr.Messages, msgs...)
		queue = append(queue, continuations...)
	}

	r.Logger().WithField("address", address).
		Debugf("object header v1: %d messages", len(hdr.Messages))

	return hdr, nil
}

// readV1Area scans one message area by byte budget, returning the parsed
// messages and any continuation areas it names. Truncated or unparseable
// messages are dropped, matching the tolerance real files need.
func readV1Area(r *binary.Reader, area span) ([]message.Message, []span) {
	ar := r.At(int64(area.offset))
	end := int64(area.offset + area.length)

	var msgs []message.Message
	var continuations []span

	for ar.Pos() < end {
		msgType, dataSize, flags, ok := readV1MessageHeader(ar)
		if !ok {
			break
		}

		data, err := ar.ReadBytes(int(dataSize))
		if err != nil {
			break
		}
		ar.Align(8)

		switch message.Type(msgType) {
		case message.TypeNIL:
			// Padding; carries nothing.

		case message.TypeObjectHeaderContinuation:
			cont, err := message.ParseContinuation(data, ar)
			if err == nil {
				continuations = append(continuations, span{offset: cont.Offset, length: cont.Length})
			}

		default:
			msg, err := message.Parse(message.Type(msgType), data, flags, ar)
			if err == nil {
				msgs = append(msgs, msg)
			}
		}
	}

	return msgs, continuations
}

// readV1MessageHeader reads one {type, size, flags, reserved} prefix.
func readV1MessageHeader(r *binary.Reader) (msgType uint16, dataSize uint16, flags uint8, ok bool) {
	var err error
	if msgType, err = r.ReadUint16(); err != nil {
		return 0, 0, 0, false
	}
	if dataSize, err = r.ReadUint16(); err != nil {
		return 0, 0, 0, false
	}
	if flags, err = r.ReadUint8(); err != nil {
		return 0, 0, 0, false
	}
	r.Skip(3) // reserved
	return msgType, dataSize, flags, true
}
