package live

import (
	"errors"
	"io"

	"github.com/weft-dev/weft/pkg/dom"
)

// Allocation limits to prevent DoS via malicious length prefixes.
const (
	// MaxAllocation is the maximum size of any length-prefixed field (4MB).
	MaxAllocation = 4 * 1024 * 1024

	// MaxPatchCount is the maximum number of patches in a single frame.
	MaxPatchCount = 100_000
)

// FrameType identifies the type of wire frame. Frames travel as single
// websocket binary messages; the first byte is the frame type.
type FrameType uint8

const (
	FrameEvent   FrameType = 0x01 // Client → Server DOM events
	FramePatches FrameType = 0x02 // Server → Client patch batches
	FramePing    FrameType = 0x03 // Keepalive probe
	FramePong    FrameType = 0x04 // Keepalive reply
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FrameEvent:
		return "Event"
	case FramePatches:
		return "Patches"
	case FramePing:
		return "Ping"
	case FramePong:
		return "Pong"
	default:
		return "Unknown"
	}
}

// Codec errors.
var (
	ErrVarintOverflow     = errors.New("live: varint overflow")
	ErrAllocationTooLarge = errors.New("live: allocation size exceeds limit")
	ErrPatchCountTooLarge = errors.New("live: patch count exceeds limit")
	ErrInvalidFrameType   = errors.New("live: invalid frame type")
	ErrEmptyFrame         = errors.New("live: empty frame")
)

// Encoder is a binary encoder that appends data to an internal buffer.
// It is designed for encoding without allocations in the hot path.
type Encoder struct {
	buf []byte
}

// NewEncoder creates a new encoder with a default initial capacity.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 256)}
}

// Reset resets the encoder to empty state, reusing the underlying buffer.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// Bytes returns the encoded bytes. The returned slice is valid until
// the next call to Reset or any Write method.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the number of bytes currently encoded.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// WriteByte appends a single byte. It never fails; the buffer grows
// as needed.
func (e *Encoder) WriteByte(b byte) {
	e.buf = append(e.buf, b)
}

// WriteUvarint appends an unsigned varint.
// Uses protobuf-style encoding: 7 bits of data per byte, MSB indicates
// continuation.
func (e *Encoder) WriteUvarint(v uint64) {
	for v >= 0x80 {
		e.buf = append(e.buf, byte(v)|0x80)
		v >>= 7
	}
	e.buf = append(e.buf, byte(v))
}

// WriteString appends a length-prefixed UTF-8 string.
// Format: varint length + string bytes.
func (e *Encoder) WriteString(s string) {
	e.WriteUvarint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

// Decoder is a binary decoder that reads from a byte buffer.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder creates a new decoder over the given byte slice.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

// EOF reports whether all bytes have been read.
func (d *Decoder) EOF() bool {
	return d.pos >= len(d.buf)
}

// ReadByte reads a single byte.
func (d *Decoder) ReadByte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

// ReadUvarint reads an unsigned varint.
func (d *Decoder) ReadUvarint() (uint64, error) {
	var v uint64
	var shift uint
	for {
		if d.pos >= len(d.buf) {
			return 0, io.ErrUnexpectedEOF
		}
		b := d.buf[d.pos]
		d.pos++
		v |= uint64(b&0x7F) << shift
		if b < 0x80 {
			return v, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, ErrVarintOverflow
		}
	}
}

// ReadString reads a length-prefixed UTF-8 string.
// Returns ErrAllocationTooLarge if the length exceeds MaxAllocation.
func (d *Decoder) ReadString() (string, error) {
	length, err := d.ReadUvarint()
	if err != nil {
		return "", err
	}
	if length > uint64(d.Remaining()) {
		return "", io.ErrUnexpectedEOF
	}
	if length > MaxAllocation {
		return "", ErrAllocationTooLarge
	}
	n := int(length)
	s := string(d.buf[d.pos : d.pos+n])
	d.pos += n
	return s, nil
}

// EncodePatches encodes a batch of patches as a FramePatches frame.
//
// Wire format:
//
//	frame type (1 byte) | count (varint) | patches...
//
// Each patch:
//
//	op (1 byte) | node (varint) | parent (varint) | next (varint) |
//	key (string) | value (string)
func EncodePatches(patches []dom.Patch) []byte {
	e := NewEncoder()
	e.WriteByte(byte(FramePatches))
	e.WriteUvarint(uint64(len(patches)))
	for _, p := range patches {
		e.WriteByte(byte(p.Op))
		e.WriteUvarint(p.Node)
		e.WriteUvarint(p.Parent)
		e.WriteUvarint(p.Next)
		e.WriteString(p.Key)
		e.WriteString(p.Value)
	}
	return e.Bytes()
}

// DecodePatches decodes a FramePatches frame produced by EncodePatches.
// The caller must have already consumed the frame type byte.
func DecodePatches(d *Decoder) ([]dom.Patch, error) {
	count, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	if count > MaxPatchCount {
		return nil, ErrPatchCountTooLarge
	}
	if count > uint64(d.Remaining()) {
		return nil, io.ErrUnexpectedEOF
	}
	patches := make([]dom.Patch, 0, count)
	for i := uint64(0); i < count; i++ {
		var p dom.Patch
		op, err := d.ReadByte()
		if err != nil {
			return nil, err
		}
		p.Op = dom.PatchOp(op)
		if p.Node, err = d.ReadUvarint(); err != nil {
			return nil, err
		}
		if p.Parent, err = d.ReadUvarint(); err != nil {
			return nil, err
		}
		if p.Next, err = d.ReadUvarint(); err != nil {
			return nil, err
		}
		if p.Key, err = d.ReadString(); err != nil {
			return nil, err
		}
		if p.Value, err = d.ReadString(); err != nil {
			return nil, err
		}
		patches = append(patches, p)
	}
	return patches, nil
}

// EncodeEvent encodes a DOM event as a FrameEvent frame.
//
// Wire format:
//
//	frame type (1 byte) | node (varint) | type (string) | value (string)
func EncodeEvent(ev dom.Event) []byte {
	e := NewEncoder()
	e.WriteByte(byte(FrameEvent))
	e.WriteUvarint(ev.Node)
	e.WriteString(ev.Type)
	e.WriteString(ev.Value)
	return e.Bytes()
}

// DecodeEvent decodes a FrameEvent frame produced by EncodeEvent.
// The caller must have already consumed the frame type byte.
func DecodeEvent(d *Decoder) (dom.Event, error) {
	var ev dom.Event
	node, err := d.ReadUvarint()
	if err != nil {
		return ev, err
	}
	ev.Node = node
	if ev.Type, err = d.ReadString(); err != nil {
		return ev, err
	}
	if ev.Value, err = d.ReadString(); err != nil {
		return ev, err
	}
	return ev, nil
}

// ReadFrameType reads and validates the leading frame type byte of a
// wire message.
func ReadFrameType(d *Decoder) (FrameType, error) {
	if d.EOF() {
		return 0, ErrEmptyFrame
	}
	b, err := d.ReadByte()
	if err != nil {
		return 0, err
	}
	ft := FrameType(b)
	switch ft {
	case FrameEvent, FramePatches, FramePing, FramePong:
		return ft, nil
	default:
		return 0, ErrInvalidFrameType
	}
}
