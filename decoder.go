package ultra

import (
	"encoding/binary"
	"fmt"
)

// Decoder walks a boot context buffer in a single forward pass. Decoding
// never mutates the buffer; restarting means calling Open again. Any decode
// error is fatal and latches: every later Next call returns the same error,
// and no partial attribute set should be acted on.
type Decoder struct {
	cur   cursor
	major uint8
	minor uint8
	count uint32
	index uint32
	seen  map[AttributeType]bool
	last  AttributeType
	done  bool
	err   error
}

// Open validates the magic and the boot context preamble. The magic arrives
// out-of-band next to the context pointer; a mismatch means the whole buffer
// is unusable. A minor version newer than this package's is fine (new
// trailing record fields are simply ignored); a different major version is
// not.
func Open(buf []byte, magic uint32) (*Decoder, error) {
	if magic != Magic {
		return nil, fmt.Errorf("%w: %#x", ErrBadMagic, magic)
	}
	if len(buf) < preambleSize {
		return nil, fmt.Errorf("%w: boot context preamble needs %d bytes, have %d",
			ErrTruncatedHeader, preambleSize, len(buf))
	}
	major, minor := buf[0], buf[1]
	if major != ProtocolMajor {
		return nil, fmt.Errorf("%w: %d (this decoder supports %d)",
			ErrUnsupportedMajorVersion, major, ProtocolMajor)
	}
	count := binary.LittleEndian.Uint32(buf[4:8])
	if count < 2 {
		return nil, fmt.Errorf("%w: %d attributes declared; platform-info and kernel-info are mandatory",
			ErrOrderingViolation, count)
	}
	return &Decoder{
		cur:   cursor{buf: buf, off: preambleSize},
		major: major,
		minor: minor,
		count: count,
		seen:  make(map[AttributeType]bool),
	}, nil
}

// Version returns the protocol version from the preamble.
func (d *Decoder) Version() (major, minor uint8) { return d.major, d.minor }

// Count returns the declared attribute count.
func (d *Decoder) Count() uint32 { return d.count }

// Next decodes the next attribute, or returns (nil, nil) once the declared
// attribute count has been produced. Unrecognized attribute types come back
// as *Unknown; type zero and every structural violation are fatal.
func (d *Decoder) Next() (Attribute, error) {
	if d.err != nil {
		return nil, d.err
	}
	if d.index == d.count {
		if !d.done {
			d.done = true
			if rem := d.cur.remaining(); rem != 0 {
				return nil, d.fail(fmt.Errorf("%w: %d trailing bytes after %d attributes",
					ErrAttributeCountMismatch, rem, d.count))
			}
		}
		return nil, nil
	}

	t, payload, err := d.cur.next()
	if err != nil {
		return nil, d.fail(err)
	}
	if t == AttributeInvalid {
		return nil, d.fail(fmt.Errorf("%w: type 0 at attribute %d", ErrInvalidAttribute, d.index))
	}
	if err := checkPlacement(d.index, t, d.seen, d.last); err != nil {
		return nil, d.fail(err)
	}

	attr, err := decodePayload(t, payload)
	if err != nil {
		return nil, d.fail(fmt.Errorf("attribute %d (%s): %w", d.index, t, err))
	}

	d.seen[t] = true
	d.last = t
	d.index++
	return attr, nil
}

// ReadAll drains the decoder. Either every attribute decodes and the full
// ordered set is returned, or the first fatal error is returned with no
// attributes at all.
func (d *Decoder) ReadAll() ([]Attribute, error) {
	var attrs []Attribute
	for {
		attr, err := d.Next()
		if err != nil {
			return nil, err
		}
		if attr == nil {
			return attrs, nil
		}
		attrs = append(attrs, attr)
	}
}

func (d *Decoder) fail(err error) error {
	d.err = err
	return err
}

// decodePayload dispatches to the record codec for t. The payload span is
// already bounds-checked; each codec reads its known fixed prefix and
// ignores trailing bytes, the protocol's struct growth rule.
func decodePayload(t AttributeType, payload []byte) (Attribute, error) {
	switch t {
	case AttributePlatformInfo:
		return decodePlatformInfo(payload)
	case AttributeKernelInfo:
		return decodeKernelInfo(payload)
	case AttributeMemoryMap:
		return decodeMemoryMap(payload)
	case AttributeModuleInfo:
		return decodeModuleInfo(payload)
	case AttributeCommandLine:
		return decodeCommandLine(payload)
	case AttributeFramebuffer:
		return decodeFramebuffer(payload)
	case AttributeApmInfo:
		return decodeAPMInfo(payload)
	default:
		// Forward compatibility: preserve, never reject. The copy keeps the
		// attribute usable after the backing region is reclaimed.
		return &Unknown{Type: t, Payload: append([]byte(nil), payload...)}, nil
	}
}
